package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories sharing one database handle.
type Store struct {
	db         *gorm.DB
	Tasks      *TaskRepository
	Categories *CategoryRepository
	Tags       *TagRepository
	Users      *UserRepository
	Activities *ActivityRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Tasks:      NewTaskRepository(db),
		Categories: NewCategoryRepository(db),
		Tags:       NewTagRepository(db),
		Users:      NewUserRepository(db),
		Activities: NewActivityRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// fn must only use the Store it receives.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
