package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *TagRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Tag{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTagNotFound
		}
		return tx.Exec("DELETE FROM task_tag WHERE tag_id = ?", id).Error
	})
}

// FindOrCreate returns the tags with the given names, creating the missing ones.
func (r *TagRepository) FindOrCreate(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	candidates := make([]model.Tag, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, model.Tag{ID: uuid.NewString(), Name: name, Color: model.DefaultTagColor})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&candidates).Error
	if err != nil {
		return nil, err
	}

	var tags []model.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
