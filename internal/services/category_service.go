package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const categoryPathSeparator = " > "

type CategoryInput struct {
	Name        string
	Description string
	Color       string
	IsActive    *bool
	ParentID    *string
	SortOrder   int
}

type CategoryService struct {
	store *repository.Store
	clock Clock
	log   *logrus.Logger
}

func NewCategoryService(store *repository.Store, clock Clock, log *logrus.Logger) *CategoryService {
	return &CategoryService{store: store, clock: clock, log: log}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	now := s.clock.Now().UTC()
	category := &model.Category{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := applyCategoryInput(ctx, tx, category, in); err != nil {
			return err
		}
		return tx.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"category_id": category.ID, "name": category.Name}).Info("category created")
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.store.Categories.FindByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	var category *model.Category
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if category, err = tx.Categories.FindByID(ctx, id); err != nil {
			return err
		}
		if err := applyCategoryInput(ctx, tx, category, in); err != nil {
			return err
		}
		category.UpdatedAt = s.clock.Now().UTC()
		return tx.Categories.Update(ctx, id, map[string]any{
			"name":        category.Name,
			"description": category.Description,
			"color":       category.Color,
			"is_active":   category.IsActive,
			"parent_id":   category.ParentID,
			"sort_order":  category.SortOrder,
			"updated_at":  category.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("category_id", id).Info("category updated")
	return category, nil
}

// Delete removes a category that owns no tasks and no child categories.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Categories.FindByID(ctx, id); err != nil {
			return err
		}
		tasks, err := tx.Categories.CountTasks(ctx, id)
		if err != nil {
			return err
		}
		children, err := tx.Categories.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if tasks > 0 || children > 0 {
			return fmt.Errorf("%w: %d tasks, %d children", apperrors.ErrCategoryNotEmpty, tasks, children)
		}
		return tx.Categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.WithField("category_id", id).Info("category deleted")
	return nil
}

func (s *CategoryService) All(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories.All(ctx, false)
}

// Active lists active categories by sort order, then name.
func (s *CategoryService) Active(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories.All(ctx, true)
}

// FullPath joins the names from the root down to the category, e.g. "Work > Backend".
func (s *CategoryService) FullPath(ctx context.Context, id string) (string, error) {
	category, err := s.store.Categories.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	ancestors, err := s.store.Categories.Ancestors(ctx, id)
	if err != nil {
		return "", err
	}

	names := make([]string, len(ancestors)+1)
	for i, a := range ancestors {
		names[len(ancestors)-1-i] = a.Name
	}
	names[len(ancestors)] = category.Name
	return strings.Join(names, categoryPathSeparator), nil
}

func applyCategoryInput(ctx context.Context, tx *repository.Store, category *model.Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperrors.ErrNameRequired
	}

	parent := blankToNil(in.ParentID)
	if parent != nil {
		if *parent == category.ID {
			return fmt.Errorf("%w: %q", apperrors.ErrCategoryParentCycle, category.ID)
		}
		if _, err := tx.Categories.FindByID(ctx, *parent); err != nil {
			return fmt.Errorf("parent %q: %w", *parent, err)
		}
		ancestors, err := tx.Categories.Ancestors(ctx, *parent)
		if err != nil {
			return err
		}
		for _, a := range ancestors {
			if a.ID == category.ID {
				return fmt.Errorf("%w: %q", apperrors.ErrCategoryParentCycle, category.ID)
			}
		}
	}

	category.Name = name
	category.Description = strings.TrimSpace(in.Description)
	category.Color = strings.TrimSpace(in.Color)
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	category.ParentID = parent
	category.SortOrder = in.SortOrder
	return nil
}
