package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// All returns categories by sort order then name, optionally only active ones.
func (r *CategoryRepository) All(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	db := r.db.WithContext(ctx).Order("sort_order asc").Order("name asc")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	var categories []model.Category
	err := db.Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (r *CategoryRepository) CountTasks(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// Ancestors walks parent links from id upwards, nearest parent first.
func (r *CategoryRepository) Ancestors(ctx context.Context, id string) ([]model.Category, error) {
	var ancestors []model.Category
	seen := map[string]bool{id: true}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for current.ParentID != nil && !seen[*current.ParentID] {
		seen[*current.ParentID] = true
		parent, err := r.FindByID(ctx, *current.ParentID)
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, *parent)
		current = parent
	}
	return ancestors, nil
}
