package repository

import (
	"context"

	"gorm.io/gorm"

	model "task-manager.com/task-manager/internal/models"
)

// ActivityRepository stores the per-task side records: activity log,
// comments and time entries.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Record(ctx context.Context, activity *model.TaskActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]model.TaskActivity, error) {
	var activities []model.TaskActivity
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) ForTask(ctx context.Context, taskID string) ([]model.TaskActivity, error) {
	var activities []model.TaskActivity
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at asc").Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) AddComment(ctx context.Context, comment *model.TaskComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *ActivityRepository) CountComments(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskComment{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

func (r *ActivityRepository) AddTimeEntry(ctx context.Context, entry *model.TaskTimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityRepository) SumHours(ctx context.Context, taskID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.TaskTimeEntry{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	return total, err
}
