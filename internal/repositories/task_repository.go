package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

type Scope = func(*gorm.DB) *gorm.DB

// ListOptions describes a task query. Order entries are trusted SQL
// fragments and must never carry user input.
type ListOptions struct {
	Scopes         []Scope
	Order          []string
	Offset         int
	Limit          int
	IncludeDeleted bool
	Preload        bool
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	return r.find(ctx, r.db, id)
}

// FindByIDWithDeleted also returns soft-deleted tasks.
func (r *TaskRepository) FindByIDWithDeleted(ctx context.Context, id string) (*model.Task, error) {
	return r.find(ctx, r.db.Unscoped(), id)
}

func (r *TaskRepository) find(ctx context.Context, db *gorm.DB, id string) (*model.Task, error) {
	var task model.Task
	err := db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TaskRepository) query(ctx context.Context, opts ListOptions) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Task{})
	if opts.IncludeDeleted {
		db = db.Unscoped()
	}
	return db.Scopes(opts.Scopes...)
}

func (r *TaskRepository) Find(ctx context.Context, opts ListOptions) ([]model.Task, error) {
	db := r.query(ctx, opts)
	for _, order := range opts.Order {
		db = db.Order(order)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	if opts.Preload {
		db = db.Preload("Category").Preload("Tags")
	}

	var tasks []model.Task
	if err := db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Count(ctx context.Context, opts ListOptions) (int64, error) {
	var count int64
	err := r.query(ctx, opts).Count(&count).Error
	return count, err
}

type groupCount struct {
	GroupKey string
	Total    int64
}

func (r *TaskRepository) CountByStatus(ctx context.Context) (map[constants.TaskStatus]int64, error) {
	rows, err := r.groupCount(ctx, "status")
	if err != nil {
		return nil, err
	}
	counts := make(map[constants.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[constants.TaskStatus(row.GroupKey)] = row.Total
	}
	return counts, nil
}

func (r *TaskRepository) CountByPriority(ctx context.Context) (map[constants.TaskPriority]int64, error) {
	rows, err := r.groupCount(ctx, "priority")
	if err != nil {
		return nil, err
	}
	counts := make(map[constants.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[constants.TaskPriority(row.GroupKey)] = row.Total
	}
	return counts, nil
}

func (r *TaskRepository) groupCount(ctx context.Context, column string) ([]groupCount, error) {
	var rows []groupCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

// Update writes fields onto a live task. A missing or soft-deleted task yields ErrTaskNotFound.
func (r *TaskRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// Restore clears deleted_at and reports whether the task was deleted. A live
// task is left as is; an unknown id yields ErrTaskNotFound.
func (r *TaskRepository) Restore(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Task{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	live, err := r.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !live {
		return false, apperrors.ErrTaskNotFound
	}
	return false, nil
}

func (r *TaskRepository) ReplaceTags(ctx context.Context, task *model.Task, tags []model.Tag) error {
	if err := r.db.WithContext(ctx).Model(task).Association("Tags").Replace(tags); err != nil {
		return err
	}
	task.Tags = tags
	return nil
}

func (r *TaskRepository) CountSubtasks(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}
