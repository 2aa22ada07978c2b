package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
)

// DependencyIDs returns the ids task id depends on.
func (r *TaskRepository) DependencyIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.TaskDependency{}).
		Where("task_id = ?", id).
		Order("dependency_id").
		Pluck("dependency_id", &ids).Error
	return ids, err
}

// Dependencies loads the live tasks id depends on.
func (r *TaskRepository) Dependencies(ctx context.Context, id string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.dependencySubquery(id)).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

// DependencyGraph returns the full adjacency set, keyed by dependent task id.
func (r *TaskRepository) DependencyGraph(ctx context.Context) (map[string][]string, error) {
	var edges []model.TaskDependency
	if err := r.db.WithContext(ctx).Find(&edges).Error; err != nil {
		return nil, err
	}
	graph := make(map[string][]string)
	for _, e := range edges {
		graph[e.TaskID] = append(graph[e.TaskID], e.DependencyID)
	}
	return graph, nil
}

// CountIncompleteDependencies counts live dependencies of id that are not completed.
func (r *TaskRepository) CountIncompleteDependencies(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id IN (?)", r.dependencySubquery(id)).
		Where("status <> ?", constants.StatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) CountDependents(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskDependency{}).
		Where("dependency_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) dependencySubquery(id string) *gorm.DB {
	return r.db.Model(&model.TaskDependency{}).Select("dependency_id").Where("task_id = ?", id)
}

// ReplaceDependencies swaps the outgoing edges of id for dependencyIDs.
func (r *TaskRepository) ReplaceDependencies(ctx context.Context, id string, dependencyIDs []string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskDependency{}).Error; err != nil {
			return err
		}
		if len(dependencyIDs) == 0 {
			return nil
		}
		edges := make([]model.TaskDependency, 0, len(dependencyIDs))
		for _, dep := range dependencyIDs {
			edges = append(edges, model.TaskDependency{TaskID: id, DependencyID: dep, CreatedAt: now})
		}
		return tx.Create(&edges).Error
	})
}
