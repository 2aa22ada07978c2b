package model

import "time"

// TaskDependency is one edge of the dependency graph: TaskID cannot be
// completed before DependencyID.
type TaskDependency struct {
	TaskID       string    `gorm:"primaryKey;size:36" json:"task_id"`
	DependencyID string    `gorm:"primaryKey;size:36;index" json:"dependency_id"`
	CreatedAt    time.Time `json:"created_at"`
}
