package model

import (
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
)

type Task struct {
	ID             string                 `gorm:"primaryKey;size:36" json:"id"`
	Title          string                 `gorm:"size:255;not null" json:"title"`
	Description    string                 `gorm:"type:text" json:"description"`
	Status         constants.TaskStatus   `gorm:"type:varchar(20);not null;index:idx_tasks_status_priority" json:"status"`
	Priority       constants.TaskPriority `gorm:"type:varchar(20);not null;index:idx_tasks_status_priority" json:"priority"`
	DueDate        *time.Time             `gorm:"index" json:"due_date,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	AssignedTo     *string                `gorm:"size:36;index" json:"assigned_to,omitempty"`
	CreatedBy      string                 `gorm:"size:36;not null;index" json:"created_by"`
	CategoryID     *string                `gorm:"size:36;index" json:"category_id,omitempty"`
	ParentID       *string                `gorm:"size:36;index" json:"parent_id,omitempty"`
	EstimatedHours float64                `gorm:"not null" json:"estimated_hours"`
	ActualHours    float64                `gorm:"not null" json:"actual_hours"`
	Progress       int                    `gorm:"not null" json:"progress"`
	IsPublic       bool                   `gorm:"not null" json:"is_public"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:task_tag;" json:"tags,omitempty"`

	// Dependencies is filled on demand from task_dependencies.
	Dependencies []Task `gorm:"-" json:"dependencies,omitempty"`
}

// IsOverdue reports whether the due date has passed without the task being completed.
// It must stay in line with filters.Overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != constants.StatusCompleted
}

func (t *Task) IsDueToday(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	due := t.DueDate.In(now.Location())
	y1, m1, d1 := due.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (t *Task) TagIDs() []string {
	ids := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
