package model

import "time"

type TaskComment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID     string    `gorm:"size:36;not null;index" json:"task_id"`
	UserID     string    `gorm:"size:36;not null" json:"user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsInternal bool      `gorm:"not null" json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type TaskTimeEntry struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID      string    `gorm:"size:36;not null;index" json:"task_id"`
	UserID      string    `gorm:"size:36;not null" json:"user_id"`
	Hours       float64   `gorm:"not null" json:"hours"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskActivity struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	TaskID      string         `gorm:"size:36;not null;index" json:"task_id"`
	UserID      string         `gorm:"size:36" json:"user_id,omitempty"`
	Action      string         `gorm:"size:50;not null;index" json:"action"`
	OldValues   map[string]any `gorm:"serializer:json" json:"old_values,omitempty"`
	NewValues   map[string]any `gorm:"serializer:json" json:"new_values,omitempty"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

const (
	ActionCreated         = "created"
	ActionUpdated         = "updated"
	ActionDeleted         = "deleted"
	ActionRestored        = "restored"
	ActionStatusChanged   = "status_changed"
	ActionPriorityChanged = "priority_changed"
	ActionAssigned        = "assigned"
	ActionProgressUpdated = "progress_updated"
	ActionDuplicated      = "duplicated"
	ActionDependencies    = "dependencies_updated"
	ActionCommented       = "commented"
	ActionTimeLogged      = "time_logged"
)
