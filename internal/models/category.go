package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Color       string         `gorm:"size:7;not null" json:"color"`
	IsActive    bool           `gorm:"not null;index:idx_categories_active_order" json:"is_active"`
	ParentID    *string        `gorm:"size:36;index" json:"parent_id,omitempty"`
	SortOrder   int            `gorm:"not null;index:idx_categories_active_order" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

const DefaultCategoryColor = "#3B82F6"
