// Package filters turns optional listing criteria into query predicates over tasks.
package filters

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

// Set holds the optional criteria of a task listing. Empty strings and nil
// pointers impose no constraint; every present field narrows with AND.
type Set struct {
	Search      string     `json:"search,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	CategoryID  string     `json:"category_id,omitempty"`
	DueDateFrom *time.Time `json:"due_date_from,omitempty"`
	DueDateTo   *time.Time `json:"due_date_to,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
}

func (s Set) Validate() error {
	if s.Status != "" {
		if _, err := constants.ParseStatus(s.Status); err != nil {
			return err
		}
	}
	if s.Priority != "" {
		if _, err := constants.ParsePriority(s.Priority); err != nil {
			return err
		}
	}
	if s.DueDateFrom != nil && s.DueDateTo != nil && s.DueDateFrom.After(*s.DueDateTo) {
		return fmt.Errorf("%w: %s after %s", apperrors.ErrInvalidDateRange,
			s.DueDateFrom.Format(time.RFC3339), s.DueDateTo.Format(time.RFC3339))
	}
	return nil
}

func (s Set) IsEmpty() bool {
	return s.searchTerm() == "" && s.Status == "" && s.Priority == "" &&
		s.AssignedTo == "" && s.CategoryID == "" && s.DueDateFrom == nil &&
		s.DueDateTo == nil && s.CreatedBy == "" && s.IsPublic == nil
}

func (s Set) searchTerm() string {
	return strings.TrimSpace(s.Search)
}

// Scope returns the gorm scope applying every present criterion. Search
// relies on the ulower function registered by config.Dialector.
func (s Set) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term := s.searchTerm(); term != "" {
			pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
			db = db.Where(
				`(ulower(tasks.title) LIKE ? ESCAPE '\' OR ulower(tasks.description) LIKE ? ESCAPE '\')`,
				pattern, pattern,
			)
		}
		if s.Status != "" {
			db = db.Where("tasks.status = ?", s.Status)
		}
		if s.Priority != "" {
			db = db.Where("tasks.priority = ?", s.Priority)
		}
		if s.AssignedTo != "" {
			db = db.Where("tasks.assigned_to = ?", s.AssignedTo)
		}
		if s.CategoryID != "" {
			db = db.Where("tasks.category_id = ?", s.CategoryID)
		}
		if s.DueDateFrom != nil {
			db = db.Where("tasks.due_date >= ?", s.DueDateFrom.UTC())
		}
		if s.DueDateTo != nil {
			db = db.Where("tasks.due_date <= ?", s.DueDateTo.UTC())
		}
		if s.CreatedBy != "" {
			db = db.Where("tasks.created_by = ?", s.CreatedBy)
		}
		if s.IsPublic != nil {
			db = db.Where("tasks.is_public = ?", *s.IsPublic)
		}
		return db
	}
}

// Matches evaluates the same predicate as Scope against a loaded task.
func (s Set) Matches(t *model.Task) bool {
	if term := s.searchTerm(); term != "" {
		q := strings.ToLower(term)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if s.Status != "" && string(t.Status) != s.Status {
		return false
	}
	if s.Priority != "" && string(t.Priority) != s.Priority {
		return false
	}
	if s.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != s.AssignedTo) {
		return false
	}
	if s.CategoryID != "" && (t.CategoryID == nil || *t.CategoryID != s.CategoryID) {
		return false
	}
	if s.DueDateFrom != nil && (t.DueDate == nil || t.DueDate.Before(*s.DueDateFrom)) {
		return false
	}
	if s.DueDateTo != nil && (t.DueDate == nil || t.DueDate.After(*s.DueDateTo)) {
		return false
	}
	if s.CreatedBy != "" && t.CreatedBy != s.CreatedBy {
		return false
	}
	if s.IsPublic != nil && t.IsPublic != *s.IsPublic {
		return false
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
