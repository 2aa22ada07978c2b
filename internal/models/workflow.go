package model

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
)

const (
	MinProgress = 0
	MaxProgress = 100
)

func ClampProgress(v int) int {
	if v < MinProgress {
		return MinProgress
	}
	if v > MaxProgress {
		return MaxProgress
	}
	return v
}

// ApplyStatus moves t to status and derives completed_at and progress.
// Entering completed stamps completed_at and sets progress to 100; leaving
// completed clears completed_at and resets progress. Re-applying the current
// status changes nothing. It reports whether t was modified.
func (t *Task) ApplyStatus(status constants.TaskStatus, now time.Time) bool {
	if t.Status == status {
		if status == constants.StatusCompleted && (t.CompletedAt == nil || t.Progress != MaxProgress) {
			t.markCompleted(now)
			return true
		}
		return false
	}

	wasCompleted := t.Status == constants.StatusCompleted
	t.Status = status

	switch {
	case status == constants.StatusCompleted:
		t.markCompleted(now)
	case wasCompleted:
		t.CompletedAt = nil
		t.Progress = MinProgress
	}
	return true
}

func (t *Task) markCompleted(now time.Time) {
	if t.CompletedAt == nil {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	t.Progress = MaxProgress
}

// ApplyProgress clamps v into [0,100]; reaching 100 completes the task.
func (t *Task) ApplyProgress(v int, now time.Time) {
	t.Progress = ClampProgress(v)
	if t.Progress == MaxProgress {
		t.ApplyStatus(constants.StatusCompleted, now)
	}
}

// Duplicate copies every field except identity and timestamps. The copy
// starts over as pending with no progress.
func (t *Task) Duplicate() *Task {
	dup := &Task{
		Title:          t.Title,
		Description:    t.Description,
		Status:         constants.StatusPending,
		Priority:       t.Priority,
		AssignedTo:     copyString(t.AssignedTo),
		CreatedBy:      t.CreatedBy,
		CategoryID:     copyString(t.CategoryID),
		ParentID:       copyString(t.ParentID),
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Progress:       MinProgress,
		IsPublic:       t.IsPublic,
	}
	if t.DueDate != nil {
		due := *t.DueDate
		dup.DueDate = &due
	}
	if len(t.Tags) > 0 {
		dup.Tags = append([]Tag(nil), t.Tags...)
	}
	return dup
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
