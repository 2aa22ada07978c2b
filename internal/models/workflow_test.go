package model

import (
	"testing"
	"time"

	"task-manager.com/task-manager/internal/constants"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestClampProgress(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-50, 0},
		{-1, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{101, 100},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := ClampProgress(tt.in); got != tt.want {
			t.Errorf("ClampProgress(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestApplyStatus_CompletingStampsAndReopeningClears(t *testing.T) {
	task := &Task{Status: constants.StatusInProgress, Progress: 40}

	if !task.ApplyStatus(constants.StatusCompleted, now) {
		t.Fatal("expected completing to modify the task")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Errorf("expected completed_at %v, got %v", now, task.CompletedAt)
	}
	if task.Progress != 100 {
		t.Errorf("expected progress 100, got %d", task.Progress)
	}

	later := now.Add(time.Hour)
	if task.ApplyStatus(constants.StatusCompleted, later) {
		t.Error("re-applying completed should be a no-op")
	}
	if !task.CompletedAt.Equal(now) {
		t.Errorf("completed_at should be kept, got %v", task.CompletedAt)
	}

	task.ApplyStatus(constants.StatusPending, later)
	if task.CompletedAt != nil {
		t.Errorf("expected completed_at to be cleared, got %v", task.CompletedAt)
	}
	if task.Progress != 0 {
		t.Errorf("expected reopened progress 0, got %d", task.Progress)
	}
}

func TestApplyStatus_NonCompletedTransitionsKeepProgress(t *testing.T) {
	task := &Task{Status: constants.StatusPending, Progress: 30}
	task.ApplyStatus(constants.StatusCancelled, now)

	if task.Status != constants.StatusCancelled {
		t.Errorf("expected cancelled, got %s", task.Status)
	}
	if task.Progress != 30 || task.CompletedAt != nil {
		t.Errorf("unexpected side effects: progress=%d completed_at=%v", task.Progress, task.CompletedAt)
	}
}

func TestApplyProgress(t *testing.T) {
	task := &Task{Status: constants.StatusPending}

	task.ApplyProgress(-10, now)
	if task.Progress != 0 || task.Status != constants.StatusPending {
		t.Errorf("expected 0/pending, got %d/%s", task.Progress, task.Status)
	}

	task.ApplyProgress(250, now)
	if task.Progress != 100 || task.Status != constants.StatusCompleted || task.CompletedAt == nil {
		t.Errorf("expected completion, got %d/%s/%v", task.Progress, task.Status, task.CompletedAt)
	}
}

func TestIsOverdue(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: constants.StatusPending}, false},
		{"past and pending", Task{Status: constants.StatusPending, DueDate: &yesterday}, true},
		{"past and cancelled", Task{Status: constants.StatusCancelled, DueDate: &yesterday}, true},
		{"past and completed", Task{Status: constants.StatusCompleted, DueDate: &yesterday}, false},
		{"future", Task{Status: constants.StatusPending, DueDate: &tomorrow}, false},
		{"exactly now", Task{Status: constants.StatusPending, DueDate: &now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDuplicate(t *testing.T) {
	due := now.Add(48 * time.Hour)
	completed := now
	assignee := "user-2"
	category := "cat-1"
	src := &Task{
		ID:             "task-1",
		Title:          "Write report",
		Description:    "Quarterly numbers",
		Status:         constants.StatusInProgress,
		Priority:       constants.PriorityHigh,
		DueDate:        &due,
		CompletedAt:    &completed,
		AssignedTo:     &assignee,
		CreatedBy:      "user-1",
		CategoryID:     &category,
		EstimatedHours: 5,
		ActualHours:    2.5,
		Progress:       60,
		IsPublic:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
		Tags:           []Tag{{ID: "tag-1", Name: "ops"}},
	}

	dup := src.Duplicate()

	if dup.ID != "" || !dup.CreatedAt.IsZero() || !dup.UpdatedAt.IsZero() || dup.CompletedAt != nil {
		t.Error("identity and timestamps must not be copied")
	}
	if dup.Status != constants.StatusPending || dup.Progress != 0 {
		t.Errorf("expected pending/0, got %s/%d", dup.Status, dup.Progress)
	}
	if dup.Title != src.Title || dup.Description != src.Description || dup.Priority != src.Priority ||
		dup.CreatedBy != src.CreatedBy || dup.EstimatedHours != src.EstimatedHours ||
		dup.ActualHours != src.ActualHours || dup.IsPublic != src.IsPublic {
		t.Errorf("scalar fields differ: %+v", dup)
	}
	if dup.DueDate == nil || !dup.DueDate.Equal(due) || dup.DueDate == src.DueDate {
		t.Error("due date must be copied by value")
	}
	if *dup.AssignedTo != assignee || dup.AssignedTo == src.AssignedTo {
		t.Error("assignee must be copied by value")
	}
	if *dup.CategoryID != category {
		t.Error("category must be copied")
	}
	if len(dup.Tags) != 1 || dup.Tags[0].ID != "tag-1" {
		t.Errorf("expected tags to be copied, got %v", dup.Tags)
	}
}
