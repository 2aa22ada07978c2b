package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

func recordActivity(
	ctx context.Context,
	store *repository.Store,
	taskID, action string,
	oldValues, newValues map[string]any,
	now time.Time,
) error {
	return store.Activities.Record(ctx, &model.TaskActivity{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    ActorFrom(ctx),
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
		CreatedAt: now.UTC(),
	})
}

func workflowFields(t *model.Task) map[string]any {
	return map[string]any{
		"status":       t.Status,
		"progress":     t.Progress,
		"completed_at": t.CompletedAt,
	}
}
