package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

// WorkflowService applies status, priority, assignment and progress
// transitions to single tasks. Each call loads, applies, persists and logs
// an activity record inside one transaction.
type WorkflowService struct {
	store *repository.Store
	clock Clock
	cfg   config.TaskManagerConfig
	log   *logrus.Logger
}

func NewWorkflowService(store *repository.Store, clock Clock, cfg config.TaskManagerConfig, log *logrus.Logger) *WorkflowService {
	return &WorkflowService{store: store, clock: clock, cfg: cfg, log: log}
}

// change is the result of applying a transition in memory. A nil patch means
// the task already was in the requested state.
type change struct {
	action string
	old    map[string]any
	patch  map[string]any
}

type applyFunc func(ctx context.Context, tx *repository.Store, task *model.Task, now time.Time) (*change, error)

func (s *WorkflowService) mutate(ctx context.Context, id string, apply applyFunc) (*model.Task, error) {
	var task *model.Task
	now := s.clock.Now()

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if task, err = tx.Tasks.FindByID(ctx, id); err != nil {
			return err
		}

		c, err := apply(ctx, tx, task, now)
		if err != nil || c == nil || c.patch == nil {
			return err
		}

		fields := make(map[string]any, len(c.patch)+1)
		for k, v := range c.patch {
			fields[k] = v
		}
		fields["updated_at"] = now.UTC()
		if err := tx.Tasks.Update(ctx, id, fields); err != nil {
			return err
		}
		task.UpdatedAt = now.UTC()

		return recordActivity(ctx, tx, id, c.action, c.old, c.patch, now)
	})
	if err != nil {
		s.logFailure(err, id)
		return nil, err
	}
	return task, nil
}

func (s *WorkflowService) logFailure(err error, id string) {
	if apperrors.IsKind(err, apperrors.KindInternal) {
		s.log.WithError(err).WithField("task_id", id).Error("task workflow failed")
	}
}

// ChangeStatus validates raw against the closed status set before touching
// the store, so an unknown value leaves the task as it was.
func (s *WorkflowService) ChangeStatus(ctx context.Context, id, raw string) (*model.Task, error) {
	status, err := constants.ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	task, err := s.mutate(ctx, id, func(ctx context.Context, tx *repository.Store, task *model.Task, now time.Time) (*change, error) {
		if status == constants.StatusCompleted && task.Status != constants.StatusCompleted {
			if err := s.checkDependencies(ctx, tx, id); err != nil {
				return nil, err
			}
		}
		old := workflowFields(task)
		if !task.ApplyStatus(status, now.UTC()) {
			return nil, nil
		}
		return &change{action: model.ActionStatusChanged, old: old, patch: workflowFields(task)}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "status": status}).Info("task status changed")
	return task, nil
}

func (s *WorkflowService) ChangePriority(ctx context.Context, id, raw string) (*model.Task, error) {
	priority, err := constants.ParsePriority(raw)
	if err != nil {
		return nil, err
	}

	task, err := s.mutate(ctx, id, func(_ context.Context, _ *repository.Store, task *model.Task, _ time.Time) (*change, error) {
		if task.Priority == priority {
			return nil, nil
		}
		old := map[string]any{"priority": task.Priority}
		task.Priority = priority
		return &change{action: model.ActionPriorityChanged, old: old, patch: map[string]any{"priority": priority}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "priority": priority}).Info("task priority changed")
	return task, nil
}

// Assign sets the assignee. An empty userID unassigns the task.
func (s *WorkflowService) Assign(ctx context.Context, id, userID string) (*model.Task, error) {
	task, err := s.mutate(ctx, id, func(ctx context.Context, tx *repository.Store, task *model.Task, _ time.Time) (*change, error) {
		var assignee *string
		if userID != "" {
			ok, err := tx.Users.Exists(ctx, userID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%w: %q", apperrors.ErrUserNotFound, userID)
			}
			assignee = &userID
		}
		if equalRef(task.AssignedTo, assignee) {
			return nil, nil
		}

		old := map[string]any{"assigned_to": task.AssignedTo}
		task.AssignedTo = assignee
		return &change{action: model.ActionAssigned, old: old, patch: map[string]any{"assigned_to": assignee}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "assigned_to": userID}).Info("task assigned")
	return task, nil
}

// UpdateProgress clamps value into [0,100]. Reaching 100 completes the task.
func (s *WorkflowService) UpdateProgress(ctx context.Context, id string, value int) (*model.Task, error) {
	task, err := s.mutate(ctx, id, func(ctx context.Context, tx *repository.Store, task *model.Task, now time.Time) (*change, error) {
		clamped := model.ClampProgress(value)
		if clamped == model.MaxProgress && task.Status != constants.StatusCompleted {
			if err := s.checkDependencies(ctx, tx, id); err != nil {
				return nil, err
			}
		}
		prevProgress, prevStatus := task.Progress, task.Status
		old := workflowFields(task)
		task.ApplyProgress(clamped, now.UTC())
		if task.Progress == prevProgress && task.Status == prevStatus {
			return nil, nil
		}
		return &change{action: model.ActionProgressUpdated, old: old, patch: workflowFields(task)}, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "progress": task.Progress}).Info("task progress updated")
	return task, nil
}

func (s *WorkflowService) checkDependencies(ctx context.Context, tx *repository.Store, id string) error {
	if !s.cfg.EnforceDependencies {
		return nil
	}
	incomplete, err := tx.Tasks.CountIncompleteDependencies(ctx, id)
	if err != nil {
		return err
	}
	if incomplete > 0 {
		return fmt.Errorf("%w: %d remaining", apperrors.ErrDependenciesIncomplete, incomplete)
	}
	return nil
}

// CanComplete reports whether every live dependency of the task is completed.
func (s *WorkflowService) CanComplete(ctx context.Context, id string) (bool, error) {
	if _, err := s.store.Tasks.FindByID(ctx, id); err != nil {
		return false, err
	}
	incomplete, err := s.store.Tasks.CountIncompleteDependencies(ctx, id)
	if err != nil {
		return false, err
	}
	return incomplete == 0, nil
}

// Duplicate creates a pending copy of the task with its tags. Each call
// creates a new task.
func (s *WorkflowService) Duplicate(ctx context.Context, id string) (*model.Task, error) {
	now := s.clock.Now().UTC()
	var dupID string

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		src, err := tx.Tasks.FindByID(ctx, id)
		if err != nil {
			return err
		}

		dup := src.Duplicate()
		dup.ID = uuid.NewString()
		dup.CreatedAt = now
		dup.UpdatedAt = now
		if err := tx.Tasks.Create(ctx, dup); err != nil {
			return err
		}
		dupID = dup.ID

		return recordActivity(ctx, tx, dup.ID, model.ActionDuplicated,
			nil, map[string]any{"source_id": src.ID}, now)
	})
	if err != nil {
		s.logFailure(err, id)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "duplicate_id": dupID}).Info("task duplicated")
	return s.store.Tasks.FindByID(ctx, dupID)
}

// SetDependencies replaces the task's dependency set. Self-references, unknown
// tasks and edges closing a cycle are rejected.
func (s *WorkflowService) SetDependencies(ctx context.Context, id string, dependencyIDs []string) ([]model.Task, error) {
	ids := uniqueSorted(dependencyIDs)
	now := s.clock.Now().UTC()

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Tasks.FindByID(ctx, id); err != nil {
			return err
		}
		for _, dep := range ids {
			if dep == id {
				return fmt.Errorf("%w: %q", apperrors.ErrSelfDependency, id)
			}
			ok, err := tx.Tasks.Exists(ctx, dep)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %q", apperrors.ErrTaskNotFound, dep)
			}
		}

		graph, err := tx.Tasks.DependencyGraph(ctx)
		if err != nil {
			return err
		}
		previous := graph[id]
		graph[id] = ids
		if reaches(graph, ids, id) {
			return fmt.Errorf("%w: %q", apperrors.ErrDependencyCycle, id)
		}

		if err := tx.Tasks.ReplaceDependencies(ctx, id, ids, now); err != nil {
			return err
		}
		return recordActivity(ctx, tx, id, model.ActionDependencies,
			map[string]any{"dependencies": previous},
			map[string]any{"dependencies": ids}, now)
	})
	if err != nil {
		s.logFailure(err, id)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "dependencies": len(ids)}).Info("task dependencies updated")
	return s.store.Tasks.Dependencies(ctx, id)
}

func (s *WorkflowService) Dependencies(ctx context.Context, id string) ([]model.Task, error) {
	if _, err := s.store.Tasks.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Tasks.Dependencies(ctx, id)
}

// reaches reports whether target is reachable from any of the start nodes.
func reaches(graph map[string][]string, start []string, target string) bool {
	seen := make(map[string]bool, len(graph))
	stack := append([]string(nil), start...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == target {
			return true
		}
		if seen[node] {
			continue
		}
		seen[node] = true
		stack = append(stack, graph[node]...)
	}
	return false
}

func uniqueSorted(ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func equalRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
