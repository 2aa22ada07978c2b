package services

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const (
	maxTitleLength = 255
	maxTagLength   = 50
)

// TaskInput carries the writable attributes of a task. On Update an empty
// Status or Priority, a nil Progress and a nil Tags keep the stored value;
// every other field is replaced.
type TaskInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	DueDate        *time.Time
	AssignedTo     *string
	CategoryID     *string
	ParentID       *string
	EstimatedHours float64
	ActualHours    float64
	Progress       *int
	IsPublic       bool
	Tags           []string
}

type TaskService struct {
	store *repository.Store
	clock Clock
	log   *logrus.Logger
}

func NewTaskService(store *repository.Store, clock Clock, log *logrus.Logger) *TaskService {
	return &TaskService{store: store, clock: clock, log: log}
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*model.Task, error) {
	creator := ActorFrom(ctx)
	if creator == "" {
		return nil, apperrors.ErrUserRequired
	}

	now := s.clock.Now().UTC()
	task := &model.Task{
		ID:        uuid.NewString(),
		CreatedBy: creator,
		Status:    constants.StatusPending,
		Priority:  constants.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUser(ctx, tx, creator); err != nil {
			return err
		}
		if err := s.applyInput(ctx, tx, task, in, now); err != nil {
			return err
		}
		if in.Tags != nil {
			tags, err := resolveTags(ctx, tx, in.Tags)
			if err != nil {
				return err
			}
			task.Tags = tags
		}
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		return recordActivity(ctx, tx, task.ID, model.ActionCreated, nil, taskFields(task), now)
	})
	if err != nil {
		return nil, s.fail(err, "create task", task.ID)
	}

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "created_by": creator}).Info("task created")
	return s.store.Tasks.FindByID(ctx, task.ID)
}

// Get loads a live task with its category, tags and dependencies.
func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withDependencies(ctx, task)
}

// GetWithDeleted is Get that also finds soft-deleted tasks.
func (s *TaskService) GetWithDeleted(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.store.Tasks.FindByIDWithDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withDependencies(ctx, task)
}

func (s *TaskService) withDependencies(ctx context.Context, task *model.Task) (*model.Task, error) {
	var err error
	if task.Dependencies, err = s.store.Tasks.Dependencies(ctx, task.ID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, in TaskInput) (*model.Task, error) {
	now := s.clock.Now().UTC()

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := taskFields(task)

		if err := s.applyInput(ctx, tx, task, in, now); err != nil {
			return err
		}
		after := taskFields(task)
		old, changed := diffFields(before, after)

		if len(changed) > 0 {
			fields := make(map[string]any, len(after)+1)
			for k, v := range after {
				fields[k] = v
			}
			fields["updated_at"] = now
			if err := tx.Tasks.Update(ctx, id, fields); err != nil {
				return err
			}
		}

		if in.Tags != nil {
			tags, err := resolveTags(ctx, tx, in.Tags)
			if err != nil {
				return err
			}
			oldTags := task.TagIDs()
			if err := tx.Tasks.ReplaceTags(ctx, task, tags); err != nil {
				return err
			}
			if newTags := task.TagIDs(); !reflect.DeepEqual(oldTags, newTags) {
				old["tags"] = oldTags
				changed["tags"] = newTags
			}
		}

		if len(changed) == 0 {
			return nil
		}
		return recordActivity(ctx, tx, id, model.ActionUpdated, old, changed, now)
	})
	if err != nil {
		return nil, s.fail(err, "update task", id)
	}

	s.log.WithField("task_id", id).Info("task updated")
	return s.store.Tasks.FindByID(ctx, id)
}

// Delete soft-deletes the task. It stays reachable through GetWithDeleted and Restore.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	now := s.clock.Now().UTC()
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		return recordActivity(ctx, tx, id, model.ActionDeleted, nil, nil, now)
	})
	if err != nil {
		return s.fail(err, "delete task", id)
	}

	s.log.WithField("task_id", id).Info("task deleted")
	return nil
}

func (s *TaskService) Restore(ctx context.Context, id string) (*model.Task, error) {
	now := s.clock.Now().UTC()
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		restored, err := tx.Tasks.Restore(ctx, id)
		if err != nil || !restored {
			return err
		}
		return recordActivity(ctx, tx, id, model.ActionRestored, nil, nil, now)
	})
	if err != nil {
		return nil, s.fail(err, "restore task", id)
	}

	s.log.WithField("task_id", id).Info("task restored")
	return s.store.Tasks.FindByID(ctx, id)
}

func (s *TaskService) AddComment(ctx context.Context, id, content string, internal bool) (*model.TaskComment, error) {
	userID := ActorFrom(ctx)
	if userID == "" {
		return nil, apperrors.ErrUserRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrContentRequired
	}

	now := s.clock.Now().UTC()
	comment := &model.TaskComment{
		ID:         uuid.NewString(),
		TaskID:     id,
		UserID:     userID,
		Content:    content,
		IsInternal: internal,
		CreatedAt:  now,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireTask(ctx, tx, id); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := tx.Activities.AddComment(ctx, comment); err != nil {
			return err
		}
		return recordActivity(ctx, tx, id, model.ActionCommented, nil,
			map[string]any{"comment_id": comment.ID}, now)
	})
	if err != nil {
		return nil, s.fail(err, "add comment", id)
	}
	return comment, nil
}

func (s *TaskService) LogTime(ctx context.Context, id string, hours float64, description string) (*model.TaskTimeEntry, error) {
	userID := ActorFrom(ctx)
	if userID == "" {
		return nil, apperrors.ErrUserRequired
	}
	if hours < 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNegativeHours, hours)
	}

	now := s.clock.Now().UTC()
	entry := &model.TaskTimeEntry{
		ID:          uuid.NewString(),
		TaskID:      id,
		UserID:      userID,
		Hours:       hours,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireTask(ctx, tx, id); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := tx.Activities.AddTimeEntry(ctx, entry); err != nil {
			return err
		}
		return recordActivity(ctx, tx, id, model.ActionTimeLogged, nil,
			map[string]any{"hours": hours}, now)
	})
	if err != nil {
		return nil, s.fail(err, "log time", id)
	}
	return entry, nil
}

func (s *TaskService) Activities(ctx context.Context, id string) ([]model.TaskActivity, error) {
	if _, err := s.store.Tasks.FindByIDWithDeleted(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Activities.ForTask(ctx, id)
}

func (s *TaskService) fail(err error, op, id string) error {
	if apperrors.IsKind(err, apperrors.KindInternal) {
		s.log.WithError(err).WithField("task_id", id).Errorf("%s failed", op)
	}
	return err
}

// applyInput validates in and writes it onto task, deriving completed_at and
// progress the same way the workflow does.
func (s *TaskService) applyInput(ctx context.Context, tx *repository.Store, task *model.Task, in TaskInput, now time.Time) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apperrors.ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: got %d", apperrors.ErrTitleTooLong, utf8.RuneCountInString(title))
	}

	status := task.Status
	if in.Status != "" {
		parsed, err := constants.ParseStatus(in.Status)
		if err != nil {
			return err
		}
		status = parsed
	}
	priority := task.Priority
	if in.Priority != "" {
		parsed, err := constants.ParsePriority(in.Priority)
		if err != nil {
			return err
		}
		priority = parsed
	}

	if in.EstimatedHours < 0 || in.ActualHours < 0 {
		return fmt.Errorf("%w: estimated=%v actual=%v", apperrors.ErrNegativeHours, in.EstimatedHours, in.ActualHours)
	}

	assignee := blankToNil(in.AssignedTo)
	if assignee != nil {
		if err := requireUser(ctx, tx, *assignee); err != nil {
			return err
		}
	}
	category := blankToNil(in.CategoryID)
	if category != nil {
		ok, err := tx.Categories.Exists(ctx, *category)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, *category)
		}
	}
	parent := blankToNil(in.ParentID)
	if parent != nil {
		if *parent == task.ID {
			return fmt.Errorf("%w: %q", apperrors.ErrSelfParent, task.ID)
		}
		if err := requireTask(ctx, tx, *parent); err != nil {
			return err
		}
	}

	task.Title = title
	task.Description = strings.TrimSpace(in.Description)
	task.Priority = priority
	task.AssignedTo = assignee
	task.CategoryID = category
	task.ParentID = parent
	task.EstimatedHours = in.EstimatedHours
	task.ActualHours = in.ActualHours
	task.IsPublic = in.IsPublic
	task.DueDate = nil
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		task.DueDate = &due
	}

	task.ApplyStatus(status, now)
	if task.Status != constants.StatusCompleted && in.Progress != nil {
		task.ApplyProgress(*in.Progress, now)
	}
	return nil
}

func resolveTags(ctx context.Context, tx *repository.Store, names []string) ([]model.Tag, error) {
	normalized, err := normalizeTags(names)
	if err != nil {
		return nil, err
	}
	tags, err := tx.Tags.FindOrCreate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return tags, nil
}

func normalizeTags(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if utf8.RuneCountInString(name) > maxTagLength {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrTagTooLong, name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

func requireUser(ctx context.Context, tx *repository.Store, id string) error {
	ok, err := tx.Users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrUserNotFound, id)
	}
	return nil
}

func requireTask(ctx context.Context, tx *repository.Store, id string) error {
	ok, err := tx.Tasks.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrTaskNotFound, id)
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// taskFields lists the persisted columns written by Update.
func taskFields(t *model.Task) map[string]any {
	return map[string]any{
		"title":           t.Title,
		"description":     t.Description,
		"status":          t.Status,
		"priority":        t.Priority,
		"due_date":        t.DueDate,
		"completed_at":    t.CompletedAt,
		"assigned_to":     t.AssignedTo,
		"category_id":     t.CategoryID,
		"parent_id":       t.ParentID,
		"estimated_hours": t.EstimatedHours,
		"actual_hours":    t.ActualHours,
		"progress":        t.Progress,
		"is_public":       t.IsPublic,
	}
}

func diffFields(before, after map[string]any) (map[string]any, map[string]any) {
	old := make(map[string]any)
	changed := make(map[string]any)
	for k, v := range after {
		if !reflect.DeepEqual(before[k], v) {
			old[k] = before[k]
			changed[k] = v
		}
	}
	return old, changed
}
