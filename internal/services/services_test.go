package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(config.Dialector(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type harness struct {
	ctx        context.Context
	db         *gorm.DB
	store      *repository.Store
	clock      *fakeClock
	user       *model.User
	tasks      *TaskService
	queries    *TaskQueryService
	workflow   *WorkflowService
	categories *CategoryService
	tags       *TagService
	users      *UserService
}

func newHarness(t *testing.T, cfg config.TaskManagerConfig) *harness {
	t.Helper()

	db := setupTestDB(t)
	store := repository.NewStore(db)
	clock := &fakeClock{now: time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)}
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := &harness{
		db:         db,
		store:      store,
		clock:      clock,
		tasks:      NewTaskService(store, clock, log),
		queries:    NewTaskQueryService(store, clock, cfg),
		workflow:   NewWorkflowService(store, clock, cfg, log),
		categories: NewCategoryService(store, clock, log),
		tags:       NewTagService(store, clock, log),
		users:      NewUserService(store, clock, log),
	}

	user, err := h.users.Create(context.Background(), "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	h.user = user
	h.ctx = WithActor(context.Background(), user.ID)
	return h
}

// createTask creates a task and advances the clock so creation order is strict.
func (h *harness) createTask(t *testing.T, in TaskInput) *model.Task {
	t.Helper()
	task, err := h.tasks.Create(h.ctx, in)
	if err != nil {
		t.Fatalf("failed to create task %q: %v", in.Title, err)
	}
	h.clock.Advance(time.Second)
	return task
}

func ptr[T any](v T) *T { return &v }

func TestCreate_RequiresActor(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())

	_, err := h.tasks.Create(context.Background(), TaskInput{Title: "orphan"})
	if !errors.Is(err, apperrors.ErrUserRequired) {
		t.Errorf("expected ErrUserRequired, got %v", err)
	}

	_, err = h.tasks.Create(WithActor(context.Background(), "ghost"), TaskInput{Title: "orphan"})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreate_Defaults(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())

	task := h.createTask(t, TaskInput{Title: "  Write report  "})

	if task.Title != "Write report" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Status != constants.StatusPending {
		t.Errorf("expected pending, got %s", task.Status)
	}
	if task.Priority != constants.PriorityMedium {
		t.Errorf("expected medium, got %s", task.Priority)
	}
	if task.CreatedBy != h.user.ID {
		t.Errorf("expected creator %s, got %s", h.user.ID, task.CreatedBy)
	}
	if task.CompletedAt != nil || task.Progress != 0 {
		t.Errorf("expected no completion, got completed_at=%v progress=%d", task.CompletedAt, task.Progress)
	}
}

func TestCreate_Validation(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())

	tests := []struct {
		name string
		in   TaskInput
		want error
	}{
		{"empty title", TaskInput{Title: "   "}, apperrors.ErrTitleRequired},
		{"long title", TaskInput{Title: fmt.Sprintf("%0256d", 0)}, apperrors.ErrTitleTooLong},
		{"bad status", TaskInput{Title: "x", Status: "done"}, apperrors.ErrInvalidStatus},
		{"bad priority", TaskInput{Title: "x", Priority: "asap"}, apperrors.ErrInvalidPriority},
		{"negative hours", TaskInput{Title: "x", EstimatedHours: -1}, apperrors.ErrNegativeHours},
		{"unknown assignee", TaskInput{Title: "x", AssignedTo: ptr("nobody")}, apperrors.ErrUserNotFound},
		{"unknown category", TaskInput{Title: "x", CategoryID: ptr("nowhere")}, apperrors.ErrCategoryNotFound},
		{"unknown parent", TaskInput{Title: "x", ParentID: ptr("missing")}, apperrors.ErrTaskNotFound},
		{"long tag", TaskInput{Title: "x", Tags: []string{fmt.Sprintf("%051d", 0)}}, apperrors.ErrTagTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.tasks.Create(h.ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	var count int64
	h.db.Model(&model.Task{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no task persisted, got %d", count)
	}
}

func TestCreate_StatusSideEffects(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())

	completed := h.createTask(t, TaskInput{Title: "done", Status: "completed", Progress: ptr(20)})
	if completed.Progress != 100 || completed.CompletedAt == nil {
		t.Errorf("expected completed task at 100 with completed_at, got progress=%d completed_at=%v",
			completed.Progress, completed.CompletedAt)
	}

	full := h.createTask(t, TaskInput{Title: "full", Progress: ptr(130)})
	if full.Status != constants.StatusCompleted || full.Progress != 100 {
		t.Errorf("expected progress 100 to complete, got status=%s progress=%d", full.Status, full.Progress)
	}

	partial := h.createTask(t, TaskInput{Title: "partial", Status: "in_progress", Progress: ptr(-10)})
	if partial.Progress != 0 || partial.Status != constants.StatusInProgress {
		t.Errorf("expected clamped progress 0 in progress, got status=%s progress=%d", partial.Status, partial.Progress)
	}
}

func TestCreate_Tags(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())

	first := h.createTask(t, TaskInput{Title: "a", Tags: []string{" backend ", "api", "backend", ""}})
	if len(first.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(first.Tags))
	}

	h.createTask(t, TaskInput{Title: "b", Tags: []string{"api"}})

	tags, err := h.tags.List(h.ctx)
	if err != nil {
		t.Fatalf("list tags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("expected existing tags to be reused, got %d tags", len(tags))
	}
}

func TestUpdate(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	task := h.createTask(t, TaskInput{Title: "draft", Priority: "low", Tags: []string{"a"}})

	updated, err := h.tasks.Update(h.ctx, task.ID, TaskInput{
		Title:    "final",
		Priority: "high",
		Progress: ptr(40),
		Tags:     []string{"b", "c"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "final" || updated.Priority != constants.PriorityHigh || updated.Progress != 40 {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.Status != constants.StatusPending {
		t.Errorf("expected status kept, got %s", updated.Status)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("expected tags replaced, got %d", len(updated.Tags))
	}

	if _, err := h.tasks.Update(h.ctx, task.ID, TaskInput{Title: "final", ParentID: ptr(task.ID)}); !errors.Is(err, apperrors.ErrSelfParent) {
		t.Errorf("expected ErrSelfParent, got %v", err)
	}

	activities, err := h.tasks.Activities(h.ctx, task.ID)
	if err != nil {
		t.Fatalf("activities failed: %v", err)
	}
	if len(activities) != 2 || activities[1].Action != model.ActionUpdated {
		t.Fatalf("expected created+updated activities, got %+v", activities)
	}
	if activities[1].NewValues["title"] != "final" {
		t.Errorf("expected new title recorded, got %v", activities[1].NewValues["title"])
	}
	if activities[1].UserID != h.user.ID {
		t.Errorf("expected actor %s, got %s", h.user.ID, activities[1].UserID)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	task := h.createTask(t, TaskInput{Title: "temp"})

	if err := h.tasks.Delete(h.ctx, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := h.tasks.Get(h.ctx, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected deleted task hidden, got %v", err)
	}
	deleted, err := h.tasks.GetWithDeleted(h.ctx, task.ID)
	if err != nil || !deleted.DeletedAt.Valid {
		t.Fatalf("expected soft-deleted task visible with deleted_at, got %v", err)
	}
	if err := h.tasks.Delete(h.ctx, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected second delete to report not found, got %v", err)
	}

	restored, err := h.tasks.Restore(h.ctx, task.ID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.DeletedAt.Valid {
		t.Error("expected deleted_at cleared")
	}

	before, _ := h.tasks.Activities(h.ctx, task.ID)
	again, err := h.tasks.Restore(h.ctx, task.ID)
	if err != nil {
		t.Fatalf("expected restoring a live task to succeed, got %v", err)
	}
	if again.ID != task.ID || again.DeletedAt.Valid {
		t.Errorf("expected the live task back unchanged, got %+v", again)
	}
	after, _ := h.tasks.Activities(h.ctx, task.ID)
	if len(after) != len(before) {
		t.Errorf("expected no activity for a no-op restore, got %d then %d", len(before), len(after))
	}

	if _, err := h.tasks.Restore(h.ctx, "missing"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected unknown task to report not found, got %v", err)
	}
}

func TestCommentsAndTimeEntries(t *testing.T) {
	h := newHarness(t, config.DefaultTaskManager())
	task := h.createTask(t, TaskInput{Title: "tracked"})

	if _, err := h.tasks.AddComment(h.ctx, task.ID, "  ", false); !errors.Is(err, apperrors.ErrContentRequired) {
		t.Errorf("expected ErrContentRequired, got %v", err)
	}
	if _, err := h.tasks.AddComment(h.ctx, "missing", "hi", false); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := h.tasks.LogTime(h.ctx, task.ID, -2, ""); !errors.Is(err, apperrors.ErrNegativeHours) {
		t.Errorf("expected ErrNegativeHours, got %v", err)
	}

	comment, err := h.tasks.AddComment(h.ctx, task.ID, "looks good", true)
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if comment.UserID != h.user.ID || !comment.IsInternal {
		t.Errorf("unexpected comment: %+v", comment)
	}
	if _, err := h.tasks.LogTime(h.ctx, task.ID, 1.5, "review"); err != nil {
		t.Fatalf("log time failed: %v", err)
	}
	if _, err := h.tasks.LogTime(h.ctx, task.ID, 2, ""); err != nil {
		t.Fatalf("log time failed: %v", err)
	}

	stats, err := h.queries.TaskStats(h.ctx, task.ID)
	if err != nil {
		t.Fatalf("task stats failed: %v", err)
	}
	if stats.TotalComments != 1 {
		t.Errorf("expected 1 comment, got %d", stats.TotalComments)
	}
	if stats.TimeSpent != 3.5 {
		t.Errorf("expected 3.5 hours, got %v", stats.TimeSpent)
	}
	if stats.DaysRemaining != nil {
		t.Errorf("expected no days remaining without due date, got %d", *stats.DaysRemaining)
	}
}
