package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/filters"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const (
	defaultRecentLimit   = 10
	defaultDueTodayLimit = 5
	relatedLimit         = 5
	reportActivityLimit  = 20
)

type ListParams struct {
	Filters        filters.Set
	Page           int
	PageSize       int
	SortField      string
	SortDirection  string
	IncludeDeleted bool
}

type PagedResult struct {
	Items    []model.Task `json:"data"`
	Total    int64        `json:"total"`
	Page     int          `json:"current_page"`
	PageSize int          `json:"per_page"`
	LastPage int          `json:"last_page"`
}

type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
}

type Dashboard struct {
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
	TasksDueToday  int64 `json:"tasks_due_today"`
}

type Report struct {
	Stats            *StatusCounts                    `json:"stats"`
	TasksByStatus    map[constants.TaskStatus]int64   `json:"tasks_by_status"`
	TasksByPriority  map[constants.TaskPriority]int64 `json:"tasks_by_priority"`
	OverdueTasks     []model.Task                     `json:"overdue_tasks"`
	RecentActivities []model.TaskActivity             `json:"recent_activities"`
}

type TaskStats struct {
	TotalComments     int64   `json:"total_comments"`
	TotalSubtasks     int64   `json:"total_subtasks"`
	TotalDependencies int64   `json:"total_dependencies"`
	TotalDependents   int64   `json:"total_dependents"`
	TimeSpent         float64 `json:"time_spent"`
	DaysRemaining     *int    `json:"days_remaining"`
}

// TaskQueryService is a stateless read facade over the task store.
type TaskQueryService struct {
	tasks      *repository.TaskRepository
	activities *repository.ActivityRepository
	clock      Clock
	cfg        config.TaskManagerConfig
}

func NewTaskQueryService(store *repository.Store, clock Clock, cfg config.TaskManagerConfig) *TaskQueryService {
	return &TaskQueryService{
		tasks:      store.Tasks,
		activities: store.Activities,
		clock:      clock,
		cfg:        cfg,
	}
}

func (s *TaskQueryService) List(ctx context.Context, p ListParams) (*PagedResult, error) {
	if p.Page < 1 || p.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page=%d page_size=%d", apperrors.ErrInvalidPagination, p.Page, p.PageSize)
	}
	if s.cfg.MaxPerPage > 0 && p.PageSize > s.cfg.MaxPerPage {
		p.PageSize = s.cfg.MaxPerPage
	}
	if err := p.Filters.Validate(); err != nil {
		return nil, err
	}
	order, err := orderClauses(p.SortField, p.SortDirection)
	if err != nil {
		return nil, err
	}

	opts := repository.ListOptions{
		Scopes:         []repository.Scope{p.Filters.Scope()},
		IncludeDeleted: p.IncludeDeleted,
	}
	total, err := s.tasks.Count(ctx, opts)
	if err != nil {
		return nil, err
	}

	opts.Order = order
	opts.Offset = (p.Page - 1) * p.PageSize
	opts.Limit = p.PageSize
	opts.Preload = true
	items, err := s.tasks.Find(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &PagedResult{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		LastPage: lastPage(total, p.PageSize),
	}, nil
}

func lastPage(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// Stats counts live tasks per status plus the overdue ones, computed fresh.
func (s *TaskQueryService) Stats(ctx context.Context) (*StatusCounts, error) {
	byStatus, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	overdue, err := s.tasks.Count(ctx, repository.ListOptions{
		Scopes: []repository.Scope{filters.Overdue(s.clock.Now())},
	})
	if err != nil {
		return nil, err
	}

	stats := &StatusCounts{
		Pending:    byStatus[constants.StatusPending],
		InProgress: byStatus[constants.StatusInProgress],
		Completed:  byStatus[constants.StatusCompleted],
		Cancelled:  byStatus[constants.StatusCancelled],
		Overdue:    overdue,
	}
	for _, n := range byStatus {
		stats.Total += n
	}
	return stats, nil
}

func (s *TaskQueryService) Recent(ctx context.Context, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.tasks.Find(ctx, repository.ListOptions{
		Order:   defaultOrder,
		Limit:   limit,
		Preload: true,
	})
}

func (s *TaskQueryService) DueToday(ctx context.Context, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = defaultDueTodayLimit
	}
	start, end := filters.DayBounds(s.clock.Now())
	return s.tasks.Find(ctx, repository.ListOptions{
		Scopes:  []repository.Scope{filters.DueBetween(start, end)},
		Order:   dueOrder,
		Limit:   limit,
		Preload: true,
	})
}

func (s *TaskQueryService) DueThisWeek(ctx context.Context) ([]model.Task, error) {
	start, end := filters.WeekBounds(s.clock.Now())
	return s.tasks.Find(ctx, repository.ListOptions{
		Scopes:  []repository.Scope{filters.DueBetween(start, end)},
		Order:   dueOrder,
		Preload: true,
	})
}

func (s *TaskQueryService) ForCalendar(ctx context.Context) ([]model.Task, error) {
	return s.tasks.Find(ctx, repository.ListOptions{
		Scopes:  []repository.Scope{filters.HasDueDate()},
		Order:   dueOrder,
		Preload: true,
	})
}

// Overdue lists overdue tasks, oldest due date first. limit <= 0 means no cap.
func (s *TaskQueryService) Overdue(ctx context.Context, limit int) ([]model.Task, error) {
	return s.tasks.Find(ctx, repository.ListOptions{
		Scopes:  []repository.Scope{filters.Overdue(s.clock.Now())},
		Order:   dueOrder,
		Limit:   limit,
		Preload: true,
	})
}

func (s *TaskQueryService) CountByStatus(ctx context.Context) (map[constants.TaskStatus]int64, error) {
	counts, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range constants.Statuses {
		counts[status] += 0
	}
	return counts, nil
}

func (s *TaskQueryService) CountByPriority(ctx context.Context) (map[constants.TaskPriority]int64, error) {
	counts, err := s.tasks.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	for _, priority := range constants.Priorities {
		counts[priority] += 0
	}
	return counts, nil
}

func (s *TaskQueryService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	start, end := filters.DayBounds(s.clock.Now())
	dueToday, err := s.tasks.Count(ctx, repository.ListOptions{
		Scopes: []repository.Scope{filters.DueBetween(start, end)},
	})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalTasks:     stats.Total,
		CompletedTasks: stats.Completed,
		PendingTasks:   stats.Pending,
		OverdueTasks:   stats.Overdue,
		TasksDueToday:  dueToday,
	}, nil
}

func (s *TaskQueryService) Report(ctx context.Context) (*Report, error) {
	var (
		report Report
		err    error
	)
	if report.Stats, err = s.Stats(ctx); err != nil {
		return nil, err
	}
	if report.TasksByStatus, err = s.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if report.TasksByPriority, err = s.CountByPriority(ctx); err != nil {
		return nil, err
	}
	if report.OverdueTasks, err = s.Overdue(ctx, 0); err != nil {
		return nil, err
	}
	if report.RecentActivities, err = s.activities.Recent(ctx, reportActivityLimit); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *TaskQueryService) TaskStats(ctx context.Context, id string) (*TaskStats, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var stats TaskStats
	if stats.TotalComments, err = s.activities.CountComments(ctx, id); err != nil {
		return nil, err
	}
	if stats.TotalSubtasks, err = s.tasks.CountSubtasks(ctx, id); err != nil {
		return nil, err
	}
	deps, err := s.tasks.DependencyIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	stats.TotalDependencies = int64(len(deps))
	if stats.TotalDependents, err = s.tasks.CountDependents(ctx, id); err != nil {
		return nil, err
	}
	if stats.TimeSpent, err = s.activities.SumHours(ctx, id); err != nil {
		return nil, err
	}
	if task.DueDate != nil {
		days := int(task.DueDate.Sub(s.clock.Now()).Hours() / 24)
		stats.DaysRemaining = &days
	}
	return &stats, nil
}

// Related returns up to five other tasks sharing the task's category.
func (s *TaskQueryService) Related(ctx context.Context, id string) ([]model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.CategoryID == nil {
		return []model.Task{}, nil
	}
	return s.tasks.Find(ctx, repository.ListOptions{
		Scopes: []repository.Scope{
			filters.Set{CategoryID: *task.CategoryID}.Scope(),
			excludeID(id),
		},
		Order: defaultOrder,
		Limit: relatedLimit,
	})
}

func excludeID(id string) repository.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.id <> ?", id)
	}
}

var (
	defaultOrder = []string{"tasks.created_at desc", "tasks.id asc"}
	dueOrder     = []string{"tasks.due_date asc", "tasks.id asc"}
)

var sortColumns = map[string]string{
	"created_at": "tasks.created_at",
	"updated_at": "tasks.updated_at",
	"due_date":   "tasks.due_date",
	"title":      "tasks.title",
	"progress":   "tasks.progress",
	"status":     rankExpression("tasks.status", statusRanks()),
	"priority":   rankExpression("tasks.priority", priorityRanks()),
}

func orderClauses(field, direction string) ([]string, error) {
	if field == "" && direction == "" {
		return defaultOrder, nil
	}
	if field == "" {
		field = "created_at"
	}

	column, ok := sortColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q", apperrors.ErrInvalidSort, field)
	}

	switch dir := strings.ToLower(direction); dir {
	case "":
		direction = "asc"
	case "asc", "desc":
		direction = dir
	default:
		return nil, fmt.Errorf("%w: direction %q", apperrors.ErrInvalidSort, direction)
	}

	return []string{column + " " + direction, "tasks.id asc"}, nil
}

func statusRanks() map[string]int {
	ranks := make(map[string]int, len(constants.Statuses))
	for _, s := range constants.Statuses {
		ranks[string(s)] = s.Rank()
	}
	return ranks
}

func priorityRanks() map[string]int {
	ranks := make(map[string]int, len(constants.Priorities))
	for _, p := range constants.Priorities {
		ranks[string(p)] = p.Rank()
	}
	return ranks
}

// rankExpression builds a CASE expression mapping enum values to their rank.
// Keys come from the closed enums, never from requests.
func rankExpression(column string, ranks map[string]int) string {
	keys := make([]string, 0, len(ranks))
	for k := range ranks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for _, k := range keys {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", k, ranks[k])
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}
