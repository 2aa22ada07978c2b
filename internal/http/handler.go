package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"task-manager.com/task-manager/internal/cache"
	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/services"
)

const statsCacheKey = "stats"

type Services struct {
	Tasks      *services.TaskService
	Queries    *services.TaskQueryService
	Workflow   *services.WorkflowService
	Categories *services.CategoryService
	Tags       *services.TagService
}

type Handler struct {
	svc   Services
	stats cache.Store
	clock services.Clock
	cfg   config.TaskManagerConfig
	log   *logrus.Logger
}

func NewHandler(svc Services, stats cache.Store, clock services.Clock, cfg config.TaskManagerConfig, log *logrus.Logger) *Handler {
	return &Handler{
		svc:   svc,
		stats: stats,
		clock: clock,
		cfg:   cfg,
		log:   log,
	}
}

// forgetStats drops the cached statistics after a mutation.
func (h *Handler) forgetStats(ctx context.Context) {
	if err := h.stats.Delete(ctx, statsCacheKey); err != nil {
		h.log.WithError(err).Warn("failed to invalidate stats cache")
	}
}

func (h *Handler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return c.Validate(req)
}

func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.svc.Queries.Dashboard(ctx)
	if err != nil {
		return err
	}
	recent, err := h.svc.Queries.Recent(ctx, 0)
	if err != nil {
		return err
	}
	dueToday, err := h.svc.Queries.DueToday(ctx, 0)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	return c.JSON(http.StatusOK, echo.Map{
		"stats":           stats,
		"recent_tasks":    newTaskResponses(recent, now),
		"tasks_due_today": newTaskResponses(dueToday, now),
	})
}

func (h *Handler) Calendar(c echo.Context) error {
	tasks, err := h.svc.Queries.ForCalendar(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCalendarEvents(tasks))
}

func (h *Handler) Reports(c echo.Context) error {
	report, err := h.svc.Queries.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := cache.Remember(ctx, h.stats, statsCacheKey, h.log, h.svc.Queries.Stats)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListTasks(c echo.Context) error {
	params, err := listParams(c, h.cfg.PerPage, h.clock.Now().Location())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.Queries.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(result, h.clock.Now()))
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req taskRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.svc.Tasks.Create(ctx, req.input())
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusCreated, newTaskResponse(task, h.clock.Now()))
}

// GetTask serves a live task, or a soft-deleted one with ?include_deleted=true.
func (h *Handler) GetTask(c echo.Context) error {
	var includeDeleted bool
	if err := echo.QueryParamsBinder(c).Bool("include_deleted", &includeDeleted).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	get := h.svc.Tasks.Get
	if includeDeleted {
		get = h.svc.Tasks.GetWithDeleted
	}
	task, err := get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req taskRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.svc.Tasks.Update(ctx, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.svc.Tasks.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RestoreTask(c echo.Context) error {
	ctx := c.Request().Context()
	task, err := h.svc.Tasks.Restore(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	var req statusRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.svc.Workflow.ChangeStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) ChangePriority(c echo.Context) error {
	var req priorityRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.svc.Workflow.ChangePriority(ctx, c.Param("id"), req.Priority)
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) Assign(c echo.Context) error {
	var req assignRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.svc.Workflow.Assign(ctx, c.Param("id"), req.UserID)
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) UpdateProgress(c echo.Context) error {
	var req progressRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.svc.Workflow.UpdateProgress(ctx, c.Param("id"), *req.Progress)
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusOK, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) Duplicate(c echo.Context) error {
	ctx := c.Request().Context()
	task, err := h.svc.Workflow.Duplicate(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	h.forgetStats(ctx)

	return c.JSON(http.StatusCreated, newTaskResponse(task, h.clock.Now()))
}

func (h *Handler) Dependencies(c echo.Context) error {
	deps, err := h.svc.Workflow.Dependencies(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskResponses(deps, h.clock.Now()))
}

func (h *Handler) SetDependencies(c echo.Context) error {
	var req dependenciesRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	deps, err := h.svc.Workflow.SetDependencies(c.Request().Context(), c.Param("id"), req.DependencyIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskResponses(deps, h.clock.Now()))
}

func (h *Handler) CanComplete(c echo.Context) error {
	ok, err := h.svc.Workflow.CanComplete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"can_complete": ok})
}

func (h *Handler) TaskStats(c echo.Context) error {
	stats, err := h.svc.Queries.TaskStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Related(c echo.Context) error {
	tasks, err := h.svc.Queries.Related(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTaskResponses(tasks, h.clock.Now()))
}

func (h *Handler) Activities(c echo.Context) error {
	activities, err := h.svc.Tasks.Activities(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activities)
}

func (h *Handler) AddComment(c echo.Context) error {
	var req commentRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	comment, err := h.svc.Tasks.AddComment(c.Request().Context(), c.Param("id"), req.Content, req.IsInternal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) LogTime(c echo.Context) error {
	var req timeEntryRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	entry, err := h.svc.Tasks.LogTime(c.Request().Context(), c.Param("id"), req.Hours, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	list := h.svc.Categories.All
	if activeOnly {
		list = h.svc.Categories.Active
	}

	categories, err := list(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	category, err := h.svc.Categories.Get(ctx, id)
	if err != nil {
		return err
	}
	path, err := h.svc.Categories.FullPath(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryResponse{Category: *category, FullPath: path})
}

func (h *Handler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	category, err := h.svc.Categories.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	var req categoryRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	category, err := h.svc.Categories.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	if err := h.svc.Categories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListTags(c echo.Context) error {
	tags, err := h.svc.Tags.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *Handler) CreateTag(c echo.Context) error {
	var req tagRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	tag, err := h.svc.Tags.Create(c.Request().Context(), req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *Handler) DeleteTag(c echo.Context) error {
	if err := h.svc.Tags.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
