package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/http/validators"
	model "task-manager.com/task-manager/internal/models"
)

// NewServer returns an echo instance with validation, error rendering and
// request logging wired in.
func NewServer(log *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.New()
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	return e
}

func Register(g *echo.Group, h *Handler, rateLimitPerMinute int) {
	g.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))
	g.Use(middleware.CurrentUser())

	g.GET("", h.Dashboard)
	g.GET("/calendar", h.Calendar)
	g.GET("/reports", h.Reports)
	g.GET("/stats", h.Stats)

	tasks := g.Group("/tasks")
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)
	tasks.POST("/:id/restore", h.RestoreTask)
	tasks.PATCH("/:id/status", h.ChangeStatus)
	tasks.PATCH("/:id/priority", h.ChangePriority)
	tasks.PATCH("/:id/assign", h.Assign)
	tasks.PATCH("/:id/progress", h.UpdateProgress)
	tasks.POST("/:id/duplicate", h.Duplicate)
	tasks.GET("/:id/dependencies", h.Dependencies)
	tasks.PUT("/:id/dependencies", h.SetDependencies)
	tasks.GET("/:id/can-complete", h.CanComplete)
	tasks.GET("/:id/stats", h.TaskStats)
	tasks.GET("/:id/related", h.Related)
	tasks.GET("/:id/activities", h.Activities)
	tasks.POST("/:id/comments", h.AddComment)
	tasks.POST("/:id/time-entries", h.LogTime)

	categories := g.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	tags := g.Group("/tags")
	tags.GET("", h.ListTags)
	tags.POST("", h.CreateTag)
	tags.DELETE("/:id", h.DeleteTag)
}

const PluginName = "task-manager"

// Plugin exposes the task manager through the plugin registry.
type Plugin struct {
	handler   *Handler
	rateLimit int
}

func NewPlugin(h *Handler, rateLimitPerMinute int) *Plugin {
	return &Plugin{handler: h, rateLimit: rateLimitPerMinute}
}

func (p *Plugin) Name() string { return PluginName }

func (p *Plugin) Prefix() string { return p.handler.cfg.RoutePrefix }

func (p *Plugin) Models() []any { return model.All() }

func (p *Plugin) Register(g *echo.Group) {
	Register(g, p.handler, p.rateLimit)
}
