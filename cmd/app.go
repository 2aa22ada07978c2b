package cmd

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/redis/rueidis"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/cache"
	config "task-manager.com/task-manager/internal/configs"
	httpapi "task-manager.com/task-manager/internal/http"
	"task-manager.com/task-manager/internal/plugins"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

const statsCachePrefix = "task-manager:"

var (
	logOnce sync.Once
	log     *logrus.Logger
)

// logger returns the process logger. It is usable before config is loaded so
// early failures are still reported.
func logger() *logrus.Logger {
	logOnce.Do(func() {
		log = config.NewLogger("info", "text")
	})
	return log
}

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	db       *gorm.DB
	store    *repository.Store
	clock    services.Clock
	registry *plugins.Registry
	handler  *httpapi.Handler
	redis    rueidis.Client
}

func bootstrap() *app {
	if err := godotenv.Load(); err != nil {
		logger().Info(".env file not found, using environment variables")
	}

	cfg := config.Load()
	l := logger()
	configured := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	l.SetLevel(configured.GetLevel())
	l.SetFormatter(configured.Formatter)

	db := config.New(cfg.DatabaseDSN, l)
	store := repository.NewStore(db)
	clock := services.NewSystemClock(cfg.Location)

	a := &app{
		cfg:      cfg,
		log:      l,
		db:       db,
		store:    store,
		clock:    clock,
		registry: plugins.NewRegistry(l),
	}

	var stats cache.Store = cache.Noop{}
	if cfg.RedisEnabled {
		a.redis = config.NewRedisClient(cfg.RedisAddr, l)
		stats = cache.NewRedisStore(a.redis, statsCachePrefix, cfg.StatsCacheTTL())
	}

	a.handler = httpapi.NewHandler(httpapi.Services{
		Tasks:      services.NewTaskService(store, clock, l),
		Queries:    services.NewTaskQueryService(store, clock, cfg.TaskManager),
		Workflow:   services.NewWorkflowService(store, clock, cfg.TaskManager, l),
		Categories: services.NewCategoryService(store, clock, l),
		Tags:       services.NewTagService(store, clock, l),
	}, stats, clock, cfg.TaskManager, l)

	if err := a.registry.Register(httpapi.NewPlugin(a.handler, cfg.RateLimit)); err != nil {
		l.Fatalf("failed to register plugin: %v", err)
	}

	return a
}

// migrate creates or upgrades the schema of the enabled plugins.
func (a *app) migrate() error {
	return a.registry.Migrate(a.db, a.cfg.Plugins.Enabled)
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
