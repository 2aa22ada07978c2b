package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	AppURL                 string
	Location               *time.Location
	DatabaseDSN            string
	RateLimit              int
	RedisEnabled           bool
	RedisAddr              string
	StatsCacheTTLSeconds   int
	ShutdownTimeoutSeconds int
	LogLevel               string
	LogFormat              string
	Plugins                PluginsConfig
	TaskManager            TaskManagerConfig
}

type PluginsConfig struct {
	Enabled []string
}

type TaskManagerConfig struct {
	RoutePrefix         string
	PerPage             int
	MaxPerPage          int
	EnforceDependencies bool
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		Location:               getEnvAsLocation("APP_TIMEZONE", time.UTC),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RedisEnabled:           getEnvAsBool("REDIS_ENABLED", false),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		StatsCacheTTLSeconds:   getEnvAsInt("STATS_CACHE_TTL_SECONDS", 300),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "text"),
		Plugins: PluginsConfig{
			Enabled: getEnvAsList("PLUGINS_ENABLED", []string{"task-manager"}),
		},
		TaskManager: TaskManagerConfig{
			RoutePrefix:         strings.Trim(getEnv("TASK_MANAGER_ROUTE_PREFIX", "tasks"), "/"),
			PerPage:             getEnvAsInt("TASK_MANAGER_PER_PAGE", 15),
			MaxPerPage:          getEnvAsInt("TASK_MANAGER_MAX_PER_PAGE", 100),
			EnforceDependencies: getEnvAsBool("TASK_MANAGER_ENFORCE_DEPENDENCIES", false),
		},
	}

	validate(cfg)
	return cfg
}

// DefaultTaskManager returns the task manager settings used when nothing is configured.
func DefaultTaskManager() TaskManagerConfig {
	return TaskManagerConfig{
		RoutePrefix: "tasks",
		PerPage:     15,
		MaxPerPage:  100,
	}
}

func (c Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		logrus.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		logrus.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		logrus.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.StatsCacheTTLSeconds < 0 {
		logrus.Fatal("STATS_CACHE_TTL_SECONDS must not be negative")
	}
	if cfg.TaskManager.PerPage <= 0 {
		logrus.Fatal("TASK_MANAGER_PER_PAGE must be greater than 0")
	}
	if cfg.TaskManager.MaxPerPage < cfg.TaskManager.PerPage {
		logrus.Fatal("TASK_MANAGER_MAX_PER_PAGE must be at least TASK_MANAGER_PER_PAGE")
	}
	if cfg.TaskManager.RoutePrefix == "" {
		logrus.Fatal("TASK_MANAGER_ROUTE_PREFIX must not be empty")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		logrus.Fatal("LOG_FORMAT must be text or json")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			logrus.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logrus.Fatalf("invalid boolean value for %s", key)
		}
		return b
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvAsLocation(key string, defaultVal *time.Location) *time.Location {
	if v := os.Getenv(key); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			logrus.Fatalf("invalid time zone for %s: %v", key, err)
		}
		return loc
	}
	return defaultVal
}
