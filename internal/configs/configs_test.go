package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_HOST", "APP_PORT", "APP_TIMEZONE", "PLUGINS_ENABLED", "TASK_MANAGER_PER_PAGE", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.AppURL != "127.0.0.1:8080" {
		t.Errorf("expected default app url, got %s", cfg.AppURL)
	}
	if cfg.Location != time.UTC {
		t.Errorf("expected UTC, got %v", cfg.Location)
	}
	if cfg.TaskManager.PerPage != 15 || cfg.TaskManager.MaxPerPage != 100 {
		t.Errorf("unexpected pagination defaults: %+v", cfg.TaskManager)
	}
	if cfg.RedisEnabled {
		t.Error("redis should be disabled by default")
	}
	if cfg.StatsCacheTTL() != 5*time.Minute {
		t.Errorf("expected 5m stats ttl, got %v", cfg.StatsCacheTTL())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_TIMEZONE", "Europe/Paris")
	t.Setenv("PLUGINS_ENABLED", " task-manager , reports ,")
	t.Setenv("TASK_MANAGER_ROUTE_PREFIX", "/todo/")
	t.Setenv("TASK_MANAGER_ENFORCE_DEPENDENCIES", "true")
	t.Setenv("REDIS_ENABLED", "1")

	cfg := Load()

	if cfg.AppURL != "127.0.0.1:9000" {
		t.Errorf("expected port override, got %s", cfg.AppURL)
	}
	if cfg.Location.String() != "Europe/Paris" {
		t.Errorf("expected Europe/Paris, got %v", cfg.Location)
	}
	if len(cfg.Plugins.Enabled) != 2 || cfg.Plugins.Enabled[1] != "reports" {
		t.Errorf("unexpected enabled plugins: %v", cfg.Plugins.Enabled)
	}
	if cfg.TaskManager.RoutePrefix != "todo" {
		t.Errorf("expected trimmed prefix, got %q", cfg.TaskManager.RoutePrefix)
	}
	if !cfg.TaskManager.EnforceDependencies || !cfg.RedisEnabled {
		t.Error("expected boolean flags to be parsed")
	}
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", "json")
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected json formatter, got %T", log.Formatter)
	}

	if NewLogger("loud", "text").GetLevel() != logrus.InfoLevel {
		t.Error("unknown level should fall back to info")
	}
}
