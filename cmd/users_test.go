package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestUsersCommandsOnFreshDatabase(t *testing.T) {
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "tasks.db"))
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("PLUGINS_ENABLED", "task-manager")
	t.Setenv("LOG_LEVEL", "error")

	if out := run(t, "users", "list"); out != "" {
		t.Errorf("expected no users yet, got %q", out)
	}

	id := strings.TrimSpace(run(t, "users", "create", "Ada", "Ada@Example.com"))
	if id == "" {
		t.Fatal("expected the new user id")
	}

	out := run(t, "users", "list")
	if !strings.Contains(out, id) || !strings.Contains(out, "ada@example.com") {
		t.Errorf("expected the created user listed, got %q", out)
	}
}
