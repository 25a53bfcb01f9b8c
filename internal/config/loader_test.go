package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var managedKeys = []string{
	"SCHEDULER_HTTP_PORT",
	"SCHEDULER_HTTP_SHUTDOWN_TIMEOUT",
	"SCHEDULER_CATALOG_PATH",
	"SCHEDULER_SQLITE_DSN",
	"SCHEDULER_SQLITE_BUSY_TIMEOUT",
	"SCHEDULER_LOG_LEVEL",
	"SCHEDULER_LOG_FORMAT",
	"SCHEDULER_TERM_START",
	"SCHEDULER_TERM_WEEKS",
}

// clearEnv unsets every managed key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		t.Setenv("SCHEDULER_CATALOG_PATH", "courses.txt")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTP.Port != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTP.Port)
		}
		if cfg.HTTP.ShutdownTimeout != 10*time.Second {
			t.Fatalf("expected shutdown timeout 10s, got %s", cfg.HTTP.ShutdownTimeout)
		}
		if cfg.SQLite.DSN != "scheduler.db" || cfg.SQLite.BusyTimeout != 5*time.Second {
			t.Fatalf("unexpected sqlite defaults: %+v", cfg.SQLite)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Fatalf("unexpected log defaults: %+v", cfg.Log)
		}
		start, err := cfg.Term.StartDate()
		if err != nil {
			t.Fatalf("StartDate returned error: %v", err)
		}
		if !start.Equal(time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)) || cfg.Term.Weeks != 16 {
			t.Fatalf("unexpected term defaults: %+v", cfg.Term)
		}
		if cfg.Catalog.Path != "courses.txt" {
			t.Fatalf("expected catalog path from env, got %q", cfg.Catalog.Path)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())

		_, err := Load("")
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "missing required settings: SCHEDULER_CATALOG_PATH"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("collects invalid values", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		t.Setenv("SCHEDULER_HTTP_PORT", "70000")
		t.Setenv("SCHEDULER_LOG_FORMAT", "xml")
		t.Setenv("SCHEDULER_TERM_START", "17/08/2026")

		_, err := Load("")
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "missing required settings: SCHEDULER_CATALOG_PATH; invalid settings: SCHEDULER_HTTP_PORT, SCHEDULER_LOG_FORMAT, SCHEDULER_TERM_START"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("environment overrides the config file", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "scheduler.yaml")
		content := strings.Join([]string{
			"http:",
			"  port: 9090",
			"catalog:",
			"  path: /srv/courses.txt",
			"sqlite:",
			"  dsn: /srv/scheduler.db",
			"term:",
			"  start: \"2027-01-11\"",
			"  weeks: 15",
			"log:",
			"  level: debug",
		}, "\n")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv("SCHEDULER_HTTP_PORT", "7070")
		t.Setenv("SCHEDULER_SQLITE_BUSY_TIMEOUT", "250ms")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTP.Port != 7070 {
			t.Fatalf("expected env port 7070, got %d", cfg.HTTP.Port)
		}
		if cfg.Catalog.Path != "/srv/courses.txt" || cfg.SQLite.DSN != "/srv/scheduler.db" {
			t.Fatalf("expected file values, got %+v / %+v", cfg.Catalog, cfg.SQLite)
		}
		if cfg.SQLite.BusyTimeout != 250*time.Millisecond {
			t.Fatalf("expected busy timeout 250ms, got %s", cfg.SQLite.BusyTimeout)
		}
		if cfg.Term.Weeks != 15 || cfg.Log.Level != "debug" {
			t.Fatalf("unexpected term/log values: %+v %+v", cfg.Term, cfg.Log)
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCHEDULER_CATALOG_PATH", "courses.txt")

		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}
