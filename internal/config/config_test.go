package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every PZSTATS_ variable so ambient shell settings cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PZSTATS_DB",
		"PZSTATS_CURSOR",
		"PZSTATS_SERVER_DIR",
		"PZSTATS_SERVER_NAME",
		"PZSTATS_LOG_DIR",
		"PZSTATS_FETCH_LINES",
		"PZSTATS_WATCH_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

// TestFromEnv_Defaults: with nothing set, state files land under ~/.pzstats
// and the stock server name applies.
func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	if want := filepath.Join(home, ".pzstats", "stats.db"); cfg.DBPath != want {
		t.Errorf("DBPath: want %s, got %s", want, cfg.DBPath)
	}
	if want := filepath.Join(home, ".pzstats", "cursor.db"); cfg.CursorPath != want {
		t.Errorf("CursorPath: want %s, got %s", want, cfg.CursorPath)
	}
	if cfg.ServerName != "servertest" {
		t.Errorf("ServerName: want servertest, got %s", cfg.ServerName)
	}
	if cfg.FetchLines != 200 {
		t.Errorf("FetchLines: want 200, got %d", cfg.FetchLines)
	}
	if cfg.WatchInterval != 60*time.Second {
		t.Errorf("WatchInterval: want 60s, got %v", cfg.WatchInterval)
	}
	if cfg.ServerDir != "" || cfg.LogDir != "" {
		t.Errorf("ServerDir/LogDir: want empty, got %q %q", cfg.ServerDir, cfg.LogDir)
	}
}

// TestFromEnv_Overrides: every variable takes effect, and the derived paths
// follow the server directory layout.
func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PZSTATS_DB", "/tmp/custom.db")
	t.Setenv("PZSTATS_CURSOR", "/tmp/cursor.db")
	t.Setenv("PZSTATS_SERVER_DIR", "/srv/pzserver")
	t.Setenv("PZSTATS_SERVER_NAME", "myworld")
	t.Setenv("PZSTATS_FETCH_LINES", "500")
	t.Setenv("PZSTATS_WATCH_INTERVAL", "90s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath: got %s", cfg.DBPath)
	}
	if cfg.CursorPath != "/tmp/cursor.db" {
		t.Errorf("CursorPath: got %s", cfg.CursorPath)
	}
	if cfg.FetchLines != 500 {
		t.Errorf("FetchLines: want 500, got %d", cfg.FetchLines)
	}
	if cfg.WatchInterval != 90*time.Second {
		t.Errorf("WatchInterval: want 90s, got %v", cfg.WatchInterval)
	}

	if want := filepath.Join("/srv/pzserver", "server-console.txt"); cfg.ConsoleLogPath() != want {
		t.Errorf("ConsoleLogPath: want %s, got %s", want, cfg.ConsoleLogPath())
	}
	if want := filepath.Join("/srv/pzserver", "Server", "myworld.ini"); cfg.ServerINIPath() != want {
		t.Errorf("ServerINIPath: want %s, got %s", want, cfg.ServerINIPath())
	}
	if want := filepath.Join("/srv/pzserver", "Server", "myworld_SandboxVars.lua"); cfg.SandboxPath() != want {
		t.Errorf("SandboxPath: want %s, got %s", want, cfg.SandboxPath())
	}
	if want := filepath.Join("/srv/pzserver", "backups"); cfg.BackupsDir() != want {
		t.Errorf("BackupsDir: want %s, got %s", want, cfg.BackupsDir())
	}
	if want := filepath.Join("/srv/pzserver", "Logs"); cfg.LogsDir() != want {
		t.Errorf("LogsDir: want %s, got %s", want, cfg.LogsDir())
	}
}

// TestFromEnv_LogDirOverride: an explicit log dir wins over <ServerDir>/Logs.
func TestFromEnv_LogDirOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PZSTATS_SERVER_DIR", "/srv/pzserver")
	t.Setenv("PZSTATS_LOG_DIR", "/mnt/logs")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.LogsDir() != "/mnt/logs" {
		t.Errorf("LogsDir: want /mnt/logs, got %s", cfg.LogsDir())
	}
}

// TestFromEnv_Invalid: unparseable or non-positive numeric settings fail
// loudly, naming the offending variable.
func TestFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		key string
		val string
	}{
		{"PZSTATS_FETCH_LINES", "many"},
		{"PZSTATS_FETCH_LINES", "0"},
		{"PZSTATS_FETCH_LINES", "-5"},
		{"PZSTATS_WATCH_INTERVAL", "soon"},
		{"PZSTATS_WATCH_INTERVAL", "-1m"},
	}
	for _, c := range cases {
		clearEnv(t)
		t.Setenv(c.key, c.val)

		_, err := FromEnv()
		if err == nil {
			t.Errorf("%s=%q: want error", c.key, c.val)
			continue
		}
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%s=%q: want ErrInvalidValue, got %v", c.key, c.val, err)
		}
		if !strings.Contains(err.Error(), c.key) {
			t.Errorf("%s=%q: error should name the variable, got %v", c.key, c.val, err)
		}
	}
}
