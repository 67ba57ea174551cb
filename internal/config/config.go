// Package config assembles runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidValue marks an environment variable that could not be parsed.
var ErrInvalidValue = errors.New("invalid value")

const (
	defaultServerName    = "servertest"
	defaultFetchLines    = 200
	defaultWatchInterval = 60 * time.Second
)

// Config carries the settings shared by every command.
type Config struct {
	DBPath        string        // sqlite player store
	CursorPath    string        // bbolt ingest cursor
	ServerDir     string        // PZ server data root
	ServerName    string        // base name of the ini/sandbox files
	LogDir        string        // overrides <ServerDir>/Logs when set
	FetchLines    int           // console lines the log commands read
	WatchInterval time.Duration // delay between watch passes
}

// FromEnv loads .env when present and reads the PZSTATS_* variables. A
// missing .env file is not an error; unset variables fall back to defaults
// under ~/.pzstats.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home dir: %w", err)
	}
	stateDir := filepath.Join(home, ".pzstats")

	cfg := Config{
		DBPath:        filepath.Join(stateDir, "stats.db"),
		CursorPath:    filepath.Join(stateDir, "cursor.db"),
		ServerName:    defaultServerName,
		FetchLines:    defaultFetchLines,
		WatchInterval: defaultWatchInterval,
	}

	if v := os.Getenv("PZSTATS_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PZSTATS_CURSOR"); v != "" {
		cfg.CursorPath = v
	}
	if v := os.Getenv("PZSTATS_SERVER_DIR"); v != "" {
		cfg.ServerDir = v
	}
	if v := os.Getenv("PZSTATS_SERVER_NAME"); v != "" {
		cfg.ServerName = v
	}
	if v := os.Getenv("PZSTATS_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("PZSTATS_FETCH_LINES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%w: PZSTATS_FETCH_LINES=%q", ErrInvalidValue, v)
		}
		cfg.FetchLines = n
	}
	if v := os.Getenv("PZSTATS_WATCH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: PZSTATS_WATCH_INTERVAL=%q", ErrInvalidValue, v)
		}
		cfg.WatchInterval = d
	}
	return cfg, nil
}

// File locations inside the dedicated-server data directory.

func (c Config) ConsoleLogPath() string {
	return filepath.Join(c.ServerDir, "server-console.txt")
}

func (c Config) ServerINIPath() string {
	return filepath.Join(c.ServerDir, "Server", c.ServerName+".ini")
}

func (c Config) SandboxPath() string {
	return filepath.Join(c.ServerDir, "Server", c.ServerName+"_SandboxVars.lua")
}

func (c Config) BackupsDir() string {
	return filepath.Join(c.ServerDir, "backups")
}

// LogsDir is the rotated-log directory: the explicit override when set,
// otherwise Logs/ under the server root.
func (c Config) LogsDir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(c.ServerDir, "Logs")
}
