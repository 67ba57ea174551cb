package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/config"
	"github.com/travisw1990/spiffo-pz-bot/internal/cursor"
	"github.com/travisw1990/spiffo-pz-bot/internal/logsource"
	"github.com/travisw1990/spiffo-pz-bot/internal/storage"
)

var (
	cfg       config.Config
	dbPath    string
	serverDir string
)

var rootCmd = &cobra.Command{
	Use:   "pzstats",
	Short: "Project Zomboid player statistics tool",
	Long: "Parse Project Zomboid server logs and track per-player survival statistics:\n" +
		"zombie kills, deaths, lives, skill levels, playtime and leaderboards.",
	PersistentPreRunE: loadRuntimeConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".pzstats", "stats.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&serverDir, "server-dir", "", "Project Zomboid server data directory")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(livesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(playstylesCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(logsCmd)
}

// loadRuntimeConfig merges the environment (and .env when present) into the
// flag values. An explicit flag beats its environment variable.
func loadRuntimeConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.FromEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = dbPath
	} else {
		dbPath = cfg.DBPath
	}
	if serverDir != "" {
		cfg.ServerDir = serverDir
	}
	return nil
}

// openStore opens the player database, creating its directory first.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// openCursor opens the ingest-position database, creating its directory first.
func openCursor() (*cursor.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.CursorPath), 0755); err != nil {
		return nil, fmt.Errorf("create cursor dir: %w", err)
	}
	cur, err := cursor.Open(cfg.CursorPath)
	if err != nil {
		return nil, fmt.Errorf("open cursor: %w", err)
	}
	return cur, nil
}

func logSource() logsource.Source {
	return logsource.Source{
		ConsoleLog: cfg.ConsoleLogPath(),
		LogDir:     cfg.LogsDir(),
		BackupDir:  cfg.BackupsDir(),
	}
}

func requireServerDir() error {
	if cfg.ServerDir == "" {
		return fmt.Errorf("no server directory: pass --server-dir or set PZSTATS_SERVER_DIR")
	}
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
