package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/aggregator"
	"github.com/travisw1990/spiffo-pz-bot/internal/cursor"
	"github.com/travisw1990/spiffo-pz-bot/internal/logsource"
	"github.com/travisw1990/spiffo-pz-bot/internal/parser"
	"github.com/travisw1990/spiffo-pz-bot/internal/storage"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously ingest new server log lines",
	Long: `Poll the server log directory and fold newly appended lines into the
stored statistics on every pass. Runs until interrupted; progress is logged
as JSON lines on stderr.

Example:
  pzstats watch --server-dir /srv/pzserver --interval 30s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0,
		"delay between passes (default from PZSTATS_WATCH_INTERVAL, 60s)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireServerDir(); err != nil {
		return err
	}
	interval := cfg.WatchInterval
	if watchInterval > 0 {
		interval = watchInterval
	}

	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("instanceID", instanceID)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cur, err := openCursor()
	if err != nil {
		return err
	}
	defer cur.Close()

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := watchPass(db, cur, logger); err != nil {
				logger.Error("watch pass failed", "error", err.Error())
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule watch job: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "logDir", cfg.LogsDir(), "interval", interval.String())
	sched.Start()
	<-ctx.Done()
	logger.Info("shutting down")
	return sched.Shutdown()
}

// watchPass reads whatever the log gained since the last pass and merges it.
// The cursor advances only after the snapshot is saved, so a failed pass
// replays the same lines next time.
func watchPass(db *storage.DB, cur *cursor.Store, logger *slog.Logger) error {
	batchID := uuid.New().String()

	path, err := logSource().LatestLogFile()
	if err != nil {
		return err
	}
	pos, _, err := cur.Get(path)
	if err != nil {
		return err
	}
	lines, next, err := logsource.ReadNew(path, pos)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	events := parser.ParseLines(lines)
	players, err := db.LoadSnapshot()
	if err != nil {
		return err
	}
	sum := aggregator.Apply(players, events)
	if err := db.SaveSnapshot(players); err != nil {
		return err
	}
	if err := cur.Put(path, next); err != nil {
		return err
	}

	logger.Info("batch merged",
		"batchID", batchID,
		"file", filepath.Base(path),
		"lines", len(lines),
		"events", sum.Events,
		"playersTouched", len(sum.Touched),
		"playersCreated", len(sum.Created),
	)
	return nil
}
