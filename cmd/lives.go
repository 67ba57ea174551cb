package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/report"
	"github.com/travisw1990/spiffo-pz-bot/internal/storage"
)

var livesCmd = &cobra.Command{
	Use:   "lives <username>",
	Short: "Chronological life history for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runLives,
}

func runLives(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.Player(args[0])
	if errors.Is(err, storage.ErrPlayerNotFound) {
		fmt.Fprintf(os.Stderr, "No statistics recorded for %s yet.\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}
	if len(rec.Lives) == 0 && rec.CurrentLifeStart == nil {
		fmt.Fprintf(os.Stdout, "No lives recorded for %s yet.\n", args[0])
		return nil
	}
	report.PrintLives(os.Stdout, rec, time.Now())
	return nil
}
