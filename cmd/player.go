package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/format"
	"github.com/travisw1990/spiffo-pz-bot/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <username>",
	Short: "Show one player's full statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintln(os.Stdout, format.PlayerStats(args[0], rec, time.Now()))
	return nil
}
