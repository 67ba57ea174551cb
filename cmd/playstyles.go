package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/report"
)

var playstylesCmd = &cobra.Command{
	Use:   "playstyles",
	Short: "Classify every player's playstyle",
	Args:  cobra.NoArgs,
	RunE:  runPlaystyles,
}

func runPlaystyles(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No player statistics available yet.")
		return nil
	}
	report.PrintPlaystyles(os.Stdout, players)
	return nil
}
