package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export all player statistics as a JSON snapshot",
	Long: `Write every tracked player's record to a JSON file. The file can be
re-imported with 'pzstats import', moved to another machine, or inspected
directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := storage.WriteSnapshotJSON(args[0], players); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported %d players to %s\n", len(players), args[0])
	return nil
}
