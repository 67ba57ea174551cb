package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Replace the stored statistics with a JSON snapshot",
	Long: `Load player records from a JSON file written by 'pzstats export' and
store them, replacing whatever the database currently holds.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	players, err := storage.ReadSnapshotJSON(args[0])
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveSnapshot(players); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d players from %s\n", len(players), args[0])
	return nil
}
