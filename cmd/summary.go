package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/analytics"
	"github.com/travisw1990/spiffo-pz-bot/internal/format"
	"github.com/travisw1990/spiffo-pz-bot/internal/report"
)

var summaryTable bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show server-wide statistics",
	Long: `Display aggregate statistics across all tracked players: totals for
zombies killed, deaths, distance and playtime, plus the playstyle breakdown.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryTable, "table", false, "render as a table instead of chat text")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s := analytics.Summarize(players)
	if summaryTable {
		report.PrintSummary(os.Stdout, s)
		return nil
	}
	fmt.Fprintln(os.Stdout, format.Summary(s))
	return nil
}
