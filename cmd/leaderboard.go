package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/analytics"
	"github.com/travisw1990/spiffo-pz-bot/internal/format"
	"github.com/travisw1990/spiffo-pz-bot/internal/report"
)

var (
	boardTop   int
	boardList  bool
	boardTable bool
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <category>",
	Short: "Show a ranked leaderboard for one category",
	Long: `Rank every tracked player by one statistic, highest first.

Example:
  pzstats leaderboard zombies_killed
  pzstats leaderboard total_playtime --top 5
  pzstats leaderboard --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&boardTop, "top", 10, "number of players to show")
	leaderboardCmd.Flags().BoolVar(&boardList, "list", false, "list the available categories")
	leaderboardCmd.Flags().BoolVar(&boardTable, "table", false, "render as a table instead of chat text")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	if boardList {
		for _, c := range analytics.Categories() {
			fmt.Fprintln(os.Stdout, c)
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("no category: pass one (see --list)")
	}
	category := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	entries, err := analytics.Leaderboard(players, category, time.Now())
	if err != nil {
		return err
	}

	if boardTable {
		report.PrintLeaderboard(os.Stdout, category, entries, boardTop)
		return nil
	}
	fmt.Fprintln(os.Stdout, format.Leaderboard(category, entries, boardTop))
	return nil
}
