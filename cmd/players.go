package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/travisw1990/spiffo-pz-bot/internal/format"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all tracked players",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
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
		fmt.Fprintln(os.Stdout, "No players tracked yet. Run 'pzstats ingest <logfile>' to add some.")
		return nil
	}

	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(os.Stdout, "%-20s  %-10s  %-10s  %12s  %7s  %6s\n",
		"USERNAME", "FIRST SEEN", "LAST SEEN", "PLAYTIME", "ZOMBIES", "DEATHS")
	fmt.Fprintf(os.Stdout, "%-20s  %-10s  %-10s  %12s  %7s  %6s\n",
		"────────────────────", "──────────", "──────────", "────────────", "───────", "──────")
	for _, name := range names {
		rec := players[name]
		fmt.Fprintf(os.Stdout, "%-20s  %-10s  %-10s  %12s  %7d  %6d\n",
			name, dateOrDash(rec.FirstSeen), dateOrDash(rec.LastSeen),
			format.Duration(rec.TotalPlaytimeSeconds()), rec.ZombiesKilled, rec.Deaths)
	}
	return nil
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}
