package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the statistics database",
	Long: `Run an arbitrary SQL query against the statistics database and print
results as a table.

Schema overview:
  players(username, lifetime_zombies_killed, lifetime_distance_traveled,
    current_life_zombies_killed, current_life_distance_traveled,
    current_life_start, connections, disconnections, zombies_killed, deaths,
    distance_traveled, vehicles_entered, first_seen, last_seen, last_death)
  lives(username, seq, started_at, ended_at, duration_seconds, zombies_killed,
    distance_traveled, items_crafted, buildings_placed, death_cause)
  sessions(username, seq, duration_seconds)
  level_ups(username, seq, skill, level, leveled_at)
  death_events(username, seq, cause, died_at)
  crafted_items(username, scope, seq, label)
  placed_buildings(username, scope, seq, label)

Timestamps are stored as RFC 3339 text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
