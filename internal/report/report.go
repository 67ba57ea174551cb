package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/travisw1990/spiffo-pz-bot/internal/aggregator"
	"github.com/travisw1990/spiffo-pz-bot/internal/analytics"
	"github.com/travisw1990/spiffo-pz-bot/internal/format"
	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// PrintLeaderboard renders one category as a ranked table.
func PrintLeaderboard(w io.Writer, category string, entries []analytics.Entry, topN int) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "PLAYER", "VALUE")

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	for i, e := range entries {
		table.Append(strconv.Itoa(i+1), e.Username, format.Value(category, e.Value))
	}
	table.Render()
}

// PrintPlaystyles renders every player's classification with the counters the
// decision list reads, so a surprising label can be checked at a glance.
func PrintPlaystyles(w io.Writer, players map[string]*model.PlayerRecord) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("PLAYER", "PLAYSTYLE", "ZOMBIES", "DISTANCE", "BUILDS", "CRAFTS", "DEATHS", "CONNECTS")

	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := players[name]
		table.Append(
			name,
			analytics.Playstyle(rec),
			strconv.Itoa(rec.ZombiesKilled),
			strconv.Itoa(rec.DistanceTraveled),
			strconv.Itoa(len(rec.BuildingsPlaced)),
			strconv.Itoa(len(rec.ItemsCrafted)),
			strconv.Itoa(rec.Deaths),
			strconv.Itoa(rec.Connections),
		)
	}
	table.Render()
}

// PrintSummary renders the server-wide rollup: a key-value block plus the
// playstyle histogram.
func PrintSummary(w io.Writer, s analytics.SummaryStats) {
	if s.TotalPlayers == 0 {
		fmt.Fprintln(w, "No player statistics available yet.")
		return
	}

	fmt.Fprintf(w, "\n=== Server Statistics ===\n\n")
	fmt.Fprintf(w, "  Players tracked   : %d\n", s.TotalPlayers)
	fmt.Fprintf(w, "  Zombies killed    : %d\n", s.TotalZombiesKilled)
	fmt.Fprintf(w, "  Deaths            : %d\n", s.TotalDeaths)
	fmt.Fprintf(w, "  Distance traveled : %d tiles\n", s.TotalDistanceTraveled)
	fmt.Fprintf(w, "  Total playtime    : %.1f hours\n", s.TotalPlaytimeSeconds/3600)

	fmt.Fprintf(w, "\n--- Playstyles ---\n\n")
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("PLAYSTYLE", "PLAYERS")
	for _, pc := range s.Playstyles {
		table.Append(pc.Label, strconv.Itoa(pc.Count))
	}
	table.Render()
}

// PrintRecommendations renders mod-category scores.
func PrintRecommendations(w io.Writer, scores []analytics.ModScore) {
	if len(scores) == 0 {
		fmt.Fprintln(w, "No player statistics available yet.")
		return
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("MOD CATEGORY", "SCORE", "")
	for _, s := range scores {
		bar := strings.Repeat("█", int(s.Score*10+0.5))
		table.Append(s.Category, fmt.Sprintf("%.2f", s.Score), bar)
	}
	table.Render()
}

// PrintLives renders a player's life history in order, with the running life
// last when one is open.
func PrintLives(w io.Writer, rec *model.PlayerRecord, now time.Time) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "STARTED", "ENDED", "SURVIVED", "ZOMBIES", "DISTANCE", "CRAFTS", "BUILDS", "CAUSE")

	for i, life := range rec.Lives {
		survived := "—"
		if life.DurationSeconds > 0 {
			survived = format.Duration(life.DurationSeconds)
		}
		table.Append(
			strconv.Itoa(i+1),
			stamp(life.Start),
			stampPtr(life.End),
			survived,
			strconv.Itoa(life.ZombiesKilled),
			strconv.Itoa(life.DistanceTraveled),
			strconv.Itoa(life.ItemsCrafted),
			strconv.Itoa(life.BuildingsPlaced),
			life.DeathCause,
		)
	}
	if rec.CurrentLifeStart != nil {
		survived := "—"
		if secs, ok := rec.CurrentLifeSeconds(now); ok {
			survived = format.Duration(secs)
		}
		table.Append(
			strconv.Itoa(len(rec.Lives)+1),
			stampPtr(rec.CurrentLifeStart),
			"—",
			survived,
			strconv.Itoa(rec.CurrentLifeZombiesKilled),
			strconv.Itoa(rec.CurrentLifeDistanceTraveled),
			strconv.Itoa(len(rec.CurrentLifeItemsCrafted)),
			strconv.Itoa(len(rec.CurrentLifeBuildingsPlaced)),
			"alive",
		)
	}
	table.Render()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02 15:04")
}

func stampPtr(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return stamp(*t)
}

// PrintIngestSummary reports what one batch changed.
func PrintIngestSummary(w io.Writer, sum aggregator.Summary) {
	if sum.Events == 0 {
		fmt.Fprintln(w, "No recognizable events in this batch.")
		return
	}

	fmt.Fprintf(w, "\nEvents: %d  |  Players touched: %d  |  New players: %d\n\n",
		sum.Events, len(sum.Touched), len(sum.Created))

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("EVENT", "COUNT")
	for _, kind := range model.EventKinds {
		if n := sum.EventCounts[kind]; n > 0 {
			table.Append(kind.String(), strconv.Itoa(n))
		}
	}
	table.Render()
}
