package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/analytics"
	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// Board titles for the categories that earned a nickname; anything else falls
// back to the title-cased category name.
var boardTitles = map[string]string{
	"zombies_killed":    "🧟 Zombie Slayers",
	"distance_traveled": "🚶 Top Explorers",
	"buildings_placed":  "🏗️ Master Builders",
	"items_crafted":     "🔨 Expert Crafters",
	"total_playtime":    "⏱️ Most Dedicated Players",
}

// PlayerStats renders one player's full statistics as chat-ready markdown.
// now feeds the open-life elapsed time.
func PlayerStats(username string, rec *model.PlayerRecord, now time.Time) string {
	survival := "0 hours"
	if sec, ok := rec.CurrentLifeSeconds(now); ok {
		survival = "(" + Duration(sec) + ")"
	}

	lines := []string{
		fmt.Sprintf("**%s's Statistics**", username),
		"",
		"**Current Life:**",
		fmt.Sprintf("🧟 Zombies Killed: %d", rec.CurrentLifeZombiesKilled),
		fmt.Sprintf("🚶 Distance Traveled: %d tiles", rec.CurrentLifeDistanceTraveled),
		fmt.Sprintf("🔨 Items Crafted: %d", len(rec.CurrentLifeItemsCrafted)),
		fmt.Sprintf("🏗️ Buildings Placed: %d", len(rec.CurrentLifeBuildingsPlaced)),
		fmt.Sprintf("⏱️  Survival Time: %s", survival),
		"",
		"**Lifetime Totals:**",
		fmt.Sprintf("🧟 Zombies Killed: %d", rec.LifetimeZombiesKilled),
		fmt.Sprintf("🚶 Distance Traveled: %d tiles", rec.LifetimeDistanceTraveled),
		fmt.Sprintf("💀 Deaths: %d", rec.Deaths),
		fmt.Sprintf("🔨 Items Crafted: %d", len(rec.LifetimeItemsCrafted)),
		fmt.Sprintf("🏗️ Buildings Placed: %d", len(rec.LifetimeBuildingsPlaced)),
		fmt.Sprintf("🚗 Vehicles Used: %d", rec.VehiclesEntered),
		fmt.Sprintf("🔄 Sessions: %d", rec.Connections),
	}

	if longest, ok := rec.LongestClosedLife(); ok {
		lines = append(lines, fmt.Sprintf("🏆 Longest Life: %s", Duration(longest.DurationSeconds)))
	}
	if len(rec.SessionTimes) > 0 {
		lines = append(lines, fmt.Sprintf("⏱️ Total Playtime: %.1f hours", rec.TotalPlaytimeSeconds()/3600))
	}

	if len(rec.LevelUps) > 0 {
		lines = append(lines, "\n**Skill Levels:**")
		for _, sl := range bestSkills(rec, 5) {
			lines = append(lines, fmt.Sprintf("  • %s: Level %d", sl.skill, sl.level))
		}
	}

	if cause, n := rec.MostCommonDeathCause(); n > 0 {
		lines = append(lines, fmt.Sprintf("\n⚠️ Most Common Death: %s (%dx)", cause, n))
	}

	return strings.Join(lines, "\n")
}

// Leaderboard renders one category's top entries with medal markers.
func Leaderboard(category string, entries []analytics.Entry, topN int) string {
	title, ok := boardTitles[category]
	if !ok {
		title = titleCase(category)
	}

	lines := []string{fmt.Sprintf("**%s**", title), ""}

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	for i, e := range entries {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		lines = append(lines, fmt.Sprintf("%s **%s**: %s", medal, e.Username, Value(category, e.Value)))
	}

	return strings.Join(lines, "\n")
}

// Summary renders the server-wide rollup.
func Summary(s analytics.SummaryStats) string {
	if s.TotalPlayers == 0 {
		return "No player statistics available yet."
	}

	lines := []string{
		"**Server Statistics Summary**",
		"",
		fmt.Sprintf("👥 Total Players: %d", s.TotalPlayers),
		fmt.Sprintf("🧟 Total Zombies Killed: %d", s.TotalZombiesKilled),
		fmt.Sprintf("💀 Total Deaths: %d", s.TotalDeaths),
		fmt.Sprintf("🚶 Total Distance Traveled: %d tiles", s.TotalDistanceTraveled),
		fmt.Sprintf("⏱️ Total Playtime: %.1f hours", s.TotalPlaytimeSeconds/3600),
		"",
		"**Playstyle Distribution:**",
	}
	for _, pc := range s.Playstyles {
		lines = append(lines, fmt.Sprintf("  • %s: %d player(s)", pc.Label, pc.Count))
	}

	return strings.Join(lines, "\n")
}

// Duration renders seconds as hours, switching to days past 24h.
func Duration(seconds float64) string {
	hours := seconds / 3600
	if hours >= 24 {
		return fmt.Sprintf("%.1f days", hours/24)
	}
	return fmt.Sprintf("%.1f hours", hours)
}

// Value formats a leaderboard value in the category's unit.
func Value(category string, v float64) string {
	switch category {
	case "total_playtime":
		return fmt.Sprintf("%.1f hours", v/3600)
	case "longest_life", "current_life_duration":
		return Duration(v)
	case "distance_traveled":
		return fmt.Sprintf("%.0f tiles", v)
	case "kill_death_ratio":
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

type skillLevel struct {
	skill string
	level int
}

// bestSkills reduces the level-up history to the top n skills by best level.
// Ties keep first-leveled-first order, matching the order players earned them.
func bestSkills(rec *model.PlayerRecord, n int) []skillLevel {
	best := make(map[string]int)
	var order []string
	for _, lu := range rec.LevelUps {
		if _, seen := best[lu.Skill]; !seen {
			order = append(order, lu.Skill)
		}
		if lu.Level > best[lu.Skill] {
			best[lu.Skill] = lu.Level
		}
	}

	out := make([]skillLevel, 0, len(order))
	for _, s := range order {
		out = append(out, skillLevel{skill: s, level: best[s]})
	}
	// Stable: equal levels stay in first-leveled order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].level > out[j].level })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func titleCase(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
