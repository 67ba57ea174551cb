package format

import (
	"strings"
	"testing"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/analytics"
	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

var now = time.Date(2025, time.January, 20, 12, 0, 0, 0, time.UTC)

// TestPlayerStats: the chat rendering carries every populated section.
func TestPlayerStats(t *testing.T) {
	rec := model.NewPlayerRecord()
	rec.CurrentLifeZombiesKilled = 3
	rec.CurrentLifeDistanceTraveled = 120
	start := now.Add(-2 * time.Hour)
	rec.CurrentLifeStart = &start
	rec.LifetimeZombiesKilled = 40
	rec.LifetimeDistanceTraveled = 900
	rec.Deaths = 2
	rec.VehiclesEntered = 1
	rec.Connections = 5
	rec.SessionTimes = []float64{7200}
	rec.Lives = []model.LifeSegment{{DurationSeconds: 5400, DeathCause: "Zombie"}}
	rec.LevelUps = []model.SkillLevelUp{
		{Skill: "carpentry", Level: 3},
		{Skill: "carpentry", Level: 5},
		{Skill: "cooking", Level: 2},
	}
	rec.DeathCauses = []string{"Zombie", "Fire", "Zombie"}

	out := PlayerStats("Alice", rec, now)
	for _, want := range []string{
		"**Alice's Statistics**",
		"🧟 Zombies Killed: 3",
		"🚶 Distance Traveled: 120 tiles",
		"⏱️  Survival Time: (2.0 hours)",
		"🧟 Zombies Killed: 40",
		"💀 Deaths: 2",
		"🏆 Longest Life: 1.5 hours",
		"⏱️ Total Playtime: 2.0 hours",
		"• carpentry: Level 5",
		"• cooking: Level 2",
		"⚠️ Most Common Death: Zombie (2x)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PlayerStats output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Level 3") {
		t.Error("best-level reduction failed: carpentry Level 3 leaked into the output")
	}
}

// TestPlayerStats_Empty: a fresh record renders placeholders, not noise.
func TestPlayerStats_Empty(t *testing.T) {
	out := PlayerStats("Bob", model.NewPlayerRecord(), now)
	if !strings.Contains(out, "⏱️  Survival Time: 0 hours") {
		t.Errorf("want zero survival placeholder, got:\n%s", out)
	}
	if strings.Contains(out, "🏆 Longest Life") {
		t.Error("longest-life line should be absent with no closed lives")
	}
	if strings.Contains(out, "Skill Levels") {
		t.Error("skill section should be absent with no level-ups")
	}
	if strings.Contains(out, "Most Common Death") {
		t.Error("death section should be absent with no deaths")
	}
}

// TestLeaderboard_Medals: top three get medals, the rest get numbers.
func TestLeaderboard_Medals(t *testing.T) {
	entries := []analytics.Entry{
		{Username: "amy", Value: 40},
		{Username: "bob", Value: 30},
		{Username: "cal", Value: 20},
		{Username: "dan", Value: 10},
	}
	out := Leaderboard("zombies_killed", entries, 10)
	for _, want := range []string{
		"**🧟 Zombie Slayers**",
		"🥇 **amy**: 40",
		"🥈 **bob**: 30",
		"🥉 **cal**: 20",
		"4. **dan**: 10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("leaderboard missing %q\n%s", want, out)
		}
	}
}

// TestLeaderboard_TopN: topN cuts the tail; unnamed categories title-case.
func TestLeaderboard_TopN(t *testing.T) {
	entries := []analytics.Entry{
		{Username: "amy", Value: 2},
		{Username: "bob", Value: 1},
	}
	out := Leaderboard("most_deaths", entries, 1)
	if !strings.Contains(out, "**Most Deaths**") {
		t.Errorf("want title-cased fallback header, got:\n%s", out)
	}
	if strings.Contains(out, "bob") {
		t.Error("topN=1 should cut the second entry")
	}
}

// TestSummary_Empty: no players renders the placeholder message.
func TestSummary_Empty(t *testing.T) {
	out := Summary(analytics.SummaryStats{})
	if out != "No player statistics available yet." {
		t.Errorf("want empty-store message, got %q", out)
	}
}

// TestSummary: totals and the playstyle distribution render together.
func TestSummary(t *testing.T) {
	s := analytics.SummaryStats{
		TotalPlayers:          2,
		TotalZombiesKilled:    103,
		TotalDeaths:           2,
		TotalDistanceTraveled: 50,
		TotalPlaytimeSeconds:  5400,
		Playstyles: []analytics.PlaystyleCount{
			{Label: analytics.StyleCasual, Count: 2},
		},
	}
	out := Summary(s)
	for _, want := range []string{
		"👥 Total Players: 2",
		"🧟 Total Zombies Killed: 103",
		"💀 Total Deaths: 2",
		"🚶 Total Distance Traveled: 50 tiles",
		"⏱️ Total Playtime: 1.5 hours",
		"• Casual Survivor: 2 player(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

// ---- Unit formatting tests ----

// TestDuration: hours below a day, days past it.
func TestDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{1800, "0.5 hours"},
		{3600, "1.0 hours"},
		{86040, "23.9 hours"},
		{86400, "1.0 days"},
		{172800, "2.0 days"},
	}
	for _, c := range cases {
		if got := Duration(c.seconds); got != c.want {
			t.Errorf("Duration(%v): want %q, got %q", c.seconds, c.want, got)
		}
	}
}

// TestValue: each category renders in its own unit.
func TestValue(t *testing.T) {
	cases := []struct {
		category string
		v        float64
		want     string
	}{
		{"zombies_killed", 42, "42"},
		{"most_deaths", 7, "7"},
		{"distance_traveled", 1234, "1234 tiles"},
		{"total_playtime", 7200, "2.0 hours"},
		{"longest_life", 90000, "1.0 days"},
		{"current_life_duration", 1800, "0.5 hours"},
		{"kill_death_ratio", 2.5, "2.50"},
	}
	for _, c := range cases {
		if got := Value(c.category, c.v); got != c.want {
			t.Errorf("Value(%s, %v): want %q, got %q", c.category, c.v, c.want, got)
		}
	}
}
