package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// ErrUnknownCategory reports a leaderboard request for a category that does
// not exist. Distinct from a valid category with no qualifying players, which
// yields an empty board and no error.
var ErrUnknownCategory = errors.New("unknown leaderboard category")

// Entry is one leaderboard row. Value is a count, a ratio, or seconds
// depending on the category; rendering decides the unit.
type Entry struct {
	Username string
	Value    float64
}

// Playstyle labels, assigned by an ordered decision list.
const (
	StyleFighter  = "Combat-Focused Fighter"
	StyleExplorer = "Explorer/Looter"
	StyleBuilder  = "Builder/Crafter"
	StyleHighRisk = "High-Risk Player"
	StyleRegular  = "Regular Player"
	StyleCasual   = "Casual Survivor"
)

// Categories lists every leaderboard category, in presentation order.
func Categories() []string {
	return []string{
		"zombies_killed",
		"distance_traveled",
		"buildings_placed",
		"items_crafted",
		"total_playtime",
		"longest_life",
		"current_life_duration",
		"kill_death_ratio",
		"most_deaths",
	}
}

// Leaderboard ranks all players for one category, descending. Ties keep
// ascending-username order, so repeated calls over the same snapshot rank
// identically. now feeds the live-duration categories.
func Leaderboard(players map[string]*model.PlayerRecord, category string, now time.Time) ([]Entry, error) {
	switch category {
	case "zombies_killed":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return float64(r.ZombiesKilled), true
		}), nil
	case "distance_traveled":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return float64(r.DistanceTraveled), true
		}), nil
	case "buildings_placed":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return float64(len(r.BuildingsPlaced)), true
		}), nil
	case "items_crafted":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return float64(len(r.ItemsCrafted)), true
		}), nil
	case "total_playtime":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return r.TotalPlaytimeSeconds(), true
		}), nil
	case "longest_life":
		// Players with no closed life and no open life are excluded; an open
		// life is estimated against now when nothing has closed yet.
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return r.LongestLifeSeconds(now)
		}), nil
	case "current_life_duration":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return r.CurrentLifeSeconds(now)
		}), nil
	case "kill_death_ratio":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return r.KDRatio(), true
		}), nil
	case "most_deaths":
		return rank(players, func(r *model.PlayerRecord) (float64, bool) {
			return float64(r.Deaths), true
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}

// Leaderboards builds every category at once.
func Leaderboards(players map[string]*model.PlayerRecord, now time.Time) map[string][]Entry {
	boards := make(map[string][]Entry, len(Categories()))
	for _, c := range Categories() {
		board, _ := Leaderboard(players, c, now)
		boards[c] = board
	}
	return boards
}

func rank(players map[string]*model.PlayerRecord, value func(*model.PlayerRecord) (float64, bool)) []Entry {
	entries := make([]Entry, 0, len(players))
	for _, name := range sortedUsernames(players) {
		if v, ok := value(players[name]); ok {
			entries = append(entries, Entry{Username: name, Value: v})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// Playstyle classifies one player. The decision list is ordered; the first
// matching rule wins even when later rules would also apply.
func Playstyle(rec *model.PlayerRecord) string {
	zombies := rec.ZombiesKilled
	distance := rec.DistanceTraveled
	buildings := len(rec.BuildingsPlaced)
	crafts := len(rec.ItemsCrafted)

	switch {
	case zombies > 50 && float64(zombies) > float64(distance)/10:
		return StyleFighter
	case distance > 1000 && distance > zombies*10:
		return StyleExplorer
	case buildings > 20 || crafts > 50:
		return StyleBuilder
	case rec.Deaths > 5:
		return StyleHighRisk
	case rec.Connections > 10:
		return StyleRegular
	default:
		return StyleCasual
	}
}

// Playstyles classifies every player.
func Playstyles(players map[string]*model.PlayerRecord) map[string]string {
	profiles := make(map[string]string, len(players))
	for name, rec := range players {
		profiles[name] = Playstyle(rec)
	}
	return profiles
}

// PlaystyleCount is one histogram bucket.
type PlaystyleCount struct {
	Label string
	Count int
}

// SummaryStats is the server-wide rollup.
type SummaryStats struct {
	TotalPlayers          int
	TotalZombiesKilled    int
	TotalDeaths           int
	TotalDistanceTraveled int
	TotalPlaytimeSeconds  float64
	Playstyles            []PlaystyleCount // by count descending, label ascending on ties
}

// Summarize rolls the whole snapshot up into server-wide totals and a
// playstyle histogram.
func Summarize(players map[string]*model.PlayerRecord) SummaryStats {
	s := SummaryStats{TotalPlayers: len(players)}
	styleCounts := make(map[string]int)
	for _, rec := range players {
		s.TotalZombiesKilled += rec.ZombiesKilled
		s.TotalDeaths += rec.Deaths
		s.TotalDistanceTraveled += rec.DistanceTraveled
		s.TotalPlaytimeSeconds += rec.TotalPlaytimeSeconds()
		styleCounts[Playstyle(rec)]++
	}
	for label, count := range styleCounts {
		s.Playstyles = append(s.Playstyles, PlaystyleCount{Label: label, Count: count})
	}
	sort.Slice(s.Playstyles, func(i, j int) bool {
		if s.Playstyles[i].Count != s.Playstyles[j].Count {
			return s.Playstyles[i].Count > s.Playstyles[j].Count
		}
		return s.Playstyles[i].Label < s.Playstyles[j].Label
	})
	return s
}

// ModScore is one mod-category recommendation in [0, 1].
type ModScore struct {
	Category string
	Score    float64
}

// Recommendations scores six mod categories from aggregate behavior. An empty
// snapshot yields no scores (the averages are undefined), not an error.
func Recommendations(players map[string]*model.PlayerRecord) []ModScore {
	n := len(players)
	if n == 0 {
		return nil
	}

	var zombies, buildings, crafts, distance, vehicles, deaths int
	for _, rec := range players {
		zombies += rec.ZombiesKilled
		buildings += len(rec.BuildingsPlaced)
		crafts += len(rec.ItemsCrafted)
		distance += rec.DistanceTraveled
		vehicles += rec.VehiclesEntered
		deaths += rec.Deaths
	}

	fn := float64(n)
	avgZombies := float64(zombies) / fn
	avgBuildings := float64(buildings) / fn
	avgCrafts := float64(crafts) / fn

	return []ModScore{
		{"combat", capped(avgZombies / 100)},
		{"building", capped(avgBuildings / 50)},
		{"crafting", capped(avgCrafts / 100)},
		{"vehicles", capped(float64(vehicles) / (fn * 10))},
		{"exploration", capped(float64(distance) / (fn * 1000))},
		{"difficulty", capped(float64(deaths) / (fn * 3))},
	}
}

func capped(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func sortedUsernames(players map[string]*model.PlayerRecord) []string {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
