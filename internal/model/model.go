package model

import "time"

// EventKind tags a parsed log event.
type EventKind int

const (
	EventConnect EventKind = iota
	EventDisconnect
	EventZombieKilled
	EventDeath
	EventDistanceTraveled
	EventLevelUp
	EventItemCrafted
	EventVehicleEntered
	EventBuildingPlaced
)

// EventKinds lists every kind in recognizer-table order.
var EventKinds = []EventKind{
	EventConnect,
	EventDisconnect,
	EventZombieKilled,
	EventDeath,
	EventDistanceTraveled,
	EventLevelUp,
	EventItemCrafted,
	EventVehicleEntered,
	EventBuildingPlaced,
}

func (k EventKind) String() string {
	switch k {
	case EventConnect:
		return "player_connect"
	case EventDisconnect:
		return "player_disconnect"
	case EventZombieKilled:
		return "zombie_killed"
	case EventDeath:
		return "player_death"
	case EventDistanceTraveled:
		return "distance_traveled"
	case EventLevelUp:
		return "level_up"
	case EventItemCrafted:
		return "item_crafted"
	case EventVehicleEntered:
		return "vehicle_entered"
	case EventBuildingPlaced:
		return "building_placed"
	default:
		return "?"
	}
}

// ---- Events emitted by the parser ----

// LogEvent is one recognized occurrence in a log line. A single line can
// produce several events (one per matching recognizer). Events are transient:
// they exist only between parsing and the fold, and are never persisted.
type LogEvent struct {
	Kind      EventKind
	Username  string
	Timestamp *time.Time // nil when the line carried no parseable timestamp

	Distance   int    // EventDistanceTraveled: tiles
	Skill      string // EventLevelUp
	Level      int    // EventLevelUp
	Item       string // EventItemCrafted
	Building   string // EventBuildingPlaced
	DeathCause string // EventDeath: keyword-inferred cause, "Unknown" if none
}

// ---- Persisted statistics ----

// SkillLevelUp records one observed level-up. Best-level-per-skill is derived
// lazily, not maintained here.
type SkillLevelUp struct {
	Skill     string     `json:"skill"`
	Level     int        `json:"level"`
	Timestamp *time.Time `json:"timestamp"`
}

// LifeSegment is one completed life, closed by a death event. End is nil when
// the death line carried no timestamp; DurationSeconds is 0 in that case.
type LifeSegment struct {
	Start            time.Time  `json:"start"`
	End              *time.Time `json:"end"`
	DurationSeconds  float64    `json:"duration"`
	ZombiesKilled    int        `json:"zombies_killed"`
	DistanceTraveled int        `json:"distance_traveled"`
	ItemsCrafted     int        `json:"items_crafted"`
	BuildingsPlaced  int        `json:"buildings_placed"`
	DeathCause       string     `json:"death_cause"`
}

// PlayerRecord holds everything tracked for one username (the map key; the
// record itself does not repeat it). Counters come in three flavors: lifetime
// totals that never reset, current-life state that resets to zero on every
// death, and the combined counters the leaderboards read.
//
// With gapless ingestion, the life history plus the open life adds up to the
// lifetime totals for zombies and distance.
type PlayerRecord struct {
	// Lifetime totals (never reset).
	LifetimeZombiesKilled    int      `json:"lifetime_zombies_killed"`
	LifetimeDistanceTraveled int      `json:"lifetime_distance_traveled"`
	LifetimeItemsCrafted     []string `json:"lifetime_items_crafted"`
	LifetimeBuildingsPlaced  []string `json:"lifetime_buildings_placed"`

	// Current life (reset on death). CurrentLifeStart is nil when no life is
	// open, e.g. after a death line that carried no timestamp.
	CurrentLifeZombiesKilled    int        `json:"current_life_zombies_killed"`
	CurrentLifeDistanceTraveled int        `json:"current_life_distance_traveled"`
	CurrentLifeItemsCrafted     []string   `json:"current_life_items_crafted"`
	CurrentLifeBuildingsPlaced  []string   `json:"current_life_buildings_placed"`
	CurrentLifeStart            *time.Time `json:"current_life_start"`

	// Combined counters.
	Connections      int            `json:"connections"`
	Disconnections   int            `json:"disconnections"`
	ZombiesKilled    int            `json:"zombies_killed"`
	Deaths           int            `json:"deaths"`
	DeathCauses      []string       `json:"death_causes"`
	DeathTimestamps  []*time.Time   `json:"death_timestamps"`
	DistanceTraveled int            `json:"distance_traveled"`
	LevelUps         []SkillLevelUp `json:"level_ups"`
	ItemsCrafted     []string       `json:"items_crafted"`
	VehiclesEntered  int            `json:"vehicles_entered"`
	BuildingsPlaced  []string       `json:"buildings_placed"`

	FirstSeen *time.Time `json:"first_seen"`
	LastSeen  *time.Time `json:"last_seen"`
	LastDeath *time.Time `json:"last_death"`

	// Completed session durations in seconds, in pairing order.
	SessionTimes []float64 `json:"session_times"`

	// Completed lives, append-only.
	Lives []LifeSegment `json:"lives"`
}

// NewPlayerRecord returns a record with empty (non-nil) lists so that
// serialized snapshots carry [] rather than null for fresh players.
func NewPlayerRecord() *PlayerRecord {
	return &PlayerRecord{
		LifetimeItemsCrafted:       []string{},
		LifetimeBuildingsPlaced:    []string{},
		CurrentLifeItemsCrafted:    []string{},
		CurrentLifeBuildingsPlaced: []string{},
		DeathCauses:                []string{},
		DeathTimestamps:            []*time.Time{},
		LevelUps:                   []SkillLevelUp{},
		ItemsCrafted:               []string{},
		BuildingsPlaced:            []string{},
		SessionTimes:               []float64{},
		Lives:                      []LifeSegment{},
	}
}

func (r *PlayerRecord) KDRatio() float64 {
	deaths := r.Deaths
	if deaths == 0 {
		deaths = 1
	}
	return float64(r.ZombiesKilled) / float64(deaths)
}

// TotalPlaytimeSeconds sums completed session durations.
func (r *PlayerRecord) TotalPlaytimeSeconds() float64 {
	var total float64
	for _, s := range r.SessionTimes {
		total += s
	}
	return total
}

// LongestClosedLife returns the longest completed life, if any.
func (r *PlayerRecord) LongestClosedLife() (LifeSegment, bool) {
	if len(r.Lives) == 0 {
		return LifeSegment{}, false
	}
	best := r.Lives[0]
	for _, l := range r.Lives[1:] {
		if l.DurationSeconds > best.DurationSeconds {
			best = l
		}
	}
	return best, true
}

// LongestLifeSeconds is the longest completed life, or the elapsed time of the
// open life when nothing has closed yet. Closed lives win even when the open
// life has already outlasted them; the live estimate only fills the gap for
// players who have never died.
func (r *PlayerRecord) LongestLifeSeconds(now time.Time) (float64, bool) {
	if best, ok := r.LongestClosedLife(); ok {
		return best.DurationSeconds, true
	}
	if r.CurrentLifeStart != nil {
		return now.Sub(*r.CurrentLifeStart).Seconds(), true
	}
	return 0, false
}

// CurrentLifeSeconds is the elapsed time of the open life, false when none.
func (r *PlayerRecord) CurrentLifeSeconds(now time.Time) (float64, bool) {
	if r.CurrentLifeStart == nil {
		return 0, false
	}
	return now.Sub(*r.CurrentLifeStart).Seconds(), true
}

// BestSkillLevels reduces the level-up history to the highest level seen per
// skill.
func (r *PlayerRecord) BestSkillLevels() map[string]int {
	best := make(map[string]int)
	for _, lu := range r.LevelUps {
		if lvl, ok := best[lu.Skill]; !ok || lu.Level > lvl {
			best[lu.Skill] = lu.Level
		}
	}
	return best
}

// MostCommonDeathCause returns the modal death cause and its count. Ties go to
// the cause observed first.
func (r *PlayerRecord) MostCommonDeathCause() (string, int) {
	if len(r.DeathCauses) == 0 {
		return "", 0
	}
	counts := make(map[string]int, len(r.DeathCauses))
	for _, c := range r.DeathCauses {
		counts[c]++
	}
	best, bestN := "", 0
	for _, c := range r.DeathCauses { // iterate in observed order for stable ties
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best, bestN
}
