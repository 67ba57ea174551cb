package aggregator

import (
	"sort"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// Summary describes what one batch did to the store.
type Summary struct {
	Events      int
	EventCounts map[model.EventKind]int
	Touched     []string // usernames updated this batch, sorted
	Created     []string // usernames first seen this batch, sorted
}

// Apply folds a batch of events into players, in batch order. The map is the
// store snapshot itself: folding into existing records is what makes repeated
// ingestion merge by addition, lets a death mid-batch close a life that was
// opened in an earlier batch, and keeps first/last-seen min/max correct.
//
// Pending session starts live only for the duration of the batch; a connect
// whose disconnect falls outside the window contributes no session time.
// Ingesting the same lines twice double-counts. That is intentional: callers
// feed only newly observed lines.
func Apply(players map[string]*model.PlayerRecord, events []model.LogEvent) Summary {
	pending := make(map[string]*time.Time) // open session starts, batch-local
	counts := make(map[model.EventKind]int)
	touched := make(map[string]bool)
	var created []string

	for _, ev := range events {
		if ev.Username == "" {
			continue
		}
		rec, ok := players[ev.Username]
		if !ok {
			rec = model.NewPlayerRecord()
			players[ev.Username] = rec
			created = append(created, ev.Username)
		}
		touched[ev.Username] = true
		counts[ev.Kind]++

		// Min/max bookkeeping runs before the kind-specific handling.
		if ts := ev.Timestamp; ts != nil {
			if rec.FirstSeen == nil || ts.Before(*rec.FirstSeen) {
				rec.FirstSeen = copyTime(ts)
			}
			if rec.LastSeen == nil || ts.After(*rec.LastSeen) {
				rec.LastSeen = copyTime(ts)
			}
		}

		switch ev.Kind {
		case model.EventConnect:
			rec.Connections++
			// An unmatched earlier start is overwritten, not paired.
			pending[ev.Username] = copyTime(ev.Timestamp)
			if rec.CurrentLifeStart == nil {
				rec.CurrentLifeStart = copyTime(ev.Timestamp)
			}

		case model.EventDisconnect:
			rec.Disconnections++
			if start, open := pending[ev.Username]; open {
				if start != nil && ev.Timestamp != nil {
					rec.SessionTimes = append(rec.SessionTimes, ev.Timestamp.Sub(*start).Seconds())
				}
				delete(pending, ev.Username)
			}

		case model.EventZombieKilled:
			rec.ZombiesKilled++
			rec.LifetimeZombiesKilled++
			rec.CurrentLifeZombiesKilled++

		case model.EventDeath:
			rec.Deaths++
			rec.DeathCauses = append(rec.DeathCauses, ev.DeathCause)
			rec.DeathTimestamps = append(rec.DeathTimestamps, copyTime(ev.Timestamp))
			rec.LastDeath = copyTime(ev.Timestamp)
			if rec.CurrentLifeStart != nil {
				seg := model.LifeSegment{
					Start:            *rec.CurrentLifeStart,
					End:              copyTime(ev.Timestamp),
					ZombiesKilled:    rec.CurrentLifeZombiesKilled,
					DistanceTraveled: rec.CurrentLifeDistanceTraveled,
					ItemsCrafted:     len(rec.CurrentLifeItemsCrafted),
					BuildingsPlaced:  len(rec.CurrentLifeBuildingsPlaced),
					DeathCause:       ev.DeathCause,
				}
				if ev.Timestamp != nil {
					seg.DurationSeconds = ev.Timestamp.Sub(*rec.CurrentLifeStart).Seconds()
				}
				rec.Lives = append(rec.Lives, seg)
			}
			// The next life begins at the death instant. A death with no
			// timestamp leaves no life open until the next connect.
			rec.CurrentLifeZombiesKilled = 0
			rec.CurrentLifeDistanceTraveled = 0
			rec.CurrentLifeItemsCrafted = []string{}
			rec.CurrentLifeBuildingsPlaced = []string{}
			rec.CurrentLifeStart = copyTime(ev.Timestamp)

		case model.EventDistanceTraveled:
			rec.DistanceTraveled += ev.Distance
			rec.LifetimeDistanceTraveled += ev.Distance
			rec.CurrentLifeDistanceTraveled += ev.Distance

		case model.EventLevelUp:
			rec.LevelUps = append(rec.LevelUps, model.SkillLevelUp{
				Skill:     ev.Skill,
				Level:     ev.Level,
				Timestamp: copyTime(ev.Timestamp),
			})

		case model.EventItemCrafted:
			rec.ItemsCrafted = append(rec.ItemsCrafted, ev.Item)
			rec.LifetimeItemsCrafted = append(rec.LifetimeItemsCrafted, ev.Item)
			rec.CurrentLifeItemsCrafted = append(rec.CurrentLifeItemsCrafted, ev.Item)

		case model.EventVehicleEntered:
			rec.VehiclesEntered++

		case model.EventBuildingPlaced:
			rec.BuildingsPlaced = append(rec.BuildingsPlaced, ev.Building)
			rec.LifetimeBuildingsPlaced = append(rec.LifetimeBuildingsPlaced, ev.Building)
			rec.CurrentLifeBuildingsPlaced = append(rec.CurrentLifeBuildingsPlaced, ev.Building)
		}
	}

	names := make([]string, 0, len(touched))
	for n := range touched {
		names = append(names, n)
	}
	sort.Strings(names)
	sort.Strings(created)

	return Summary{
		Events:      len(events),
		EventCounts: counts,
		Touched:     names,
		Created:     created,
	}
}

// copyTime detaches a timestamp from the event that carried it.
func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
