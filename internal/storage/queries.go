package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// ErrPlayerNotFound marks a username with no stored record.
var ErrPlayerNotFound = errors.New("player not found")

// snapshotTables, in delete order. Child tables first so the foreign keys
// hold mid-transaction.
var snapshotTables = []string{
	"lives",
	"sessions",
	"level_ups",
	"death_events",
	"crafted_items",
	"placed_buildings",
	"players",
}

// SaveSnapshot replaces the entire store with the given mapping in one
// transaction. Merge plus save is a single logical unit for callers: fold the
// batch into the loaded snapshot, then hand the whole snapshot back here.
func (db *DB) SaveSnapshot(players map[string]*model.PlayerRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range snapshotTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	playerStmt, err := tx.Prepare(`
		INSERT INTO players(
			username,
			lifetime_zombies_killed, lifetime_distance_traveled,
			current_life_zombies_killed, current_life_distance_traveled, current_life_start,
			connections, disconnections, zombies_killed, deaths,
			distance_traveled, vehicles_entered,
			first_seen, last_seen, last_death
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	lifeStmt, err := tx.Prepare(`
		INSERT INTO lives(
			username, seq, started_at, ended_at, duration_seconds,
			zombies_killed, distance_traveled, items_crafted, buildings_placed, death_cause
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer lifeStmt.Close()

	sessionStmt, err := tx.Prepare(`INSERT INTO sessions(username, seq, duration_seconds) VALUES (?,?,?)`)
	if err != nil {
		return err
	}
	defer sessionStmt.Close()

	levelStmt, err := tx.Prepare(`INSERT INTO level_ups(username, seq, skill, level, leveled_at) VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer levelStmt.Close()

	deathStmt, err := tx.Prepare(`INSERT INTO death_events(username, seq, cause, died_at) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer deathStmt.Close()

	itemStmt, err := tx.Prepare(`INSERT INTO crafted_items(username, scope, seq, label) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	buildingStmt, err := tx.Prepare(`INSERT INTO placed_buildings(username, scope, seq, label) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer buildingStmt.Close()

	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := players[name]
		_, err = playerStmt.Exec(
			name,
			rec.LifetimeZombiesKilled, rec.LifetimeDistanceTraveled,
			rec.CurrentLifeZombiesKilled, rec.CurrentLifeDistanceTraveled, encodeTime(rec.CurrentLifeStart),
			rec.Connections, rec.Disconnections, rec.ZombiesKilled, rec.Deaths,
			rec.DistanceTraveled, rec.VehiclesEntered,
			encodeTime(rec.FirstSeen), encodeTime(rec.LastSeen), encodeTime(rec.LastDeath),
		)
		if err != nil {
			return fmt.Errorf("insert player %q: %w", name, err)
		}

		for i, l := range rec.Lives {
			start := l.Start
			_, err = lifeStmt.Exec(
				name, i, encodeTime(&start), encodeTime(l.End), l.DurationSeconds,
				l.ZombiesKilled, l.DistanceTraveled, l.ItemsCrafted, l.BuildingsPlaced, l.DeathCause,
			)
			if err != nil {
				return fmt.Errorf("insert life for %q: %w", name, err)
			}
		}

		for i, s := range rec.SessionTimes {
			if _, err = sessionStmt.Exec(name, i, s); err != nil {
				return fmt.Errorf("insert session for %q: %w", name, err)
			}
		}

		for i, lu := range rec.LevelUps {
			if _, err = levelStmt.Exec(name, i, lu.Skill, lu.Level, encodeTime(lu.Timestamp)); err != nil {
				return fmt.Errorf("insert level_up for %q: %w", name, err)
			}
		}

		for i, cause := range rec.DeathCauses {
			var at *time.Time
			if i < len(rec.DeathTimestamps) {
				at = rec.DeathTimestamps[i]
			}
			if _, err = deathStmt.Exec(name, i, cause, encodeTime(at)); err != nil {
				return fmt.Errorf("insert death for %q: %w", name, err)
			}
		}

		for scope, labels := range map[string][]string{
			"combined":     rec.ItemsCrafted,
			"lifetime":     rec.LifetimeItemsCrafted,
			"current_life": rec.CurrentLifeItemsCrafted,
		} {
			for i, label := range labels {
				if _, err = itemStmt.Exec(name, scope, i, label); err != nil {
					return fmt.Errorf("insert item for %q: %w", name, err)
				}
			}
		}

		for scope, labels := range map[string][]string{
			"combined":     rec.BuildingsPlaced,
			"lifetime":     rec.LifetimeBuildingsPlaced,
			"current_life": rec.CurrentLifeBuildingsPlaced,
		} {
			for i, label := range labels {
				if _, err = buildingStmt.Exec(name, scope, i, label); err != nil {
					return fmt.Errorf("insert building for %q: %w", name, err)
				}
			}
		}
	}

	return tx.Commit()
}

// LoadSnapshot reads the whole store into memory. An empty database yields an
// empty mapping.
func (db *DB) LoadSnapshot() (map[string]*model.PlayerRecord, error) {
	players := make(map[string]*model.PlayerRecord)

	rows, err := db.conn.Query(`
		SELECT username,
			lifetime_zombies_killed, lifetime_distance_traveled,
			current_life_zombies_killed, current_life_distance_traveled, current_life_start,
			connections, disconnections, zombies_killed, deaths,
			distance_traveled, vehicles_entered,
			first_seen, last_seen, last_death
		FROM players`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rec := model.NewPlayerRecord()
		var name string
		var lifeStart, firstSeen, lastSeen, lastDeath sql.NullString
		if err := rows.Scan(
			&name,
			&rec.LifetimeZombiesKilled, &rec.LifetimeDistanceTraveled,
			&rec.CurrentLifeZombiesKilled, &rec.CurrentLifeDistanceTraveled, &lifeStart,
			&rec.Connections, &rec.Disconnections, &rec.ZombiesKilled, &rec.Deaths,
			&rec.DistanceTraveled, &rec.VehiclesEntered,
			&firstSeen, &lastSeen, &lastDeath,
		); err != nil {
			return nil, err
		}
		rec.CurrentLifeStart = decodeTime(lifeStart)
		rec.FirstSeen = decodeTime(firstSeen)
		rec.LastSeen = decodeTime(lastSeen)
		rec.LastDeath = decodeTime(lastDeath)
		players[name] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadLives(players); err != nil {
		return nil, fmt.Errorf("load lives: %w", err)
	}
	if err := db.loadSessions(players); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	if err := db.loadLevelUps(players); err != nil {
		return nil, fmt.Errorf("load level_ups: %w", err)
	}
	if err := db.loadDeaths(players); err != nil {
		return nil, fmt.Errorf("load deaths: %w", err)
	}
	if err := db.loadLabels(players, "crafted_items"); err != nil {
		return nil, fmt.Errorf("load crafted_items: %w", err)
	}
	if err := db.loadLabels(players, "placed_buildings"); err != nil {
		return nil, fmt.Errorf("load placed_buildings: %w", err)
	}

	return players, nil
}

// Player returns one player's record.
func (db *DB) Player(username string) (*model.PlayerRecord, error) {
	players, err := db.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	rec, ok := players[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, username)
	}
	return rec, nil
}

// QueryRaw runs an arbitrary query and returns column names plus stringified
// rows, for ad-hoc inspection.
func (db *DB) QueryRaw(query string) (cols []string, rows [][]string, err error) {
	res, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer res.Close()

	cols, err = res.Columns()
	if err != nil {
		return nil, nil, err
	}

	for res.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := res.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			switch t := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(t)
			default:
				row[i] = fmt.Sprintf("%v", t)
			}
		}
		rows = append(rows, row)
	}
	return cols, rows, res.Err()
}

func (db *DB) loadLives(players map[string]*model.PlayerRecord) error {
	rows, err := db.conn.Query(`
		SELECT username, started_at, ended_at, duration_seconds,
			zombies_killed, distance_traveled, items_crafted, buildings_placed, death_cause
		FROM lives ORDER BY username, seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var started sql.NullString
		var ended sql.NullString
		var seg model.LifeSegment
		if err := rows.Scan(&name, &started, &ended, &seg.DurationSeconds,
			&seg.ZombiesKilled, &seg.DistanceTraveled, &seg.ItemsCrafted, &seg.BuildingsPlaced, &seg.DeathCause); err != nil {
			return err
		}
		if t := decodeTime(started); t != nil {
			seg.Start = *t
		}
		seg.End = decodeTime(ended)
		if rec, ok := players[name]; ok {
			rec.Lives = append(rec.Lives, seg)
		}
	}
	return rows.Err()
}

func (db *DB) loadSessions(players map[string]*model.PlayerRecord) error {
	rows, err := db.conn.Query(`SELECT username, duration_seconds FROM sessions ORDER BY username, seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var dur float64
		if err := rows.Scan(&name, &dur); err != nil {
			return err
		}
		if rec, ok := players[name]; ok {
			rec.SessionTimes = append(rec.SessionTimes, dur)
		}
	}
	return rows.Err()
}

func (db *DB) loadLevelUps(players map[string]*model.PlayerRecord) error {
	rows, err := db.conn.Query(`SELECT username, skill, level, leveled_at FROM level_ups ORDER BY username, seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var lu model.SkillLevelUp
		var at sql.NullString
		if err := rows.Scan(&name, &lu.Skill, &lu.Level, &at); err != nil {
			return err
		}
		lu.Timestamp = decodeTime(at)
		if rec, ok := players[name]; ok {
			rec.LevelUps = append(rec.LevelUps, lu)
		}
	}
	return rows.Err()
}

func (db *DB) loadDeaths(players map[string]*model.PlayerRecord) error {
	rows, err := db.conn.Query(`SELECT username, cause, died_at FROM death_events ORDER BY username, seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, cause string
		var at sql.NullString
		if err := rows.Scan(&name, &cause, &at); err != nil {
			return err
		}
		if rec, ok := players[name]; ok {
			rec.DeathCauses = append(rec.DeathCauses, cause)
			rec.DeathTimestamps = append(rec.DeathTimestamps, decodeTime(at))
		}
	}
	return rows.Err()
}

func (db *DB) loadLabels(players map[string]*model.PlayerRecord, table string) error {
	rows, err := db.conn.Query(`SELECT username, scope, label FROM ` + table + ` ORDER BY username, scope, seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, scope, label string
		if err := rows.Scan(&name, &scope, &label); err != nil {
			return err
		}
		rec, ok := players[name]
		if !ok {
			continue
		}
		switch {
		case table == "crafted_items" && scope == "combined":
			rec.ItemsCrafted = append(rec.ItemsCrafted, label)
		case table == "crafted_items" && scope == "lifetime":
			rec.LifetimeItemsCrafted = append(rec.LifetimeItemsCrafted, label)
		case table == "crafted_items" && scope == "current_life":
			rec.CurrentLifeItemsCrafted = append(rec.CurrentLifeItemsCrafted, label)
		case table == "placed_buildings" && scope == "combined":
			rec.BuildingsPlaced = append(rec.BuildingsPlaced, label)
		case table == "placed_buildings" && scope == "lifetime":
			rec.LifetimeBuildingsPlaced = append(rec.LifetimeBuildingsPlaced, label)
		case table == "placed_buildings" && scope == "current_life":
			rec.CurrentLifeBuildingsPlaced = append(rec.CurrentLifeBuildingsPlaced, label)
		}
	}
	return rows.Err()
}

// encodeTime renders a timestamp for storage; nil stays NULL. RFC 3339 keeps
// the offset, so load returns the exact instant save was given.
func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

// decodeTime is lenient: NULL, empty, or unparseable text all come back nil
// rather than failing the whole load.
func decodeTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}
