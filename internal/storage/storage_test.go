package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// openMemDB opens an in-memory store for one test.
func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fullRecord builds a record exercising every persisted field.
func fullRecord() *model.PlayerRecord {
	start := time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	rec := model.NewPlayerRecord()
	rec.LifetimeZombiesKilled = 12
	rec.LifetimeDistanceTraveled = 340
	rec.LifetimeItemsCrafted = []string{"Stone Axe", "Bandage"}
	rec.LifetimeBuildingsPlaced = []string{"Wooden Wall"}
	rec.CurrentLifeZombiesKilled = 2
	rec.CurrentLifeDistanceTraveled = 40
	rec.CurrentLifeItemsCrafted = []string{"Bandage"}
	rec.CurrentLifeStart = &end
	rec.Connections = 3
	rec.Disconnections = 2
	rec.ZombiesKilled = 12
	rec.Deaths = 1
	rec.DeathCauses = []string{"Zombie"}
	rec.DeathTimestamps = []*time.Time{&end}
	rec.DistanceTraveled = 340
	rec.LevelUps = []model.SkillLevelUp{{Skill: "carpentry", Level: 4, Timestamp: &start}}
	rec.ItemsCrafted = []string{"Stone Axe", "Bandage"}
	rec.VehiclesEntered = 1
	rec.BuildingsPlaced = []string{"Wooden Wall"}
	rec.FirstSeen = &start
	rec.LastSeen = &end
	rec.LastDeath = &end
	rec.SessionTimes = []float64{3600, 1800}
	rec.Lives = []model.LifeSegment{{
		Start:            start,
		End:              &end,
		DurationSeconds:  3600,
		ZombiesKilled:    10,
		DistanceTraveled: 300,
		ItemsCrafted:     1,
		BuildingsPlaced:  1,
		DeathCause:       "Zombie",
	}}
	return rec
}

// TestSnapshotRoundTrip: save then load returns the same records, including
// timestamps and the per-scope label lists.
func TestSnapshotRoundTrip(t *testing.T) {
	db := openMemDB(t)

	saved := map[string]*model.PlayerRecord{
		"alice": fullRecord(),
		"bob":   model.NewPlayerRecord(),
	}
	if err := db.SaveSnapshot(saved); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("want 2 players, got %d", len(loaded))
	}

	got, want := loaded["alice"], saved["alice"]
	if got == nil {
		t.Fatal("alice missing after round trip")
	}
	if got.ZombiesKilled != want.ZombiesKilled || got.Deaths != want.Deaths ||
		got.Connections != want.Connections || got.Disconnections != want.Disconnections ||
		got.DistanceTraveled != want.DistanceTraveled || got.VehiclesEntered != want.VehiclesEntered {
		t.Errorf("counters changed: got %+v", got)
	}
	if got.LifetimeZombiesKilled != 12 || got.LifetimeDistanceTraveled != 340 {
		t.Errorf("lifetime totals: want 12/340, got %d/%d", got.LifetimeZombiesKilled, got.LifetimeDistanceTraveled)
	}
	if got.CurrentLifeZombiesKilled != 2 || got.CurrentLifeDistanceTraveled != 40 {
		t.Errorf("current-life counters: want 2/40, got %d/%d", got.CurrentLifeZombiesKilled, got.CurrentLifeDistanceTraveled)
	}
	if got.FirstSeen == nil || !got.FirstSeen.Equal(*want.FirstSeen) {
		t.Errorf("FirstSeen: want %v, got %v", want.FirstSeen, got.FirstSeen)
	}
	if got.LastSeen == nil || !got.LastSeen.Equal(*want.LastSeen) {
		t.Errorf("LastSeen: want %v, got %v", want.LastSeen, got.LastSeen)
	}
	if got.CurrentLifeStart == nil || !got.CurrentLifeStart.Equal(*want.CurrentLifeStart) {
		t.Errorf("CurrentLifeStart: want %v, got %v", want.CurrentLifeStart, got.CurrentLifeStart)
	}

	if len(got.Lives) != 1 {
		t.Fatalf("Lives: want 1, got %d", len(got.Lives))
	}
	life := got.Lives[0]
	if !life.Start.Equal(want.Lives[0].Start) || life.End == nil || !life.End.Equal(*want.Lives[0].End) {
		t.Errorf("life bounds changed: %+v", life)
	}
	if life.DurationSeconds != 3600 || life.ZombiesKilled != 10 || life.DeathCause != "Zombie" {
		t.Errorf("life fields changed: %+v", life)
	}

	if len(got.SessionTimes) != 2 || got.SessionTimes[0] != 3600 || got.SessionTimes[1] != 1800 {
		t.Errorf("SessionTimes: want [3600 1800], got %v", got.SessionTimes)
	}
	if len(got.LevelUps) != 1 || got.LevelUps[0].Skill != "carpentry" || got.LevelUps[0].Level != 4 {
		t.Errorf("LevelUps: want carpentry 4, got %+v", got.LevelUps)
	}
	if got.LevelUps[0].Timestamp == nil || !got.LevelUps[0].Timestamp.Equal(*want.LevelUps[0].Timestamp) {
		t.Errorf("level-up timestamp: want %v, got %v", want.LevelUps[0].Timestamp, got.LevelUps[0].Timestamp)
	}
	if len(got.DeathCauses) != 1 || got.DeathCauses[0] != "Zombie" {
		t.Errorf("DeathCauses: want [Zombie], got %v", got.DeathCauses)
	}
	if len(got.DeathTimestamps) != 1 || got.DeathTimestamps[0] == nil ||
		!got.DeathTimestamps[0].Equal(*want.DeathTimestamps[0]) {
		t.Errorf("DeathTimestamps: want %v, got %v", want.DeathTimestamps, got.DeathTimestamps)
	}

	// Label lists keep their scope.
	if len(got.ItemsCrafted) != 2 || got.ItemsCrafted[0] != "Stone Axe" {
		t.Errorf("ItemsCrafted: want [Stone Axe Bandage], got %v", got.ItemsCrafted)
	}
	if len(got.LifetimeItemsCrafted) != 2 {
		t.Errorf("LifetimeItemsCrafted: want 2, got %v", got.LifetimeItemsCrafted)
	}
	if len(got.CurrentLifeItemsCrafted) != 1 || got.CurrentLifeItemsCrafted[0] != "Bandage" {
		t.Errorf("CurrentLifeItemsCrafted: want [Bandage], got %v", got.CurrentLifeItemsCrafted)
	}
	if len(got.BuildingsPlaced) != 1 || got.BuildingsPlaced[0] != "Wooden Wall" {
		t.Errorf("BuildingsPlaced: want [Wooden Wall], got %v", got.BuildingsPlaced)
	}
	if len(got.CurrentLifeBuildingsPlaced) != 0 {
		t.Errorf("CurrentLifeBuildingsPlaced: want empty, got %v", got.CurrentLifeBuildingsPlaced)
	}

	// The empty record survives too.
	bob := loaded["bob"]
	if bob == nil {
		t.Fatal("bob missing after round trip")
	}
	if bob.ZombiesKilled != 0 || len(bob.Lives) != 0 || bob.FirstSeen != nil {
		t.Errorf("bob changed: %+v", bob)
	}
}

// TestSaveSnapshot_Replaces: saving overwrites the previous contents entirely.
func TestSaveSnapshot_Replaces(t *testing.T) {
	db := openMemDB(t)
	if err := db.SaveSnapshot(map[string]*model.PlayerRecord{"alice": fullRecord()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := db.SaveSnapshot(map[string]*model.PlayerRecord{"bob": model.NewPlayerRecord()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("want 1 player after replace, got %d", len(loaded))
	}
	if _, ok := loaded["bob"]; !ok {
		t.Error("bob missing after replace")
	}
}

// TestLoadSnapshot_Empty: a fresh store yields an empty mapping.
func TestLoadSnapshot_Empty(t *testing.T) {
	db := openMemDB(t)
	players, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(players) != 0 {
		t.Errorf("want no players, got %d", len(players))
	}
}

// TestPlayer: lookups hit, and misses wrap ErrPlayerNotFound.
func TestPlayer(t *testing.T) {
	db := openMemDB(t)
	if err := db.SaveSnapshot(map[string]*model.PlayerRecord{"alice": fullRecord()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	rec, err := db.Player("alice")
	if err != nil {
		t.Fatalf("Player(alice): %v", err)
	}
	if rec.ZombiesKilled != 12 {
		t.Errorf("ZombiesKilled: want 12, got %d", rec.ZombiesKilled)
	}

	if _, err := db.Player("nobody"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Player(nobody): want ErrPlayerNotFound, got %v", err)
	}
}

// TestQueryRaw: ad-hoc SQL comes back as stringified rows.
func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	players := map[string]*model.PlayerRecord{
		"alice": fullRecord(),
		"bob":   model.NewPlayerRecord(),
	}
	if err := db.SaveSnapshot(players); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT username, zombies_killed FROM players ORDER BY username")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "username" || cols[1] != "zombies_killed" {
		t.Errorf("columns: want [username zombies_killed], got %v", cols)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "alice" || rows[0][1] != "12" {
		t.Errorf("row 0: want alice/12, got %v", rows[0])
	}
	if rows[1][0] != "bob" || rows[1][1] != "0" {
		t.Errorf("row 1: want bob/0, got %v", rows[1])
	}
}

// TestOpen_Persistence: data saved through one handle is visible after
// reopening the same file.
func TestOpen_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.SaveSnapshot(map[string]*model.PlayerRecord{"alice": fullRecord()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	players, err := db2.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(players) != 1 {
		t.Errorf("want 1 player after reopen, got %d", len(players))
	}
}

// TestOpen_CorruptSideline: a file that is not a database gets moved aside
// and replaced with a fresh store.
func TestOpen_CorruptSideline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	if err := os.WriteFile(path, []byte("definitely not a sqlite file"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open over corrupt file: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("sidelined copy missing: %v", err)
	}

	players, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(players) != 0 {
		t.Errorf("fresh store: want no players, got %d", len(players))
	}
}

// TestSnapshotJSON_RoundTrip: the JSON export reads back identically.
func TestSnapshotJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	saved := map[string]*model.PlayerRecord{"alice": fullRecord()}
	if err := WriteSnapshotJSON(path, saved); err != nil {
		t.Fatalf("WriteSnapshotJSON: %v", err)
	}

	loaded, err := ReadSnapshotJSON(path)
	if err != nil {
		t.Fatalf("ReadSnapshotJSON: %v", err)
	}
	rec := loaded["alice"]
	if rec == nil {
		t.Fatal("alice missing after round trip")
	}
	if rec.ZombiesKilled != 12 || len(rec.Lives) != 1 || len(rec.SessionTimes) != 2 {
		t.Errorf("round trip lost fields: %+v", rec)
	}
	if rec.FirstSeen == nil || !rec.FirstSeen.Equal(*saved["alice"].FirstSeen) {
		t.Errorf("FirstSeen: want %v, got %v", saved["alice"].FirstSeen, rec.FirstSeen)
	}
}

// TestReadSnapshotJSON_Invalid: a broken file is the caller's error.
func TestReadSnapshotJSON_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := ReadSnapshotJSON(path); err == nil {
		t.Error("want decode error, got nil")
	}
}
