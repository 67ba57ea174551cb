package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// WriteSnapshotJSON dumps the mapping as indented JSON, usernames as keys.
// The layout matches the bot's legacy stats file, so exports stay readable by
// older tooling and by humans.
func WriteSnapshotJSON(path string, players map[string]*model.PlayerRecord) error {
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotJSON loads a JSON snapshot produced by WriteSnapshotJSON (or by
// the legacy bot). Unlike opening the store, importing a broken file is a
// caller mistake and reports an error.
func ReadSnapshotJSON(path string) (map[string]*model.PlayerRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var players map[string]*model.PlayerRecord
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if players == nil {
		players = make(map[string]*model.PlayerRecord)
	}
	return players, nil
}
