// Package serverconf reads and edits Project Zomboid server configuration:
// the key=value INI file, its semicolon-joined mod lists, and the sandbox
// variables Lua file. Edits rewrite the backing file but touch only the
// lines they change.
package serverconf

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

var (
	// ErrModPresent is returned by AddMod when the workshop ID is already configured.
	ErrModPresent = errors.New("workshop id already in mod list")
	// ErrModAbsent is returned by RemoveMod when the identifier matches nothing.
	ErrModAbsent = errors.New("mod identifier not in config")
	// ErrSettingAbsent is returned by Sandbox.Set for a setting the file lacks.
	ErrSettingAbsent = errors.New("sandbox setting not found")
)

// Entry is one key=value pair, in file order.
type Entry struct {
	Key   string
	Value string
}

// Config is a loaded server INI file.
type Config struct {
	path  string
	lines []string
}

// LoadConfig reads the INI file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &Config{path: path, lines: strings.Split(string(data), "\n")}, nil
}

// Entries returns every key=value pair in file order. Comment lines and lines
// without an equals sign are skipped.
func (c *Config) Entries() []Entry {
	var entries []Entry
	for _, line := range c.lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		entries = append(entries, Entry{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return entries
}

// Get returns the value for key. ok is false when the file has no such key.
func (c *Config) Get(key string) (value string, ok bool) {
	for _, e := range c.Entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set replaces the value for key, or appends the pair when the key is new,
// and rewrites the file.
func (c *Config) Set(key, value string) error {
	replaced := false
	for i, line := range c.lines {
		if strings.HasPrefix(strings.TrimSpace(line), key+"=") {
			c.lines[i] = key + "=" + value
			replaced = true
			break
		}
	}
	if !replaced {
		c.lines = append(c.lines, key+"="+value)
	}
	return c.save()
}

func (c *Config) save() error {
	if err := os.WriteFile(c.path, []byte(strings.Join(c.lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write config %s: %w", c.path, err)
	}
	return nil
}

// Info returns the headline server facts in display order.
func (c *Config) Info() []Entry {
	get := func(key, fallback string) string {
		if v, ok := c.Get(key); ok && v != "" {
			return v
		}
		return fallback
	}
	password := "No"
	if v, ok := c.Get("Password"); ok && v != "" {
		password = "Yes"
	}
	return []Entry{
		{"Server Name", get("PublicName", "Unknown")},
		{"Description", get("PublicDescription", "N/A")},
		{"Max Players", get("MaxPlayers", "Unknown")},
		{"Map", get("Map", "Unknown")},
		{"PVP", get("PVP", "Unknown")},
		{"Public", get("Public", "Unknown")},
		{"Password Protected", password},
	}
}

// Mods returns the configured mod IDs.
func (c *Config) Mods() []string {
	v, _ := c.Get("Mods")
	return splitList(v)
}

// WorkshopItems returns the configured workshop IDs.
func (c *Config) WorkshopItems() []string {
	v, _ := c.Get("WorkshopItems")
	return splitList(v)
}

// AddMod appends a workshop ID (and its mod ID, when given) to the mod lists.
// The server must be restarted before the mod downloads.
func (c *Config) AddMod(workshopID, modID string) error {
	workshop := c.WorkshopItems()
	if slices.Contains(workshop, workshopID) {
		return fmt.Errorf("%w: %s", ErrModPresent, workshopID)
	}
	workshop = append(workshop, workshopID)
	if err := c.Set("WorkshopItems", strings.Join(workshop, ";")); err != nil {
		return err
	}
	if modID == "" {
		return nil
	}
	mods := c.Mods()
	if !slices.Contains(mods, modID) {
		mods = append(mods, modID)
	}
	return c.Set("Mods", strings.Join(mods, ";"))
}

// RemoveMod deletes identifier from both the workshop ID and mod ID lists.
func (c *Config) RemoveMod(identifier string) error {
	workshop, removedWorkshop := removeItem(c.WorkshopItems(), identifier)
	mods, removedMod := removeItem(c.Mods(), identifier)
	if !removedWorkshop && !removedMod {
		return fmt.Errorf("%w: %s", ErrModAbsent, identifier)
	}
	if err := c.Set("WorkshopItems", strings.Join(workshop, ";")); err != nil {
		return err
	}
	return c.Set("Mods", strings.Join(mods, ";"))
}

func splitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func removeItem(list []string, item string) ([]string, bool) {
	i := slices.Index(list, item)
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

// Sandbox is a loaded SandboxVars Lua file.
type Sandbox struct {
	path  string
	lines []string
}

// LoadSandbox reads the sandbox variables file at path.
func LoadSandbox(path string) (*Sandbox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sandbox %s: %w", path, err)
	}
	return &Sandbox{path: path, lines: strings.Split(string(data), "\n")}, nil
}

// Entries returns every "key = value," assignment in file order. Lua comments
// and the SandboxVars header are skipped.
func (s *Sandbox) Entries() []Entry {
	var entries []Entry
	for _, line := range s.lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "--") || strings.HasPrefix(line, "SandboxVars") {
			continue
		}
		key, value, found := strings.Cut(strings.TrimSuffix(line, ","), "=")
		if !found {
			continue
		}
		entries = append(entries, Entry{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return entries
}

// Get returns the value for key. ok is false when the file has no such setting.
func (s *Sandbox) Get(key string) (value string, ok bool) {
	for _, e := range s.Entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set updates an existing setting in place, keeping the line's indentation,
// and rewrites the file. Settings cannot be added, only changed.
func (s *Sandbox) Set(key, value string) error {
	for i, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, key+" =") && !strings.HasPrefix(trimmed, key+"=") {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		s.lines[i] = fmt.Sprintf("%s%s = %s,", indent, key, value)
		if err := os.WriteFile(s.path, []byte(strings.Join(s.lines, "\n")), 0644); err != nil {
			return fmt.Errorf("write sandbox %s: %w", s.path, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSettingAbsent, key)
}
