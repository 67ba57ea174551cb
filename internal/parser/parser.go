package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/travisw1990/spiffo-pz-bot/internal/model"
)

// Server log lines come in the hoster's format:
//
//	LOG  : General     , 1737367200000> 123> [20-01-25 10:00:00.000] > message
//
// but lines also show up without the bracketed timestamp (older installs,
// chat relays), so every recognizer treats the timestamp prefix as optional.
// tsPrefix scans forward to the first bracket whose content looks like a
// timestamp; when no such bracket exists the group is skipped entirely.
const tsPrefix = `(?:.*?\[(?P<ts>[0-9:. \-]+)\]\s*)?.*?`

// recognizer binds an event kind to its compiled pattern. Every recognizer is
// tried against every line, in table order; one line can yield several events.
type recognizer struct {
	kind model.EventKind
	re   *regexp.Regexp
}

var recognizers = []recognizer{
	{model.EventConnect, regexp.MustCompile(`(?i)` + tsPrefix + `ConnectionManager:\s+\[fully-connected\].*?username="(?P<username>[^"]+)"`)},
	{model.EventDisconnect, regexp.MustCompile(`(?i)` + tsPrefix + `Disconnected player "(?P<username>[^"]+)"`)},
	{model.EventZombieKilled, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) killed a zombie`)},
	{model.EventDeath, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) died`)},
	{model.EventDistanceTraveled, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) traveled (?P<distance>\d+) tiles`)},
	{model.EventLevelUp, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) reached level (?P<level>\d+) in (?P<skill>\w+)`)},
	{model.EventItemCrafted, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) crafted (?P<item>[\w\s]+)`)},
	{model.EventVehicleEntered, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) entered vehicle`)},
	{model.EventBuildingPlaced, regexp.MustCompile(`(?i)` + tsPrefix + `(?P<username>\w+) placed (?P<building>[\w\s]+)`)},
}

// deathCauses maps a keyword found anywhere in a death line to the reported
// cause. Scanned in order; first hit wins.
var deathCauses = []struct {
	keyword string
	cause   string
}{
	{"zombie", "Zombie"},
	{"starvation", "Starvation"},
	{"dehydration", "Dehydration"},
	{"bleeding", "Blood Loss"},
	{"infection", "Infection"},
	{"fall", "Fall Damage"},
	{"fire", "Fire"},
	{"vehicle", "Vehicle Accident"},
}

// ParseLines runs every recognizer over every line and returns the events in
// encounter order: line by line, table order within a line. The fold depends
// on this ordering for life segmentation and session pairing.
func ParseLines(lines []string) []model.LogEvent {
	var events []model.LogEvent
	for _, line := range lines {
		events = append(events, ParseLine(line)...)
	}
	return events
}

// ParseLine returns every event recognized in one line. A match without a
// username is dropped; a match without a parseable timestamp is kept with a
// nil timestamp.
func ParseLine(line string) []model.LogEvent {
	var events []model.LogEvent
	for _, r := range recognizers {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields := groups(r.re, m)
		username := fields["username"]
		if username == "" {
			continue
		}

		ev := model.LogEvent{
			Kind:      r.kind,
			Username:  username,
			Timestamp: parseTimestamp(fields["ts"]),
		}
		switch r.kind {
		case model.EventDistanceTraveled:
			ev.Distance = atoiOrZero(fields["distance"])
		case model.EventLevelUp:
			ev.Skill = fields["skill"]
			ev.Level = atoiOrZero(fields["level"])
		case model.EventItemCrafted:
			ev.Item = fields["item"]
		case model.EventBuildingPlaced:
			ev.Building = fields["building"]
		case model.EventDeath:
			ev.DeathCause = DeathCause(line)
		}
		events = append(events, ev)
	}
	return events
}

// DeathCause scans the whole line for a known cause keyword,
// case-insensitively. Lines that name no known cause report "Unknown".
func DeathCause(line string) string {
	lower := strings.ToLower(line)
	for _, dc := range deathCauses {
		if strings.Contains(lower, dc.keyword) {
			return dc.cause
		}
	}
	return "Unknown"
}

func groups(re *regexp.Regexp, match []string) map[string]string {
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			out[name] = match[i]
		}
	}
	return out
}

// parseTimestamp tries the hoster's DD-MM-YY format (fractional seconds
// dropped) and then the standard YYYY-MM-DD format. Anything else is treated
// as "no timestamp", never an error. Log timestamps are wall-clock local time.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	truncated := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		truncated = s[:i]
	}
	if t, err := time.ParseInLocation("02-01-06 15:04:05", truncated, time.Local); err == nil {
		return &t
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return &t
	}
	return nil
}

// atoiOrZero coerces a malformed numeric field to zero; a bad number must
// never abort the batch.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
