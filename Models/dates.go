package Models

import (
	"strings"
	"time"
)

// The upstream lists and workbooks carry dates in day-first Mexican formats,
// ISO timestamps, or anything in between. Parsing is lenient: a value that
// matches no known layout yields nil and downstream windowed computations
// treat the row as having no window.

var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDayFirstDate parses a date or datetime string, day-first. Returns nil
// when the value is empty or unparsable.
func ParseDayFirstDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// NormalizeClock coerces a time-of-day value to HH:MM:SS. Accepts bare
// hours, HH:MM, HH:MM:SS, or a full datetime whose clock part is taken.
// Empty or unparsable values yield "".
func NormalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t := ParseDayFirstDate(s); t != nil && strings.ContainsAny(s, "/-T") {
		return t.Format("15:04:05")
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return parts[0] + ":00:00"
	case 2:
		return s + ":00"
	default:
		if len(s) > 8 {
			return s[:8]
		}
		return s
	}
}

// CombineDateTime joins a date with an HH:MM:SS clock. A nil date yields
// nil; an empty clock yields nil too, because a window boundary without a
// time of day cannot anchor toll attribution.
func CombineDateTime(date *time.Time, clock string) *time.Time {
	if date == nil || clock == "" {
		return nil
	}
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return nil
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return &combined
}

// CombineDateTimeOrMidnight is the lenient variant used for telemetry
// windows: a missing clock falls back to midnight.
func CombineDateTimeOrMidnight(date *time.Time, clock string) *time.Time {
	if date == nil {
		return nil
	}
	if combined := CombineDateTime(date, clock); combined != nil {
		return combined
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return &midnight
}
