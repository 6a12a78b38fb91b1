package stats

import (
	"fmt"
	"strings"
	"time"
)

// LabelStyle selects how chart labels and headers are rendered.
type LabelStyle int

const (
	// Unified renders "day/month" with a 1-based month and the ["Day","Sales"] header for every scope.
	Unified LabelStyle = iota
	// Legacy reproduces the per-scope formats older dashboards expect.
	Legacy
)

// Scope is whose bookings a summary covers.
type Scope int

const (
	ScopeAdmin Scope = iota
	ScopeHost
	ScopeGuest
)

// invalidLabel is emitted for bookings whose date is missing or cannot be parsed.
const invalidLabel = "NaN/NaN"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	time.RFC1123,
	time.RFC1123Z,
	"January 2, 2006",
	"Jan 2, 2006",
}

// parseDate reads a client-supplied booking date. The zero time and false mean unparsable.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	// drop a trailing zone name such as " (Coordinated Universal Time)"
	if i := strings.Index(raw, " ("); i > 0 {
		raw = raw[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// header returns the chart header row.
func (s LabelStyle) header(scope Scope) []interface{} {
	if s == Legacy && scope == ScopeGuest {
		return []interface{}{"day", "buys"}
	}
	return []interface{}{"Day", "Sales"}
}

// label renders the day/month label for a raw booking date.
func (s LabelStyle) label(scope Scope, raw string) string {
	t, ok := parseDate(raw)
	if s != Legacy {
		if !ok {
			return invalidLabel
		}
		return fmt.Sprintf("%d/%d", t.Day(), int(t.Month()))
	}
	day, month := "NaN", "NaN"
	if ok {
		day = fmt.Sprint(t.Day())
		// 0-based months for host and guest
		m := int(t.Month()) - 1
		if scope == ScopeAdmin {
			m++
		}
		month = fmt.Sprint(m)
	}
	if scope == ScopeHost {
		return day + "/ " + month
	}
	return day + "/" + month
}
