package assistant

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order: ISO-8601 with and without fractional
// seconds, then the fixed locale-invariant patterns the backend falls back
// to.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses a backend timestamp. Offset-free strings are read
// as UTC: the backend is inconsistent about implied zones, and treating
// that as a server defect keeps the client deterministic. A value matching
// no layout is absent, not an error.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timestampField returns the first candidate key holding a parseable
// timestamp.
func timestampField(m map[string]interface{}, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if t, ok := parseTimestamp(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
