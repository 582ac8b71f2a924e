package assistant

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// nestedTextKeys are tried in order when a free-text field arrives as a
// nested object instead of a plain string.
var nestedTextKeys = []string{"text", "content", "value", "impression", "notes", "note", "remark"}

// stringField returns the first candidate key whose value coerces to a
// non-empty string. The backend spells the same logical field differently
// across entity kinds and revisions, so every parser looks fields up
// through an ordered candidate list.
func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		if s := coerceString(v); s != "" {
			return s
		}
	}
	return ""
}

// coerceString flattens the loose value shapes the backend uses: plain
// strings, numbers (ids are stringified), nested objects keyed by one of
// nestedTextKeys, and arrays whose coerced elements join with newlines.
func coerceString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]interface{}:
		for _, k := range nestedTextKeys {
			if inner, ok := t[k]; ok {
				if s := coerceString(inner); s != "" {
					return s
				}
			}
		}
		return ""
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := coerceString(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}
