package lovelace

import (
	"math"
	"strconv"
	"strings"
)

// Lovelace documents arrive either from JSON (numbers are float64, objects
// are map[string]any) or from YAML (numbers may be int). These helpers
// read loosely typed values without panicking.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// asMaps returns the map elements of a list, skipping anything else.
func asMaps(v any) []map[string]any {
	list, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, el := range list {
		if m, ok := asMap(el); ok {
			out = append(out, m)
		}
	}
	return out
}
