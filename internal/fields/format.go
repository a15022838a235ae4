package fields

import (
	"sort"
	"strings"
)

// Line is one display row: the schema key, its label, and the rendered value.
type Line struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Format renders a FieldMap for display in schema order. Null fields are
// elided entirely; nested maps flatten to "k: v" pairs sorted by key; lists
// render as bulleted items on one line.
func Format(fm FieldMap) []Line {
	lines := make([]Line, 0, len(SchemaKeys))
	for _, key := range SchemaKeys {
		text := renderValue(fm[key])
		if text == "" {
			continue
		}
		lines = append(lines, Line{Key: key, Label: Labels[key], Text: text})
	}
	return lines
}

func renderValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []string:
		items := make([]string, 0, len(value))
		for _, item := range value {
			items = append(items, "• "+item)
		}
		return strings.Join(items, "  ")
	case map[string]string:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+": "+value[k])
		}
		return strings.Join(pairs, "; ")
	default:
		return ""
	}
}
