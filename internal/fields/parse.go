package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldMap holds one value per schema key. Values are nil (absent), string,
// []string, or map[string]string after normalization.
type FieldMap map[string]any

// ErrInvalid is returned when the oracle output cannot be read as a field
// map at all. Callers fall back to Empty().
var ErrInvalid = errors.New("invalid field map")

// Empty returns a FieldMap with every schema key set to the null sentinel.
func Empty() FieldMap {
	fm := make(FieldMap, len(SchemaKeys))
	for _, key := range SchemaKeys {
		fm[key] = nil
	}
	return fm
}

// Parse normalizes raw oracle output into a complete FieldMap. Tolerant by
// design: unknown keys are dropped, missing keys become null, scalar values
// are stringified, and null-meaning strings ("", "None", "N/A") collapse to
// the null sentinel. Only structurally unusable output fails.
func Parse(raw json.RawMessage) (FieldMap, error) {
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("field map decode: %v: %w", err, ErrInvalid)
	}
	if err := fieldMapSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("field map shape: %v: %w", err, ErrInvalid)
	}

	fm := Empty()
	for _, key := range SchemaKeys {
		value, ok := decoded[key]
		if !ok {
			continue
		}
		fm[key] = normalizeValue(value)
	}
	return fm, nil
}

func normalizeValue(v any) any {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		return normalizeString(value)
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return formatNumber(value)
	case []any:
		items := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := normalizeValue(item).(string); ok && s != "" {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return items
	case map[string]any:
		nested := make(map[string]string, len(value))
		for k, item := range value {
			if s, ok := normalizeValue(item).(string); ok && s != "" {
				nested[k] = s
			}
		}
		if len(nested) == 0 {
			return nil
		}
		return nested
	default:
		return nil
	}
}

// normalizeString collapses model spellings of "no value" to the null
// sentinel and returns any other value trimmed.
func normalizeString(s string) any {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "", "none", "null", "n/a", "not specified", "not mentioned", "unknown":
		return nil
	}
	return trimmed
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsEmpty reports whether every field carries the null sentinel.
func (fm FieldMap) IsEmpty() bool {
	for _, key := range SchemaKeys {
		if fm[key] != nil {
			return false
		}
	}
	return true
}

// Snippet renders populated fields as "Label: value" lines for prompt
// context. Empty string when nothing was extracted.
func (fm FieldMap) Snippet() string {
	lines := Format(fm)
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line.Label)
		b.WriteString(": ")
		b.WriteString(line.Text)
	}
	return b.String()
}

// String returns the string value of a field, empty when absent or
// non-scalar.
func (fm FieldMap) String(key string) string {
	s, _ := fm[key].(string)
	return s
}
