package update

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// Coerce converts a raw textual form value into the value shape the
// resolved schema node calls for. Coercion never fails: malformed numeric
// input degrades to nil and unmatched enum input stays a string, because
// forms are uncontrolled and partial input must not abort a submission.
// Callers needing strict validation check the coerced result themselves.
func Coerce(node schema.Schema, raw string) any {
	switch node.Kind {
	case schema.KindNumber, schema.KindInteger:
		return coerceNumber(raw)
	case schema.KindBoolean:
		return raw == "true"
	default:
		if len(node.Enum) > 0 {
			return coerceEnum(node.Enum, raw)
		}
		return raw
	}
}

func coerceNumber(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return value
}

// coerceEnum returns the numeric enum member matching the parsed input, or
// the raw string unchanged when no numeric member matches.
func coerceEnum(members []any, raw string) any {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	for _, member := range members {
		if number, ok := toFloat(member); ok && number == parsed {
			return number
		}
	}
	return raw
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
