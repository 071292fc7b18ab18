package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one flat row of a record table or document collection, exactly
// as decoded from JSON, BSON or JSONB.
type Record map[string]interface{}

// String returns the string form of field, or "" when the field is absent or null.
// Numbers render without exponent so 101 and "101" compare equal.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

// Has reports whether field is present with a non-empty value.
func (r Record) Has(field string) bool {
	return strings.TrimSpace(r.String(field)) != ""
}

// Number parses field as a float. Currency symbols, thousands separators
// and surrounding blanks are ignored; anything unparsable counts as 0.
func (r Record) Number(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", "₹", "", " ", "").Replace(v)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Clone returns a shallow copy so callers can attach joined fields without
// touching the stored row.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r)+4)
	for k, v := range r {
		out[k] = v
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
