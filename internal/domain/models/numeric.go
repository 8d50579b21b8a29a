package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float is a lenient numeric field. JSON numbers and numeric strings are valid;
// anything else (null, text, booleans, a missing key) leaves the value invalid
// instead of failing the whole request.
type Float struct {
	Value float64
	Valid bool
}

// NewFloat returns a valid Float.
func NewFloat(v float64) Float {
	return Float{Value: v, Valid: true}
}

func (f *Float) UnmarshalJSON(b []byte) error {
	*f = Float{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw string
	switch b[0] {
	case '"':
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
	case 't', 'f', '{', '[':
		return nil
	default:
		raw = string(b)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Cell returns the value as it should appear in a table column.
func (f Float) Cell() interface{} {
	if !f.Valid {
		return nil
	}
	return f.Value
}
