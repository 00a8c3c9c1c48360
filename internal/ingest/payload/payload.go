// Package payload coerces the loosely-typed extraction payload into plain Go
// values. Leaf fields may or may not be wrapped in a {"value": X} envelope and
// dates may arrive as strings or {"$date": ...} wrappers; everything downstream
// of these helpers works on typed values only.
package payload

import (
	"math"
	"strings"
	"time"

	"github.com/shockerli/cvt"
)

// Unwrap strips the optional {"value": X} envelope, returning X when present
// and the input unchanged otherwise.
func Unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	return v
}

// Map unwraps v and returns it as an object, or nil when it is anything else.
func Map(v any) map[string]any {
	m, _ := Unwrap(v).(map[string]any)
	return m
}

// Slice unwraps v and returns it as an array, or nil when it is anything else.
func Slice(v any) []any {
	s, _ := Unwrap(v).([]any)
	return s
}

// Section returns the named sub-object of an extraction payload, tolerating an
// envelope around the section itself. Missing or malformed sections yield nil.
func Section(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	return Map(m[key])
}

// String unwraps v and coerces scalars to a trimmed string. Objects, arrays
// and null yield the empty string.
func String(v any) string {
	v = Unwrap(v)
	switch v.(type) {
	case nil, map[string]any, []any:
		return ""
	}
	s, err := cvt.StringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// StringPtr is String with empty mapped to nil.
func StringPtr(v any) *string {
	s := String(v)
	if s == "" {
		return nil
	}
	return &s
}

// Number unwraps v and coerces string or numeric input to a float. Empty
// string, null and non-numeric input yield nil, never NaN.
func Number(v any) *float64 {
	v = Unwrap(v)
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
	case map[string]any, []any:
		return nil
	}
	f, err := cvt.Float64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Int is Number truncated to an integer.
func Int(v any) *int {
	f := Number(v)
	if f == nil {
		return nil
	}
	i := int(math.Trunc(*f))
	return &i
}

// Int64 unwraps v and coerces it to an int64, tolerating a {"$numberLong":
// "123"} wrapper. Unparseable input yields nil.
func Int64(v any) *int64 {
	v = Unwrap(v)
	if m, ok := v.(map[string]any); ok {
		inner, ok := m["$numberLong"]
		if !ok {
			return nil
		}
		v = inner
	}
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
	}
	n, err := cvt.Int64E(v)
	if err != nil {
		return nil
	}
	return &n
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date unwraps v and parses it as a timestamp. Accepted shapes: a bare date
// string, a {"$date": <string>} wrapper, a {"$date": {"$numberLong": <ms>}}
// wrapper, or an epoch-milliseconds number. Unparseable or absent input yields
// nil, never an error.
func Date(v any) *time.Time {
	v = Unwrap(v)
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		inner, ok := t["$date"]
		if !ok {
			if n := Int64(t); n != nil {
				return fromEpochMillis(*n)
			}
			return nil
		}
		return Date(inner)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				parsed = parsed.UTC()
				return &parsed
			}
		}
		return nil
	case float64:
		return fromEpochMillis(int64(t))
	case int64:
		return fromEpochMillis(t)
	default:
		return nil
	}
}

func fromEpochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
