// Package payload provides safe navigation over loosely-typed JSON payloads.
//
// The external catalogs return deeply nested JSON whose shape varies between
// records. Payload wraps the decoded map and exposes typed accessors that
// follow a key path and degrade to zero values instead of panicking on
// missing keys or unexpected types.
package payload

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is a decoded JSON object. The zero value (nil map) is the uniform
// not-available signal from enrichment sources.
type Payload map[string]any

// Parse decodes a JSON object into a Payload.
func Parse(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// IsEmpty reports whether the payload carries no data.
func (p Payload) IsEmpty() bool {
	return len(p) == 0
}

// Dig follows a path of keys through nested objects and returns the value at
// the end of the path. The second result is false if any step is missing,
// null, or not an object.
func (p Payload) Dig(path ...string) (any, bool) {
	var current any = map[string]any(p)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			if sub, isPayload := current.(Payload); isPayload {
				obj = map[string]any(sub)
			} else {
				return nil, false
			}
		}
		current, ok = obj[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// String returns the string at path, or "" if absent or not a string.
func (p Payload) String(path ...string) string {
	v, ok := p.Dig(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Bool returns the boolean at path, or false if absent or not a boolean.
func (p Payload) Bool(path ...string) bool {
	v, ok := p.Dig(path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int returns the value at path coerced to an integer. JSON numbers, numeric
// strings, and json.Number all coerce; anything else yields 0.
func (p Payload) Int(path ...string) int {
	v, ok := p.Dig(path...)
	if !ok {
		return 0
	}
	n, _ := CoerceInt(v)
	return n
}

// Float returns the value at path coerced to a float64, or 0 if it cannot
// be coerced.
func (p Payload) Float(path ...string) float64 {
	v, ok := p.Dig(path...)
	if !ok {
		return 0
	}
	f, _ := CoerceFloat(v)
	return f
}

// List returns the array at path, or nil if absent or not an array.
func (p Payload) List(path ...string) []any {
	v, ok := p.Dig(path...)
	if !ok {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// Map returns the object at path as a Payload, or nil if absent or not
// an object.
func (p Payload) Map(path ...string) Payload {
	v, ok := p.Dig(path...)
	if !ok {
		return nil
	}
	switch obj := v.(type) {
	case map[string]any:
		return Payload(obj)
	case Payload:
		return obj
	}
	return nil
}

// CoerceInt converts a loosely-typed JSON value to an int. Floats truncate
// toward zero; numeric strings parse; everything else reports false.
func CoerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

// CoerceFloat converts a loosely-typed JSON value to a float64.
func CoerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
