package config

import "encoding/json"

// Options is a loosely-typed bag of parser options, decoded straight from
// config JSON. Accessors coerce common JSON shapes and fall back to the
// given default on absence or type mismatch.
type Options map[string]any

// Any returns the raw value, or nil.
func (o Options) Any(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}

// Bool reads a boolean option.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o.Any(key).(bool); ok {
		return v
	}
	return def
}

// Int reads an integer option. JSON numbers decode as float64.
func (o Options) Int(key string, def int) int {
	switch v := o.Any(key).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

// String reads a string option.
func (o Options) String(key, def string) string {
	if v, ok := o.Any(key).(string); ok {
		return v
	}
	return def
}

// Rune reads a single-character option (e.g. the CSV delimiter).
func (o Options) Rune(key string, def rune) rune {
	s, ok := o.Any(key).(string)
	if !ok || s == "" {
		return def
	}
	return []rune(s)[0]
}

// StringMap reads a string→string option (e.g. header_map). Returns nil
// when absent.
func (o Options) StringMap(key string) map[string]string {
	raw, ok := o.Any(key).(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
