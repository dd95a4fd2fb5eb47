package domain

import (
	"strings"

	"github.com/Fayuquero09/cortex-automotriz/pkg/numparse"
)

// Record is one vehicle trim/version as delivered by an upstream feed. The
// mapping is open: the same attribute may appear under several field names
// depending on the source, and values are loosely typed (numbers arrive as
// strings, flags as "si"/"1"/true). Accessors below never panic on any
// shape, including a nil map.
type Record map[string]any

// Get resolves a dot path ("fuel_economy.combined_kml") against the record,
// descending through nested objects. The second return is false when any
// segment is missing or not an object.
func (r Record) Get(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// FirstText returns the first non-empty trimmed string among the alias
// paths, or "" when none is present.
func (r Record) FirstText(paths []string) string {
	for _, p := range paths {
		v, ok := r.Get(p)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// FirstNumber returns the first alias path whose value parses to a finite
// number.
func (r Record) FirstNumber(paths []string) (float64, bool) {
	for _, p := range paths {
		if v, ok := r.Get(p); ok {
			if f, ok := numparse.Parse(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// FirstPositive returns the first alias path whose value parses to a
// strictly positive finite number. Zero and negative candidates are skipped
// in favor of the next alias, per the consumption cascade rules.
func (r Record) FirstPositive(paths []string) (float64, bool) {
	for _, p := range paths {
		if v, ok := r.Get(p); ok {
			if f, ok := numparse.Parse(v); ok && f > 0 {
				return f, true
			}
		}
	}
	return 0, false
}

// Positive parses a single path as a strictly positive finite number.
func (r Record) Positive(path string) (float64, bool) {
	v, ok := r.Get(path)
	if !ok {
		return 0, false
	}
	f, ok := numparse.Parse(v)
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}

// FirstFlag reports whether any of the alias paths holds a truthy value.
// Upstream feeds encode flags as booleans, 0/1, or "si"/"true"/"yes".
func (r Record) FirstFlag(paths []string) bool {
	for _, p := range paths {
		v, ok := r.Get(p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			if t {
				return true
			}
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "1", "si", "sí", "yes":
				return true
			}
		default:
			if f, ok := numparse.Parse(v); ok && f != 0 {
				return true
			}
		}
	}
	return false
}

// Deltas returns the per-KPI delta mapping attached to a competitor record
// by the upstream comparison computation, keyed by KPI field name. The
// mapping is interpreted as competitor − base.
func (r Record) Deltas() map[string]Record {
	v, ok := r.Get(DeltaField)
	if !ok {
		return nil
	}
	m, ok := asObject(v)
	if !ok {
		return nil
	}
	out := make(map[string]Record, len(m))
	for k, raw := range m {
		if obj, ok := asObject(raw); ok {
			out[k] = Record(obj)
		}
	}
	return out
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
