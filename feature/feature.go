// Package feature interprets the compiled feature-set artifact and renders
// the install script executed at container start. Feature options are
// parsed into typed values with explicit defaults.
package feature

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Feature is one named toolchain selected in the descriptor's feature map.
type Feature struct {
	ID      string
	Options map[string]any
}

// Set is the ordered feature list. Order is deterministic (sorted by ID);
// features install into disjoint filesystem namespaces and are logically
// independent, so no other ordering is meaningful.
type Set []Feature

// ParseSet decodes the raw feature map artifact into a Set. A nil or empty
// document yields an empty set. Option maps that fail to decode degrade to
// empty options rather than failing the parse.
func ParseSet(raw []byte) (Set, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse feature map: %w", err)
	}
	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	set := make(Set, 0, len(ids))
	for _, id := range ids {
		var opts map[string]any
		_ = json.Unmarshal(doc[id], &opts)
		set = append(set, Feature{ID: id, Options: opts})
	}
	return set, nil
}

// StringOption returns the named option as a string, or def when absent or
// not a string-like value. Numbers are accepted since descriptor authors
// write versions both ways ("18" and 18).
func (f Feature) StringOption(name, def string) string {
	v, ok := f.Options[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return def
	}
}

// BoolOption returns the named option as a bool, or def when absent or not
// a boolean. String forms "true"/"false" are accepted.
func (f Feature) BoolOption(name string, def bool) bool {
	v, ok := f.Options[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if t == "true" {
			return true
		}
		if t == "false" {
			return false
		}
		return def
	default:
		return def
	}
}

// Version returns the feature's requested version with the given default.
// Sentinel values ("latest", "lts") pass through verbatim; each feature's
// install block resolves them against its own upstream at install time.
func (f Feature) Version(def string) string {
	return f.StringOption("version", def)
}
