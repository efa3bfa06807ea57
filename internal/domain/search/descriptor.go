package search

import (
	"encoding/json"
	"fmt"
)

// Result window limits.
const (
	DefaultSize = 10
	MaxSize     = 10000
)

// Descriptor is a validated, immutable description of one search: an opaque
// engine query clause, an ordered list of sort clauses and a from/size
// window. Value-equal descriptors produce the same Fingerprint.
type Descriptor struct {
	query map[string]any
	sort  []map[string]any
	from  int
	size  int
}

// New validates and normalizes search parameters.
// Defaults: size=10, clamped to 10000. Empty query means match-all, empty
// sorting means engine order. Clauses must encode to JSON; clause maps are
// copied at the top level in both directions, nested values stay shared.
func New(query map[string]any, sorting []map[string]any, from, size int) (Descriptor, error) {
	if from < 0 {
		return Descriptor{}, fmt.Errorf("from must be non-negative")
	}
	if size < 0 {
		return Descriptor{}, fmt.Errorf("size must be non-negative")
	}
	if _, err := json.Marshal(query); err != nil {
		return Descriptor{}, fmt.Errorf("query must encode to JSON: %w", err)
	}
	if _, err := json.Marshal(sorting); err != nil {
		return Descriptor{}, fmt.Errorf("sorting must encode to JSON: %w", err)
	}
	if size == 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return Descriptor{
		query: cloneClause(query),
		sort:  cloneClauses(sorting),
		from:  from,
		size:  size,
	}, nil
}

// MatchAll is the descriptor of an unfiltered search over the default
// result window.
func MatchAll() Descriptor {
	return Descriptor{size: DefaultSize}
}

// Query returns a copy of the engine query clause (nil means match-all).
func (d *Descriptor) Query() map[string]any { return cloneClause(d.query) }

// Sorting returns a copy of the ordered sort clauses (nil means engine order).
func (d *Descriptor) Sorting() []map[string]any { return cloneClauses(d.sort) }

// From returns the result window offset.
func (d *Descriptor) From() int { return d.from }

// Size returns the result window length.
func (d *Descriptor) Size() int { return d.size }

// Empty clauses normalize to nil so that {} and nil fingerprint identically.
func cloneClause(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneClauses(s []map[string]any) []map[string]any {
	if len(s) == 0 {
		return nil
	}
	c := make([]map[string]any, len(s))
	for i, m := range s {
		c[i] = cloneClause(m)
	}
	return c
}
