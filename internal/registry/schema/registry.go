// Package schema stores the per-kind index definitions the engine indexes
// are created from.
package schema

import (
	"sort"
	"sync"
)

// Definition is the engine index definition registered for one kind.
type Definition struct {
	Kind     string
	Mapping  map[string]any
	Settings map[string]any
}

// Registry maps document kinds to index mappings and optional settings.
// Registration is last-write-wins. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	mappings map[string]map[string]any
	settings map[string]map[string]any
}

// New creates an empty schema registry.
func New() *Registry {
	return &Registry{
		mappings: make(map[string]map[string]any),
		settings: make(map[string]map[string]any),
	}
}

// RegisterMapping binds an index mapping to a kind.
func (r *Registry) RegisterMapping(kind string, mapping map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[kind] = mapping
}

// RegisterSettings binds optional index settings to a kind.
func (r *Registry) RegisterSettings(kind string, settings map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[kind] = settings
}

// Mapping returns the mapping registered for kind.
func (r *Registry) Mapping(kind string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappings[kind]
	return m, ok
}

// Settings returns the settings registered for kind.
func (r *Registry) Settings(kind string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[kind]
	return s, ok
}

// Definitions returns one definition per kind with a registered mapping,
// sorted by kind. Settings registered without a mapping are not listed.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.mappings))
	for kind, m := range r.mappings {
		def := Definition{Kind: kind, Mapping: m}
		if s, ok := r.settings[kind]; ok {
			def.Settings = s
		}
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
