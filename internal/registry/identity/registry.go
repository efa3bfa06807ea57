// Package identity keeps the live document instances of one manager: at
// most one instance per (kind, id). All lookups that hit the registry skip
// the engine entirely.
package identity

import (
	"sync"

	"github.com/docdex-io/docdex/internal/domain/document"
)

// Registry is the identity map. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	docs map[document.Key]document.Document
}

// New creates an empty identity registry.
func New() *Registry {
	return &Registry{docs: make(map[document.Key]document.Document)}
}

// Register stores d unless its identity is already taken and returns the
// canonical instance for the identity. First registration wins; a later
// instance under the same identity is never stored.
func (r *Registry) Register(d document.Document) document.Document {
	key := document.KeyOf(d)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.docs[key]; ok {
		return existing
	}
	r.docs[key] = d
	return d
}

// Get returns the live instance for kind/id.
func (r *Registry) Get(kind, id string) (document.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[document.Key{Kind: kind, ID: id}]
	return d, ok
}

// Detach removes one identity. Detaching an absent identity is a no-op.
func (r *Registry) Detach(kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, document.Key{Kind: kind, ID: id})
}

// DetachKind removes every identity of the given kind.
func (r *Registry) DetachKind(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.docs {
		if key.Kind == kind {
			delete(r.docs, key)
		}
	}
}

// DetachAll empties the registry.
func (r *Registry) DetachAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[document.Key]document.Document)
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
