package document

import (
	"fmt"
	"sort"
	"sync"

	"github.com/docdex-io/docdex/internal/domain"
)

// NewFunc constructs an empty document of one kind with its identifier set.
type NewFunc func(id string) Document

// Factory maps document kinds to registered constructors. Every kind the
// manager materializes from engine sources must be registered up front;
// there is no reflective fallback.
type Factory struct {
	mu    sync.RWMutex
	kinds map[string]NewFunc
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{kinds: make(map[string]NewFunc)}
}

// Register binds a constructor to a kind, replacing any previous one.
func (f *Factory) Register(kind string, fn NewFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds[kind] = fn
}

// Known reports whether a constructor is registered for kind.
func (f *Factory) Known(kind string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.kinds[kind]
	return ok
}

// New constructs an empty document of the given kind.
func (f *Factory) New(kind, id string) (Document, error) {
	f.mu.RLock()
	fn, ok := f.kinds[kind]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return fn(id), nil
}

// Kinds returns the registered kinds in sorted order.
func (f *Factory) Kinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.kinds))
	for k := range f.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
