// Package querycache stores ordered document-id lists keyed by search
// fingerprint. An entry is populated at most once for the cache's lifetime;
// there is no TTL and no invalidation on document updates. Deleting a
// document scrubs its id from every stored list.
package querycache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// PopulateFunc runs the remote search and returns the ordered hit ids.
type PopulateFunc func(ctx context.Context) ([]string, error)

// Cache is the fingerprint-keyed result cache. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	results map[string][]string
	group   singleflight.Group
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{results: make(map[string][]string)}
}

// LookupOrPopulate returns the id list stored for the fingerprint, running
// populate on first use. Concurrent callers with the same fingerprint share
// one populate call. Populate failures are not stored, so the next call
// tries again.
func (c *Cache) LookupOrPopulate(ctx context.Context, fingerprint string, populate PopulateFunc) ([]string, error) {
	c.mu.RLock()
	ids, ok := c.results[fingerprint]
	c.mu.RUnlock()
	if ok {
		return cloneIDs(ids), nil
	}

	v, err, _ := c.group.Do(fingerprint, func() (any, error) {
		// A finished flight may have stored the entry between the fast-path
		// check and this one.
		c.mu.RLock()
		ids, ok := c.results[fingerprint]
		c.mu.RUnlock()
		if ok {
			return ids, nil
		}

		ids, err := populate(ctx)
		if err != nil {
			return nil, err
		}
		stored := cloneIDs(ids)
		c.mu.Lock()
		c.results[fingerprint] = stored
		c.mu.Unlock()
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneIDs(v.([]string)), nil
}

// Remove scrubs id from every stored list. List order is preserved.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for fp, ids := range c.results {
		kept := ids[:0]
		for _, got := range ids {
			if got != id {
				kept = append(kept, got)
			}
		}
		c.results[fp] = kept
	}
}

// Len returns the number of cached fingerprints.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func cloneIDs(ids []string) []string {
	c := make([]string, len(ids))
	copy(c, ids)
	return c
}
