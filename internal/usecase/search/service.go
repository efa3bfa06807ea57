// Package search implements descriptor-driven queries: the fingerprint
// cache sits between the manager and the engine so each distinct search
// runs remotely at most once, and results resolve through the identity
// registry.
package search

import (
	"context"
	"fmt"

	"github.com/docdex-io/docdex/internal/domain"
	domdoc "github.com/docdex-io/docdex/internal/domain/document"
	domsearch "github.com/docdex-io/docdex/internal/domain/search"
	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/registry/identity"
	"github.com/docdex-io/docdex/internal/registry/querycache"
)

// Service handles descriptor searches and counts.
type Service struct {
	searcher   Searcher
	identities *identity.Registry
	cache      *querycache.Cache
	factory    *domdoc.Factory
	baseIndex  string
}

// New creates a search service.
func New(
	searcher Searcher,
	identities *identity.Registry,
	cache *querycache.Cache,
	factory *domdoc.Factory,
	baseIndex string,
) *Service {
	return &Service{
		searcher:   searcher,
		identities: identities,
		cache:      cache,
		factory:    factory,
		baseIndex:  baseIndex,
	}
}

// Documents resolves the descriptor through the fingerprint cache and maps
// the cached id list to live instances. Ids whose identity entry has been
// detached since the search ran are skipped silently; the list itself is
// only ever scrubbed by deletes. A nil descriptor means match-all over the
// default window.
func (s *Service) Documents(ctx context.Context, kind string, d *domsearch.Descriptor) ([]domdoc.Document, error) {
	d = normalize(d)

	fp := domsearch.Fingerprint(kind, d)
	ids, err := s.cache.LookupOrPopulate(ctx, fp, func(ctx context.Context) ([]string, error) {
		return s.populate(ctx, kind, d)
	})
	if err != nil {
		return nil, err
	}

	docs := make([]domdoc.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.identities.Get(kind, id); ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Count returns the remote match count for the descriptor's query clause.
// Sorting and the result window do not apply, and counts are never cached.
func (s *Service) Count(ctx context.Context, kind string, d *domsearch.Descriptor) (int, error) {
	d = normalize(d)

	n, err := s.searcher.Count(ctx, domain.IndexName(s.baseIndex, kind), d.Query())
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// populate issues the one engine search for a fingerprint, materializes a
// document per hit and registers it (a live instance holding the identity
// wins). Hits whose source cannot be rebuilt are dropped from the cached
// list.
func (s *Service) populate(ctx context.Context, kind string, d *domsearch.Descriptor) ([]string, error) {
	if !s.factory.Known(kind) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	req := &engine.SearchRequest{
		From:  d.From(),
		Size:  d.Size(),
		Query: d.Query(),
		Sort:  d.Sorting(),
	}
	res, err := s.searcher.Search(ctx, domain.IndexName(s.baseIndex, kind), req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, err := s.factory.New(kind, hit.ID)
		if err != nil {
			return nil, err
		}
		if err := doc.BuildFromSource(hit.Source); err != nil {
			continue
		}
		s.identities.Register(doc)
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func normalize(d *domsearch.Descriptor) *domsearch.Descriptor {
	if d != nil {
		return d
	}
	all := domsearch.MatchAll()
	return &all
}
