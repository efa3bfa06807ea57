// Package document implements the by-id document lifecycle: save, delete
// and the retried fetch paths, coordinating the identity registry, the
// query result cache and the engine.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/docdex-io/docdex/internal/domain"
	domdoc "github.com/docdex-io/docdex/internal/domain/document"
	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/registry/identity"
	"github.com/docdex-io/docdex/internal/registry/querycache"
	"github.com/docdex-io/docdex/internal/retry"
)

// Service handles by-id document operations.
type Service struct {
	store      Store
	identities *identity.Registry
	cache      *querycache.Cache
	factory    *domdoc.Factory
	baseIndex  string
	policy     retry.Policy
}

// New creates a document service.
func New(
	store Store,
	identities *identity.Registry,
	cache *querycache.Cache,
	factory *domdoc.Factory,
	baseIndex string,
	policy retry.Policy,
) *Service {
	return &Service{
		store:      store,
		identities: identities,
		cache:      cache,
		factory:    factory,
		baseIndex:  baseIndex,
		policy:     policy,
	}
}

// Save registers doc as the live instance of its identity and upserts it
// remotely. A different live instance already holding the identity fails
// the save before any engine call. Engine errors propagate; there is no
// retry on this path.
func (s *Service) Save(ctx context.Context, doc domdoc.Document) error {
	if doc == nil {
		return errors.New("document is required")
	}
	if doc.Kind() == "" || doc.ID() == "" {
		return errors.New("document kind and id are required")
	}

	if canonical := s.identities.Register(doc); canonical != doc {
		return domain.NewIdentityConflict(doc.Kind(), doc.ID())
	}

	index := domain.IndexName(s.baseIndex, doc.Kind())
	if err := s.store.IndexDocument(ctx, index, doc.ID(), doc.Storable()); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}

// Delete removes the document remotely on a best-effort basis: engine
// errors do not block the local purge and are not reported. The identity
// entry and every cached result list referencing the id are always purged.
func (s *Service) Delete(ctx context.Context, kind, id string) error {
	index := domain.IndexName(s.baseIndex, kind)
	_ = s.store.DeleteDocument(ctx, index, id)

	s.identities.Detach(kind, id)
	s.cache.Remove(id)
	return nil
}

// Get returns the live instance when one is registered, otherwise fetches
// the document with retry, builds a fresh instance through the factory and
// registers it. The registered instance wins if another goroutine got there
// first.
func (s *Service) Get(ctx context.Context, kind, id string) (domdoc.Document, error) {
	if live, ok := s.identities.Get(kind, id); ok {
		return live, nil
	}

	doc, err := s.factory.New(kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.fetchInto(ctx, doc); err != nil {
		return nil, err
	}
	return s.identities.Register(doc), nil
}

// Refresh re-fetches the document and rebuilds the given instance in place,
// so every holder of the instance observes the fresh content.
func (s *Service) Refresh(ctx context.Context, doc domdoc.Document) error {
	if doc == nil {
		return errors.New("document is required")
	}
	return s.fetchInto(ctx, doc)
}

// fetchInto runs the retried get-by-id and rebuilds doc from the returned
// source. A found=false answer is authoritative and stops the retry loop;
// only transport failures are retried. Exhaustion maps to ErrUnavailable,
// an unreadable source to ErrNotFound. Cancellation of the caller's ctx
// passes through untouched.
func (s *Service) fetchInto(ctx context.Context, doc domdoc.Document) error {
	index := domain.IndexName(s.baseIndex, doc.Kind())

	var res *engine.GetResult
	err := s.policy.Do(ctx, func() error {
		r, err := s.store.GetDocument(ctx, index, doc.ID())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		// Engine-side timeouts wrap context.DeadlineExceeded too; only the
		// caller's own ctx ending makes this a cancellation.
		if ctx.Err() != nil {
			return err
		}
		return domain.NewUnavailable(s.policy.Attempts(), err)
	}

	if !res.Found {
		return fmt.Errorf("%s %q: %w", doc.Kind(), doc.ID(), domain.ErrNotFound)
	}
	if err := doc.BuildFromSource(res.Source); err != nil {
		return fmt.Errorf("build %s %q: %v: %w", doc.Kind(), doc.ID(), err, domain.ErrNotFound)
	}
	return nil
}
