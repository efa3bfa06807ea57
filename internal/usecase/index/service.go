// Package index drives the per-kind index lifecycle against the engine,
// deriving index names and definitions from the schema registry.
package index

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/docdex-io/docdex/internal/domain"
	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/registry/schema"
)

// maxConcurrentCreates bounds the create fan-out.
const maxConcurrentCreates = 4

// Service handles index lifecycle operations.
type Service struct {
	lifecycle Lifecycle
	schemas   *schema.Registry
	baseIndex string
}

// New creates an index service.
func New(lifecycle Lifecycle, schemas *schema.Registry, baseIndex string) *Service {
	return &Service{lifecycle: lifecycle, schemas: schemas, baseIndex: baseIndex}
}

// CreateAll creates one index per kind with a registered mapping, attaching
// settings only when registered. Kinds fan out concurrently; a failed kind
// never blocks the remaining ones and engine errors are not reported. Only
// context cancellation surfaces.
func (s *Service) CreateAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCreates)

	for _, def := range s.schemas.Definitions() {
		def := def
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx := &engine.IndexDefinition{Mappings: def.Mapping, Settings: def.Settings}
			_ = s.lifecycle.CreateIndex(ctx, domain.IndexName(s.baseIndex, def.Kind), idx)
			return nil
		})
	}
	return g.Wait()
}

// DropAll deletes one index per kind with a registered mapping, visiting
// kinds in sorted order and stopping at the first failure, so a partial
// drop is deterministic.
func (s *Service) DropAll(ctx context.Context) error {
	for _, def := range s.schemas.Definitions() {
		name := domain.IndexName(s.baseIndex, def.Kind)
		if err := s.lifecycle.DeleteIndex(ctx, name); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}
	return nil
}
