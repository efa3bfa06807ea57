package docdex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docdex-io/docdex/internal/domain"
	domdoc "github.com/docdex-io/docdex/internal/domain/document"
	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/engine/elastic"
	"github.com/docdex-io/docdex/internal/engine/redisearch"
	"github.com/docdex-io/docdex/internal/registry/identity"
	"github.com/docdex-io/docdex/internal/registry/querycache"
	"github.com/docdex-io/docdex/internal/registry/schema"
	"github.com/docdex-io/docdex/internal/retry"
	documentuc "github.com/docdex-io/docdex/internal/usecase/document"
	indexuc "github.com/docdex-io/docdex/internal/usecase/index"
	searchuc "github.com/docdex-io/docdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Manager is the docdex entry point: one engine connection, one identity
// registry, one query result cache and one schema registry. A single
// Manager is safe for concurrent use.
type Manager struct {
	eng        engine.Engine
	factory    *domdoc.Factory
	identities *identity.Registry
	schemas    *schema.Registry
	docSvc     *documentuc.Service
	searchSvc  *searchuc.Service
	indexSvc   *indexuc.Service
	obs        *observer
}

// New creates a Manager and connects to the engine.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Manager, error) {
	cfg := &managerConfig{retry: retry.Default()}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseIndex == "" {
		return nil, errors.New("docdex: base index required (use WithBaseIndex)")
	}
	if strings.Contains(cfg.baseIndex, domain.IndexSeparator) {
		return nil, fmt.Errorf("docdex: base index must not contain %q", domain.IndexSeparator)
	}
	if cfg.engine == nil && cfg.driver == "" {
		return nil, errors.New("docdex: engine required (use WithElasticsearch, WithRediSearch or WithEngine)")
	}

	eng, err := createEngine(cfg)
	if err != nil {
		return nil, err
	}

	if err := eng.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		eng.Close()
		return nil, fmt.Errorf("docdex: engine not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		eng.Close()
		return nil, err
	}
	return wireManager(eng, cfg, obs), nil
}

func createEngine(cfg *managerConfig) (engine.Engine, error) {
	if cfg.engine != nil {
		return cfg.engine, nil
	}
	switch cfg.driver {
	case "elasticsearch":
		c, err := elastic.NewClient(elastic.Config{
			URL:               cfg.url,
			Username:          cfg.username,
			Password:          cfg.password,
			HTTPClient:        cfg.httpClient,
			Compression:       cfg.compression,
			RequestsPerSecond: cfg.requestsPerSec,
		})
		if err != nil {
			return nil, fmt.Errorf("docdex: create elasticsearch engine: %w", err)
		}
		return c, nil
	case "redisearch":
		c, err := redisearch.NewClient(redisearch.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("docdex: create redisearch engine: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("docdex: unknown driver %q", cfg.driver)
	}
}

func wireManager(eng engine.Engine, cfg *managerConfig, obs *observer) *Manager {
	factory := domdoc.NewFactory()
	identities := identity.New()
	cache := querycache.New()
	schemas := schema.New()

	return &Manager{
		eng:        eng,
		factory:    factory,
		identities: identities,
		schemas:    schemas,
		docSvc:     documentuc.New(eng, identities, cache, factory, cfg.baseIndex, cfg.retry),
		searchSvc:  searchuc.New(eng, identities, cache, factory, cfg.baseIndex),
		indexSvc:   indexuc.New(eng, schemas, cfg.baseIndex),
		obs:        obs,
	}
}

// Close releases the engine connection. The Manager must not be used
// afterwards.
func (m *Manager) Close() {
	if m.eng != nil {
		m.eng.Close()
	}
}

// Ping checks engine connectivity.
func (m *Manager) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("ping", start, err) }()

	if err = m.eng.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// RegisterKind binds a constructor for one document kind. Every kind the
// manager materializes from engine sources must be registered before
// Document, Refresh or Documents is called for it.
func (m *Manager) RegisterKind(kind string, fn func(id string) Document) {
	m.factory.Register(kind, fn)
}

// RegisterMapping binds the index mapping used when the kind's engine
// index is created. CreateIndexes only covers kinds with a mapping.
func (m *Manager) RegisterMapping(kind string, mapping map[string]any) {
	m.schemas.RegisterMapping(kind, mapping)
}

// RegisterSettings binds optional index settings for one kind. Settings
// are sent alongside the mapping when the index is created.
func (m *Manager) RegisterSettings(kind string, settings map[string]any) {
	m.schemas.RegisterSettings(kind, settings)
}

// Save registers doc as the live instance of its identity and upserts it
// to the engine. A different live instance already holding the identity
// fails with ErrIdentityConflict before any engine call. Engine errors
// propagate; saves never retry.
func (m *Manager) Save(ctx context.Context, doc Document) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("save", start, err) }()

	return m.docSvc.Save(ctx, doc)
}

// Delete removes the document from the engine best-effort and always
// purges it locally: the identity entry is dropped and the id scrubbed
// from every cached result list. Engine errors are swallowed, so Delete
// returns nil even when the remote delete failed.
func (m *Manager) Delete(ctx context.Context, kind, id string) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("delete", start, err) }()

	return m.docSvc.Delete(ctx, kind, id)
}

// Document returns the live instance for (kind, id), fetching and
// registering it if none exists. Fetches retry per the configured policy;
// an engine not-found is authoritative and yields ErrNotFound, exhausted
// retries yield ErrUnavailable.
func (m *Manager) Document(ctx context.Context, kind, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { m.obs.observe("document", start, err) }()

	return m.docSvc.Get(ctx, kind, id)
}

// Refresh re-fetches doc's source and rebuilds its content in place,
// keeping the instance live. Same retry and error semantics as Document.
func (m *Manager) Refresh(ctx context.Context, doc Document) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("refresh", start, err) }()

	return m.docSvc.Refresh(ctx, doc)
}

// Documents runs the search and returns the matching live instances in
// engine order. Value-equal searches are served from the result cache
// without touching the engine; ids deleted or detached since the search
// ran are skipped. s may be nil for match-all.
func (m *Manager) Documents(ctx context.Context, kind string, s *Search) (docs []Document, err error) {
	start := time.Now()
	defer func() { m.obs.observe("documents", start, err) }()

	d, err := s.descriptor()
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	return m.searchSvc.Documents(ctx, kind, d)
}

// Count returns the engine-side hit count for the search's query clause.
// Sort and window are ignored and counts are never cached. s may be nil
// to count everything.
func (m *Manager) Count(ctx context.Context, kind string, s *Search) (n int, err error) {
	start := time.Now()
	defer func() { m.obs.observe("count", start, err) }()

	d, err := s.descriptor()
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return m.searchSvc.Count(ctx, kind, d)
}

// Detach drops the live instance for (kind, id), if any. Local only; the
// engine document is untouched.
func (m *Manager) Detach(kind, id string) {
	start := time.Now()
	defer func() { m.obs.observe("detach", start, nil) }()

	m.identities.Detach(kind, id)
}

// DetachKind drops every live instance of one kind.
func (m *Manager) DetachKind(kind string) {
	start := time.Now()
	defer func() { m.obs.observe("detach_kind", start, nil) }()

	m.identities.DetachKind(kind)
}

// DetachAll drops every live instance.
func (m *Manager) DetachAll() {
	start := time.Now()
	defer func() { m.obs.observe("detach_all", start, nil) }()

	m.identities.DetachAll()
}

// CreateIndexes creates one engine index per kind with a registered
// mapping, named "<base>__<lowercased kind>". Per-kind failures are
// swallowed so one broken kind cannot block the rest.
func (m *Manager) CreateIndexes(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("create_indexes", start, err) }()

	return m.indexSvc.CreateAll(ctx)
}

// DropIndexes deletes every registered kind's index. The first failure
// stops the iteration and propagates.
func (m *Manager) DropIndexes(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { m.obs.observe("drop_indexes", start, err) }()

	return m.indexSvc.DropAll(ctx)
}
