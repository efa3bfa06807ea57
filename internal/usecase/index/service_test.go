package index

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/registry/schema"
)

// --- Mocks ---

type mockLifecycle struct {
	mu sync.Mutex

	createErrs map[string]error
	deleteErr  error

	created map[string]*engine.IndexDefinition
	deleted []string
}

func newMockLifecycle() *mockLifecycle {
	return &mockLifecycle{
		createErrs: make(map[string]error),
		created:    make(map[string]*engine.IndexDefinition),
	}
}

func (m *mockLifecycle) CreateIndex(_ context.Context, index string, def *engine.IndexDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.createErrs[index]; ok {
		return err
	}
	m.created[index] = def
	return nil
}

func (m *mockLifecycle) DeleteIndex(_ context.Context, index string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, index)
	return nil
}

func itemMapping() map[string]any {
	return map[string]any{"properties": map[string]any{
		"name": map[string]any{"type": "text"},
	}}
}

// --- CreateAll tests ---

func TestCreateAll_OneIndexPerKind(t *testing.T) {
	lc := newMockLifecycle()
	schemas := schema.New()
	schemas.RegisterMapping("Item", itemMapping())
	schemas.RegisterMapping("Vendor", itemMapping())
	schemas.RegisterSettings("Vendor", map[string]any{"number_of_shards": 1})

	svc := New(lc, schemas, "catalog")
	if err := svc.CreateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lc.created) != 2 {
		t.Fatalf("expected 2 indexes, got %d", len(lc.created))
	}
	item, ok := lc.created["catalog__item"]
	if !ok {
		t.Fatal("expected catalog__item")
	}
	if item.Settings != nil {
		t.Errorf("unregistered settings must stay nil, got %v", item.Settings)
	}
	vendor, ok := lc.created["catalog__vendor"]
	if !ok {
		t.Fatal("expected catalog__vendor")
	}
	if vendor.Settings == nil {
		t.Error("expected registered settings attached")
	}
	if vendor.Mappings == nil {
		t.Error("expected mapping attached")
	}
}

func TestCreateAll_SwallowsPerKindFailures(t *testing.T) {
	lc := newMockLifecycle()
	lc.createErrs["catalog__item"] = errors.New("boom")
	schemas := schema.New()
	schemas.RegisterMapping("Item", itemMapping())
	schemas.RegisterMapping("Vendor", itemMapping())

	svc := New(lc, schemas, "catalog")
	if err := svc.CreateAll(context.Background()); err != nil {
		t.Fatalf("per-kind failures must be swallowed, got %v", err)
	}
	if _, ok := lc.created["catalog__vendor"]; !ok {
		t.Error("remaining kinds must still be created")
	}
}

func TestCreateAll_AlreadyExistsSwallowed(t *testing.T) {
	lc := newMockLifecycle()
	lc.createErrs["catalog__item"] = engine.ErrIndexExists
	schemas := schema.New()
	schemas.RegisterMapping("Item", itemMapping())

	svc := New(lc, schemas, "catalog")
	if err := svc.CreateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAll_NoKinds(t *testing.T) {
	lc := newMockLifecycle()
	svc := New(lc, schema.New(), "catalog")

	if err := svc.CreateAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lc.created) != 0 {
		t.Errorf("expected no creates, got %d", len(lc.created))
	}
}

// --- DropAll tests ---

func TestDropAll_SortedOrder(t *testing.T) {
	lc := newMockLifecycle()
	schemas := schema.New()
	schemas.RegisterMapping("Vendor", itemMapping())
	schemas.RegisterMapping("Item", itemMapping())

	svc := New(lc, schemas, "catalog")
	if err := svc.DropAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lc.deleted) != 2 || lc.deleted[0] != "catalog__item" || lc.deleted[1] != "catalog__vendor" {
		t.Errorf("unexpected drop order: %v", lc.deleted)
	}
}

func TestDropAll_FirstFailurePropagates(t *testing.T) {
	lc := newMockLifecycle()
	lc.deleteErr = errors.New("boom")
	schemas := schema.New()
	schemas.RegisterMapping("Item", itemMapping())
	schemas.RegisterMapping("Vendor", itemMapping())

	svc := New(lc, schemas, "catalog")
	err := svc.DropAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(lc.deleted) != 0 {
		t.Errorf("drop must stop at the first failure, got %v", lc.deleted)
	}
}
