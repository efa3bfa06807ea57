// Package engine defines the remote full-text engine facade the manager
// runs against. Drivers live in subpackages; consumers depend on the narrow
// sub-interfaces they actually call.
package engine

import (
	"context"
	"time"
)

// Engine is the full engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on the narrow sub-interfaces, not this facade
type Engine interface {
	Pinger
	DocumentStore
	Searcher
	IndexManager
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentStore provides by-id document operations on one index.
type DocumentStore interface {
	IndexDocument(ctx context.Context, index, id string, source map[string]any) error
	GetDocument(ctx context.Context, index, id string) (*GetResult, error)
	DeleteDocument(ctx context.Context, index, id string) error
}

// Searcher provides query operations over one index.
type Searcher interface {
	Search(ctx context.Context, index string, req *SearchRequest) (*SearchResult, error)
	Count(ctx context.Context, index string, query map[string]any) (int, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, index string, def *IndexDefinition) error
	DeleteIndex(ctx context.Context, index string) error
}
