package document

import (
	"context"

	"github.com/docdex-io/docdex/internal/engine"
)

// Store is the by-id document surface of the engine.
type Store interface {
	IndexDocument(ctx context.Context, index, id string, source map[string]any) error
	GetDocument(ctx context.Context, index, id string) (*engine.GetResult, error)
	DeleteDocument(ctx context.Context, index, id string) error
}
