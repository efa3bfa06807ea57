package index

import (
	"context"

	"github.com/docdex-io/docdex/internal/engine"
)

// Lifecycle is the index management surface of the engine.
type Lifecycle interface {
	CreateIndex(ctx context.Context, index string, def *engine.IndexDefinition) error
	DeleteIndex(ctx context.Context, index string) error
}
