package search

import (
	"context"

	"github.com/docdex-io/docdex/internal/engine"
)

// Searcher is the query surface of the engine.
type Searcher interface {
	Search(ctx context.Context, index string, req *engine.SearchRequest) (*engine.SearchResult, error)
	Count(ctx context.Context, index string, query map[string]any) (int, error)
}
