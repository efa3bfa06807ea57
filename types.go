package docdex

import (
	"github.com/docdex-io/docdex/internal/domain/document"
	"github.com/docdex-io/docdex/internal/engine"
)

// Document is the contract managed values implement: a stable identity
// (kind + id) and a source round-trip. The manager keeps at most one live
// instance per identity.
type Document = document.Document

// Raw is a schemaless map-backed Document for kinds without a dedicated
// Go type.
type Raw = document.Raw

// NewRaw creates a Raw document for kind/id with the given fields.
func NewRaw(kind, id string, fields map[string]any) *Raw {
	return document.NewRaw(kind, id, fields)
}

// Engine is the remote engine contract behind the manager. The built-in
// drivers cover Elasticsearch-compatible servers and Redis with search
// modules; WithEngine plugs in anything else that speaks it.
type Engine = engine.Engine

// Wire types Engine implementations exchange with the manager.
type (
	GetResult       = engine.GetResult
	SearchRequest   = engine.SearchRequest
	SearchResult    = engine.SearchResult
	Hit             = engine.Hit
	IndexDefinition = engine.IndexDefinition
)
