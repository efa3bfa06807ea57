// Package docdex maps Go values onto a remote full-text search engine: an
// object-document manager with identity tracking and query result caching
// over Elasticsearch-compatible servers or Redis with search modules.
//
// Documents implement the Document contract (kind, id, source round-trip).
// Within one Manager there is at most one live instance per identity:
// fetches and searches always resolve to the registered instance, and
// value-equal searches share a single cached engine round-trip.
//
//	m, _ := docdex.New(ctx,
//	    docdex.WithElasticsearch("http://localhost:9200"),
//	    docdex.WithBaseIndex("catalog"),
//	)
//	defer m.Close()
//
//	m.RegisterKind("item", func(id string) docdex.Document {
//	    return docdex.NewRaw("item", id, nil)
//	})
//	m.RegisterMapping("item", mapping)
//	_ = m.CreateIndexes(ctx)
//
//	doc := docdex.NewRaw("item", "i-1", map[string]any{"name": "reading lamp"})
//	_ = m.Save(ctx, doc)
//
//	hits, _ := m.Documents(ctx, "item", docdex.NewSearch().
//	    Query(map[string]any{"match": map[string]any{"name": "lamp"}}).
//	    Size(20),
//	)
package docdex
