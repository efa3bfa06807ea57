package engine

// GetResult is the outcome of a by-id fetch. Found=false is a definitive
// "document absent" answer, not a transport failure.
type GetResult struct {
	Found  bool
	Source map[string]any
}

// SearchRequest is the wire form of one search. From and Size are always
// sent; Query and Sort only when non-nil.
type SearchRequest struct {
	From  int
	Size  int
	Query map[string]any
	Sort  []map[string]any
}

// Hit is a single search hit.
type Hit struct {
	ID     string
	Source map[string]any
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// IndexDefinition is the body of a create-index call. Settings is optional.
type IndexDefinition struct {
	Mappings map[string]any
	Settings map[string]any
}
