package docdex

import (
	domsearch "github.com/docdex-io/docdex/internal/domain/search"
)

// Search is a fluent builder for one search: an engine query clause,
// ordered sort clauses and a from/size result window. A nil *Search means
// match-all over the default window. Value-equal searches share one cached
// result list.
type Search struct {
	query map[string]any
	sort  []map[string]any
	from  int
	size  int
}

// NewSearch creates an empty search (match-all, default window of 10).
func NewSearch() *Search {
	return &Search{}
}

// Query sets the engine query clause, replacing any previous one. The
// clause uses the engine's native JSON form, e.g.
//
//	map[string]any{"term": map[string]any{"status": "active"}}
func (s *Search) Query(clause map[string]any) *Search {
	s.query = clause
	return s
}

// SortBy appends a sort clause on one field. Order is "asc" or "desc".
func (s *Search) SortBy(field, order string) *Search {
	s.sort = append(s.sort, map[string]any{field: order})
	return s
}

// From sets the result window offset.
func (s *Search) From(n int) *Search {
	s.from = n
	return s
}

// Size sets the result window length (default 10, capped at 10000).
func (s *Search) Size(n int) *Search {
	s.size = n
	return s
}

// descriptor validates the builder into the internal descriptor form.
// A nil receiver yields a nil descriptor, which downstream means match-all.
func (s *Search) descriptor() (*domsearch.Descriptor, error) {
	if s == nil {
		return nil, nil
	}
	d, err := domsearch.New(s.query, s.sort, s.from, s.size)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
