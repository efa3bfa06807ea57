package elastic

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docdex-io/docdex/internal/engine"
)

type searchBody struct {
	From  int              `json:"from"`
	Size  int              `json:"size"`
	Query map[string]any   `json:"query,omitempty"`
	Sort  []map[string]any `json:"sort,omitempty"`
}

type searchResponse struct {
	Hits struct {
		Total totalCount `json:"total"`
		Hits  []struct {
			ID     string         `json:"_id"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// totalCount accepts both wire forms of hits.total: a bare integer and the
// {"value": N, "relation": ...} object.
type totalCount int

func (t *totalCount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = totalCount(obj.Value)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = totalCount(n)
	return nil
}

// Search runs one query against an index. From and size are always sent;
// query and sort only when set.
func (c *Client) Search(ctx context.Context, index string, req *engine.SearchRequest) (*engine.SearchResult, error) {
	body := searchBody{From: req.From, Size: req.Size, Query: req.Query, Sort: req.Sort}

	var out searchResponse
	if err := c.do(ctx, http.MethodPost, indexPath(index)+"/_search", body, &out); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, engine.ErrIndexNotFound
		}
		return nil, &engine.Error{Op: engine.OpSearch, Err: err}
	}

	hits := make([]engine.Hit, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		hits = append(hits, engine.Hit{ID: h.ID, Source: h.Source})
	}
	return &engine.SearchResult{Total: int(out.Hits.Total), Hits: hits}, nil
}

type countBody struct {
	Query map[string]any `json:"query,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

// Count returns the number of documents matching query. A nil query sends
// no query clause at all and counts everything.
func (c *Client) Count(ctx context.Context, index string, query map[string]any) (int, error) {
	var body any
	if len(query) > 0 {
		body = countBody{Query: query}
	}

	var out countResponse
	if err := c.do(ctx, http.MethodPost, indexPath(index)+"/_count", body, &out); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return 0, engine.ErrIndexNotFound
		}
		return 0, &engine.Error{Op: engine.OpCount, Err: err}
	}
	return out.Count, nil
}
