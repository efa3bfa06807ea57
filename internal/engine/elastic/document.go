package elastic

import (
	"context"
	"net/http"

	"github.com/docdex-io/docdex/internal/engine"
)

// IndexDocument creates or replaces a document by id.
func (c *Client) IndexDocument(ctx context.Context, index, id string, source map[string]any) error {
	if err := c.do(ctx, http.MethodPut, docPath(index, id), source, nil); err != nil {
		return &engine.Error{Op: engine.OpIndexDoc, Err: err}
	}
	return nil
}

type getResponse struct {
	Found  bool           `json:"found"`
	Source map[string]any `json:"_source"`
}

// GetDocument fetches a document by id. A 404 is a definitive absence, not
// an error.
func (c *Client) GetDocument(ctx context.Context, index, id string) (*engine.GetResult, error) {
	var out getResponse
	if err := c.do(ctx, http.MethodGet, docPath(index, id), nil, &out); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return &engine.GetResult{Found: false}, nil
		}
		return nil, &engine.Error{Op: engine.OpGetDoc, Err: err}
	}
	return &engine.GetResult{Found: out.Found, Source: out.Source}, nil
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	if err := c.do(ctx, http.MethodDelete, docPath(index, id), nil, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return engine.ErrDocumentMissing
		}
		return &engine.Error{Op: engine.OpDeleteDoc, Err: err}
	}
	return nil
}
