package elastic

import (
	"context"
	"net/http"

	"github.com/docdex-io/docdex/internal/engine"
)

type createIndexBody struct {
	Settings map[string]any `json:"settings,omitempty"`
	Mappings map[string]any `json:"mappings,omitempty"`
}

// CreateIndex creates an index with the given mappings and settings.
func (c *Client) CreateIndex(ctx context.Context, index string, def *engine.IndexDefinition) error {
	body := createIndexBody{}
	if def != nil {
		body.Settings = def.Settings
		body.Mappings = def.Mappings
	}
	if err := c.do(ctx, http.MethodPut, indexPath(index), body, nil); err != nil {
		if reasonContains(err, "already exists") {
			return engine.ErrIndexExists
		}
		return &engine.Error{Op: engine.OpCreateIndex, Err: err}
	}
	return nil
}

// DeleteIndex removes an index and every document in it.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	if err := c.do(ctx, http.MethodDelete, indexPath(index), nil, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return engine.ErrIndexNotFound
		}
		return &engine.Error{Op: engine.OpDeleteIndex, Err: err}
	}
	return nil
}
