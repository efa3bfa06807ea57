package redisearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/docdex-io/docdex/internal/engine"
)

// IndexDocument stores the source as a JSON document under "<index>:<id>",
// where the index's FT prefix picks it up.
func (c *Client) IndexDocument(ctx context.Context, index, id string, source map[string]any) error {
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("encode source: %w", err)
	}

	cmd := c.b().Arbitrary("JSON.SET").Keys(docKey(index, id)).Args("$", string(data)).Build()
	if err := c.do(ctx, cmd).Error(); err != nil {
		return &engine.Error{Op: engine.OpIndexDoc, Err: err}
	}
	return nil
}

// GetDocument fetches a document by id. A missing key is a definitive
// absence, not an error.
func (c *Client) GetDocument(ctx context.Context, index, id string) (*engine.GetResult, error) {
	cmd := c.b().Arbitrary("JSON.GET").Keys(docKey(index, id)).Build()
	raw, err := c.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return &engine.GetResult{Found: false}, nil
		}
		return nil, &engine.Error{Op: engine.OpGetDoc, Err: err}
	}
	if raw == "" {
		return &engine.GetResult{Found: false}, nil
	}

	var source map[string]any
	if err := json.Unmarshal([]byte(raw), &source); err != nil {
		return nil, &engine.Error{Op: engine.OpGetDoc, Err: fmt.Errorf("decode source: %w", err)}
	}
	return &engine.GetResult{Found: true, Source: source}, nil
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	cmd := c.b().Del().Key(docKey(index, id)).Build()
	n, err := c.do(ctx, cmd).AsInt64()
	if err != nil {
		return &engine.Error{Op: engine.OpDeleteDoc, Err: err}
	}
	if n == 0 {
		return engine.ErrDocumentMissing
	}
	return nil
}
