package redisearch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/docdex-io/docdex/internal/engine"
)

// CreateIndex creates an FT index over the JSON documents stored under the
// index's key prefix. Mapping properties translate to FT field types
// (text→TEXT, keyword/boolean/date→TAG, numerics→NUMERIC). Index settings
// have no FT equivalent and are ignored.
func (c *Client) CreateIndex(ctx context.Context, index string, def *engine.IndexDefinition) error {
	args, err := buildCreateArgs(index, def)
	if err != nil {
		return err
	}

	cmd := c.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := c.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return engine.ErrIndexExists
		}
		return &engine.Error{Op: engine.OpCreateIndex, Err: err}
	}
	return nil
}

// DeleteIndex drops the FT index and the documents under its prefix (DD),
// matching the delete-index semantics of the HTTP engine.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	cmd := c.b().Arbitrary("FT.DROPINDEX").Args(index, "DD").Build()
	if err := c.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return engine.ErrIndexNotFound
		}
		return &engine.Error{Op: engine.OpDeleteIndex, Err: err}
	}
	return nil
}

func buildCreateArgs(index string, def *engine.IndexDefinition) ([]string, error) {
	if index == "" {
		return nil, errors.New("index name is required")
	}

	fieldArgs, err := buildSchemaArgs(def)
	if err != nil {
		return nil, err
	}

	args := []string{index, "ON", "JSON", "PREFIX", "1", index + ":", "SCHEMA"}
	return append(args, fieldArgs...), nil
}

// buildSchemaArgs renders mapping properties into FT SCHEMA args, fields
// sorted by name for a stable command shape.
func buildSchemaArgs(def *engine.IndexDefinition) ([]string, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: a mapping with properties is required", engine.ErrUnsupportedMapping)
	}
	props, ok := def.Mappings["properties"].(map[string]any)
	if !ok || len(props) == 0 {
		return nil, fmt.Errorf("%w: a mapping with properties is required", engine.ErrUnsupportedMapping)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]string, 0, len(names)*4)
	for _, name := range names {
		spec, _ := props[name].(map[string]any)
		typ, _ := spec["type"].(string)
		ft, err := fieldType(typ)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		args = append(args, "$."+name, "AS", name, ft)
	}
	return args, nil
}

func fieldType(typ string) (string, error) {
	switch typ {
	case "text":
		return "TEXT", nil
	case "keyword", "boolean", "date":
		return "TAG", nil
	case "integer", "long", "short", "byte", "double", "float", "half_float", "scaled_float":
		return "NUMERIC", nil
	default:
		return "", fmt.Errorf("%w: type %q", engine.ErrUnsupportedMapping, typ)
	}
}
