package redisearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/docdex-io/docdex/internal/engine"
)

// Search runs one query via FT.SEARCH. The from/size window maps to LIMIT.
func (c *Client) Search(ctx context.Context, index string, req *engine.SearchRequest) (*engine.SearchResult, error) {
	queryStr, extra, err := translateQuery(index, req.Query)
	if err != nil {
		return nil, err
	}
	sortArgs, err := translateSort(req.Sort)
	if err != nil {
		return nil, err
	}

	args := []string{index, queryStr}
	args = append(args, extra...)
	args = append(args, sortArgs...)
	args = append(args, "LIMIT", strconv.Itoa(req.From), strconv.Itoa(req.Size), "DIALECT", "2")

	cmd := c.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := c.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, engine.ErrIndexNotFound
		}
		return nil, &engine.Error{Op: engine.OpSearch, Err: err}
	}

	return parseSearchResult(index, raw)
}

// Count returns the match count via FT.SEARCH with LIMIT 0 0.
func (c *Client) Count(ctx context.Context, index string, query map[string]any) (int, error) {
	queryStr, extra, err := translateQuery(index, query)
	if err != nil {
		return 0, err
	}

	args := []string{index, queryStr}
	args = append(args, extra...)
	args = append(args, "LIMIT", "0", "0", "DIALECT", "2")

	cmd := c.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := c.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return 0, engine.ErrIndexNotFound
		}
		return 0, &engine.Error{Op: engine.OpCount, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// parseSearchResult walks the RESP2 2-stride reply:
// [total, key1, fields1, key2, fields2, ...]. For ON JSON indexes the
// fields pair up as ["$", "<document json>"]. Unparseable hits are skipped.
func parseSearchResult(index string, raw []rueidis.RedisMessage) (*engine.SearchResult, error) {
	if len(raw) == 0 {
		return &engine.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	res := &engine.SearchResult{Total: int(total)}
	prefix := index + ":"
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		source := parseHitSource(fields)
		if source == nil {
			continue
		}
		res.Hits = append(res.Hits, engine.Hit{
			ID:     strings.TrimPrefix(key, prefix),
			Source: source,
		})
	}
	return res, nil
}

func parseHitSource(fields []rueidis.RedisMessage) map[string]any {
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil || name != "$" {
			continue
		}
		val, err := fields[j+1].ToString()
		if err != nil {
			return nil
		}
		var source map[string]any
		if err := json.Unmarshal([]byte(val), &source); err != nil {
			return nil
		}
		return source
	}
	return nil
}
