// Package redisearch implements engine.Engine on a Redis 8+ search-capable
// server via rueidis. Documents are stored as JSON under "<index>:<id>" and
// served through one FT index per engine index. Only a documented subset of
// the query DSL translates to FT syntax; anything else fails with
// engine.ErrUnsupportedQuery.
package redisearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/docdex-io/docdex/internal/engine"
)

// Compile-time check: Client implements engine.Engine.
var _ engine.Engine = (*Client)(nil)

// Config holds connection parameters for a Redis engine.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Client talks to one Redis engine.
type Client struct {
	client rueidis.Client
}

// NewClient creates a Redis engine client via rueidis.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Client{client: client}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (c *Client) Close() {
	c.client.Close()
}

// WaitForReady polls Ping until the engine responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for engine: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (c *Client) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return c.client.Do(ctx, cmd)
}

func (c *Client) b() rueidis.Builder {
	return c.client.B()
}

func docKey(index, id string) string {
	return index + ":" + id
}

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
