// Package elastic implements engine.Engine over the Elasticsearch REST API.
// Any server speaking the same wire contract (index/get/delete document,
// create/delete index, _search, _count) works.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/docdex-io/docdex/internal/engine"
)

// Compile-time check: Client implements engine.Engine.
var _ engine.Engine = (*Client)(nil)

const defaultTimeout = 10 * time.Second

// Config holds connection parameters for an Elasticsearch-compatible engine.
type Config struct {
	URL      string
	Username string
	Password string

	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
	// Compression gzips request bodies.
	Compression bool
	// RequestsPerSecond throttles outgoing calls when positive.
	RequestsPerSecond float64
}

// Client talks to one engine endpoint.
type Client struct {
	base    string
	user    string
	pass    string
	httpc   *http.Client
	gzip    bool
	limiter *rate.Limiter
}

// NewClient validates the config and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", cfg.URL)
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}

	c := &Client{
		base:  strings.TrimRight(cfg.URL, "/"),
		user:  cfg.Username,
		pass:  cfg.Password,
		httpc: httpc,
		gzip:  cfg.Compression,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodHead, "/", nil, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
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

// StatusError reports a non-2xx engine response.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("engine returned status %d", e.Status)
	}
	return fmt.Sprintf("engine returned status %d: %s", e.Status, e.Reason)
}

// do performs one engine call, decoding a 2xx JSON response into out (when
// non-nil) and turning any other status into a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		if c.gzip {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			if _, err := zw.Write(payload); err != nil {
				return fmt.Errorf("compress body: %w", err)
			}
			if err := zw.Close(); err != nil {
				return fmt.Errorf("compress body: %w", err)
			}
			rdr = &buf
		} else {
			rdr = bytes.NewReader(payload)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if c.gzip {
			req.Header.Set("Content-Encoding", "gzip")
		}
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Reason: errorReason(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorReason extracts error.reason from an engine error body, falling back
// to a trimmed raw body.
func errorReason(data []byte) string {
	var body struct {
		Error struct {
			Reason string `json:"reason"`
			Type   string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error.Reason != "" {
			return body.Error.Reason
		}
		if body.Error.Type != "" {
			return body.Error.Type
		}
	}
	const maxReason = 256
	s := strings.TrimSpace(string(data))
	if len(s) > maxReason {
		s = s[:maxReason]
	}
	return s
}

// isStatus checks whether err is a StatusError with the given code.
func isStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// reasonContains checks a StatusError reason for substr (case-insensitive).
func reasonContains(err error, substr string) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(strings.ToLower(se.Reason), strings.ToLower(substr))
}

func docPath(index, id string) string {
	return "/" + url.PathEscape(index) + "/_doc/" + url.PathEscape(id)
}

func indexPath(index string) string {
	return "/" + url.PathEscape(index)
}
