package docdex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/docdex-io/docdex/internal/retry"
)

// Option configures the Manager.
type Option interface {
	apply(*managerConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*managerConfig)

func (f optionFunc) apply(c *managerConfig) { f(c) }

type managerConfig struct {
	driver   string // "elasticsearch" or "redisearch"
	url      string
	addrs    []string
	username string
	password string

	engine Engine

	baseIndex string
	retry     retry.Policy

	httpClient     *http.Client
	compression    bool
	requestsPerSec float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch points the manager at an Elasticsearch-compatible
// engine endpoint.
func WithElasticsearch(url string) Option {
	return optionFunc(func(c *managerConfig) {
		c.driver = "elasticsearch"
		c.url = url
	})
}

// WithRediSearch points the manager at a Redis instance with the search
// and JSON modules loaded.
func WithRediSearch(addr, password string) Option {
	return optionFunc(func(c *managerConfig) {
		c.driver = "redisearch"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEngine plugs in a custom engine implementation. Takes precedence
// over WithElasticsearch and WithRediSearch.
func WithEngine(e Engine) Option {
	return optionFunc(func(c *managerConfig) {
		c.engine = e
	})
}

// WithBaseIndex sets the index name prefix. Required. Each kind maps to
// the engine index "<base>__<lowercased kind>".
func WithBaseIndex(name string) Option {
	return optionFunc(func(c *managerConfig) {
		c.baseIndex = name
	})
}

// WithBasicAuth sets the credentials passed to the engine.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *managerConfig) {
		c.username = username
		c.password = password
	})
}

// WithRetry overrides the by-id fetch retry policy.
// Defaults: 3 attempts, 250ms base delay. Only Document and Refresh
// retry; saves, deletes and searches never do.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return optionFunc(func(c *managerConfig) {
		c.retry = retry.Policy{MaxAttempts: maxAttempts, Delay: delay}
	})
}

// WithLogger enables structured logging for manager operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *managerConfig) {
		c.logger = l
	})
}

// WithPrometheus registers manager metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *managerConfig) {
		c.metricsReg = reg
	})
}

// WithHTTPClient overrides the HTTP client used by the elasticsearch
// driver (default: 10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *managerConfig) {
		c.httpClient = hc
	})
}

// WithCompression gzips request bodies. Elasticsearch driver only.
func WithCompression() Option {
	return optionFunc(func(c *managerConfig) {
		c.compression = true
	})
}

// WithRateLimit throttles outgoing engine calls to rps requests per
// second. Elasticsearch driver only.
func WithRateLimit(rps float64) Option {
	return optionFunc(func(c *managerConfig) {
		c.requestsPerSec = rps
	})
}
