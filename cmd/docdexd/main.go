package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/docdex-io/docdex/internal/config"
	domdoc "github.com/docdex-io/docdex/internal/domain/document"
	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/engine/elastic"
	"github.com/docdex-io/docdex/internal/engine/redisearch"
	logpkg "github.com/docdex-io/docdex/internal/logger"
	"github.com/docdex-io/docdex/internal/metrics"
	"github.com/docdex-io/docdex/internal/registry/identity"
	"github.com/docdex-io/docdex/internal/registry/querycache"
	"github.com/docdex-io/docdex/internal/registry/schema"
	"github.com/docdex-io/docdex/internal/retry"
	chiTransport "github.com/docdex-io/docdex/internal/transport/chi"
	documentuc "github.com/docdex-io/docdex/internal/usecase/document"
	indexuc "github.com/docdex-io/docdex/internal/usecase/index"
	searchuc "github.com/docdex-io/docdex/internal/usecase/search"
	"github.com/docdex-io/docdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docdexd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.String("base_index", cfg.Manager.BaseIndex),
	)

	// Create engine client based on driver
	var eng engine.Engine
	switch cfg.Engine.Driver {
	case "elasticsearch":
		eng, err = elastic.NewClient(elastic.Config{
			URL:               cfg.Engine.URL,
			Username:          cfg.Engine.Username,
			Password:          cfg.Engine.Password,
			Compression:       cfg.Engine.Compression,
			RequestsPerSecond: cfg.Engine.RequestsPerSec,
		})
	case "redisearch":
		eng, err = redisearch.NewClient(redisearch.Config{
			Addrs:    cfg.Engine.Addrs,
			Username: cfg.Engine.Username,
			Password: cfg.Engine.Password,
			DB:       cfg.Engine.DB,
		})
	default:
		logger.Fatal("Unknown engine driver", zap.String("driver", cfg.Engine.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create engine client", zap.Error(err))
	}
	defer eng.Close()

	// Wait for the engine to be ready
	ctx := context.Background()
	if err := eng.WaitForReady(ctx, time.Duration(cfg.Engine.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Engine not ready", zap.Error(err))
	}
	logger.Info("Connected to engine")

	// One set of registries per process, shared by all use cases
	factory := domdoc.NewFactory()
	identities := identity.New()
	cache := querycache.New()
	schemas := schema.New()

	// Declared kinds become Raw documents with their configured schema
	for kind, kc := range cfg.Kinds {
		factory.Register(kind, func(id string) domdoc.Document {
			return domdoc.NewRaw(kind, id, nil)
		})
		schemas.RegisterMapping(kind, kc.Mapping)
		if len(kc.Settings) > 0 {
			schemas.RegisterSettings(kind, kc.Settings)
		}
	}
	logger.Info("Registered document kinds", zap.Strings("kinds", factory.Kinds()))

	policy := retry.Policy{
		MaxAttempts: cfg.Manager.RetryAttempts,
		Delay:       time.Duration(cfg.Manager.RetryDelayMS) * time.Millisecond,
	}

	// Create use case services
	docSvc := documentuc.New(eng, identities, cache, factory, cfg.Manager.BaseIndex, policy)
	searchSvc := searchuc.New(eng, identities, cache, factory, cfg.Manager.BaseIndex)
	indexSvc := indexuc.New(eng, schemas, cfg.Manager.BaseIndex)

	// Create chi server
	server := chiTransport.NewServer(docSvc, searchSvc, indexSvc, identities, eng, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(jsonRecoverer())
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain
// text stacktrace. It sits inside wideEventMiddleware so a recovered panic
// still produces a canonical log line and carries the request-scoped logger.
func jsonRecoverer() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logpkg.FromContext(r.Context()).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
