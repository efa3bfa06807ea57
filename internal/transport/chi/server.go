// Package chi exposes the manager over a REST API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docdex-io/docdex/internal/domain"
	domdoc "github.com/docdex-io/docdex/internal/domain/document"
	domsearch "github.com/docdex-io/docdex/internal/domain/search"
	"github.com/docdex-io/docdex/internal/engine"
	"github.com/docdex-io/docdex/internal/registry/identity"
	documentuc "github.com/docdex-io/docdex/internal/usecase/document"
	indexuc "github.com/docdex-io/docdex/internal/usecase/index"
	searchuc "github.com/docdex-io/docdex/internal/usecase/search"
	"github.com/docdex-io/docdex/internal/version"
)

// errorCode is the machine-readable error tag in API responses.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeDocumentNotFound  errorCode = "document_not_found"
	codeIndexNotFound     errorCode = "index_not_found"
	codeUnknownKind       errorCode = "unknown_kind"
	codeIdentityConflict  errorCode = "identity_conflict"
	codeEngineUnavailable errorCode = "engine_unavailable"
	codeUnsupportedQuery  errorCode = "unsupported_query"
	codeInternalError     errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the REST API over the document, search and index services.
type Server struct {
	documents  *documentuc.Service
	search     *searchuc.Service
	indexes    *indexuc.Service
	identities *identity.Registry
	engine     engine.Pinger
	logger     *zap.Logger

	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	search *searchuc.Service,
	indexes *indexuc.Service,
	identities *identity.Registry,
	eng engine.Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents:  documents,
		search:     search,
		indexes:    indexes,
		identities: identities,
		engine:     eng,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrUnknownKind, http.StatusBadRequest, codeUnknownKind),
		sentinelHandler(domain.ErrIdentityConflict, http.StatusConflict, codeIdentityConflict),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, codeEngineUnavailable),
		sentinelHandler(engine.ErrUnsupportedQuery, http.StatusBadRequest, codeUnsupportedQuery),
		sentinelHandler(engine.ErrIndexNotFound, http.StatusNotFound, codeIndexNotFound),
	}
	return s
}

// Routes mounts all API handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/kinds/{kind}", func(r chi.Router) {
			r.Post("/documents", s.CreateDocument)
			r.Put("/documents/{id}", s.UpsertDocument)
			r.Get("/documents/{id}", s.GetDocument)
			r.Delete("/documents/{id}", s.DeleteDocument)
			r.Post("/search", s.SearchDocuments)
			r.Post("/count", s.CountDocuments)
		})
		r.Post("/admin/indexes", s.CreateIndexes)
		r.Delete("/admin/indexes", s.DropIndexes)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Wire types.

type upsertDocumentRequest struct {
	Fields map[string]any `json:"fields"`
}

type documentResponse struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields"`
}

type searchRequest struct {
	Query map[string]any   `json:"query,omitempty"`
	Sort  []map[string]any `json:"sort,omitempty"`
	From  int              `json:"from,omitempty"`
	Size  int              `json:"size,omitempty"`
}

type searchResponse struct {
	Items []documentResponse `json:"items"`
	Total int                `json:"total"`
}

type countRequest struct {
	Query map[string]any `json:"query,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// CreateDocument handles POST /kinds/{kind}/documents. The server assigns
// a fresh id.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req upsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc := domdoc.NewRaw(kind, uuid.NewString(), req.Fields)
	if err := s.documents.Save(r.Context(), doc); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/kinds/"+kind+"/documents/"+doc.ID())
	writeJSON(w, http.StatusCreated, documentToWire(doc))
}

// UpsertDocument handles PUT /kinds/{kind}/documents/{id}. Any live
// instance of the identity is replaced by the request body.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	var req upsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.identities.Detach(kind, id)
	doc := domdoc.NewRaw(kind, id, req.Fields)
	if err := s.documents.Save(r.Context(), doc); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToWire(doc))
}

// GetDocument handles GET /kinds/{kind}/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(r.Context(), kind, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToWire(doc))
}

// DeleteDocument handles DELETE /kinds/{kind}/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	if err := s.documents.Delete(r.Context(), kind, id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchDocuments handles POST /kinds/{kind}/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	d, err := domsearch.New(req.Query, req.Sort, req.From, req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	docs, err := s.search.Documents(r.Context(), kind, &d)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentResponse, len(docs))
	for i, doc := range docs {
		items[i] = documentToWire(doc)
	}
	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// CountDocuments handles POST /kinds/{kind}/count.
func (s *Server) CountDocuments(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	d, err := domsearch.New(req.Query, nil, 0, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	n, err := s.search.Count(r.Context(), kind, &d)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// CreateIndexes handles POST /admin/indexes.
func (s *Server) CreateIndexes(w http.ResponseWriter, r *http.Request) {
	if err := s.indexes.CreateAll(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DropIndexes handles DELETE /admin/indexes.
func (s *Server) DropIndexes(w http.ResponseWriter, r *http.Request) {
	if err := s.indexes.DropAll(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "healthy",
		Version: version.String(),
		Checks:  map[string]string{"engine": "ok"},
	}
	status := http.StatusOK

	if err := s.engine.Ping(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["engine"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func documentToWire(doc domdoc.Document) documentResponse {
	return documentResponse{
		ID:     doc.ID(),
		Kind:   doc.Kind(),
		Fields: doc.Storable(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnknownKind,
		domain.ErrIdentityConflict,
		domain.ErrUnavailable,
		engine.ErrUnsupportedQuery,
		engine.ErrIndexNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
