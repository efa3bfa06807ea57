package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/test", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/test", "200"))
	if count < 1 {
		t.Errorf("expected request count >= 1, got %f", count)
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration histogram to have observations")
	}
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/created", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/api/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/api/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	cases := []struct {
		path   string
		status string
	}{
		{"/api/created", "201"},
		{"/api/missing", "404"},
		{"/api/broken", "500"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.status))
		if count < 1 {
			t.Errorf("path %s: expected count >= 1 for status %s, got %f", tc.path, tc.status, count)
		}
	}
}

func TestMetricsMiddleware_DifferentMethods(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	handler := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	r.Get("/api/resource", handler)
	r.Post("/api/resource", handler)
	r.Delete("/api/resource", handler)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/resource", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(method, "/api/resource", "200"))
		if count < 1 {
			t.Errorf("method %s: expected count >= 1, got %f", method, count)
		}
	}
}

func TestMetricsMiddleware_SkipsScrapePaths(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	if count != 0 {
		t.Errorf("scrape paths must not be instrumented, got count %f", count)
	}
}

func TestMetricsMiddleware_TracksInFlight(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/slow", func(w http.ResponseWriter, _ *http.Request) {
		if v := testutil.ToFloat64(httpRequestsInFlight); v != 1 {
			t.Errorf("in-flight during request = %f, want 1", v)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/slow", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if v := testutil.ToFloat64(httpRequestsInFlight); v != 0 {
		t.Errorf("in-flight after request = %f, want 0", v)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "unknown"},
		{"/api/documents", "/api/documents"},
		{"/kinds/{kind}/documents/{id}", "/kinds/{kind}/documents/{id}"},
	}

	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMetricsHandler_ViaPromhttp(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/observed", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	req := httptest.NewRequest(http.MethodGet, "/api/observed", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "docdex_http_requests_total") {
		t.Error("expected docdex_http_requests_total in metrics output")
	}
	if !strings.Contains(body, "docdex_http_request_duration_seconds") {
		t.Error("expected docdex_http_request_duration_seconds in metrics output")
	}
}
