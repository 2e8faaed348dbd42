package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/metrics"
)

// TestServer_metricsMiddleware tests the metrics tracking middleware.
func TestServer_metricsMiddleware(t *testing.T) {
	t.Run("Next handler is called", func(t *testing.T) {
		s := &Server{metrics: metrics.New()}

		nextCalled := false
		next := func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", HealthPath, http.NoBody)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if !nextCalled {
			t.Error("next handler was not called")
		}
	})

	t.Run("Status code is recorded per route", func(t *testing.T) {
		s := &Server{metrics: metrics.New()}

		next := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", ProjectsPath+"?region=Mars", http.NoBody)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		expected := `
# HELP epanalyzer_http_requests_total HTTP requests served.
# TYPE epanalyzer_http_requests_total counter
epanalyzer_http_requests_total{code="400",method="GET",route="/api/projects"} 1
`
		if err := testutil.GatherAndCompare(s.metrics.Registry(), strings.NewReader(expected), "epanalyzer_http_requests_total"); err != nil {
			t.Error(err)
		}
	})

	t.Run("Unknown paths share one label", func(t *testing.T) {
		if got := routeLabel("/wp-admin"); got != "other" {
			t.Errorf("routeLabel = %q, want other", got)
		}
		if got := routeLabel(ProgressPath); got != ProgressPath {
			t.Errorf("routeLabel = %q, want %q", got, ProgressPath)
		}
	})

	t.Run("Active requests return to zero", func(t *testing.T) {
		s := &Server{metrics: metrics.New()}
		handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {})
		handler(httptest.NewRecorder(), httptest.NewRequest("GET", HealthPath, http.NoBody))

		body := scrape(t, s)
		if !strings.Contains(body, "epanalyzer_http_active_requests 0") {
			t.Errorf("active requests gauge should be back to 0:\n%s", body)
		}
	})

	t.Run("Recorder keeps flushing available", func(t *testing.T) {
		s := &Server{metrics: metrics.New()}
		flushed := false
		handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			f, ok := w.(http.Flusher)
			if !ok {
				t.Fatal("wrapped writer must implement http.Flusher")
			}
			f.Flush()
			flushed = true
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest("GET", ProgressPath, http.NoBody))
		if !flushed || !rec.Flushed {
			t.Error("flush should reach the underlying writer")
		}
	})
}

// TestServer_handleMetrics tests the /metrics endpoint handler.
func TestServer_handleMetrics(t *testing.T) {
	t.Run("GET returns metrics", func(t *testing.T) {
		s := &Server{metrics: metrics.New()}

		body := scrape(t, s)
		for _, want := range []string{"epanalyzer_", "go_"} {
			if !strings.Contains(body, want) {
				t.Errorf("response should contain %q", want)
			}
		}
	})

	for _, method := range []string{"POST", "PUT"} {
		t.Run(method+" returns method not allowed", func(t *testing.T) {
			s := &Server{
				metrics: metrics.New(),
				logger:  newTestLogger(),
			}

			req := httptest.NewRequest(method, MetricsPath, http.NoBody)
			rec := httptest.NewRecorder()

			s.handleMetrics(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

func scrape(t *testing.T, s *Server) string {
	t.Helper()
	req := httptest.NewRequest("GET", MetricsPath, http.NoBody)
	rec := httptest.NewRecorder()
	s.handleMetrics(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	return rec.Body.String()
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Warn(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
