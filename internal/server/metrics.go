package server

import (
	"net/http"
	"time"

	"github.com/agbru/epanalyzer/internal/logging"
)

// statusRecorder captures the status code written by a handler. It keeps
// http.Flusher available so the progress stream can flush through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.code = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Flush forwards to the wrapped writer when it supports flushing.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the wrapped writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// routeLabel keeps the route label set bounded.
func routeLabel(path string) string {
	switch path {
	case ProjectsPath, ProgressPath, HealthPath, MetricsPath:
		return path
	}
	return "other"
}

// metricsMiddleware tracks active requests, counts and latency.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.RequestStarted()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		defer func() {
			s.metrics.RequestFinished(r.Method, routeLabel(r.URL.Path), rec.code, time.Since(start))
		}()
		next(rec, r)
	}
}

// handleMetrics serves the Prometheus exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Warn("method not allowed", logging.String("path", r.URL.Path), logging.String("method", r.Method))
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.Handler().ServeHTTP(w, r)
}
