package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agbru/epanalyzer/internal/api"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/metrics"
	"github.com/agbru/epanalyzer/internal/progress"
)

// Routes.
const (
	ProjectsPath = api.ProjectsPath
	ProgressPath = progress.ProgressPath
	HealthPath   = api.HealthPath
	MetricsPath  = "/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	// keepAliveInterval spaces comment lines on idle progress streams.
	keepAliveInterval = 15 * time.Second
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Logger   logging.Logger
	Metrics  *metrics.Collector
	Security *SecurityConfig
	// StepDelay separates consecutive progress events of a replay.
	StepDelay time.Duration
	// Fixture replaces the generated sample body.
	Fixture []byte
	// HubBuffer is the per-subscriber event queue length.
	HubBuffer int
	Now       func() time.Time
}

// Server replays the analysis service.
type Server struct {
	logger    logging.Logger
	metrics   *metrics.Collector
	security  SecurityConfig
	hub       *Hub
	stepDelay time.Duration
	fixture   []byte
	now       func() time.Time
	handler   http.Handler
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	s := &Server{
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		security:  DefaultSecurityConfig(),
		hub:       NewHub(opts.HubBuffer),
		stepDelay: opts.StepDelay,
		fixture:   opts.Fixture,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if opts.Security != nil {
		s.security = *opts.Security
	}
	if s.now == nil {
		s.now = time.Now
	}

	mux := http.NewServeMux()
	s.route(mux, ProjectsPath, s.handleProjects)
	s.route(mux, ProgressPath, s.handleProgress)
	s.route(mux, HealthPath, s.handleHealth)
	s.route(mux, MetricsPath, s.handleMetrics)
	s.handler = otelhttp.NewHandler(mux, "epanalyzer-replay")
	return s
}

func (s *Server) route(mux *http.ServeMux, path string, h http.HandlerFunc) {
	mux.HandleFunc(path, SecurityMiddleware(s.security, s.metricsMiddleware(h)))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Hub returns the progress hub.
func (s *Server) Hub() *Hub { return s.hub }

// Metrics returns the collector the server records into.
func (s *Server) Metrics() *metrics.Collector { return s.metrics }

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return apperrors.NewConfigError("cannot listen on %s: %v", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down.
// Request contexts derive from ctx so open progress streams end with it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("replay server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return apperrors.WrapError(err, "replay server shutdown")
	}
	s.logger.Info("replay server stopped")
	return nil
}
