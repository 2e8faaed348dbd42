package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/metrics"
	"github.com/agbru/epanalyzer/internal/server"
	"github.com/agbru/epanalyzer/internal/telemetry"
)

// replayServiceName identifies the replay server in traces.
const replayServiceName = "epanalyzer-replay"

// runServe runs the replay server until a signal arrives.
func (a *Application) runServe(ctx context.Context) int {
	cfg := *a.Serve
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLevelLogger(a.ErrWriter, "replay", cfg.LogLevel)

	fixture, err := loadFixture(cfg.Fixture)
	if err != nil {
		logger.Error("invalid fixture", err, logging.String("path", cfg.Fixture))
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	shutdownTracing, err := telemetry.Init(replayServiceName)
	if err != nil {
		logger.Warn("tracing disabled", logging.Err(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	srv := server.New(server.Options{
		Logger:    logger,
		Metrics:   a.collector,
		StepDelay: cfg.StepDelay,
		Fixture:   fixture,
	})
	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		logger.Error("replay server stopped", err)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

// loadFixture reads a recorded response body and checks that the client
// would accept it. An empty path selects the built-in sample.
func loadFixture(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot read fixture: %v", err)
	}
	if _, err := analysis.Decode(body); err != nil {
		return nil, apperrors.NewConfigError("fixture %s is not a valid analysis response: %v", path, err)
	}
	return body, nil
}

// serveMetrics exposes the client collector on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, c *metrics.Collector, logger logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return apperrors.NewConfigError("cannot listen on %s: %v", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle(server.MetricsPath, c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
