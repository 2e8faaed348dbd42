// Package app wires configuration, logging, telemetry, metrics and the
// orchestration core into the CLI, REPL, TUI and replay server modes.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/epanalyzer/internal/api"
	"github.com/agbru/epanalyzer/internal/cli"
	"github.com/agbru/epanalyzer/internal/config"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/logging"
	"github.com/agbru/epanalyzer/internal/metrics"
	"github.com/agbru/epanalyzer/internal/orchestration"
	"github.com/agbru/epanalyzer/internal/progress"
	"github.com/agbru/epanalyzer/internal/telemetry"
	"github.com/agbru/epanalyzer/internal/tui"
	"github.com/agbru/epanalyzer/internal/ui"
)

const (
	// ServeCommand selects the replay server.
	ServeCommand = "serve"

	shutdownTimeout = 5 * time.Second
)

// Application represents the epanalyzer application instance.
type Application struct {
	Config config.AppConfig
	// Serve is set when the serve subcommand was given; Config is then unused.
	Serve     *config.ServeConfig
	ErrWriter io.Writer
	// In feeds the interactive prompt. Nil means os.Stdin.
	In io.Reader

	collector *metrics.Collector
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader used by the interactive prompt.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// WithMetrics sets the collector the client records into.
func WithMetrics(c *metrics.Collector) AppOption {
	return func(a *Application) { a.collector = c }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.collector == nil {
		app.collector = metrics.New()
	}

	programName := cli.ProgramName
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	if len(cmdArgs) > 0 && cmdArgs[0] == ServeCommand {
		cfg, err := config.ParseServeConfig(programName, cmdArgs[1:], errWriter)
		if err != nil {
			return nil, err
		}
		app.Serve = &cfg
		return app, nil
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Serve != nil {
		return a.runServe(ctx)
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logOut, closeLog, err := a.logWriter()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	defer closeLog()
	logger := logging.NewLevelLogger(logOut, "app", a.Config.LogLevel)

	shutdownTracing, err := telemetry.Init(telemetry.DefaultServiceName)
	if err != nil {
		logger.Warn("tracing disabled", logging.Err(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown failed", logging.Err(err))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	if a.Config.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, a.Config.MetricsAddr, a.collector, logger)
		})
	}

	code := a.runClient(gctx, out, logOut)
	cancel()
	if err := g.Wait(); err != nil {
		logger.Error("metrics server failed", err)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	return code
}

// runClient builds the client stack for the configured front end and runs it.
func (a *Application) runClient(ctx context.Context, out io.Writer, logOut io.Writer) int {
	cfg := a.Config
	level := cfg.LogLevel

	client, err := api.NewClient(cfg.APIURL, api.WithLogger(logging.NewLevelLogger(logOut, "api", level)))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	// Streaming requests share the instrumented transport but not a timeout.
	source, err := progress.NewSSESource(client.BaseURL(), progress.SSEOptions{
		Client:           &http.Client{Transport: client.HTTPClient().Transport},
		Logger:           logging.NewLevelLogger(logOut, "sse", level),
		Observer:         a.collector,
		ReconnectRetries: cfg.ReconnectRetries,
	})
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	coordOpts := orchestration.Options{
		Logger:   logging.NewLevelLogger(logOut, "coordinator", level),
		Recorder: a.collector,
		Tracer:   telemetry.Tracer(orchestration.TracerName),
		Timeout:  cfg.Timeout,
	}
	output := cli.OutputConfig{OutputFile: cfg.OutputFile, Quiet: cfg.Quiet}

	if cfg.TUI {
		bridge := tui.NewBridge()
		coord := orchestration.NewCoordinator(client, source, bridge, coordOpts)
		defer coord.Close()
		return tui.Run(ctx, coord, bridge, tui.Options{
			Version:   Version,
			Selection: cfg.Selection(),
			Logger:    logging.NewLevelLogger(logOut, "tui", level),
		})
	}

	store := orchestration.NewStore()
	coord := orchestration.NewCoordinator(client, source, store, coordOpts)
	defer coord.Close()

	if cfg.Interactive {
		repl := cli.NewREPL(coord, store, cli.REPLConfig{
			Selection: cfg.Selection(),
			APIURL:    client.BaseURL(),
			Timeout:   cfg.Timeout,
			Output:    output,
		})
		if a.In != nil {
			repl.SetInput(a.In)
		}
		repl.SetOutput(out)
		repl.Start(ctx)
		return apperrors.ExitSuccess
	}

	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg.Selection(), client.BaseURL(), out)
	}
	return cli.RunAnalysis(ctx, coord, store, cli.RunConfig{Selection: cfg.Selection(), Output: output}, out)
}

// logWriter resolves the log destination: the log file when set, otherwise
// stderr, or nothing in TUI mode so the alternate screen stays clean.
func (a *Application) logWriter() (io.Writer, func(), error) {
	if a.Config.LogFile != "" {
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, apperrors.NewConfigError("cannot open log file: %v", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if a.Config.TUI {
		return io.Discard, func() {}, nil
	}
	return a.ErrWriter, func() {}, nil
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
