// Package config parses command-line flags, environment variables and an
// optional YAML file into the application configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/epanalyzer/internal/analysis"
	apperrors "github.com/agbru/epanalyzer/internal/errors"
	"github.com/agbru/epanalyzer/internal/progress"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "EPANALYZER_"

// Defaults.
const (
	DefaultAPIURL           = "http://127.0.0.1:8000"
	DefaultTimeout          = 5 * time.Minute
	DefaultLogLevel         = "info"
	DefaultEnvFile          = ".env"
	DefaultTheme            = "dark"
	DefaultServeAddr        = "127.0.0.1:8000"
	DefaultServeStepDelay   = 150 * time.Millisecond
	DefaultReconnectRetries = progress.DefaultReconnectRetries
)

// AppConfig aggregates the client configuration.
type AppConfig struct {
	// APIURL is the base URL of the analysis service.
	APIURL string
	// Region and Technology preselect the job. Either may be empty.
	Region     string
	Technology string
	// Timeout bounds a single job. Zero disables the limit.
	Timeout time.Duration
	// TUI launches the interactive dashboard.
	TUI bool
	// Interactive launches the line-oriented REPL.
	Interactive bool
	NoColor     bool
	Theme       string
	// Quiet prints only the project count, for scripts.
	Quiet bool
	// OutputFile receives the analysis result as JSON.
	OutputFile string
	LogLevel   string
	// LogFile receives log output. Empty means stderr for the CLI and
	// discarded for the TUI.
	LogFile string
	// MetricsAddr serves /metrics when set.
	MetricsAddr      string
	ConfigFile       string
	EnvFile          string
	ReconnectRetries int
	// Completion prints a completion script for the named shell and exits.
	Completion string
}

// Selection returns the preselected region and technology.
func (c AppConfig) Selection() analysis.Selection {
	return analysis.Selection{
		Region:     analysis.Region(c.Region),
		Technology: analysis.Technology(c.Technology),
	}
}

// Validate checks the configuration for values that can never work.
// A missing region or technology is not an error here: the job reports it.
func (c AppConfig) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return apperrors.NewConfigError("--api-url must not be empty")
	}
	if c.Region != "" && !analysis.Region(c.Region).Valid() {
		return apperrors.NewConfigError("invalid region %q (accepted values: %s)", c.Region, regionList())
	}
	if c.Technology != "" && !analysis.Technology(c.Technology).Valid() {
		return apperrors.NewConfigError("invalid technology %q (accepted values: %s)", c.Technology, technologyList())
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("--timeout must not be negative, got %s", c.Timeout)
	}
	if c.ReconnectRetries < 0 {
		return apperrors.NewConfigError("--reconnect-retries must not be negative, got %d", c.ReconnectRetries)
	}
	if c.TUI && c.Interactive {
		return apperrors.NewConfigError("--tui and --interactive cannot be combined")
	}
	return nil
}

func defaultConfig() AppConfig {
	return AppConfig{
		APIURL:           DefaultAPIURL,
		Timeout:          DefaultTimeout,
		LogLevel:         DefaultLogLevel,
		Theme:            DefaultTheme,
		EnvFile:          DefaultEnvFile,
		ReconnectRetries: DefaultReconnectRetries,
	}
}

// ParseConfig parses the client flags in args. The resolution order is
// flags, then environment (including the env file), then the YAML file,
// then defaults.
//
// flag.ErrHelp is returned unchanged when -h or --help is given.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n       %s serve [flags]\n\nFlags:\n", programName, programName)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the analysis service.")
	fs.StringVar(&cfg.Region, "region", "", "Region to analyze ("+regionList()+").")
	fs.StringVar(&cfg.Technology, "technology", "", "Technology to analyze ("+technologyList()+").")
	fs.StringVar(&cfg.Technology, "tech", "", "Shorthand for --technology.")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum duration of one analysis (0 disables).")
	fs.BoolVar(&cfg.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start the interactive prompt.")
	fs.BoolVar(&cfg.Interactive, "i", false, "Shorthand for --interactive.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output (NO_COLOR is also honored).")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme (dark, light, solar, none).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the project count.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the analysis result as JSON to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write logs to this file.")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address.")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML configuration file.")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Environment file loaded before overrides.")
	fs.IntVar(&cfg.ReconnectRetries, "reconnect-retries", cfg.ReconnectRetries, "Progress stream reconnect attempts.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script (bash, zsh, fish, powershell).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	if err := loadEnvFile(cfg.EnvFile, isFlagSet(fs, "env-file")); err != nil {
		return AppConfig{}, err
	}
	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = envValue("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		fc, err := loadFile(cfg.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		fc.apply(&cfg, fs)
	}
	applyEnvOverrides(&cfg, fs)

	cfg.Region = strings.TrimSpace(cfg.Region)
	cfg.Technology = strings.ToLower(strings.TrimSpace(cfg.Technology))
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// ServeConfig configures the replay server.
type ServeConfig struct {
	Addr string
	// Fixture is a JSON response body replayed by /api/projects. Empty uses
	// the built-in sample.
	Fixture   string
	StepDelay time.Duration
	LogLevel  string
	EnvFile   string
}

// ParseServeConfig parses the flags of the serve subcommand.
func ParseServeConfig(programName string, args []string, errWriter io.Writer) (ServeConfig, error) {
	cfg := ServeConfig{
		Addr:      DefaultServeAddr,
		StepDelay: DefaultServeStepDelay,
		LogLevel:  DefaultLogLevel,
		EnvFile:   DefaultEnvFile,
	}

	fs := flag.NewFlagSet(programName+" serve", flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address.")
	fs.StringVar(&cfg.Fixture, "fixture", "", "JSON response body to replay.")
	fs.DurationVar(&cfg.StepDelay, "step-delay", cfg.StepDelay, "Delay between progress events.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Environment file loaded before overrides.")

	if err := fs.Parse(args); err != nil {
		return ServeConfig{}, err
	}
	if err := loadEnvFile(cfg.EnvFile, isFlagSet(fs, "env-file")); err != nil {
		return ServeConfig{}, err
	}
	applyServeEnvOverrides(&cfg, fs)

	if cfg.Addr == "" {
		return ServeConfig{}, apperrors.NewConfigError("--addr must not be empty")
	}
	if cfg.StepDelay < 0 {
		return ServeConfig{}, apperrors.NewConfigError("--step-delay must not be negative, got %s", cfg.StepDelay)
	}
	return cfg, nil
}

func regionList() string {
	ids := make([]string, 0, 2)
	for _, r := range analysis.Regions() {
		ids = append(ids, string(r.ID))
	}
	return strings.Join(ids, ", ")
}

func technologyList() string {
	ids := make([]string, 0, 5)
	for _, t := range analysis.Technologies() {
		ids = append(ids, string(t.ID))
	}
	return strings.Join(ids, ", ")
}
