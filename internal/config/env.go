// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envValue returns the value of EnvPrefix+key, or defaultVal if unset.
func envValue(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Shorthand aliases share one destination, so either form counts.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an env key (without EnvPrefix) to the flags it stands
// in for and the function applying its value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of client overrides. Values that
// fail to parse are ignored and the previous value is kept.
var envOverrides = []envOverride{
	// String overrides
	{"API_URL", []string{"api-url"}, func(c *AppConfig, v string) { c.APIURL = v }},
	{"REGION", []string{"region"}, func(c *AppConfig, v string) { c.Region = v }},
	{"TECHNOLOGY", []string{"technology", "tech"}, func(c *AppConfig, v string) { c.Technology = v }},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) { c.Theme = v }},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},
	{"LOG_FILE", []string{"log-file"}, func(c *AppConfig, v string) { c.LogFile = v }},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) { c.MetricsAddr = v }},

	// Numeric overrides
	{"RECONNECT_RETRIES", []string{"reconnect-retries"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.ReconnectRetries = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// Boolean overrides
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) { c.TUI = parseBoolEnv(v, c.TUI) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) { c.NoColor = parseBoolEnv(v, c.NoColor) }},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
//
// Supported environment variables (all prefixed with EPANALYZER_):
//   - API_URL, REGION, TECHNOLOGY, THEME, OUTPUT, LOG_LEVEL, LOG_FILE,
//     METRICS_ADDR, RECONNECT_RETRIES, TIMEOUT, TUI, NO_COLOR, QUIET
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}

// applyServeEnvOverrides is the serve subcommand counterpart of
// applyEnvOverrides. Keys use the SERVE_ infix.
func applyServeEnvOverrides(config *ServeConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "addr") {
		config.Addr = envValue("SERVE_ADDR", config.Addr)
	}
	if !isFlagSet(fs, "fixture") {
		config.Fixture = envValue("SERVE_FIXTURE", config.Fixture)
	}
	if !isFlagSet(fs, "step-delay") {
		if parsed, err := time.ParseDuration(envValue("SERVE_STEP_DELAY", "")); err == nil {
			config.StepDelay = parsed
		}
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = envValue("LOG_LEVEL", config.LogLevel)
	}
}
