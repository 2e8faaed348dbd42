package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

// fileConfig mirrors the YAML configuration file. Pointer fields tell
// absent keys apart from zero values.
type fileConfig struct {
	APIURL           *string `yaml:"api_url"`
	Region           *string `yaml:"region"`
	Technology       *string `yaml:"technology"`
	Timeout          *string `yaml:"timeout"`
	NoColor          *bool   `yaml:"no_color"`
	Theme            *string `yaml:"theme"`
	LogLevel         *string `yaml:"log_level"`
	LogFile          *string `yaml:"log_file"`
	MetricsAddr      *string `yaml:"metrics_addr"`
	ReconnectRetries *int    `yaml:"reconnect_retries"`

	timeout time.Duration
}

// loadFile reads and validates a YAML configuration file.
func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, apperrors.NewConfigError("cannot read config file %s: %v", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, apperrors.NewConfigError("invalid config file %s: %v", path, err)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fileConfig{}, apperrors.NewConfigError("invalid timeout %q in %s", *fc.Timeout, path)
		}
		fc.timeout = d
	}
	return fc, nil
}

// apply copies the file values whose flags were not set on the command line.
func (fc fileConfig) apply(c *AppConfig, set *flag.FlagSet) {
	setString := func(dst *string, src *string, flags ...string) {
		if src != nil && !isFlagSetAny(set, flags...) {
			*dst = *src
		}
	}
	setString(&c.APIURL, fc.APIURL, "api-url")
	setString(&c.Region, fc.Region, "region")
	setString(&c.Technology, fc.Technology, "technology", "tech")
	setString(&c.Theme, fc.Theme, "theme")
	setString(&c.LogLevel, fc.LogLevel, "log-level")
	setString(&c.LogFile, fc.LogFile, "log-file")
	setString(&c.MetricsAddr, fc.MetricsAddr, "metrics-addr")

	if fc.Timeout != nil && !isFlagSet(set, "timeout") {
		c.Timeout = fc.timeout
	}
	if fc.NoColor != nil && !isFlagSet(set, "no-color") {
		c.NoColor = *fc.NoColor
	}
	if fc.ReconnectRetries != nil && !isFlagSet(set, "reconnect-retries") {
		c.ReconnectRetries = *fc.ReconnectRetries
	}
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is an error only when
// the path was given explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return apperrors.NewConfigError("failed to load env file %s: %v", path, err)
	}
	return nil
}
