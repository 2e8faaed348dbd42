package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("epanalyzer", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.ReconnectRetries != DefaultReconnectRetries {
		t.Errorf("ReconnectRetries = %d, want %d", cfg.ReconnectRetries, DefaultReconnectRetries)
	}
	if cfg.Selection().Complete() {
		t.Error("default selection should be incomplete")
	}
}

func TestParseConfig_Flags(t *testing.T) {
	t.Parallel()
	args := []string{
		"--api-url", "http://analysis:9000",
		"--region", "EU",
		"--tech", "Solar",
		"--timeout", "45s",
		"-q",
		"-o", "out.json",
		"--reconnect-retries", "0",
	}
	cfg, err := ParseConfig("epanalyzer", args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://analysis:9000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Region != "EU" || cfg.Technology != "solar" {
		t.Errorf("selection = %q/%q, want EU/solar", cfg.Region, cfg.Technology)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.Quiet || cfg.OutputFile != "out.json" {
		t.Errorf("Quiet=%v OutputFile=%q", cfg.Quiet, cfg.OutputFile)
	}
	if cfg.ReconnectRetries != 0 {
		t.Errorf("ReconnectRetries = %d, want 0", cfg.ReconnectRetries)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown region", []string{"--region", "Mars"}},
		{"unknown technology", []string{"--technology", "coal"}},
		{"negative timeout", []string{"--timeout", "-1s"}},
		{"negative retries", []string{"--reconnect-retries", "-2"}},
		{"conflicting modes", []string{"--tui", "--interactive"}},
		{"positional argument", []string{"extra"}},
		{"empty api url", []string{"--api-url", " "}},
		{"missing env file", []string{"--env-file", filepath.Join(os.TempDir(), "does-not-exist.env")}},
		{"missing config file", []string{"--config", filepath.Join(os.TempDir(), "does-not-exist.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseConfig("epanalyzer", tt.args, &bytes.Buffer{})
			var configErr apperrors.ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	_, err := ParseConfig("epanalyzer", []string{"--help"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("--api-url")) && !bytes.Contains(out.Bytes(), []byte("-api-url")) {
		t.Errorf("usage should list flags, got %s", out.String())
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"REGION", "USA")
	t.Setenv(EnvPrefix+"TECHNOLOGY", "wind")
	t.Setenv(EnvPrefix+"TIMEOUT", "10s")
	t.Setenv(EnvPrefix+"QUIET", "yes")
	t.Setenv(EnvPrefix+"RECONNECT_RETRIES", "not-a-number")

	cfg, err := ParseConfig("epanalyzer", []string{"--technology", "bess"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Region != "USA" {
		t.Errorf("Region = %q, want USA from env", cfg.Region)
	}
	if cfg.Technology != "bess" {
		t.Errorf("Technology = %q, flag should beat env", cfg.Technology)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if !cfg.Quiet {
		t.Error("Quiet should come from env")
	}
	if cfg.ReconnectRetries != DefaultReconnectRetries {
		t.Errorf("invalid env value should be ignored, got %d", cfg.ReconnectRetries)
	}
}

func TestParseConfig_File(t *testing.T) {
	path := writeFile(t, "epanalyzer.yaml", `
api_url: http://from-file:8000
region: EU
technology: h2
timeout: 2m
reconnect_retries: 9
no_color: true
`)
	t.Setenv(EnvPrefix+"TECHNOLOGY", "biogas")

	cfg, err := ParseConfig("epanalyzer", []string{"--config", path, "--region", "USA"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file value", cfg.APIURL, "http://from-file:8000"},
		{"flag beats file", cfg.Region, "USA"},
		{"env beats file", cfg.Technology, "biogas"},
		{"file duration", cfg.Timeout, 2 * time.Minute},
		{"file int", cfg.ReconnectRetries, 9},
		{"file bool", cfg.NoColor, true},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestParseConfig_FileFromEnv(t *testing.T) {
	path := writeFile(t, "c.yaml", "region: EU\n")
	t.Setenv(EnvPrefix+"CONFIG", path)

	cfg, err := ParseConfig("epanalyzer", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Region != "EU" || cfg.ConfigFile != path {
		t.Errorf("Region=%q ConfigFile=%q", cfg.Region, cfg.ConfigFile)
	}
}

func TestParseConfig_InvalidFile(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"bad yaml":     "region: [EU",
		"bad duration": "timeout: soon\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, "bad.yaml", content)
			_, err := ParseConfig("epanalyzer", []string{"--config", path}, &bytes.Buffer{})
			var configErr apperrors.ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseConfig_EnvFile(t *testing.T) {
	const key = EnvPrefix + "METRICS_ADDR"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, "test.env", key+"=127.0.0.1:9464\n")
	cfg, err := ParseConfig("epanalyzer", []string{"--env-file", path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Errorf("MetricsAddr = %q, want value from env file", cfg.MetricsAddr)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestParseServeConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseServeConfig("epanalyzer", nil, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != DefaultServeAddr || cfg.StepDelay != DefaultServeStepDelay || cfg.Fixture != "" {
			t.Errorf("unexpected defaults %+v", cfg)
		}
	})

	t.Run("flags", func(t *testing.T) {
		t.Parallel()
		cfg, err := ParseServeConfig("epanalyzer", []string{"--addr", ":0", "--fixture", "f.json", "--step-delay", "0s"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":0" || cfg.Fixture != "f.json" || cfg.StepDelay != 0 {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("negative delay", func(t *testing.T) {
		t.Parallel()
		_, err := ParseServeConfig("epanalyzer", []string{"--step-delay", "-1ms"}, &bytes.Buffer{})
		var configErr apperrors.ConfigError
		if !errors.As(err, &configErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
	})
}

func TestParseServeConfig_Env(t *testing.T) {
	t.Setenv(EnvPrefix+"SERVE_STEP_DELAY", "5ms")
	cfg, err := ParseServeConfig("epanalyzer", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StepDelay != 5*time.Millisecond {
		t.Errorf("StepDelay = %v, want 5ms", cfg.StepDelay)
	}
}
