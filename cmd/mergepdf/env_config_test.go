package main

// Notes:
// - loadEnvConfig: we test all six environment variables. Invalid and
//   negative values for timeout and workers are ignored, not errors.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that env values override the config file and
//   that unset env values leave it untouched.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mergepdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MERGEPDF_CONFIG", "/path/to/config.yaml")
		t.Setenv("MERGEPDF_OUTPUT", "out/merged.pdf")
		t.Setenv("MERGEPDF_TIMEOUT", "2m")
		t.Setenv("MERGEPDF_WORKERS", "4")
		t.Setenv("MERGEPDF_WM_PREFIX", "From: ")
		t.Setenv("MERGEPDF_GEOMETRY", "per-page")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/config.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/config.yaml", cfg.ConfigPath)
		}
		if cfg.Output != "out/merged.pdf" {
			t.Errorf("Output = %q, want out/merged.pdf", cfg.Output)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
		if cfg.Prefix == nil || *cfg.Prefix != "From: " {
			t.Errorf("Prefix = %v, want \"From: \"", cfg.Prefix)
		}
		if cfg.Geometry != "per-page" {
			t.Errorf("Geometry = %q, want per-page", cfg.Geometry)
		}
	})

	t.Run("empty prefix is kept", func(t *testing.T) {
		t.Setenv("MERGEPDF_WM_PREFIX", "")

		cfg := loadEnvConfig()

		if cfg.Prefix == nil {
			t.Fatal("Prefix = nil, want pointer to empty string")
		}
		if *cfg.Prefix != "" {
			t.Errorf("Prefix = %q, want empty", *cfg.Prefix)
		}
	})

	t.Run("invalid timeout ignored", func(t *testing.T) {
		t.Setenv("MERGEPDF_TIMEOUT", "invalid")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (invalid value ignored)", cfg.Timeout)
		}
	})

	t.Run("negative timeout ignored", func(t *testing.T) {
		t.Setenv("MERGEPDF_TIMEOUT", "-5s")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (negative value ignored)", cfg.Timeout)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		t.Setenv("MERGEPDF_WORKERS", "many")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 (invalid value ignored)", cfg.Workers)
		}
	})

	t.Run("zero workers ignored", func(t *testing.T) {
		t.Setenv("MERGEPDF_WORKERS", "0")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("typo warns", func(t *testing.T) {
		t.Setenv("MERGEPDF_WORKER", "4")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "MERGEPDF_WORKER (typo?)") {
			t.Errorf("expected warning for MERGEPDF_WORKER, got %q", buf.String())
		}
	})

	t.Run("known vars do not warn", func(t *testing.T) {
		t.Setenv("MERGEPDF_WORKERS", "4")
		t.Setenv("MERGEPDF_OUTPUT", "out.pdf")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "MERGEPDF_WORKERS ") || strings.Contains(buf.String(), "MERGEPDF_OUTPUT ") {
			t.Errorf("known vars should not warn, got %q", buf.String())
		}
	})

	t.Run("value containing equals", func(t *testing.T) {
		t.Setenv("MERGEPDF_EXTRA", "a=b")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "MERGEPDF_EXTRA (typo?)") {
			t.Errorf("expected warning naming MERGEPDF_EXTRA, got %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env over config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides config", func(t *testing.T) {
		t.Parallel()

		prefix := "Config: "
		cfg := config.DefaultConfig()
		cfg.Output.DefaultPath = "config.pdf"
		cfg.Timeout = "10s"
		cfg.Batch.Workers = 2
		cfg.Watermark.Prefix = &prefix
		cfg.Watermark.Geometry = "letter"

		envPrefix := "Env: "
		applyEnvConfig(&envConfig{
			Output:   "env.pdf",
			Timeout:  time.Minute,
			Workers:  6,
			Prefix:   &envPrefix,
			Geometry: "per-page",
		}, cfg)

		if cfg.Output.DefaultPath != "env.pdf" {
			t.Errorf("Output = %q, want env.pdf", cfg.Output.DefaultPath)
		}
		if cfg.Timeout != "1m0s" {
			t.Errorf("Timeout = %q, want 1m0s", cfg.Timeout)
		}
		if cfg.Batch.Workers != 6 {
			t.Errorf("Workers = %d, want 6", cfg.Batch.Workers)
		}
		if *cfg.Watermark.Prefix != "Env: " {
			t.Errorf("Prefix = %q, want \"Env: \"", *cfg.Watermark.Prefix)
		}
		if cfg.Watermark.Geometry != "per-page" {
			t.Errorf("Geometry = %q, want per-page", cfg.Watermark.Geometry)
		}
	})

	t.Run("unset env keeps config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.DefaultPath = "config.pdf"
		cfg.Batch.Workers = 2

		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Output.DefaultPath != "config.pdf" {
			t.Errorf("Output = %q, want config.pdf", cfg.Output.DefaultPath)
		}
		if cfg.Batch.Workers != 2 {
			t.Errorf("Workers = %d, want 2", cfg.Batch.Workers)
		}
		if cfg.Watermark.Prefix != nil {
			t.Errorf("Prefix = %q, want nil", *cfg.Watermark.Prefix)
		}
	})
}
