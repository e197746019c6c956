package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mergepdf/internal/config"
)

// envPrefix is the namespace for environment overrides.
const envPrefix = "MERGEPDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MERGEPDF_CONFIG: config file name or path
	Output     string        // MERGEPDF_OUTPUT: default output path
	Timeout    time.Duration // MERGEPDF_TIMEOUT: per-merge timeout
	Workers    int           // MERGEPDF_WORKERS: batch workers
	Prefix     *string       // MERGEPDF_WM_PREFIX: label prefix (set but empty = no prefix)
	Geometry   string        // MERGEPDF_GEOMETRY: overlay geometry policy
}

// knownEnvVars lists valid MERGEPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MERGEPDF_CONFIG":    true,
	"MERGEPDF_OUTPUT":    true,
	"MERGEPDF_TIMEOUT":   true,
	"MERGEPDF_WORKERS":   true,
	"MERGEPDF_WM_PREFIX": true,
	"MERGEPDF_GEOMETRY":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MERGEPDF_CONFIG"),
		Output:     os.Getenv("MERGEPDF_OUTPUT"),
		Geometry:   os.Getenv("MERGEPDF_GEOMETRY"),
	}

	if prefix, ok := os.LookupEnv("MERGEPDF_WM_PREFIX"); ok {
		cfg.Prefix = &prefix
	}

	if timeout := os.Getenv("MERGEPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MERGEPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MERGEPDF_* variables.
// Helps catch typos like MERGEPDF_WORKER instead of MERGEPDF_WORKERS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards via applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Output != "" {
		cfg.Output.DefaultPath = env.Output
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Batch.Workers = env.Workers
	}
	if env.Prefix != nil {
		prefix := *env.Prefix
		cfg.Watermark.Prefix = &prefix
	}
	if env.Geometry != "" {
		cfg.Watermark.Geometry = env.Geometry
	}
}
