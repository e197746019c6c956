package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mergepdf/internal/fileutil"
	"github.com/alnah/go-mergepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-mergepdf"

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxPrefixLength   = 100  // "Source: "
	MaxGeometryLength = 20   // "first-page"
	MaxTimeoutLength  = 20   // "1h30m"
)

// Value bounds.
const (
	MaxCompression = 9
	MaxWorkers     = 32
	MaxFontSize    = 72.0
	MaxMargin      = 144.0
)

// Geometry policy names accepted in watermark.geometry.
var geometryPolicies = []string{"first-page", "per-page", "letter"}

// Config holds all configuration for merging.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Watermark WatermarkConfig `yaml:"watermark"`
	PDF       PDFConfig       `yaml:"pdf"`
	Batch     BatchConfig     `yaml:"batch"`
	Timeout   string          `yaml:"timeout"` // Go duration, e.g. "2m" (empty = no timeout)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultPath string `yaml:"defaultPath"` // Used when no output is given (empty = merged_output.pdf)
}

// WatermarkConfig defines the provenance label options.
// Pointer fields distinguish "unset" from a deliberate zero.
type WatermarkConfig struct {
	Prefix   *string  `yaml:"prefix"`   // Text before the file name (default: "Source: ")
	FontSize float64  `yaml:"fontSize"` // Points (0 = default 10)
	Margin   *float64 `yaml:"margin"`   // Distance from right and bottom edges (default: 20)
	Gray     *float64 `yaml:"gray"`     // 0 = black, 1 = white (default: 0.5)
	Geometry string   `yaml:"geometry"` // "first-page", "per-page", "letter" (default: "first-page")
}

// PDFConfig defines output serialization options.
type PDFConfig struct {
	Compression   int  `yaml:"compression"`   // 0-9, 0 = none
	Deterministic bool `yaml:"deterministic"` // Reproducible output bytes
	MaxInputMB    int  `yaml:"maxInputMB"`    // Per-input size limit (0 = default 256)
}

// BatchConfig defines batch command options.
type BatchConfig struct {
	Workers int `yaml:"workers"` // Parallel jobs (0 = auto)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.defaultPath", c.Output.DefaultPath, MaxPathLength); err != nil {
		return err
	}

	// Validate watermark fields
	if c.Watermark.Prefix != nil {
		if err := validateFieldLength("watermark.prefix", *c.Watermark.Prefix, MaxPrefixLength); err != nil {
			return err
		}
	}
	if c.Watermark.FontSize < 0 || c.Watermark.FontSize > MaxFontSize {
		return fmt.Errorf("%w: watermark.fontSize must be between 0 and %.0f, got %.2f", ErrInvalidValue, MaxFontSize, c.Watermark.FontSize)
	}
	if m := c.Watermark.Margin; m != nil && (*m < 0 || *m > MaxMargin) {
		return fmt.Errorf("%w: watermark.margin must be between 0 and %.0f, got %.2f", ErrInvalidValue, MaxMargin, *m)
	}
	if g := c.Watermark.Gray; g != nil && (*g < 0 || *g > 1) {
		return fmt.Errorf("%w: watermark.gray must be between 0 and 1, got %.2f", ErrInvalidValue, *g)
	}
	if err := validateFieldLength("watermark.geometry", c.Watermark.Geometry, MaxGeometryLength); err != nil {
		return err
	}
	if c.Watermark.Geometry != "" && !isGeometryPolicy(c.Watermark.Geometry) {
		return fmt.Errorf("%w: watermark.geometry %q (must be %s)", ErrInvalidValue, c.Watermark.Geometry, strings.Join(geometryPolicies, ", "))
	}

	// Validate PDF fields
	if c.PDF.Compression < 0 || c.PDF.Compression > MaxCompression {
		return fmt.Errorf("%w: pdf.compression must be between 0 and %d, got %d", ErrInvalidValue, MaxCompression, c.PDF.Compression)
	}
	if c.PDF.MaxInputMB < 0 {
		return fmt.Errorf("%w: pdf.maxInputMB must not be negative, got %d", ErrInvalidValue, c.PDF.MaxInputMB)
	}

	if c.Batch.Workers < 0 || c.Batch.Workers > MaxWorkers {
		return fmt.Errorf("%w: batch.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Batch.Workers)
	}

	if err := validateFieldLength("timeout", c.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: timeout %q (must be a positive duration like 30s or 2m)", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

func isGeometryPolicy(s string) bool {
	for _, p := range geometryPolicies {
		if strings.EqualFold(s, p) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where every value means "use the default".
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order:
// current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in SearchPaths order.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
