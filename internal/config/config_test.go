package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.DefaultPath != "" {
		t.Errorf("Output.DefaultPath = %q, want empty", cfg.Output.DefaultPath)
	}
	if cfg.Watermark.Prefix != nil {
		t.Errorf("Watermark.Prefix = %q, want nil", *cfg.Watermark.Prefix)
	}
	if cfg.Batch.Workers != 0 {
		t.Errorf("Batch.Workers = %d, want 0", cfg.Batch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "full valid config",
			cfg: Config{
				Output: OutputConfig{DefaultPath: "out/merged.pdf"},
				Watermark: WatermarkConfig{
					Prefix:   ptr("From: "),
					FontSize: 8,
					Margin:   ptr(0.0),
					Gray:     ptr(1.0),
					Geometry: "Per-Page",
				},
				PDF:     PDFConfig{Compression: 9, Deterministic: true, MaxInputMB: 64},
				Batch:   BatchConfig{Workers: 4},
				Timeout: "90s",
			},
		},
		{
			name:    "empty prefix is valid",
			cfg:     Config{Watermark: WatermarkConfig{Prefix: ptr("")}},
			wantErr: nil,
		},
		{
			name:    "output path too long",
			cfg:     Config{Output: OutputConfig{DefaultPath: strings.Repeat("a", MaxPathLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "prefix too long",
			cfg:     Config{Watermark: WatermarkConfig{Prefix: ptr(strings.Repeat("x", MaxPrefixLength+1))}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "font size too large",
			cfg:     Config{Watermark: WatermarkConfig{FontSize: 73}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative margin",
			cfg:     Config{Watermark: WatermarkConfig{Margin: ptr(-1.0)}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "gray above one",
			cfg:     Config{Watermark: WatermarkConfig{Gray: ptr(1.1)}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown geometry",
			cfg:     Config{Watermark: WatermarkConfig{Geometry: "a4"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "compression out of range",
			cfg:     Config{PDF: PDFConfig{Compression: 10}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative max input",
			cfg:     Config{PDF: PDFConfig{MaxInputMB: -1}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "too many workers",
			cfg:     Config{Batch: BatchConfig{Workers: MaxWorkers + 1}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unparsable timeout",
			cfg:     Config{Timeout: "soon"},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "zero timeout",
			cfg:     Config{Timeout: "0s"},
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_TimeoutDuration(t *testing.T) {
	cfg := &Config{Timeout: "2m"}
	got, err := cfg.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration() error = %v", err)
	}
	if got != 2*time.Minute {
		t.Errorf("TimeoutDuration() = %v, want 2m", got)
	}

	empty := &Config{}
	if got, err := empty.TimeoutDuration(); err != nil || got != 0 {
		t.Errorf("empty TimeoutDuration() = %v, %v; want 0, nil", got, err)
	}
}

func TestLoadConfig(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "test.yaml")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		return path
	}

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		path := writeConfig(t, `output:
  defaultPath: "combined.pdf"
watermark:
  prefix: ""
  fontSize: 9
  margin: 12
  gray: 0
  geometry: letter
pdf:
  compression: 6
batch:
  workers: 3
timeout: 45s
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.DefaultPath != "combined.pdf" {
			t.Errorf("Output.DefaultPath = %q, want combined.pdf", cfg.Output.DefaultPath)
		}
		if cfg.Watermark.Prefix == nil || *cfg.Watermark.Prefix != "" {
			t.Errorf("Watermark.Prefix = %v, want explicit empty", cfg.Watermark.Prefix)
		}
		if cfg.Watermark.Gray == nil || *cfg.Watermark.Gray != 0 {
			t.Errorf("Watermark.Gray = %v, want explicit 0", cfg.Watermark.Gray)
		}
		if cfg.Watermark.Margin == nil || *cfg.Watermark.Margin != 12 {
			t.Errorf("Watermark.Margin = %v, want 12", cfg.Watermark.Margin)
		}
		if cfg.Watermark.Geometry != "letter" {
			t.Errorf("Watermark.Geometry = %q, want letter", cfg.Watermark.Geometry)
		}
		if cfg.PDF.Compression != 6 || cfg.Batch.Workers != 3 || cfg.Timeout != "45s" {
			t.Errorf("unexpected values: %+v", cfg)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "watermark: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, "timeout: 1m\nunknownField: \"should fail\"\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value is rejected", func(t *testing.T) {
		path := writeConfig(t, "pdf:\n  compression: 42\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("name resolves in current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		if err := os.WriteFile(filepath.Join(dir, "work.yml"), []byte("batch:\n  workers: 2\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig("work")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Batch.Workers != 2 {
			t.Errorf("Batch.Workers = %d, want 2", cfg.Batch.Workers)
		}
	})

	t.Run("unknown name lists searched paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("does-not-exist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "does-not-exist.yaml") {
			t.Errorf("error should list searched paths: %v", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least local paths", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local paths = %v, want work.yaml, work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, AppDirName) {
			t.Errorf("user path %q should be under %s", p, AppDirName)
		}
	}
}
