package main

import (
	"errors"
	"fmt"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
	"github.com/alnah/go-mergepdf/internal/hints"
)

// defaultOutput is used when neither flag, env nor config names an output.
const defaultOutput = "merged_output.pdf"

// settings is the fully resolved configuration of one CLI run.
type settings struct {
	output        string
	timeout       time.Duration
	workers       int
	style         mergepdf.Style
	geometry      mergepdf.GeometryPolicy
	compression   int
	deterministic bool
	maxInputMB    int
	quiet         bool
	verbose       bool
}

// resolveSettings merges config file, environment and flags, in increasing
// precedence, then validates the result.
func resolveSettings(flags *runFlags, env *envConfig) (*settings, error) {
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}
	cfg, err := loadConfig(name)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(env, cfg)
	applyFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return settingsFromConfig(cfg, flags.common)
}

// loadConfig loads the named config, or defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg (CLI wins).
func applyFlags(f *runFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.DefaultPath = f.output
	}
	if f.isSet("timeout") {
		cfg.Timeout = f.timeout
	}
	if f.isSet("workers") {
		cfg.Batch.Workers = f.workers
	}

	wm := f.watermark
	if f.isSet("wm-prefix") {
		prefix := wm.prefix
		cfg.Watermark.Prefix = &prefix
	}
	if f.isSet("wm-size") {
		cfg.Watermark.FontSize = wm.size
	}
	if f.isSet("wm-margin") {
		margin := wm.margin
		cfg.Watermark.Margin = &margin
	}
	if f.isSet("wm-gray") {
		gray := wm.gray
		cfg.Watermark.Gray = &gray
	}
	if f.isSet("geometry") {
		cfg.Watermark.Geometry = wm.geometry
	}

	if f.isSet("compression") {
		cfg.PDF.Compression = f.pdf.compression
	}
	if f.isSet("deterministic") {
		cfg.PDF.Deterministic = f.pdf.deterministic
	}
	if f.isSet("max-input-mb") {
		cfg.PDF.MaxInputMB = f.pdf.maxInputMB
	}
}

// settingsFromConfig fills unset values with library defaults.
func settingsFromConfig(cfg *config.Config, common commonFlags) (*settings, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	geometry, err := mergepdf.ParseGeometryPolicy(cfg.Watermark.Geometry)
	if err != nil {
		return nil, err
	}

	s := &settings{
		output:        cfg.Output.DefaultPath,
		timeout:       timeout,
		workers:       cfg.Batch.Workers,
		style:         *mergepdf.DefaultStyle(),
		geometry:      geometry,
		compression:   cfg.PDF.Compression,
		deterministic: cfg.PDF.Deterministic,
		maxInputMB:    cfg.PDF.MaxInputMB,
		quiet:         common.quiet,
		verbose:       common.verbose && !common.quiet,
	}
	if s.output == "" {
		s.output = defaultOutput
	}

	wm := cfg.Watermark
	if wm.Prefix != nil {
		s.style.Prefix = *wm.Prefix
	}
	if wm.FontSize > 0 {
		s.style.FontSize = wm.FontSize
	}
	if wm.Margin != nil {
		s.style.Margin = *wm.Margin
	}
	if wm.Gray != nil {
		s.style.Gray = *wm.Gray
	}

	return s, nil
}

// options converts settings into merger options.
// progress may be nil.
func (s *settings) options(progress func(mergepdf.Progress)) []mergepdf.Option {
	style := s.style
	opts := []mergepdf.Option{
		mergepdf.WithStyle(&style),
		mergepdf.WithGeometryPolicy(s.geometry),
		mergepdf.WithCompression(s.compression),
		mergepdf.WithDeterministic(s.deterministic),
	}
	if s.maxInputMB > 0 {
		opts = append(opts, mergepdf.WithMaxInputSize(int64(s.maxInputMB)<<20))
	}
	if progress != nil {
		opts = append(opts, mergepdf.WithProgress(progress))
	}
	return opts
}
