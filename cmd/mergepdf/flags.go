package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// watermarkFlags holds provenance label flags.
type watermarkFlags struct {
	prefix   string
	size     float64
	margin   float64
	gray     float64
	geometry string
}

// pdfFlags holds output serialization flags.
type pdfFlags struct {
	compression   int
	deterministic bool
	maxInputMB    int
}

// runFlags holds all flags for the merge, batch and interactive commands.
// Each command registers the subset it accepts.
type runFlags struct {
	common    commonFlags
	output    string
	workers   int
	timeout   string
	watermark watermarkFlags
	pdf       pdfFlags

	// changed records flags set on the command line, so that an explicit
	// zero value still overrides env and config.
	changed map[string]bool
}

// isSet reports whether the named flag was given on the command line.
func (f *runFlags) isSet(name string) bool {
	return f.changed[name]
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file progress and timing")
}

// addWatermarkFlags adds watermark flags to a FlagSet.
func addWatermarkFlags(fs *flag.FlagSet, f *watermarkFlags) {
	fs.StringVar(&f.prefix, "wm-prefix", "", "label prefix (default \"Source: \")")
	fs.Float64Var(&f.size, "wm-size", 0, "label font size in points (default 10)")
	fs.Float64Var(&f.margin, "wm-margin", 0, "distance from right and bottom edges (default 20)")
	fs.Float64Var(&f.gray, "wm-gray", 0, "label gray level, 0 black to 1 white (default 0.5)")
	fs.StringVar(&f.geometry, "geometry", "", "overlay geometry: first-page, per-page, letter")
}

// addPDFFlags adds output serialization flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.IntVar(&f.compression, "compression", 0, "stream compression level (0-9)")
	fs.BoolVar(&f.deterministic, "deterministic", false, "reproducible output bytes")
	fs.IntVar(&f.maxInputMB, "max-input-mb", 0, "per-input size limit in MiB (default 256)")
}

// buildFlagSet creates the FlagSet for a command.
// This is the single registration point shared by parsing and completion.
func buildFlagSet(cmd string, f *runFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	switch cmd {
	case cmdMerge, cmdInteractive:
		fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default merged_output.pdf)")
	case cmdBatch:
		fs.IntVarP(&f.workers, "workers", "w", 0, "parallel jobs (0 = auto)")
	}
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-merge timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addWatermarkFlags(fs, &f.watermark)
	addPDFFlags(fs, &f.pdf)

	return fs
}

// parseRunFlags parses flags for cmd and returns positional args.
// Returns flag.ErrHelp when -h or --help is given.
func parseRunFlags(cmd string, args []string) (*runFlags, []string, error) {
	f := &runFlags{changed: make(map[string]bool)}
	fs := buildFlagSet(cmd, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	return f, fs.Args(), nil
}
