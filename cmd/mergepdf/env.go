package main

import (
	"context"
	"io"
	"os"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
	"golang.org/x/term"
)

// Merger is the interface for the merge pipeline.
type Merger interface {
	Merge(ctx context.Context, inputs []string, output string) (*mergepdf.Result, error)
}

// Compile-time interface implementation check.
var _ Merger = (*mergepdf.Merger)(nil)

// MergerFactory builds a Merger from resolved options.
type MergerFactory func(opts ...mergepdf.Option) (Merger, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, terminal detection and the library entry points.
type Environment struct {
	Now        func() time.Time
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	IsTerminal func() bool
	NewMerger  MergerFactory
	Inspect    func(ctx context.Context, path string) (*mergepdf.Report, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) // #nosec G115 -- fd fits in int
		},
		NewMerger: newMerger,
		Inspect:   mergepdf.Inspect,
	}
}

// newMerger adapts mergepdf.NewMerger to MergerFactory.
func newMerger(opts ...mergepdf.Option) (Merger, error) {
	m, err := mergepdf.NewMerger(opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
