package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	mergepdf "github.com/alnah/go-mergepdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock merger and environment
// ---------------------------------------------------------------------------

// mergeCall records one Merge invocation.
type mergeCall struct {
	inputs []string
	output string
}

// mockMerger is a Merger that records calls instead of writing PDFs.
// Each input contributes pagesPerInput pages (1 when zero).
type mockMerger struct {
	mu            sync.Mutex
	calls         []mergeCall
	err           error            // returned for every call
	errByOutput   map[string]error // returned for a specific output
	pagesPerInput int
	block         bool // wait for ctx cancellation before returning
	writeOutput   bool // create the output file on success
}

func (m *mockMerger) Merge(ctx context.Context, inputs []string, output string) (*mergepdf.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mergeCall{inputs: inputs, output: output})
	err := m.err
	if e, ok := m.errByOutput[output]; ok {
		err = e
	}
	pages := m.pagesPerInput
	block := m.block
	writeOutput := m.writeOutput
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		pages = 1
	}
	if writeOutput {
		if err := os.WriteFile(output, []byte("%PDF-1.7\n"), 0o600); err != nil {
			return nil, err
		}
	}

	res := &mergepdf.Result{OutputPath: output}
	for _, in := range inputs {
		res.Sources = append(res.Sources, mergepdf.SourceResult{Path: in, Label: filepath.Base(in), Pages: pages})
		res.Pages += pages
	}
	return res, nil
}

func (m *mockMerger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockMerger) lastCall() mergeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return mergeCall{}
	}
	return m.calls[len(m.calls)-1]
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	env     *Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	merger  *mockMerger
	options int // number of options passed to the last NewMerger call
}

// newTestEnv returns an Environment backed by a mockMerger and buffers.
func newTestEnv() *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		merger: &mockMerger{},
	}
	te.env = &Environment{
		Now:        func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdin:      strings.NewReader(""),
		Stdout:     te.stdout,
		Stderr:     te.stderr,
		IsTerminal: func() bool { return false },
		NewMerger: func(opts ...mergepdf.Option) (Merger, error) {
			te.options = len(opts)
			return te.merger, nil
		},
		Inspect: func(_ context.Context, path string) (*mergepdf.Report, error) {
			return nil, &mergepdf.InputError{Path: path, Err: mergepdf.ErrInputNotFound}
		},
	}
	return te
}

// writePDFs creates placeholder input files in dir and returns their paths.
// The mock merger never parses them.
func writePDFs(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("%PDF-1.4\n"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
		paths = append(paths, p)
	}
	return paths
}

// defaultSettings returns settings as resolved with no config, env or flags.
func defaultSettings(output string) *settings {
	return &settings{
		output:   output,
		style:    *mergepdf.DefaultStyle(),
		geometry: mergepdf.GeometryFirstPage,
	}
}
