package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	mergepdf "github.com/alnah/go-mergepdf"
)

// sampleReport mimics a two-source merge where page 2 has no text.
func sampleReport(path string) *mergepdf.Report {
	return &mergepdf.Report{
		Path:     path,
		Pages:    3,
		Producer: mergepdf.Producer,
		Text: []mergepdf.PageText{
			{Page: 1, Content: "Hello\nSource: a.pdf"},
			{Page: 3, Content: "Source: b.pdf"},
		},
	}
}

func newInspectEnv() *testEnv {
	te := newTestEnv()
	te.env.Inspect = func(_ context.Context, path string) (*mergepdf.Report, error) {
		return sampleReport(path), nil
	}
	return te
}

// ---------------------------------------------------------------------------
// TestRunInspect - Inspect command
// ---------------------------------------------------------------------------

func TestRunInspect(t *testing.T) {
	t.Parallel()

	t.Run("text output", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		if err := runInspect(context.Background(), []string{"merged.pdf"}, te.env); err != nil {
			t.Fatalf("runInspect() error: %v", err)
		}

		want := "merged.pdf: 3 pages\n" +
			"  producer: go-mergepdf\n" +
			"  page 1: a.pdf\n" +
			"  page 3: b.pdf\n"
		if te.stdout.String() != want {
			t.Errorf("stdout = %q, want %q", te.stdout.String(), want)
		}
	})

	t.Run("yaml output", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		if err := runInspect(context.Background(), []string{"-f", "yaml", "merged.pdf"}, te.env); err != nil {
			t.Fatalf("runInspect() error: %v", err)
		}

		got := te.stdout.String()
		for _, want := range []string{"- path: merged.pdf", "pages: 3", "producer: go-mergepdf", "label: a.pdf", "page: 3"} {
			if !strings.Contains(got, want) {
				t.Errorf("yaml output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("custom prefix without match", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		if err := runInspect(context.Background(), []string{"--prefix", "From: ", "merged.pdf"}, te.env); err != nil {
			t.Fatalf("runInspect() error: %v", err)
		}
		if !strings.Contains(te.stdout.String(), "page 1: (no label)") {
			t.Errorf("stdout = %q", te.stdout.String())
		}
	})

	t.Run("multiple files", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		if err := runInspect(context.Background(), []string{"one.pdf", "two.pdf"}, te.env); err != nil {
			t.Fatalf("runInspect() error: %v", err)
		}
		got := te.stdout.String()
		if !strings.Contains(got, "one.pdf: 3 pages") || !strings.Contains(got, "two.pdf: 3 pages") {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		err := runInspect(context.Background(), []string{"-f", "json", "merged.pdf"}, te.env)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})

	t.Run("no file", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		if err := runInspect(context.Background(), nil, te.env); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("inspect error propagates", func(t *testing.T) {
		t.Parallel()
		te := newTestEnv()

		err := runInspect(context.Background(), []string{"missing.pdf"}, te.env)
		if !errors.Is(err, mergepdf.ErrInputNotFound) {
			t.Errorf("error = %v, want ErrInputNotFound", err)
		}
		if exitCodeFor(err) != ExitIO {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitIO)
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		te := newInspectEnv()

		if err := runInspect(context.Background(), []string{"--help"}, te.env); err != nil {
			t.Fatalf("runInspect(--help) error: %v", err)
		}
		if !strings.Contains(te.stdout.String(), "Usage: mergepdf inspect") {
			t.Errorf("stdout = %q", te.stdout.String())
		}
	})
}
