package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage           = errors.New("invalid usage")
	ErrNoInput         = errors.New("no input files specified")
	ErrReadManifest    = errors.New("failed to read batch manifest")
	ErrInvalidManifest = errors.New("invalid batch manifest")
	ErrDuplicateOutput = errors.New("duplicate output path")
	ErrBatchFailed     = errors.New("batch finished with failures")
)

// hintFor returns an actionable hint for err, or "".
// Config lookup failures carry their hint from loadConfig.
func hintFor(err error) string {
	var inErr *mergepdf.InputError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mergepdf.ErrInputNotFound) && errors.As(err, &inErr):
		return hints.ForInputNotFound(inErr.Path)
	case errors.Is(err, mergepdf.ErrInputUnreadable):
		return hints.ForInputUnreadable()
	case errors.Is(err, mergepdf.ErrOutputWrite):
		return hints.ForOutputDirectory()
	case errors.Is(err, mergepdf.ErrInvalidGeometryPolicy):
		return hints.ForGeometry(mergepdf.GeometryPolicies())
	}
	return ""
}

// printError writes err once, followed by its hint.
func printError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "interrupted")
		return
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
}
