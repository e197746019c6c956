package main

import (
	"context"
	"errors"
	"os"

	mergepdf "github.com/alnah/go-mergepdf"
	"github.com/alnah/go-mergepdf/internal/config"
)

// Exit codes for mergepdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, 128+SIGINT=interrupted.
const (
	ExitSuccess     = 0   // Successful merge
	ExitGeneral     = 1   // General/unexpected error
	ExitUsage       = 2   // Invalid flags, config, or validation
	ExitIO          = 3   // Input not found or unreadable, output not writable
	ExitInterrupted = 130 // Canceled by SIGINT/SIGTERM
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	// I/O errors (exit 3)
	if errors.Is(err, mergepdf.ErrInputNotFound) ||
		errors.Is(err, mergepdf.ErrInputUnreadable) ||
		errors.Is(err, mergepdf.ErrOutputWrite) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadManifest) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mergepdf.ErrNoInputs) ||
		errors.Is(err, mergepdf.ErrInvalidStyle) ||
		errors.Is(err, mergepdf.ErrInvalidGeometryPolicy) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidManifest) ||
		errors.Is(err, ErrDuplicateOutput) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
