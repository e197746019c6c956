package mergepdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrNoInputs        = errors.New("no input documents")
	ErrInputNotFound   = errors.New("input not found")
	ErrInputUnreadable = errors.New("input is not a readable PDF")
	ErrInvalidGeometry = errors.New("invalid page geometry")
	ErrOutputWrite     = errors.New("failed to write output")

	// Watermark validation errors.
	ErrEmptyLabel            = errors.New("watermark label cannot be empty")
	ErrInvalidStyle          = errors.New("invalid watermark style")
	ErrInvalidGeometryPolicy = errors.New("invalid geometry policy")
)

// InputError reports a failure tied to one input document.
// It wraps one of ErrInputNotFound, ErrInputUnreadable or ErrInvalidGeometry.
type InputError struct {
	Path  string // input path as given by the caller
	Index int    // zero-based position in the input list, negative when there is none
	Err   error
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("input %d %q: %v", e.Index+1, e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// OutputError reports a failure to create or write the merged document.
// It always wraps ErrOutputWrite.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrOutputWrite, e.Path, e.Err)
}

func (e *OutputError) Unwrap() []error { return []error{ErrOutputWrite, e.Err} }
