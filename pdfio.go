package mergepdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"

	"github.com/alnah/go-mergepdf/internal/fileutil"
)

// DefaultMaxInputSize bounds the bytes read from a single input.
const DefaultMaxInputSize int64 = 256 << 20

// outputPerm is the mode of written output files.
const outputPerm os.FileMode = 0o644

// documentReader opens a PDF document from a path.
// Errors wrap ErrInputNotFound or ErrInputUnreadable.
type documentReader interface {
	Read(ctx context.Context, path string) (*semantic.Document, error)
}

// documentWriter serializes a document to a path, replacing it atomically.
type documentWriter interface {
	Write(ctx context.Context, doc *semantic.Document, path string) error
}

// fileReader reads a whole input into memory before parsing it, so the
// file handle is released before any page is touched and the output may
// safely replace one of the inputs.
type fileReader struct {
	maxSize int64
}

func (r *fileReader) Read(ctx context.Context, path string) (doc *semantic.Document, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrInputNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: is a directory", ErrInputNotFound)
	}
	// Opening a FIFO or device may block indefinitely.
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file", ErrInputNotFound)
	}
	if info.Size() > r.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputUnreadable, info.Size(), r.maxSize)
	}

	data, err := r.load(path)
	if err != nil {
		return nil, err
	}
	if !hasPDFHeader(data) {
		return nil, fmt.Errorf("%w: missing %%PDF- header", ErrInputUnreadable)
	}

	// A parser panic means a malformed file.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: parser panic: %v", ErrInputUnreadable, rec)
		}
	}()

	doc, err = ir.NewDefault().Parse(ctx, bytes.NewReader(data))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInputUnreadable)
	}
	return doc, nil
}

func (r *fileReader) load(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- path is caller-provided input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrInputNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("%w: exceeds limit of %d bytes", ErrInputUnreadable, r.maxSize)
	}
	return data, nil
}

// headerWindow is how far into a file readers look for the PDF header.
const headerWindow = 1024

var pdfHeader = []byte("%PDF-")

func hasPDFHeader(data []byte) bool {
	return bytes.Contains(data[:min(len(data), headerWindow)], pdfHeader)
}

// fileWriter serializes documents with the pdfkit writer.
type fileWriter struct {
	compression   int
	deterministic bool
}

func (w *fileWriter) Write(ctx context.Context, doc *semantic.Document, path string) error {
	cfg := writer.Config{
		Version:       writer.PDF17,
		Compression:   w.compression,
		Deterministic: w.deterministic,
	}
	if w.compression > 0 {
		cfg.ContentFilter = writer.FilterFlate
	}

	return fileutil.WriteAtomic(path, outputPerm, func(out io.Writer) error {
		var buf bytes.Buffer
		if err := (&writer.WriterBuilder{}).Build().Write(ctx, doc, &buf, cfg); err != nil {
			return fmt.Errorf("serializing document: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := out.Write(buf.Bytes())
		return err
	})
}
