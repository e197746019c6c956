package mergepdf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir/semantic"
)

// Producer is recorded in the document information of every output.
const Producer = "go-mergepdf"

// Compile-time interface implementation checks.
var (
	_ documentReader = (*fileReader)(nil)
	_ documentWriter = (*fileWriter)(nil)
)

// Merger stamps and concatenates PDF documents.
// It holds configuration only and is safe for concurrent use by calls
// writing to distinct output paths.
type Merger struct {
	cfg      mergerConfig
	renderer *Renderer
	reader   documentReader
	writer   documentWriter
}

// mergerConfig holds internal configuration for Merger.
type mergerConfig struct {
	style         *Style
	policy        GeometryPolicy
	progress      func(Progress)
	compression   int
	deterministic bool
	maxInputSize  int64
}

// Option configures a Merger.
type Option func(*Merger)

// WithStyle sets the watermark style. Invalid styles are reported by NewMerger.
func WithStyle(s *Style) Option {
	return func(m *Merger) {
		m.cfg.style = s
	}
}

// WithGeometryPolicy selects how overlay geometry is chosen for each page.
func WithGeometryPolicy(p GeometryPolicy) Option {
	return func(m *Merger) {
		m.cfg.policy = p
	}
}

// WithProgress registers a callback invoked after each input is stamped.
// The callback runs on the merging goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(m *Merger) {
		m.cfg.progress = fn
	}
}

// WithCompression sets the stream compression level (0 disables it).
// Panics if level is outside 0..9 (programmer error).
func WithCompression(level int) Option {
	if level < 0 || level > 9 {
		panic("mergepdf: WithCompression level must be between 0 and 9")
	}
	return func(m *Merger) {
		m.cfg.compression = level
	}
}

// WithDeterministic makes output bytes depend only on the inputs.
func WithDeterministic(on bool) Option {
	return func(m *Merger) {
		m.cfg.deterministic = on
	}
}

// WithMaxInputSize bounds the size of a single input file.
// Panics if n <= 0 (programmer error).
func WithMaxInputSize(n int64) Option {
	if n <= 0 {
		panic("mergepdf: WithMaxInputSize must be positive")
	}
	return func(m *Merger) {
		m.cfg.maxInputSize = n
	}
}

// withReader injects a document reader (for testing).
func withReader(r documentReader) Option {
	return func(m *Merger) {
		m.reader = r
	}
}

// withWriter injects a document writer (for testing).
func withWriter(w documentWriter) Option {
	return func(m *Merger) {
		m.writer = w
	}
}

// NewMerger creates a Merger with default configuration.
// Returns an error if the style or geometry policy is invalid.
func NewMerger(opts ...Option) (*Merger, error) {
	m := &Merger{
		cfg: mergerConfig{
			policy:       GeometryFirstPage,
			maxInputSize: DefaultMaxInputSize,
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	policy, err := ParseGeometryPolicy(string(m.cfg.policy))
	if err != nil {
		return nil, err
	}
	m.cfg.policy = policy

	m.renderer, err = NewRenderer(m.cfg.style)
	if err != nil {
		return nil, err
	}

	if m.reader == nil {
		m.reader = &fileReader{maxSize: m.cfg.maxInputSize}
	}
	if m.writer == nil {
		m.writer = &fileWriter{compression: m.cfg.compression, deterministic: m.cfg.deterministic}
	}

	return m, nil
}

// Merge stamps every page of every input with its source label and writes
// the concatenation to output, in input order. Nothing is written unless
// every input succeeds. An existing file at output is replaced atomically.
func Merge(ctx context.Context, inputs []string, output string, opts ...Option) (*Result, error) {
	m, err := NewMerger(opts...)
	if err != nil {
		return nil, err
	}
	return m.Merge(ctx, inputs, output)
}

// Merge runs the merge pipeline. See the package-level Merge.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (m *Merger) Merge(ctx context.Context, inputs []string, output string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if output == "" {
		return nil, &OutputError{Path: output, Err: errors.New("output path is empty")}
	}

	result = &Result{OutputPath: output, Sources: make([]SourceResult, 0, len(inputs))}
	b := builder.NewBuilder()

	for i, path := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("merge canceled before input %d: %w", i+1, err)
		}

		start := time.Now()
		label := filepath.Base(path)

		doc, err := m.reader.Read(ctx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, fmt.Errorf("merge canceled at input %d: %w", i+1, err)
			}
			return nil, &InputError{Path: path, Index: i, Err: err}
		}

		pages, err := m.stampDocument(label, doc)
		if err != nil {
			return nil, &InputError{Path: path, Index: i, Err: err}
		}
		for _, p := range pages {
			b.AddPage(p)
		}

		result.Pages += len(pages)
		result.Sources = append(result.Sources, SourceResult{Path: path, Label: label, Pages: len(pages)})

		if m.cfg.progress != nil {
			m.cfg.progress(Progress{
				Index:    i,
				Total:    len(inputs),
				Path:     path,
				Label:    label,
				Pages:    len(pages),
				Duration: time.Since(start),
			})
		}
	}

	b.SetInfo(&semantic.DocumentInfo{
		Title:    filepath.Base(output),
		Producer: Producer,
	})
	merged, err := b.Build()
	if err != nil {
		return nil, &OutputError{Path: output, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("merge canceled before writing: %w", err)
	}
	if err := m.writer.Write(ctx, merged, output); err != nil {
		return nil, &OutputError{Path: output, Err: err}
	}

	return result, nil
}

// stampDocument returns a stamped copy of every page of doc, in order.
// A document without pages yields nothing.
func (m *Merger) stampDocument(label string, doc *semantic.Document) ([]*semantic.Page, error) {
	if len(doc.Pages) == 0 {
		return nil, nil
	}

	cache := make(map[Geometry]*Overlay)
	overlayFor := func(g Geometry) (*Overlay, error) {
		if o, ok := cache[g]; ok {
			return o, nil
		}
		o, err := m.renderer.Render(label, g)
		if err != nil {
			return nil, err
		}
		cache[g] = o
		return o, nil
	}

	var fixed *Overlay
	var err error
	switch m.cfg.policy {
	case GeometryLetter:
		fixed, err = overlayFor(Geometry{URX: LetterWidth, URY: LetterHeight})
	case GeometryPerPage:
	default:
		fixed, err = overlayFor(PageGeometry(doc.Pages[0]))
	}
	if err != nil {
		return nil, err
	}

	out := make([]*semantic.Page, 0, len(doc.Pages))
	for i, p := range doc.Pages {
		o := fixed
		if o == nil {
			if o, err = overlayFor(PageGeometry(p)); err != nil {
				return nil, fmt.Errorf("page %d: %w", i+1, err)
			}
		}
		out = append(out, o.Stamp(p))
	}
	return out, nil
}

// PageGeometry returns the media box of p.
func PageGeometry(p *semantic.Page) Geometry {
	box := p.MediaBox
	return Geometry{LLX: box.LLX, LLY: box.LLY, URX: box.URX, URY: box.URY}
}
