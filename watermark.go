package mergepdf

import (
	"fmt"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir/semantic"
	"golang.org/x/text/encoding/charmap"

	"github.com/alnah/go-mergepdf/internal/fontmetrics"
)

// overlayFontName is the resource name the label font is registered under.
// Stamping renames it when the target page already uses the name.
const overlayFontName = "FSrc"

// Overlay is a single-page drawing holding a provenance label anchored to
// the bottom-right corner of a page geometry. It is immutable once rendered
// and can be stamped onto any number of pages.
type Overlay struct {
	Label    string   // label as given by the caller
	Text     string   // prefix + label, as drawn
	Geometry Geometry // geometry the overlay was rendered for
	X, Y     float64  // text origin in user space
	FontSize float64

	font *semantic.Font
	ops  []semantic.Operation
	page *semantic.Page
}

// Page returns the overlay as a standalone page.
// The returned page is shared; callers must not modify it.
func (o *Overlay) Page() *semantic.Page {
	return o.page
}

// Renderer draws overlays with a fixed style.
type Renderer struct {
	style Style
}

// NewRenderer creates a Renderer. A nil style uses DefaultStyle.
func NewRenderer(style *Style) (*Renderer, error) {
	if style == nil {
		style = DefaultStyle()
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{style: *style}, nil
}

// Style returns a copy of the renderer's style.
func (r *Renderer) Style() Style {
	return r.style
}

// RenderOverlay draws the default "Source: {label}" overlay for a page of
// the given width and height.
func RenderOverlay(label string, width, height float64) (*Overlay, error) {
	r := &Renderer{style: *DefaultStyle()}
	return r.Render(label, Geometry{URX: width, URY: height})
}

// Render draws the overlay for label on a page with geometry g.
// Text is right-aligned Margin units from the right edge with its baseline
// Margin units above the bottom edge.
func (r *Renderer) Render(label string, g Geometry) (*Overlay, error) {
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	text := r.style.Prefix + label
	encoded := encodeWinAnsi(text)
	width := fontmetrics.StringWidth(encoded, r.style.FontSize)
	x := g.URX - r.style.Margin - width
	y := g.LLY + r.style.Margin

	font := &semantic.Font{
		Subtype:  "Type1",
		BaseFont: "Helvetica",
		Encoding: "WinAnsiEncoding",
	}
	gray := r.style.Gray

	doc, err := builder.NewBuilder().
		RegisterFont(overlayFontName, font).
		NewPage(g.Width(), g.Height()).
		SetMediaBox(semantic.Rectangle{LLX: g.LLX, LLY: g.LLY, URX: g.URX, URY: g.URY}).
		DrawText(string(encoded), x, y, builder.TextOptions{
			Font:     overlayFontName,
			FontSize: r.style.FontSize,
			Color:    builder.Color{R: gray, G: gray, B: gray, A: 1},
		}).
		Finish().
		Build()
	if err != nil {
		return nil, fmt.Errorf("rendering overlay: %w", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Contents) == 0 {
		return nil, fmt.Errorf("rendering overlay: unexpected page layout")
	}

	page := doc.Pages[0]
	ops := page.Contents[0].Operations
	page.Contents[0].RawBytes = encodeOperations(ops, nil)

	return &Overlay{
		Label:    label,
		Text:     text,
		Geometry: g,
		X:        x,
		Y:        y,
		FontSize: r.style.FontSize,
		font:     font,
		ops:      ops,
		page:     page,
	}, nil
}

// encodeWinAnsi transcodes s to Windows-1252, the byte encoding of the
// standard Helvetica font. Runes outside the code page become '?'.
func encodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}
