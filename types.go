package mergepdf

import (
	"fmt"
	"strings"
	"time"
)

// Watermark style bounds.
const (
	DefaultPrefix   = "Source: "
	DefaultFontSize = 10.0
	DefaultMargin   = 20.0
	DefaultGray     = 0.5

	MaxFontSize  = 72.0
	MaxMargin    = 144.0
	MaxPrefixLen = 100
)

// Letter page dimensions in points.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Geometry is a page rectangle in PDF user space units.
type Geometry struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of g.
func (g Geometry) Width() float64 { return g.URX - g.LLX }

// Height returns the vertical extent of g.
func (g Geometry) Height() float64 { return g.URY - g.LLY }

// Validate checks that both dimensions are strictly positive.
func (g Geometry) Validate() error {
	if !(g.Width() > 0) || !(g.Height() > 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidGeometry, g.Width(), g.Height())
	}
	return nil
}

// Style configures the provenance label drawn on each page.
type Style struct {
	Prefix   string  // text drawn before the label (default: "Source: ")
	FontSize float64 // points, Helvetica
	Margin   float64 // distance from the right and bottom edges
	Gray     float64 // fill level, 0 = black, 1 = white
}

// DefaultStyle returns the style used when none is configured.
func DefaultStyle() *Style {
	return &Style{
		Prefix:   DefaultPrefix,
		FontSize: DefaultFontSize,
		Margin:   DefaultMargin,
		Gray:     DefaultGray,
	}
}

// Validate checks that style values are within bounds.
// Returns nil if s is nil (nil means use defaults).
func (s *Style) Validate() error {
	if s == nil {
		return nil
	}

	if len(s.Prefix) > MaxPrefixLen {
		return fmt.Errorf("%w: prefix is %d bytes (max %d)", ErrInvalidStyle, len(s.Prefix), MaxPrefixLen)
	}

	if !(s.FontSize > 0) || s.FontSize > MaxFontSize {
		return fmt.Errorf("%w: font size %.2f (must be in (0, %.0f])", ErrInvalidStyle, s.FontSize, MaxFontSize)
	}

	if !(s.Margin >= 0) || s.Margin > MaxMargin {
		return fmt.Errorf("%w: margin %.2f (must be between 0 and %.0f)", ErrInvalidStyle, s.Margin, MaxMargin)
	}

	if !(s.Gray >= 0) || s.Gray > 1 {
		return fmt.Errorf("%w: gray %.2f (must be between 0 and 1)", ErrInvalidStyle, s.Gray)
	}

	return nil
}

// GeometryPolicy selects the page geometry an overlay is rendered for.
type GeometryPolicy string

// Geometry policies.
const (
	// GeometryFirstPage renders one overlay per document from its first page.
	GeometryFirstPage GeometryPolicy = "first-page"
	// GeometryPerPage renders one overlay per distinct page geometry.
	GeometryPerPage GeometryPolicy = "per-page"
	// GeometryLetter renders every overlay for a 612x792 page.
	GeometryLetter GeometryPolicy = "letter"
)

// ParseGeometryPolicy parses a policy name (case-insensitive).
// An empty name yields GeometryFirstPage.
func ParseGeometryPolicy(name string) (GeometryPolicy, error) {
	switch p := GeometryPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return GeometryFirstPage, nil
	case GeometryFirstPage, GeometryPerPage, GeometryLetter:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (must be first-page, per-page, or letter)", ErrInvalidGeometryPolicy, name)
	}
}

// GeometryPolicies lists the accepted policy names.
func GeometryPolicies() []string {
	return []string{string(GeometryFirstPage), string(GeometryPerPage), string(GeometryLetter)}
}

// Result describes a completed merge.
type Result struct {
	OutputPath string
	Pages      int
	Sources    []SourceResult
}

// SourceResult describes the contribution of one input document.
type SourceResult struct {
	Path  string
	Label string
	Pages int
}

// Progress is reported once per input after it has been stamped.
type Progress struct {
	Index    int // zero-based input position
	Total    int
	Path     string
	Label    string
	Pages    int
	Duration time.Duration
}
