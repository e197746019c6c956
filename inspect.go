package mergepdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/wudi/pdfkit/extractor"
)

// Report summarizes a PDF document.
type Report struct {
	Path     string
	Pages    int
	Title    string
	Producer string
	Text     []PageText // pages without text are omitted
}

// PageText is the extracted text of one page.
type PageText struct {
	Page    int // 1-based
	Content string
}

// Inspect opens path and extracts its page count, document information and
// per-page text.
func Inspect(ctx context.Context, path string) (*Report, error) {
	r := &fileReader{maxSize: DefaultMaxInputSize}
	doc, err := r.Read(ctx, path)
	if err != nil {
		return nil, &InputError{Path: path, Index: -1, Err: err}
	}

	report := &Report{Path: path, Pages: len(doc.Pages)}
	if doc.Info != nil {
		report.Title = doc.Info.Title
		report.Producer = doc.Info.Producer
	}

	ex, err := extractor.New(doc.Decoded())
	if err != nil {
		return nil, &InputError{Path: path, Index: -1, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}
	pages, err := ex.ExtractText()
	if err != nil {
		return nil, &InputError{Path: path, Index: -1, Err: fmt.Errorf("%w: %v", ErrInputUnreadable, err)}
	}
	for _, p := range pages {
		report.Text = append(report.Text, PageText{Page: p.Page + 1, Content: p.Content})
	}

	return report, nil
}

// Labels returns, for each page with text, the label following prefix on
// the last line that starts with it. Pages without such a line map to "".
// The result is indexed like r.Text.
func (r *Report) Labels(prefix string) []string {
	labels := make([]string, len(r.Text))
	for i, pt := range r.Text {
		for _, line := range strings.Split(pt.Content, "\n") {
			line = strings.TrimSpace(line)
			if rest, ok := strings.CutPrefix(line, prefix); ok {
				labels[i] = rest
			}
		}
	}
	return labels
}
