package mergepdf

import (
	"bytes"
	"maps"
	"slices"
	"sort"
	"strconv"

	"github.com/wudi/pdfkit/ir/semantic"
)

var (
	saveState    = []byte("q\n")
	restoreState = []byte("\nQ\n")
)

// Stamp returns a new page showing page's content with the overlay drawn on
// top. The source page is never modified. Its content runs inside a saved
// graphics state so that it cannot leak transforms or colors into the
// overlay.
func (o *Overlay) Stamp(page *semantic.Page) *semantic.Page {
	out := *page
	out.Resources = cloneResources(page.Resources)
	out.Annotations = slices.Clone(page.Annotations)

	name := uniqueFontName(out.Resources.Fonts, overlayFontName)
	out.Resources.Fonts[name] = o.font
	out.Resources.Dirty = true

	contents := make([]semantic.ContentStream, 0, len(page.Contents)+3)
	contents = append(contents, semantic.ContentStream{RawBytes: saveState})
	for _, cs := range page.Contents {
		contents = append(contents, materialize(cs))
	}
	contents = append(contents,
		semantic.ContentStream{RawBytes: restoreState},
		semantic.ContentStream{RawBytes: o.content(name)},
	)
	out.Contents = contents
	out.Dirty = true

	return &out
}

// content returns the overlay drawing with the font resource called name.
func (o *Overlay) content(name string) []byte {
	var rename map[string]string
	if name != overlayFontName {
		rename = map[string]string{overlayFontName: name}
	}
	var buf bytes.Buffer
	buf.Write(saveState)
	buf.Write(encodeOperations(o.ops, rename))
	buf.WriteString("Q\n")
	return buf.Bytes()
}

// materialize returns cs with its bytes populated, so writers that only
// emit raw content keep parsed-into-operations streams.
func materialize(cs semantic.ContentStream) semantic.ContentStream {
	if len(cs.RawBytes) > 0 || len(cs.Operations) == 0 {
		return cs
	}
	return semantic.ContentStream{
		Operations: cs.Operations,
		RawBytes:   encodeOperations(cs.Operations, nil),
	}
}

func cloneResources(r *semantic.Resources) *semantic.Resources {
	if r == nil {
		return &semantic.Resources{Fonts: make(map[string]*semantic.Font)}
	}
	out := *r
	out.Fonts = maps.Clone(r.Fonts)
	if out.Fonts == nil {
		out.Fonts = make(map[string]*semantic.Font)
	}
	out.ExtGStates = maps.Clone(r.ExtGStates)
	out.ColorSpaces = maps.Clone(r.ColorSpaces)
	out.XObjects = maps.Clone(r.XObjects)
	out.Patterns = maps.Clone(r.Patterns)
	out.Shadings = maps.Clone(r.Shadings)
	out.Properties = maps.Clone(r.Properties)
	return &out
}

// uniqueFontName returns base, or base followed by the smallest positive
// integer that is not already a key of fonts.
func uniqueFontName(fonts map[string]*semantic.Font, base string) string {
	if _, taken := fonts[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := base + strconv.Itoa(i)
		if _, taken := fonts[name]; !taken {
			return name
		}
	}
}

// encodeOperations serializes ops as content stream syntax, one operator per
// line. Names found in rename are replaced.
func encodeOperations(ops []semantic.Operation, rename map[string]string) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		for _, operand := range op.Operands {
			writeOperand(&buf, operand, rename)
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeOperand(buf *bytes.Buffer, operand semantic.Operand, rename map[string]string) {
	switch v := operand.(type) {
	case semantic.NumberOperand:
		buf.WriteString(formatNumber(v.Value))
	case semantic.NameOperand:
		name := v.Value
		if to, ok := rename[name]; ok {
			name = to
		}
		buf.WriteByte('/')
		buf.WriteString(name)
	case semantic.StringOperand:
		writeLiteralString(buf, v.Value)
	case semantic.ArrayOperand:
		buf.WriteByte('[')
		for i, item := range v.Values {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeOperand(buf, item, rename)
		}
		buf.WriteByte(']')
	case semantic.DictOperand:
		keys := make([]string, 0, len(v.Values))
		for k := range v.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteString("<<")
		for _, k := range keys {
			buf.WriteByte('/')
			buf.WriteString(k)
			buf.WriteByte(' ')
			writeOperand(buf, v.Values[k], rename)
		}
		buf.WriteString(">>")
	default:
		buf.WriteString("null")
	}
}

// formatNumber prints v without exponent notation, which content streams
// do not accept.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeLiteralString(buf *bytes.Buffer, s []byte) {
	buf.WriteByte('(')
	for _, c := range s {
		switch c {
		case '\\', '(', ')':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte(')')
}
