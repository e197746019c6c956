// Package fontmetrics provides advance widths for the standard Helvetica font,
// used to right-align text drawn with the non-embedded standard-14 font.
package fontmetrics

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// UnitsPerEm is the glyph space scale of AFM widths.
const UnitsPerEm = 1000

// defaultWidth is used for codes with no known glyph width.
const defaultWidth = 556

// asciiWidths holds Helvetica AFM widths for codes 32..126 (WinAnsiEncoding).
var asciiWidths = [95]uint16{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // space - /
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, // 0 - 9
	278, 278, 584, 584, 584, 556, 1015, // : - @
	667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, // A - M
	722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, // N - Z
	278, 278, 278, 469, 556, 333, // [ - `
	556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, // a - m
	556, 556, 556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, // n - z
	334, 260, 334, 584, // { - ~
}

// upperWidths holds Helvetica AFM widths for codes 0x80..0xBF, the WinAnsi
// punctuation and symbols that have no base letter. Unassigned codes use
// the bullet width.
var upperWidths = [64]uint16{
	556, 350, 222, 556, 333, 1000, 556, 556, 333, 1000, 667, 333, 1000, 350, 611, 350, // 0x80 - 0x8F
	350, 222, 222, 333, 333, 350, 556, 1000, 333, 1000, 500, 333, 944, 350, 500, 667, // 0x90 - 0x9F
	278, 333, 556, 556, 556, 556, 260, 556, 333, 737, 370, 556, 584, 333, 737, 333, // 0xA0 - 0xAF
	400, 584, 333, 333, 333, 556, 537, 278, 333, 333, 365, 556, 834, 834, 834, 611, // 0xB0 - 0xBF
}

// latinWidths covers the 0xC0..0xFF letters that do not decompose to an
// ASCII base letter.
var latinWidths = map[byte]uint16{
	0xC6: 1000, // Æ
	0xD0: 722,  // Ð
	0xD7: 584,  // ×
	0xD8: 778,  // Ø
	0xDE: 667,  // Þ
	0xDF: 611,  // ß
	0xE6: 889,  // æ
	0xF0: 556,  // ð
	0xF7: 584,  // ÷
	0xF8: 611,  // ø
	0xFE: 556,  // þ
}

// helveticaWidths is indexed by WinAnsi code.
var helveticaWidths = buildWidths()

// buildWidths fills the accented letters by decomposing each Windows-1252
// character and reusing the width of its base letter, which is how accented
// Helvetica glyphs are sized.
func buildWidths() [256]uint16 {
	var w [256]uint16
	for c := range w {
		w[c] = defaultWidth
	}
	for i, v := range asciiWidths {
		w[i+32] = v
	}
	for i, v := range upperWidths {
		w[i+0x80] = v
	}

	for c := 0xC0; c <= 0xFF; c++ {
		if v, ok := latinWidths[byte(c)]; ok {
			w[c] = v
			continue
		}
		r := charmap.Windows1252.DecodeByte(byte(c))
		base := []rune(norm.NFD.String(string(r)))
		if len(base) > 1 && base[0] >= 32 && base[0] <= 126 {
			w[c] = w[base[0]]
		}
	}
	return w
}

// Width returns the advance width of a single WinAnsi code in glyph units.
func Width(code byte) int {
	return int(helveticaWidths[code])
}

// StringWidth returns the width of WinAnsi-encoded text set at size points.
func StringWidth(encoded []byte, size float64) float64 {
	var units int
	for _, c := range encoded {
		units += int(helveticaWidths[c])
	}
	return float64(units) * size / UnitsPerEm
}
