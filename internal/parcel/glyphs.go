package parcel

import "unicode"

// Replacement is drawn in place of any rune outside the glyph allow-list.
const Replacement = '?'

// glyphs lists the runes a parcel may contain. The rendered town is public,
// so invisible, combining, bidi-control and emoji code points are excluded.
var glyphs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0020, Hi: 0x007e, Stride: 1}, // printable ASCII
		{Lo: 0x00a1, Hi: 0x00ac, Stride: 1}, // Latin-1 punctuation, soft hyphen excluded
		{Lo: 0x00ae, Hi: 0x00ff, Stride: 1},
		{Lo: 0x0391, Hi: 0x03a1, Stride: 1}, // Greek
		{Lo: 0x03a3, Hi: 0x03c9, Stride: 1},
		{Lo: 0x2010, Hi: 0x2027, Stride: 1}, // dashes, quotes, bullets, ellipsis
		{Lo: 0x2030, Hi: 0x203e, Stride: 1},
		{Lo: 0x2190, Hi: 0x21ff, Stride: 1}, // arrows
		{Lo: 0x2200, Hi: 0x22ff, Stride: 1}, // mathematical operators
		{Lo: 0x2500, Hi: 0x257f, Stride: 1}, // box drawing
		{Lo: 0x2580, Hi: 0x259f, Stride: 1}, // block elements
		{Lo: 0x25a0, Hi: 0x25ff, Stride: 1}, // geometric shapes
		{Lo: 0x2639, Hi: 0x263c, Stride: 1}, // faces, sun
		{Lo: 0x2660, Hi: 0x2667, Stride: 1}, // card suits
		{Lo: 0x266a, Hi: 0x266b, Stride: 1}, // notes
		{Lo: 0x2800, Hi: 0x28ff, Stride: 1}, // braille patterns
	},
	LatinOffset: 3,
}

// Allowed reports whether r may appear in a parcel.
func Allowed(r rune) bool {
	return unicode.Is(glyphs, r)
}

// Sanitize replaces every rune that is not allowed with Replacement.
func Sanitize(s string) string {
	clean := true
	for _, r := range s {
		if !Allowed(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !Allowed(r) {
			r = Replacement
		}
		out = append(out, r)
	}
	return string(out)
}
