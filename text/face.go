package text

import (
	"iter"
	"slices"
	"unicode/utf8"
)

// Face is a font at a specific size. It is a lightweight value that shares
// the caches of its FontSource and is safe for concurrent use.
type Face struct {
	source *FontSource
	size   float64
}

// Glyph is a positioned glyph produced by Face.Glyphs.
type Glyph struct {
	Rune rune
	GID  GlyphID

	// X and Y are the pen position of the glyph origin.
	X, Y float64

	Advance float64

	// Bounds is the ink box relative to the glyph origin.
	Bounds Rect

	// Index is the byte offset of the rune in the text.
	Index int
}

// Source returns the FontSource this face was created from.
func (f *Face) Source() *FontSource { return f.source }

// Size returns the size of this face in units per em.
func (f *Face) Size() float64 { return f.size }

// Metrics returns the font metrics at this face's size.
func (f *Face) Metrics() Metrics { return f.source.metrics(f.size) }

// HasGlyph reports whether the font has a glyph for the given rune.
func (f *Face) HasGlyph(r rune) bool { return f.source.GlyphIndex(r) != 0 }

// GlyphAdvance returns the advance width of gid.
func (f *Face) GlyphAdvance(gid GlyphID) float64 { return f.source.advance(gid, f.size) }

// GlyphBounds returns the ink box of gid relative to its origin.
func (f *Face) GlyphBounds(gid GlyphID) Rect { return f.source.bounds(gid, f.size) }

// Advance returns the total advance width of the text, kerning included.
func (f *Face) Advance(text string) float64 {
	var w float64
	for g := range f.Glyphs(text) {
		w = g.X + g.Advance
	}
	return w
}

// Glyphs returns an iterator over the glyphs of text laid out on one line
// from the origin, with pair kerning and no other shaping.
func (f *Face) Glyphs(text string) iter.Seq[Glyph] {
	return func(yield func(Glyph) bool) {
		x := 0.0
		var prev GlyphID
		for i, r := range text {
			gid := f.source.GlyphIndex(r)
			if i > 0 && prev != 0 && gid != 0 {
				x += f.source.kern(prev, gid, f.size)
			}
			advance := f.source.advance(gid, f.size)

			g := Glyph{
				Rune:    r,
				GID:     gid,
				X:       x,
				Advance: advance,
				Bounds:  f.source.bounds(gid, f.size),
				Index:   i,
			}
			if !yield(g) {
				return
			}

			x += advance
			prev = gid
		}
	}
}

// AppendGlyphs appends the glyphs of text to dst and returns the extended slice.
func (f *Face) AppendGlyphs(dst []Glyph, text string) []Glyph {
	dst = slices.Grow(dst, utf8.RuneCountInString(text))
	for g := range f.Glyphs(text) {
		dst = append(dst, g)
	}
	return dst
}
