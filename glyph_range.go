package mathscroll

import "fmt"

// GlyphRange is a half-open interval [Start, End) over one Expression's
// glyph sequence. It targets animations at part of a formula without
// detaching the glyphs from their expression.
type GlyphRange struct {
	Expr       *Expression
	Start, End int

	// AsGroup makes downstream animations treat the range as one unit.
	AsGroup bool
}

// Len returns the number of glyphs in the range.
func (r *GlyphRange) Len() int { return r.End - r.Start }

// IsEmpty reports whether the range selects no glyph.
func (r *GlyphRange) IsEmpty() bool { return r.End <= r.Start }

// Glyphs implements Mobject.
func (r *GlyphRange) Glyphs() []*Glyph {
	if r.IsEmpty() {
		return nil
	}
	return r.Expr.glyphs[r.Start:r.End]
}

// Text returns the concatenated sources of the selected glyphs.
func (r *GlyphRange) Text() string { return glyphText(r.Glyphs()) }

// Bounds implements Mobject.
func (r *GlyphRange) Bounds() Rect { return boundsOf(r.Glyphs()) }

// Shift implements Mobject. Only the selected glyphs move.
func (r *GlyphRange) Shift(d Point) { shiftGlyphs(r.Glyphs(), d) }

// SetColor implements Mobject.
func (r *GlyphRange) SetColor(c RGBA) {
	for _, g := range r.Glyphs() {
		g.Color = c
	}
}

// SetOpacity implements Mobject.
func (r *GlyphRange) SetOpacity(a float64) {
	for _, g := range r.Glyphs() {
		g.Opacity = a
	}
}

// Copy implements Mobject. The copy is a detached Expression holding clones
// of the selected glyphs.
func (r *GlyphRange) Copy() Mobject {
	glyphs := make([]*Glyph, 0, r.Len())
	for _, g := range r.Glyphs() {
		glyphs = append(glyphs, g.clone())
	}
	return NewExpression(r.Text(), r.Expr.template, glyphs)
}

// Sub returns the range [Start+start, Start+end) clamped to r.
func (r *GlyphRange) Sub(start, end int) *GlyphRange {
	s := r.Start + max(0, start)
	e := min(r.End, r.Start+end)
	if e < s {
		e = s
	}
	return &GlyphRange{Expr: r.Expr, Start: s, End: e, AsGroup: r.AsGroup}
}

// Overlaps reports whether both ranges address the same expression and
// share at least one glyph.
func (r *GlyphRange) Overlaps(o *GlyphRange) bool {
	return r.Expr == o.Expr && r.Start < o.End && o.Start < r.End
}

// String returns "source[start:end]".
func (r *GlyphRange) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Expr.Source(), r.Start, r.End)
}
