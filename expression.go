package mathscroll

import "strings"

// Mode selects how a Template typesets its source.
type Mode uint8

const (
	// ModeMath typesets the source as inline math ($...$).
	ModeMath Mode = iota

	// ModeText typesets the source as running text with embedded math.
	ModeText
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "math"
}

// Template describes how an Expression was typeset. Rendering the same
// fragment with the same template always yields the same shape sequence,
// which is the contract the Locator relies on.
type Template struct {
	// Mode is math or text.
	Mode Mode

	// Environment optionally wraps the source (for example "align*").
	Environment string

	// Scale multiplies the default glyph size. Zero means 1.
	Scale float64
}

// MathTemplate is the default template for equations.
var MathTemplate = Template{Mode: ModeMath, Scale: 1}

// TextTemplate is the default template for captions.
var TextTemplate = Template{Mode: ModeText, Scale: 1}

// Key returns the cache identity of the template. Scale is excluded because
// shape keys are size independent.
func (t Template) Key() string {
	return t.Mode.String() + "/" + t.Environment
}

// EffectiveScale returns Scale, defaulting to 1.
func (t Template) EffectiveScale() float64 {
	if t.Scale <= 0 {
		return 1
	}
	return t.Scale
}

// Expression is a typeset unit with an indexable glyph sequence.
// Expressions are produced by a Typesetter.
type Expression struct {
	source   string
	template Template
	glyphs   []*Glyph
}

// NewExpression wraps glyphs produced by a typesetter for source.
// The glyph slice is owned by the Expression afterwards.
func NewExpression(source string, tmpl Template, glyphs []*Glyph) *Expression {
	return &Expression{source: source, template: tmpl, glyphs: glyphs}
}

// Source returns the TeX source the expression was typeset from.
func (e *Expression) Source() string { return e.source }

// Template returns the template used to typeset the expression.
func (e *Expression) Template() Template { return e.template }

// Scale returns the expression's scale factor.
func (e *Expression) Scale() float64 { return e.template.EffectiveScale() }

// Len returns the number of glyphs.
func (e *Expression) Len() int { return len(e.glyphs) }

// Glyph returns the i-th glyph.
func (e *Expression) Glyph(i int) *Glyph { return e.glyphs[i] }

// Glyphs implements Mobject.
func (e *Expression) Glyphs() []*Glyph { return e.glyphs }

// Shapes returns the shape key sequence of the expression.
func (e *Expression) Shapes() []ShapeKey {
	keys := make([]ShapeKey, len(e.glyphs))
	for i, g := range e.glyphs {
		keys[i] = g.Shape
	}
	return keys
}

// Text returns the concatenated glyph sources, a normalized rendering of
// what is drawn.
func (e *Expression) Text() string {
	return glyphText(e.glyphs)
}

// Bounds implements Mobject.
func (e *Expression) Bounds() Rect { return boundsOf(e.glyphs) }

// Shift implements Mobject.
func (e *Expression) Shift(d Point) { shiftGlyphs(e.glyphs, d) }

// SetColor implements Mobject.
func (e *Expression) SetColor(c RGBA) {
	for _, g := range e.glyphs {
		g.Color = c
	}
}

// SetOpacity implements Mobject.
func (e *Expression) SetOpacity(a float64) {
	for _, g := range e.glyphs {
		g.Opacity = a
	}
}

// Copy implements Mobject.
func (e *Expression) Copy() Mobject {
	return e.clone()
}

func (e *Expression) clone() *Expression {
	glyphs := make([]*Glyph, len(e.glyphs))
	for i, g := range e.glyphs {
		glyphs[i] = g.clone()
	}
	return &Expression{source: e.source, template: e.template, glyphs: glyphs}
}

// Slice returns the glyph range [start, end), clamped to the expression.
func (e *Expression) Slice(start, end int) *GlyphRange {
	start = max(0, min(start, len(e.glyphs)))
	end = max(start, min(end, len(e.glyphs)))
	return &GlyphRange{Expr: e, Start: start, End: end}
}

func glyphText(glyphs []*Glyph) string {
	var b strings.Builder
	for _, g := range glyphs {
		b.WriteString(g.Text)
	}
	return b.String()
}
