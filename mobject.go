package mathscroll

import (
	"fmt"
	"math"
	"strings"
)

// ShapeKey identifies the drawn shape of a glyph independently of its
// position, size and color. Two glyphs with equal keys look the same once
// scaled to the same size, which is what the Locator matches on.
type ShapeKey uint64

// Reserved shape keys for atoms that are not font glyphs.
const (
	// RuleShape is the key of horizontal rules (fraction bars, radical bars).
	RuleShape ShapeKey = 1

	// FrameShape is the key of rectangle frames.
	FrameShape ShapeKey = 2
)

// Glyph is the drawable atom of the canvas: a typeset character, a rule or
// a frame. Every Mobject is ultimately a set of glyphs, and glyph pointers
// are the identity used when several mobjects share atoms.
type Glyph struct {
	// Shape is the glyph's shape key.
	Shape ShapeKey

	// Text is the source fragment this glyph was typeset from.
	Text string

	// Box is the glyph's ink bounding box in scene coordinates.
	Box Rect

	Color   RGBA
	Opacity float64
}

// clone returns a detached copy of g.
func (g *Glyph) clone() *Glyph {
	c := *g
	return &c
}

// Mobject is anything that can be placed and animated on the canvas.
//
// Implementations in this package are *Expression, *GlyphRange, *Group,
// *Step, *AnnotatedEquation and *Rectangle.
type Mobject interface {
	// Bounds returns the bounding rectangle of all glyphs.
	Bounds() Rect

	// Shift translates every glyph by d.
	Shift(d Point)

	// SetColor recolors every glyph.
	SetColor(c RGBA)

	// SetOpacity sets the opacity of every glyph.
	SetOpacity(a float64)

	// Copy returns a deep copy with fresh glyphs.
	Copy() Mobject

	// Glyphs returns the glyph atoms, in drawing order.
	Glyphs() []*Glyph
}

// boundsOf returns the union of the glyph boxes.
func boundsOf(glyphs []*Glyph) Rect {
	r := EmptyRect()
	for _, g := range glyphs {
		r = r.Union(g.Box)
	}
	return r
}

// uniqueGlyphs concatenates the glyphs of ms, dropping repeated atoms.
func uniqueGlyphs(ms ...Mobject) []*Glyph {
	seen := make(map[*Glyph]struct{})
	var out []*Glyph
	for _, m := range ms {
		if m == nil {
			continue
		}
		for _, g := range m.Glyphs() {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// shiftGlyphs moves each atom once, even if it appears several times.
func shiftGlyphs(glyphs []*Glyph, d Point) {
	if d == (Point{}) {
		return
	}
	seen := make(map[*Glyph]struct{}, len(glyphs))
	for _, g := range glyphs {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		g.Box = g.Box.Translate(d)
	}
}

// ShiftAll translates the union of the mobjects' glyphs by d, moving every
// shared atom exactly once.
func ShiftAll(d Point, ms ...Mobject) {
	shiftGlyphs(uniqueGlyphs(ms...), d)
}

// MoveTo shifts m so that its center lands on p.
func MoveTo(m Mobject, p Point) {
	m.Shift(p.Sub(m.Bounds().Center()))
}

// AlignTo shifts m so that its critical point in direction edge matches the
// same critical point of target, on the axes selected by edge only.
func AlignTo(m Mobject, target Rect, edge Point) {
	from := m.Bounds().CriticalPoint(edge)
	to := target.CriticalPoint(edge)
	d := Point{}
	if edge.X != 0 {
		d.X = to.X - from.X
	}
	if edge.Y != 0 {
		d.Y = to.Y - from.Y
	}
	m.Shift(d)
}

// NextTo places m beside target in direction dir with a gap of buff.
// A non-zero alignEdge aligns the corresponding edges on the axis
// perpendicular to dir (Left aligns left edges for a Down placement).
func NextTo(m Mobject, target Rect, dir Point, buff float64, alignEdge Point) {
	// Only the perpendicular component of alignEdge matters.
	perp := Point{}
	if dir.X == 0 {
		perp.X = alignEdge.X
	}
	if dir.Y == 0 {
		perp.Y = alignEdge.Y
	}
	to := target.CriticalPoint(dir.Add(perp))
	from := m.Bounds().CriticalPoint(dir.Neg().Add(perp))
	m.Shift(to.Sub(from).Add(dir.Mul(buff)))
}

// SameShape reports whether a and b are structural copies of each other:
// the same glyph shapes, colors and box sizes in the same order, with the
// same relative layout. Absolute position is ignored.
func SameShape(a, b Mobject) bool {
	ga, gb := a.Glyphs(), b.Glyphs()
	if len(ga) != len(gb) {
		return false
	}
	if len(ga) == 0 {
		return true
	}
	const eps = 1e-6
	oa := a.Bounds().CriticalPoint(UpLeft)
	ob := b.Bounds().CriticalPoint(UpLeft)
	for i := range ga {
		x, y := ga[i], gb[i]
		if x.Shape != y.Shape || x.Color != y.Color || math.Abs(x.Opacity-y.Opacity) > eps {
			return false
		}
		pa := x.Box.CriticalPoint(UpLeft).Sub(oa)
		pb := y.Box.CriticalPoint(UpLeft).Sub(ob)
		if !pa.Near(pb, eps) ||
			math.Abs(x.Box.Width()-y.Box.Width()) > eps ||
			math.Abs(x.Box.Height()-y.Box.Height()) > eps {
			return false
		}
	}
	return true
}

// Describe returns a short human readable description of m, used in logs
// and storyboards.
func Describe(m Mobject) string {
	switch v := m.(type) {
	case nil:
		return "<nil>"
	case *Expression:
		return fmt.Sprintf("tex(%s)", v.Source())
	case *GlyphRange:
		return fmt.Sprintf("tex(%s)[%d:%d]", v.Expr.Source(), v.Start, v.End)
	case *AnnotatedEquation:
		return fmt.Sprintf("annotated(%s)", v.Base.Source())
	case *Step:
		if v.label != "" {
			return fmt.Sprintf("step(%s)", v.label)
		}
		return fmt.Sprintf("step(%d items)", len(v.members))
	case *Group:
		parts := make([]string, 0, len(v.members))
		for _, c := range v.members {
			parts = append(parts, Describe(c))
		}
		return "group(" + strings.Join(parts, ", ") + ")"
	case *Rectangle:
		return fmt.Sprintf("rect(%.2fx%.2f)", v.Bounds().Width(), v.Bounds().Height())
	default:
		return fmt.Sprintf("%T", m)
	}
}

// Rectangle is a frame drawn around a region, typically a callout or a
// highlight box.
type Rectangle struct {
	atom *Glyph
}

// NewRectangle returns a frame covering box.
func NewRectangle(box Rect, color RGBA) *Rectangle {
	return &Rectangle{atom: &Glyph{Shape: FrameShape, Text: "\\frame", Box: box, Color: color, Opacity: 1}}
}

// SurroundingRectangle returns a frame around m with a margin of buff.
func SurroundingRectangle(m Mobject, buff float64, color RGBA) *Rectangle {
	return NewRectangle(m.Bounds().Inset(buff), color)
}

func (r *Rectangle) Bounds() Rect         { return r.atom.Box }
func (r *Rectangle) Shift(d Point)        { r.atom.Box = r.atom.Box.Translate(d) }
func (r *Rectangle) SetColor(c RGBA)      { r.atom.Color = c }
func (r *Rectangle) SetOpacity(a float64) { r.atom.Opacity = a }
func (r *Rectangle) Glyphs() []*Glyph     { return []*Glyph{r.atom} }

// Copy implements Mobject.
func (r *Rectangle) Copy() Mobject {
	return &Rectangle{atom: r.atom.clone()}
}
