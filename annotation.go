package mathscroll

import "fmt"

// Placement selects the side of the parent an annotation is drawn on.
type Placement uint8

const (
	// Above places annotations over the parent expression.
	Above Placement = iota

	// Below places annotations under the parent expression.
	Below
)

// DefaultAnnotationScale is the relative size of annotation text.
const DefaultAnnotationScale = 0.6

// annotationGap separates the annotation from the parent's bounding box.
const annotationGap = 0.1

// AnnotationOption configures AddAnnotations.
type AnnotationOption func(*annotationOptions)

type annotationOptions struct {
	color     RGBA
	placement Placement
	hSpacing  float64
	scale     float64
}

// AnnotationColor sets the annotation color (default Yellow).
func AnnotationColor(c RGBA) AnnotationOption {
	return func(o *annotationOptions) { o.color = c }
}

// AnnotationPlacement selects Above (default) or Below.
func AnnotationPlacement(p Placement) AnnotationOption {
	return func(o *annotationOptions) { o.placement = p }
}

// AnnotationHSpacing pushes the two markers apart horizontally: the from
// marker moves left and the to marker right by h.
func AnnotationHSpacing(h float64) AnnotationOption {
	return func(o *annotationOptions) { o.hSpacing = h }
}

// AnnotationScale sets the annotation text scale.
func AnnotationScale(s float64) AnnotationOption {
	return func(o *annotationOptions) { o.scale = s }
}

// AddAnnotations typesets text twice and centers one copy over from and one
// over to, a line above (or below) the parent expression. Both ranges must
// belong to the same expression. The parent never moves.
func AddAnnotations(ts Typesetter, text string, from, to *GlyphRange, opts ...AnnotationOption) (*Group, error) {
	o := annotationOptions{color: Yellow, placement: Above, scale: DefaultAnnotationScale}
	for _, opt := range opts {
		opt(&o)
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: annotation needs both a from and a to element", ErrNotFound)
	}
	if from.Expr != to.Expr {
		return nil, fmt.Errorf("%w: annotation elements belong to different expressions", ErrInvalidTarget)
	}

	parent := from.Expr.Bounds()
	dir := Up
	if o.placement == Below {
		dir = Down
	}

	tmpl := from.Expr.Template()
	tmpl.Scale = o.scale * tmpl.EffectiveScale()

	marks := NewGroup()
	for i, el := range []*GlyphRange{from, to} {
		mark, err := ts.Typeset(text, tmpl)
		if err != nil {
			return nil, fmt.Errorf("mathscroll: typeset annotation %q: %w", text, err)
		}
		mark.SetColor(o.color)
		NextTo(mark, parent, dir, annotationGap, Origin)

		x := el.Bounds().Center().X
		if i == 0 {
			x -= o.hSpacing
		} else {
			x += o.hSpacing
		}
		mark.Shift(Point{X: x - mark.Bounds().Center().X})
		marks.Add(mark)
	}
	return marks, nil
}

// AnnotatedEquation is an equation carrying an annotation overlay. The
// overlay fades in with the equation and lives as long as it does.
type AnnotatedEquation struct {
	Base    *Expression
	Overlay *Group
}

// Glyphs implements Mobject.
func (a *AnnotatedEquation) Glyphs() []*Glyph { return uniqueGlyphs(a.Base, a.Overlay) }

// Bounds implements Mobject.
func (a *AnnotatedEquation) Bounds() Rect { return boundsOf(a.Glyphs()) }

// Shift implements Mobject.
func (a *AnnotatedEquation) Shift(d Point) { shiftGlyphs(a.Glyphs(), d) }

// SetColor recolors the base equation only; the overlay keeps its color.
func (a *AnnotatedEquation) SetColor(c RGBA) { a.Base.SetColor(c) }

// SetOpacity implements Mobject.
func (a *AnnotatedEquation) SetOpacity(op float64) {
	a.Base.SetOpacity(op)
	a.Overlay.SetOpacity(op)
}

// Copy implements Mobject.
func (a *AnnotatedEquation) Copy() Mobject {
	return &AnnotatedEquation{
		Base:    a.Base.clone(),
		Overlay: a.Overlay.Copy().(*Group),
	}
}
