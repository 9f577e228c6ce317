package mathscroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrangement_DefaultAnchor(t *testing.T) {
	ts := &runeTypesetter{}
	a := NewArrangement(DefaultFrame(), 0.3)
	_, ok := a.StartPosition()
	assert.False(t, ok)

	first, second := mathExpr(ts, "abc"), mathExpr(ts, "de")
	second.Shift(Pt(4, -3))
	a.Add(first)
	a.Add(second)

	start, ok := a.StartPosition()
	require.True(t, ok)
	assert.InDelta(t, -DefaultFrameWidth/2+DefaultEdgeMargin, start.X, 1e-9)
	assert.InDelta(t, DefaultFrameHeight/2-DefaultEdgeMargin, start.Y, 1e-9)

	assert.InDelta(t, start.Y, first.Bounds().MaxY, 1e-9)
	assert.InDelta(t, first.Bounds().MinY-0.3, second.Bounds().MaxY, 1e-9)
	assert.InDelta(t, start.X, second.Bounds().MinX, 1e-9)
	assert.Equal(t, []Mobject{first, second}, a.Members())
}

func TestArrangement_PositionTarget(t *testing.T) {
	ts := &runeTypesetter{}
	a := NewArrangement(DefaultFrame(), 0.25)
	title := mathExpr(ts, "Title")
	MoveTo(title, Pt(0, 3))

	eq := mathExpr(ts, "x=1")
	a.Add(eq)
	a.SetPositionTarget(title, Down, 0.5, Left)

	assert.InDelta(t, title.Bounds().MinY-0.5, eq.Bounds().MaxY, 1e-9)
	assert.InDelta(t, title.Bounds().MinX, eq.Bounds().MinX, 1e-9)

	start, ok := a.StartPosition()
	require.True(t, ok)
	assert.Equal(t, eq.Bounds().CriticalPoint(UpLeft), start)

	// After a scroll the anchor no longer moves anything.
	a.markScrolled()
	before := eq.Bounds()
	a.SetPositionTarget(mathExpr(ts, "elsewhere"), Down, 1, Left)
	assert.Equal(t, before, eq.Bounds())
	assert.True(t, a.Scrolled())
}

func TestArrangement_ReplaceAndRemove(t *testing.T) {
	ts := &runeTypesetter{}
	a := NewArrangement(DefaultFrame(), 0.25)
	x, y, z := mathExpr(ts, "x"), mathExpr(ts, "y"), mathExpr(ts, "z")
	step := &Step{Group: Group{members: []Mobject{x, y}}}
	a.Add(step, z)

	w := mathExpr(ts, "w")
	assert.True(t, a.Replace(x, w))
	assert.Equal(t, []Mobject{w, y}, step.Members())

	assert.True(t, a.Replace(y, nil))
	assert.Equal(t, []Mobject{w}, step.Members())

	assert.True(t, a.Replace(z, nil))
	assert.Equal(t, []Mobject{step}, a.Members())
	assert.False(t, a.Replace(z, w))
}

func TestNextTo(t *testing.T) {
	target := Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 1}
	r := NewRectangle(Rect{MinX: 5, MinY: 5, MaxX: 6, MaxY: 7}, Red)

	NextTo(r, target, Down, 0.5, Left)
	assert.Equal(t, Rect{MinX: 0, MinY: -2.5, MaxX: 1, MaxY: -0.5}, r.Bounds())

	NextTo(r, target, Right, 0.25, Origin)
	assert.InDelta(t, 2.25, r.Bounds().MinX, 1e-9)
	assert.InDelta(t, 0.5, r.Bounds().Center().Y, 1e-9)

	NextTo(r, target, Up, 0, Right)
	assert.InDelta(t, 1, r.Bounds().MinY, 1e-9)
	assert.InDelta(t, 2, r.Bounds().MaxX, 1e-9)
}

func TestGroup_SharedGlyphsMoveOnce(t *testing.T) {
	ts := &runeTypesetter{}
	e := mathExpr(ts, "a+b")
	g := NewGroup(e, e.Slice(0, 1))
	before := e.Glyph(0).Box

	g.Shift(Pt(1, 0))
	assert.InDelta(t, before.MinX+1, e.Glyph(0).Box.MinX, 1e-9)
	assert.Len(t, g.Glyphs(), 3)
}

func TestSameShape(t *testing.T) {
	ts := &runeTypesetter{}
	a := mathExpr(ts, "a+b")
	b := a.Copy()
	b.Shift(Pt(3, 4))
	assert.True(t, SameShape(a, b))

	b.SetColor(Red)
	assert.False(t, SameShape(a, b))
	assert.False(t, SameShape(a, mathExpr(ts, "a-b")))
	assert.False(t, SameShape(a, mathExpr(ts, "a+")))
}

func TestDescribe(t *testing.T) {
	ts := &runeTypesetter{}
	e := mathExpr(ts, "x^2")
	assert.Equal(t, "tex(x^2)", Describe(e))
	assert.Equal(t, "tex(x^2)[1:3]", Describe(e.Slice(1, 3)))
	assert.Equal(t, "group(tex(x^2), rect(1.00x2.00))", Describe(NewGroup(e, NewRectangle(RectFromCenter(Origin, 1, 2), Red))))
	assert.Equal(t, "<nil>", Describe(nil))
}
