package mathscroll

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructStep_LayoutAndQueue(t *testing.T) {
	m, _ := newTestManager(t, 0)

	caption, err := m.CreateTex("Step one", TexLabel("cap"))
	require.NoError(t, err)
	line, err := m.CreateMathTex("x+1=2", TexLabel("line"))
	require.NoError(t, err)

	step, err := m.ConstructStep([]Mobject{caption, line}, StepLabel("one"), StepBuff(0.5))
	require.NoError(t, err)

	assert.True(t, step.Queued())
	assert.Equal(t, "one", step.Label())
	assert.Equal(t, []int{0, 1}, step.Indices())
	assert.Equal(t, 2, m.Len())
	assert.InDelta(t, caption.Bounds().MinY-0.5, line.Bounds().MaxY, 1e-9)
	assert.InDelta(t, caption.Bounds().MinX, line.Bounds().MinX, 1e-9)

	labels := m.Labels()
	assert.Equal(t, map[string]int{"cap": 0, "line": 1, "one": 0}, labels)
	assert.True(t, m.Arrangement().Contains(step))
}

func TestConstructStep_DuplicateLabelIsAtomic(t *testing.T) {
	m, _ := newTestManager(t, 1)
	ts := m.Typesetter()

	_, err := m.ConstructStep([]Mobject{
		WithLabel(mathExpr(ts, "a"), "fresh"),
		WithLabel(mathExpr(ts, "b"), "s0"),
	})
	require.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Equal(t, 1, m.Len(), "nothing queued")
	_, err = m.GetByLabel("fresh")
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = m.ConstructStep([]Mobject{
		WithLabel(mathExpr(ts, "a"), "twice"),
		WithLabel(mathExpr(ts, "b"), "twice"),
	})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = m.CreateStep(mathExpr(ts, "c"), "", StepLabel("s0"))
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestConstructStep_Empty(t *testing.T) {
	m, _ := newTestManager(t, 0)
	_, err := m.ConstructStep(nil)
	assert.Error(t, err)
	_, err = m.ConstructStep([]Mobject{nil})
	assert.Error(t, err)
}

func TestConstructStep_NestedSteps(t *testing.T) {
	m, _ := newTestManager(t, 0)
	ts := m.Typesetter()

	inner, err := m.ConstructStep([]Mobject{
		WithLabel(mathExpr(ts, "a"), "a"),
		WithLabel(mathExpr(ts, "b"), "b"),
	}, AddToScroll(false), Arrange(false), StepLabel("inner"))
	require.NoError(t, err)
	assert.False(t, inner.Queued())
	assert.Zero(t, m.Len())
	assert.Zero(t, m.Arrangement().Len())

	outer, err := m.ConstructStep([]Mobject{mathExpr(ts, "head"), inner})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, outer.Indices())
	assert.True(t, inner.Queued())
	assert.Equal(t, []int{1, 2}, inner.Indices())

	idx, err := m.IndexOf(ByLabel("inner"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	idx, err = m.IndexOf(ByLabel("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	// A queued step contributes layout only.
	again, err := m.ConstructStep([]Mobject{inner}, Arrange(false))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again.Indices())
	assert.Equal(t, 3, m.Len())
}

func TestConstructStep_ArrangeFlag(t *testing.T) {
	m, _ := newTestManager(t, 0, WithGlobalArrangement(false))
	ts := m.Typesetter()

	free, err := m.CreateStep(mathExpr(ts, "free"), "free")
	require.NoError(t, err)
	assert.False(t, m.Arrangement().Contains(free))

	flowing, err := m.CreateStep(mathExpr(ts, "flow"), "flow", Arrange(true))
	require.NoError(t, err)
	assert.True(t, m.Arrangement().Contains(flowing))
	assert.Equal(t, 2, m.Len())
}

func TestCreateSteps(t *testing.T) {
	m, _ := newTestManager(t, 0)
	ts := m.Typesetter()
	items := []Mobject{mathExpr(ts, "a"), mathExpr(ts, "b"), mathExpr(ts, "c")}

	steps, err := m.CreateSteps(items, []string{"a", "", "c"})
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, 3, m.Arrangement().Len())

	it, err := m.GetByLabel("c")
	require.NoError(t, err)
	assert.Same(t, items[2], it.Mobject())

	// The integer fallback addresses the unlabeled item.
	it, err = m.Item(1)
	require.NoError(t, err)
	assert.Same(t, items[1], it.Mobject())

	_, err = m.CreateSteps(items, []string{"x"})
	assert.Error(t, err)
}

func TestStep_CopyIsDetached(t *testing.T) {
	m, _ := newTestManager(t, 0)
	step, err := m.CreateStep(mathExpr(m.Typesetter(), "a+b"), "ab")
	require.NoError(t, err)

	c := step.Copy().(*Step)
	assert.False(t, c.Queued())
	assert.Equal(t, "ab", c.Label())
	assert.True(t, SameShape(step, c))
	c.Shift(Pt(1, 0))
	assert.False(t, step.Bounds() == c.Bounds())
}

func TestCreateTex_Helpers(t *testing.T) {
	m, _ := newTestManager(t, 0, WithScale(0.5), WithColorMap(ColorMap{"x": Blue}))

	item, err := m.CreateMathTex("x+y", TexColor(Gray), TexColorMap(ColorMap{"y": Red}), TexLabel("xy"))
	require.NoError(t, err)
	expr := item.Mobject.(*Expression)
	assert.Equal(t, "xy", item.Label)
	assert.InDelta(t, 0.5, expr.Scale(), 1e-9)
	assert.Equal(t, Blue, expr.Glyph(0).Color)
	assert.Equal(t, Gray, expr.Glyph(1).Color)
	assert.Equal(t, Red, expr.Glyph(2).Color)

	item, err = m.CreateTex("hello", TexScale(2), TexEnvironment("center"))
	require.NoError(t, err)
	expr = item.Mobject.(*Expression)
	assert.Equal(t, ModeText, expr.Template().Mode)
	assert.Equal(t, "center", expr.Template().Environment)
	assert.InDelta(t, 2, expr.Scale(), 1e-9)
}

func TestCreateTex_Errors(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	_, err = m.CreateMathTex("x")
	assert.ErrorIs(t, err, ErrNoTypesetter)

	boom := errors.New("boom")
	m, err = New(WithTypesetter(&runeTypesetter{fail: boom}))
	require.NoError(t, err)
	_, err = m.CreateMathTex("x")
	assert.ErrorIs(t, err, boom)
}

func TestCreateAnnotatedEquation_MissingTerm(t *testing.T) {
	m, _ := newTestManager(t, 0)
	_, err := m.CreateAnnotatedEquation("a+b", "n", "a", "z")
	assert.ErrorIs(t, err, ErrNotFound)
}
