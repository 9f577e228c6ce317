package tex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/tex"
)

func TestLocator_FindsTypesetFragments(t *testing.T) {
	ts := tex.New()
	l := mathscroll.NewLocator(ts)
	expr, err := ts.Typeset(`a^2+b^2=c^2`, mathscroll.MathTemplate)
	require.NoError(t, err)

	r, err := l.FindElement(expr, "b^2")
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, 5}, [2]int{r.Start, r.End})

	squares, err := l.FindAll(expr, "^2")
	require.NoError(t, err)
	assert.Len(t, squares, 3)

	minus, err := ts.Typeset(`x-y`, mathscroll.MathTemplate)
	require.NoError(t, err)
	r, err = l.FindElement(minus, "-y")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Start)
}

func TestLocator_TypesetStructures(t *testing.T) {
	ts := tex.New()
	l := mathscroll.NewLocator(ts)
	expr, err := ts.Typeset(`x = \frac{-b \pm \sqrt{b^2-4ac}}{2a}`, mathscroll.MathTemplate)
	require.NoError(t, err)

	disc, err := l.FindElement(expr, `b^2-4ac`)
	require.NoError(t, err)
	assert.Equal(t, "b2-4ac", disc.Text())

	root, err := l.FindElement(expr, `\sqrt{b^2-4ac}`)
	require.NoError(t, err)
	assert.Equal(t, disc.End, root.End)
	assert.Equal(t, disc.Start-2, root.Start, "radical and bar precede the body")

	_, err = l.FindElement(expr, `\frac{1}{2}`)
	assert.ErrorIs(t, err, mathscroll.ErrNotFound)
}

func TestLocator_CaptionNeedles(t *testing.T) {
	ts := tex.New()
	l := mathscroll.NewLocator(ts)
	caption, err := ts.Typeset(`Complete the square`, mathscroll.TextTemplate)
	require.NoError(t, err)

	r, err := l.FindElement(caption, "square")
	require.NoError(t, err)
	assert.Equal(t, "square", r.Text())

	require.NoError(t, l.ApplyColorMap(caption, mathscroll.ColorMap{"the": mathscroll.Yellow}))
	assert.Equal(t, mathscroll.Yellow, caption.Glyph(8).Color)
}
