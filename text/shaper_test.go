package text

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapers_AgreeOnPlainText(t *testing.T) {
	face := testSource(t).Face(0.75)
	builtin := (&BuiltinShaper{}).Shape("x+1", face)
	gotext := NewGoTextShaper().Shape("x+1", face)

	require.Len(t, builtin, 3)
	require.Len(t, gotext, 3)
	for i := range builtin {
		assert.Equal(t, builtin[i].GID, gotext[i].GID)
		assert.Equal(t, i, gotext[i].Cluster)
		assert.Positive(t, gotext[i].XAdvance)
	}
}

func TestGoTextShaper_Positions(t *testing.T) {
	face := testSource(t).Face(1)
	shaper := NewGoTextShaper()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"word", "sin", 3},
		{"with space", "for all", 7},
		{"greek", "αβγ", 3},
		{"digits", "2024", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glyphs := shaper.Shape(tt.text, face)
			require.Len(t, glyphs, tt.want)
			for i := 1; i < len(glyphs); i++ {
				assert.Greater(t, glyphs[i].X, glyphs[i-1].X)
				assert.Positive(t, glyphs[i].XAdvance)
			}
		})
	}

	assert.Nil(t, shaper.Shape("", face))
	assert.Nil(t, shaper.Shape("x", nil))
}

func TestGoTextShaper_ClosedSource(t *testing.T) {
	source := testSource(t)
	face := source.Face(1)
	shaper := NewGoTextShaper()
	require.NoError(t, source.Close())
	assert.Nil(t, shaper.Shape("x", face))
}

func TestGoTextShaper_Concurrent(t *testing.T) {
	face := testSource(t).Face(1)
	shaper := NewGoTextShaper()
	want := shaper.Shape("a+b=c", face)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			assert.Equal(t, want, shaper.Shape("a+b=c", face))
		})
	}
	wg.Wait()

	shaper.RemoveSource(face.Source())
	assert.Equal(t, want, shaper.Shape("a+b=c", face))
}

func TestSetShaper(t *testing.T) {
	face := testSource(t).Face(1)
	custom := NewGoTextShaper()

	SetShaper(custom)
	assert.Same(t, custom, GetShaper())
	assert.Len(t, Shape("ab", face), 2)

	SetShaper(nil)
	assert.IsType(t, &BuiltinShaper{}, GetShaper())
}
