package storyboard

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
)

func expr(src string) *mathscroll.Expression {
	var glyphs []*mathscroll.Glyph
	for i, r := range src {
		x := float64(i)
		glyphs = append(glyphs, &mathscroll.Glyph{
			Shape:   mathscroll.ShapeKey(0x100 + r),
			Text:    string(r),
			Box:     mathscroll.Rect{MinX: x, MaxX: x + 0.8, MaxY: 1},
			Color:   mathscroll.White,
			Opacity: 1,
		})
	}
	return mathscroll.NewExpression(src, mathscroll.MathTemplate, glyphs)
}

// record plays a short script and returns its recording.
func record(t *testing.T, second string) *recording.Recording {
	t.Helper()
	ctx := context.Background()
	rec := recording.NewRecorder(recording.WithTitle("demo"))
	a, b := expr("ab"), expr(second)

	rec.Narrate("first we write", 3*time.Second, []recording.Bookmark{{Mark: "B", Offset: time.Second}})
	require.NoError(t, rec.Play(ctx, mathscroll.Together(mathscroll.NewWrite(a), mathscroll.NewFadeIn(b)), 0))
	require.NoError(t, rec.Wait(ctx, 500*time.Millisecond))
	require.NoError(t, rec.Play(ctx, mathscroll.NewFadeOut(a), 2*time.Second))
	rec.Remove(b)
	return rec.FinishRecording()
}

func TestBackendRegistered(t *testing.T) {
	assert.True(t, recording.IsRegistered("storyboard"))
	b, err := recording.NewBackend("storyboard")
	require.NoError(t, err)
	assert.IsType(t, &Backend{}, b)
}

func TestBackend_Storyboard(t *testing.T) {
	r := record(t, "cd")
	b := New()
	require.NoError(t, r.Playback(b))

	sb := b.Storyboard()
	assert.Equal(t, "demo", sb.Title)
	assert.Equal(t, r.ID().String(), sb.ID)
	assert.Equal(t, "3.5s", sb.Duration)
	require.Len(t, sb.Events, 5)
	assert.Equal(t, 2, sb.Count("Play"))

	narrate := sb.Events[0]
	assert.Equal(t, "Narrate", narrate.Type)
	assert.Equal(t, "0s", narrate.At)
	assert.Equal(t, []Bookmark{{Mark: "B", Offset: "1s"}}, narrate.Bookmarks)

	play := sb.Events[1]
	require.NotNil(t, play.Animation)
	assert.Equal(t, "AnimationGroup", play.Animation.Kind)
	require.Len(t, play.Animation.Children, 2)
	assert.Equal(t, []string{"tex(cd)"}, play.Animation.Children[1].Targets)
	assert.Equal(t, GlyphCounts{Introduced: 4, Live: 4}, *play.Glyphs)

	fade := sb.Events[3]
	assert.Equal(t, "1.5s", fade.At)
	assert.Equal(t, "2s", fade.RunTime)
	assert.Equal(t, GlyphCounts{Removed: 2, Live: 2}, *fade.Glyphs)

	assert.Equal(t, []string{"tex(cd)"}, sb.Events[4].Mobjects)

	total, err := sb.TotalDuration()
	require.NoError(t, err)
	assert.Equal(t, 3500*time.Millisecond, total)
}

func TestBackend_WriteAndLoad(t *testing.T) {
	b := New()
	require.NoError(t, record(t, "cd").Playback(b))

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "title: demo")
	assert.Contains(t, buf.String(), "kind: FadeOut")

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.Storyboard(), loaded)
}

func TestBackend_SaveToFile(t *testing.T) {
	b := New()
	require.NoError(t, record(t, "cd").Playback(b))

	path := filepath.Join(t.TempDir(), "nested", "scene.yaml")
	require.NoError(t, b.SaveToFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Events, 5)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBackend_Lifecycle(t *testing.T) {
	b := New()
	assert.ErrorIs(t, b.End(), ErrNotBegun)

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	assert.ErrorIs(t, err, ErrNotEnded)
	assert.ErrorIs(t, b.SaveToFile(filepath.Join(t.TempDir(), "x.yaml")), ErrNotEnded)
}

func TestDiff(t *testing.T) {
	board := func(second string) *Storyboard {
		b := New()
		require.NoError(t, record(t, second).Playback(b))
		return b.Storyboard()
	}

	a, b := board("cd"), board("cd")
	require.NotEqual(t, a.ID, b.ID)
	d, err := Diff(a, b)
	require.NoError(t, err)
	assert.Empty(t, d, "session ids are ignored")

	c := board("cde")
	d, err = Diff(a, c)
	require.NoError(t, err)
	assert.Contains(t, d, "-")
	assert.Contains(t, d, "+")
	assert.Contains(t, d, "tex(cde)")
	for _, line := range bytes.Split(bytes.TrimSpace([]byte(d)), []byte("\n")) {
		assert.Contains(t, []byte("-+"), line[0])
	}
}
