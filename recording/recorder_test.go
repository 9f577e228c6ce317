package recording

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mathscroll"
)

// expr returns an expression with n unit glyphs on a baseline.
func expr(src string, n int) *mathscroll.Expression {
	glyphs := make([]*mathscroll.Glyph, n)
	for i := range glyphs {
		x := float64(i)
		glyphs[i] = &mathscroll.Glyph{
			Shape:   mathscroll.ShapeKey(0x100 + i),
			Text:    string(rune('a' + i)),
			Box:     mathscroll.Rect{MinX: x, MaxX: x + 0.8, MaxY: 1},
			Color:   mathscroll.White,
			Opacity: 1,
		}
	}
	return mathscroll.NewExpression(src, mathscroll.MathTemplate, glyphs)
}

func TestNewRecorder(t *testing.T) {
	rec := NewRecorder(WithTitle("intro"))

	assert.NotEqual(t, rec.ID(), NewRecorder().ID(), "session ids are unique")
	assert.Equal(t, "intro", rec.Title())
	assert.Zero(t, rec.Elapsed())
	assert.Zero(t, rec.Len())
	assert.Zero(t, rec.Live())
}

func TestRecorder_PlayAdvancesClock(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	e := expr("abc", 3)

	require.NoError(t, rec.Play(ctx, mathscroll.NewWrite(e), 0))
	assert.Equal(t, mathscroll.DefaultRunTime, rec.Elapsed())
	assert.True(t, rec.OnStage(e))
	assert.Equal(t, 3, rec.Live())

	require.NoError(t, rec.Play(ctx, mathscroll.NewFadeOut(e), 500*time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, rec.Elapsed())
	assert.True(t, rec.OffStage(e))

	plays := rec.FinishRecording().Plays()
	require.Len(t, plays, 2)
	assert.Equal(t, 3, plays[0].Introduced)
	assert.Equal(t, 3, plays[0].Live)
	assert.Equal(t, time.Second, plays[1].Start)
	assert.Equal(t, 3, plays[1].Removed)
	assert.Equal(t, 1500*time.Millisecond, plays[1].End())
}

func TestRecorder_SharedGlyphs(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	e := expr("abcd", 4)
	part := e.Slice(1, 3)

	require.NoError(t, rec.Play(ctx, mathscroll.NewWrite(part), 0))
	assert.True(t, rec.OnStage(part))
	assert.False(t, rec.OnStage(e))
	assert.False(t, rec.OffStage(e))

	require.NoError(t, rec.Play(ctx, mathscroll.NewWrite(e), 0))
	plays := rec.FinishRecording().Plays()
	assert.Equal(t, 2, plays[1].Introduced, "glyphs already on stage are not counted again")
	assert.Equal(t, 4, plays[1].Live)
}

func TestRecorder_ReplacementTransform(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()
	src, dst := expr("ab", 2), expr("xyz", 3)
	rec.Add(src)

	require.NoError(t, rec.Play(ctx, mathscroll.NewReplacementTransform(src, dst), 0))
	assert.True(t, rec.OffStage(src))
	assert.True(t, rec.OnStage(dst))

	require.NoError(t, rec.Play(ctx, mathscroll.NewTransform(dst, src), 0))
	assert.True(t, rec.OnStage(dst), "a plain transform keeps its source on stage")
	assert.True(t, rec.OffStage(src))
}

func TestRecorder_AddRemove(t *testing.T) {
	rec := NewRecorder()
	e := expr("ab", 2)

	rec.Add(e)
	rec.Add(e)
	rec.Remove(e)

	cmds := rec.FinishRecording().Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, CmdAdd, cmds[0].Type())
	assert.Equal(t, 2, cmds[0].(AddCommand).Glyphs)
	assert.Equal(t, 0, cmds[1].(AddCommand).Glyphs)
	assert.Equal(t, []string{"tex(ab)"}, cmds[2].(RemoveCommand).Mobjects)
	assert.Equal(t, 2, cmds[2].(RemoveCommand).Glyphs)
}

func TestRecorder_WaitAndNarrate(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()

	rec.Narrate("hello there", 2*time.Second, []Bookmark{{Mark: "A", Offset: time.Second}})
	require.NoError(t, rec.Wait(ctx, 2*time.Second))
	require.NoError(t, rec.Wait(ctx, 0))
	assert.Equal(t, 2*time.Second, rec.Elapsed(), "narration does not advance the clock")

	r := rec.FinishRecording()
	require.Len(t, r.Commands(), 2)
	n := r.Commands()[0].(NarrateCommand)
	assert.Zero(t, n.At())
	assert.Equal(t, "hello there", n.Text)
	assert.Equal(t, []Bookmark{{Mark: "A", Offset: time.Second}}, n.Bookmarks)
	assert.Equal(t, CmdWait, r.Commands()[1].Type())
	assert.Equal(t, 2*time.Second, r.Duration())
}

func TestRecorder_Errors(t *testing.T) {
	rec := NewRecorder()

	assert.ErrorIs(t, rec.Play(context.Background(), nil, 0), ErrNilAnimation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rec.Play(ctx, &mathscroll.Wait{}, 0), context.Canceled)
	assert.ErrorIs(t, rec.Wait(ctx, time.Second), context.Canceled)
	assert.Zero(t, rec.Len())

	rec.FinishRecording()
	assert.ErrorIs(t, rec.Play(context.Background(), &mathscroll.Wait{}, 0), ErrFinished)
	assert.ErrorIs(t, rec.Wait(context.Background(), time.Second), ErrFinished)
	rec.Add(expr("a", 1))
	assert.Zero(t, rec.Len())
}

func TestRecorder_PaceHonorsContext(t *testing.T) {
	rec := NewRecorder(WithPace(1))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rec.Play(ctx, &mathscroll.Wait{RunTime: time.Hour}, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, time.Hour, rec.Elapsed(), "the batch is recorded before pacing")
}

func TestRecorder_Pace(t *testing.T) {
	rec := NewRecorder(WithPace(0.001))
	start := time.Now()
	require.NoError(t, rec.Play(context.Background(), &mathscroll.Wait{RunTime: 10 * time.Second}, 0))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
