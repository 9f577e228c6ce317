package scenes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
	"github.com/gogpu/mathscroll/voiceover"
)

func TestScenes_RunToEmptyStage(t *testing.T) {
	tests := []struct {
		name    string
		cursors mathscroll.Cursors
		blocks  int
	}{
		{"derivative", mathscroll.Cursors{FirstInView: 6, NextToReveal: 6, ScrollCount: 2, Len: 6}, 4},
		{"pythagoras", mathscroll.Cursors{FirstInView: 8, NextToReveal: 8, ScrollCount: 2, Len: 8}, 4},
		{"quadratic", mathscroll.Cursors{FirstInView: 8, NextToReveal: 8, ScrollCount: 2, Len: 8}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.name)
			require.NoError(t, err)
			env, err := NewEnv(s.Name, Options{})
			require.NoError(t, err)

			require.NoError(t, s.Run(context.Background(), env))
			assert.Equal(t, tt.cursors, env.SM.Cursors())
			assert.Equal(t, tt.blocks, env.Narrator.Blocks())
			assert.Zero(t, env.Recorder.Live(), "every item faded out")
		})
	}
}

func TestPythagoras_CalloutFadesWithScroll(t *testing.T) {
	env, err := NewEnv("pythagoras", Options{})
	require.NoError(t, err)
	require.NoError(t, pythagoras(context.Background(), env))

	callouts := env.SM.Callouts()
	require.Len(t, callouts, 1)
	assert.False(t, callouts[0].Visible())
	assert.Equal(t, 2, callouts[0].ScrollIndex())
	assert.Empty(t, env.SM.PendingCallouts())

	root, err := env.SM.GetByLabel("root")
	require.NoError(t, err)
	assert.Equal(t, "tex(c=5)", mathscroll.Describe(root.Mobject()))
}

func TestQuadratic_RangeReplacementIsRestorable(t *testing.T) {
	ctx := context.Background()
	env, err := NewEnv("quadratic", Options{})
	require.NoError(t, err)
	require.NoError(t, quadratic(ctx, env))

	square, err := env.SM.IndexOf(mathscroll.ByLabel("square"))
	require.NoError(t, err)
	roots, err := env.SM.IndexOf(mathscroll.ByLabel("roots"))
	require.NoError(t, err)
	assert.Equal(t, square, roots, "labels of a group replacement resolve to its head")
	assert.Equal(t, []int{square}, env.SM.Replacements())
}

func TestRender_Recording(t *testing.T) {
	s, err := Lookup("derivative")
	require.NoError(t, err)

	r, err := Render(context.Background(), s, Options{WordsPerMinute: 120})
	require.NoError(t, err)
	assert.Equal(t, "derivative", r.Title())
	assert.Positive(t, r.Duration())

	narrations := 0
	for _, c := range r.Commands() {
		if c.Type() == recording.CmdNarrate {
			narrations++
		}
	}
	assert.Equal(t, 4, narrations)

	plays := r.Plays()
	require.NotEmpty(t, plays)
	last := plays[len(plays)-1]
	assert.Equal(t, mathscroll.KindGroup, last.Record.Kind)
	assert.Zero(t, last.Live)
}

func TestRender_SharedServiceCaches(t *testing.T) {
	svc := voiceover.NewCachingService(&voiceover.EstimatingService{}, 16)
	s, err := Lookup("pythagoras")
	require.NoError(t, err)

	first, err := Render(context.Background(), s, Options{Service: svc})
	require.NoError(t, err)
	second, err := Render(context.Background(), s, Options{Service: svc})
	require.NoError(t, err)

	assert.Equal(t, first.Duration(), second.Duration(), "renders are deterministic")
	assert.NotEqual(t, first.ID(), second.ID())
	stats := svc.Stats()
	assert.EqualValues(t, 4, stats.Misses)
	assert.EqualValues(t, 4, stats.Hits)
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := Lookup("quadratic")
	require.NoError(t, err)

	_, err = Render(ctx, s, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "scene quadratic")
}

func TestLookup(t *testing.T) {
	_, err := Lookup("nope")
	require.ErrorIs(t, err, ErrUnknownScene)
	assert.Contains(t, err.Error(), "derivative, pythagoras, quadratic")

	assert.Equal(t, []string{"derivative", "pythagoras", "quadratic"}, Names())
	for _, s := range All() {
		assert.NotEmpty(t, s.Description)
		assert.NotNil(t, s.Run)
	}
}
