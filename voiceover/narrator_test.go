package voiceover

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
)

// 60 words per minute: one word per second.
var slow = &EstimatingService{WordsPerMinute: 60}

func TestNarrator_WaitsForSpeech(t *testing.T) {
	ctx := context.Background()
	rec := recording.NewRecorder()
	n := NewNarrator(slow, rec)

	require.NoError(t, n.Say(ctx, "one two three", nil))
	assert.Equal(t, 3*time.Second, rec.Elapsed())
	assert.Equal(t, 1, n.Blocks())

	r := rec.FinishRecording()
	require.Len(t, r.Commands(), 2)
	narr := r.Commands()[0].(recording.NarrateCommand)
	assert.Equal(t, "one two three", narr.Text)
	assert.Equal(t, 3*time.Second, narr.Duration)
	assert.Equal(t, recording.CmdWait, r.Commands()[1].Type())
}

func TestNarrator_Bookmarks(t *testing.T) {
	ctx := context.Background()
	rec := recording.NewRecorder()
	n := NewNarrator(slow, rec)

	var atA, atB time.Duration
	err := n.Say(ctx, `a b <bookmark mark="A"/> c d <bookmark mark="B"/> e`, func(tr *Tracker) error {
		assert.Equal(t, 5*time.Second, tr.Duration())
		assert.Equal(t, "a b c d e", tr.Text())

		until, err := tr.TimeUntilBookmark("A")
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, until)

		require.NoError(t, tr.WaitUntilBookmark(ctx, "A"))
		atA = rec.Elapsed()

		// Animations run while the narration continues.
		require.NoError(t, rec.Play(ctx, &mathscroll.Wait{RunTime: 3 * time.Second}, 0))
		require.NoError(t, tr.WaitUntilBookmark(ctx, "B"), "a passed bookmark does not wait")
		atB = rec.Elapsed()

		_, err = tr.TimeUntilBookmark("C")
		assert.ErrorIs(t, err, ErrUnknownBookmark)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, atA)
	assert.Equal(t, 5*time.Second, atB)
	assert.Equal(t, 5*time.Second, rec.Elapsed(), "speech already finished")

	narr := rec.FinishRecording().Commands()[0].(recording.NarrateCommand)
	assert.Equal(t, []recording.Bookmark{
		{Mark: "A", Offset: 2 * time.Second},
		{Mark: "B", Offset: 4 * time.Second},
	}, narr.Bookmarks)
}

func TestNarrator_BlocksFollowEachOther(t *testing.T) {
	ctx := context.Background()
	rec := recording.NewRecorder()
	n := NewNarrator(slow, rec)

	require.NoError(t, n.Say(ctx, "one two", nil))
	var start time.Duration
	require.NoError(t, n.Say(ctx, "three", func(tr *Tracker) error {
		start = tr.Start()
		assert.Equal(t, time.Second, tr.Remaining())
		return nil
	}))
	assert.Equal(t, 2*time.Second, start)
	assert.Equal(t, 3*time.Second, rec.Elapsed())
}

func TestNarrator_Errors(t *testing.T) {
	ctx := context.Background()
	rec := recording.NewRecorder()
	n := NewNarrator(slow, rec)

	assert.ErrorIs(t, n.Say(ctx, `<bookmark mark=A/>`, nil), ErrMalformedMarkup)

	boom := errors.New("boom")
	err := n.Say(ctx, "one two", func(*Tracker) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, rec.Elapsed(), "a failing body does not wait for the speech")

	failing := NewNarrator(&countingService{Service: slow, fail: boom}, rec)
	assert.ErrorIs(t, failing.Say(ctx, "x", nil), boom)
}

func TestClock(t *testing.T) {
	c := NewClock()
	require.NoError(t, c.Wait(context.Background(), 5*time.Millisecond))
	assert.GreaterOrEqual(t, c.Elapsed(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Wait(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, c.Wait(ctx, 0), context.Canceled)
}
