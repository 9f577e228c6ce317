package voiceover

import (
	"context"
	"fmt"
	"time"
)

// Tracker follows one voiceover block on the scene timeline.
type Tracker struct {
	start    time.Duration
	speech   *Speech
	timeline Timeline
}

// Text returns the spoken text.
func (t *Tracker) Text() string { return t.speech.Text }

// Start returns the scene time the block started at.
func (t *Tracker) Start() time.Duration { return t.start }

// Duration returns the length of the speech.
func (t *Tracker) Duration() time.Duration { return t.speech.Duration }

// End returns the scene time the speech finishes at.
func (t *Tracker) End() time.Duration { return t.start + t.speech.Duration }

// Remaining returns the speech left after the current scene time, zero
// once it has finished.
func (t *Tracker) Remaining() time.Duration {
	return max(0, t.End()-t.timeline.Elapsed())
}

// TimeUntilBookmark returns how long until the narration reaches mark,
// zero if it already has.
func (t *Tracker) TimeUntilBookmark(mark string) (time.Duration, error) {
	off, ok := t.speech.Bookmarks[mark]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBookmark, mark)
	}
	return max(0, t.start+off-t.timeline.Elapsed()), nil
}

// WaitUntilBookmark holds the scene until the narration reaches mark.
func (t *Tracker) WaitUntilBookmark(ctx context.Context, mark string) error {
	d, err := t.TimeUntilBookmark(mark)
	if err != nil {
		return err
	}
	return t.timeline.Wait(ctx, d)
}

// WaitUntilEnd holds the scene until the speech has finished.
func (t *Tracker) WaitUntilEnd(ctx context.Context) error {
	return t.timeline.Wait(ctx, t.Remaining())
}
