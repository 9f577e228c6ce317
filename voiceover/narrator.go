package voiceover

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
)

// Timeline is the scene clock narration is placed on. recording.Recorder
// and Clock implement it.
type Timeline interface {
	// Elapsed returns the current scene time.
	Elapsed() time.Duration

	// Wait holds the scene for d.
	Wait(ctx context.Context, d time.Duration) error
}

// journal is implemented by timelines that record narration blocks.
type journal interface {
	Narrate(text string, d time.Duration, bookmarks []recording.Bookmark)
}

// Clock is a wall-clock Timeline for live previews.
type Clock struct {
	start time.Time
}

// NewClock returns a clock started now.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Elapsed implements Timeline.
func (c *Clock) Elapsed() time.Duration { return time.Since(c.start) }

// Wait implements Timeline.
func (c *Clock) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Narrator speaks voiceover blocks through one Service on one Timeline.
// It is safe for concurrent use; blocks are serialized.
type Narrator struct {
	mu       sync.Mutex
	service  Service
	timeline Timeline
	blocks   int
}

// NewNarrator returns a narrator placing speech from s on tl.
func NewNarrator(s Service, tl Timeline) *Narrator {
	return &Narrator{service: s, timeline: tl}
}

// Blocks returns the number of blocks spoken so far.
func (n *Narrator) Blocks() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.blocks
}

// Say speaks markup starting at the current scene time and runs body with
// a Tracker for the block. body may be nil. Once body returns, Say waits
// for the rest of the speech. An error from body is returned without
// waiting.
func (n *Narrator) Say(ctx context.Context, markup string, body func(*Tracker) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	text, marks, err := Parse(markup)
	if err != nil {
		return err
	}
	speech, err := n.service.Synthesize(ctx, text, marks)
	if err != nil {
		return fmt.Errorf("voiceover: synthesize: %w", err)
	}

	tr := &Tracker{
		start:    n.timeline.Elapsed(),
		speech:   speech,
		timeline: n.timeline,
	}
	if j, ok := n.timeline.(journal); ok {
		j.Narrate(speech.Text, speech.Duration, bookmarks(speech))
	}
	n.blocks++
	mathscroll.Logger().Debug("voiceover: block",
		"start", tr.start, "duration", speech.Duration, "bookmarks", len(speech.Bookmarks))

	if body != nil {
		if err := body(tr); err != nil {
			return err
		}
	}
	return tr.WaitUntilEnd(ctx)
}

// bookmarks returns the speech bookmarks ordered by offset, then name.
func bookmarks(s *Speech) []recording.Bookmark {
	out := make([]recording.Bookmark, 0, len(s.Bookmarks))
	for mark, off := range s.Bookmarks {
		out = append(out, recording.Bookmark{Mark: mark, Offset: off})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Offset != out[j].Offset {
			return out[i].Offset < out[j].Offset
		}
		return out[i].Mark < out[j].Mark
	})
	return out
}
