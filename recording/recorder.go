package recording

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/mathscroll"
)

// Option configures a Recorder.
type Option func(*options)

type options struct {
	title string
	pace  float64
}

// WithTitle names the recording. Backends use the title as a heading.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithPace makes Play and Wait block for their run time scaled by factor,
// so a recording can be watched as it is made. 1 is real time. The default
// 0 records as fast as possible.
func WithPace(factor float64) Option {
	return func(o *options) {
		if factor >= 0 {
			o.pace = factor
		}
	}
}

// Recorder records the commands of a scene on a virtual clock.
// It implements mathscroll.Scene.
//
// Play advances the clock by the batch's run time and updates the set of
// glyphs on stage: the glyphs of mathscroll.Removed(anim) leave, then the
// glyphs of mathscroll.Introduced(anim) enter. Glyph pointers are the
// identity, so mobjects sharing atoms enter and leave together.
//
// A Recorder is safe for concurrent use. A voiceover tracker may read the
// clock from another goroutine while the script plays.
type Recorder struct {
	id   uuid.UUID
	opts options

	mu       sync.Mutex
	clock    time.Duration
	commands []Command
	live     map[*mathscroll.Glyph]struct{}
	finished bool
}

// Compile-time check.
var _ mathscroll.Scene = (*Recorder)(nil)

// NewRecorder creates a recorder with an empty stage at time zero.
func NewRecorder(opts ...Option) *Recorder {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Recorder{
		id:       uuid.New(),
		opts:     o,
		commands: make([]Command, 0, 64),
		live:     make(map[*mathscroll.Glyph]struct{}),
	}
}

// ID returns the recording session id.
func (r *Recorder) ID() uuid.UUID { return r.id }

// Title returns the recording title.
func (r *Recorder) Title() string { return r.opts.title }

// Elapsed returns the current scene time.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock
}

// Len returns the number of commands recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

// Live returns the number of glyphs on stage.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// OnStage reports whether every glyph of m is on stage. A mobject without
// glyphs is never on stage.
func (r *Recorder) OnStage(m mathscroll.Mobject) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	gs := m.Glyphs()
	if len(gs) == 0 {
		return false
	}
	for _, g := range gs {
		if _, ok := r.live[g]; !ok {
			return false
		}
	}
	return true
}

// OffStage reports whether no glyph of m is on stage.
func (r *Recorder) OffStage(m mathscroll.Mobject) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range m.Glyphs() {
		if _, ok := r.live[g]; ok {
			return false
		}
	}
	return true
}

// Play implements mathscroll.Scene. A positive runTime overrides the
// animation's own duration.
func (r *Recorder) Play(ctx context.Context, anim mathscroll.Animation, runTime time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if anim == nil {
		return ErrNilAnimation
	}
	if runTime <= 0 {
		runTime = anim.Duration()
	}

	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return ErrFinished
	}
	cmd := PlayCommand{
		Start:     r.clock,
		RunTime:   runTime,
		Animation: anim,
		Record:    Describe(anim),
	}
	cmd.Removed = r.remove(mathscroll.Removed(anim))
	cmd.Introduced = r.add(mathscroll.Introduced(anim))
	cmd.Live = len(r.live)
	r.clock += runTime
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	mathscroll.Logger().Debug("recording: play",
		"kind", anim.Kind(), "start", cmd.Start, "runTime", runTime,
		"introduced", cmd.Introduced, "removed", cmd.Removed, "live", cmd.Live)
	return r.pace(ctx, runTime)
}

// Add implements mathscroll.Scene.
func (r *Recorder) Add(ms ...mathscroll.Mobject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.add(ms)
	if r.finished {
		return
	}
	r.commands = append(r.commands, AddCommand{Start: r.clock, Mobjects: describeAll(ms), Glyphs: n})
}

// Remove implements mathscroll.Scene.
func (r *Recorder) Remove(ms ...mathscroll.Mobject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.remove(ms)
	if r.finished {
		return
	}
	r.commands = append(r.commands, RemoveCommand{Start: r.clock, Mobjects: describeAll(ms), Glyphs: n})
}

// Wait holds the frame for d.
func (r *Recorder) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return ErrFinished
	}
	r.commands = append(r.commands, WaitCommand{Start: r.clock, Duration: d})
	r.clock += d
	r.mu.Unlock()
	return r.pace(ctx, d)
}

// Narrate records the start of a voiceover block at the current time.
func (r *Recorder) Narrate(text string, d time.Duration, bookmarks []Bookmark) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.commands = append(r.commands, NarrateCommand{
		Start:     r.clock,
		Text:      text,
		Duration:  d,
		Bookmarks: append([]Bookmark(nil), bookmarks...),
	})
}

// FinishRecording freezes the recorded commands. Later Play and Wait calls
// fail with ErrFinished.
func (r *Recorder) FinishRecording() *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = true

	mathscroll.Logger().Info("recording: finished",
		"id", r.id, "title", r.opts.title, "commands", len(r.commands), "duration", r.clock)
	return &Recording{
		id:       r.id,
		title:    r.opts.title,
		duration: r.clock,
		commands: r.commands,
	}
}

// add puts the glyphs of ms on stage and returns how many were new.
// Callers hold r.mu.
func (r *Recorder) add(ms []mathscroll.Mobject) int {
	n := 0
	for _, m := range ms {
		if m == nil {
			continue
		}
		for _, g := range m.Glyphs() {
			if _, ok := r.live[g]; !ok {
				r.live[g] = struct{}{}
				n++
			}
		}
	}
	return n
}

// remove takes the glyphs of ms off stage and returns how many were live.
// Callers hold r.mu.
func (r *Recorder) remove(ms []mathscroll.Mobject) int {
	n := 0
	for _, m := range ms {
		if m == nil {
			continue
		}
		for _, g := range m.Glyphs() {
			if _, ok := r.live[g]; ok {
				delete(r.live, g)
				n++
			}
		}
	}
	return n
}

// pace blocks for d scaled by the pace factor.
func (r *Recorder) pace(ctx context.Context, d time.Duration) error {
	if r.opts.pace == 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(float64(d) * r.opts.pace))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func describeAll(ms []mathscroll.Mobject) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, mathscroll.Describe(m))
	}
	return out
}

// --------------------------------------------------------------------------
// Recording
// --------------------------------------------------------------------------

// Recording is a finished, immutable sequence of commands.
type Recording struct {
	id       uuid.UUID
	title    string
	duration time.Duration
	commands []Command
}

// ID returns the recording session id.
func (r *Recording) ID() uuid.UUID { return r.id }

// Title returns the recording title.
func (r *Recording) Title() string { return r.title }

// Duration returns the total scene time.
func (r *Recording) Duration() time.Duration { return r.duration }

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command { return r.commands }

// Plays returns the Play commands, in order.
func (r *Recording) Plays() []PlayCommand {
	var out []PlayCommand
	for _, c := range r.commands {
		if p, ok := c.(PlayCommand); ok {
			out = append(out, p)
		}
	}
	return out
}

// Info returns the description passed to Backend.Begin.
func (r *Recording) Info() Info {
	return Info{
		ID:       r.id.String(),
		Title:    r.title,
		Duration: r.duration,
		Commands: len(r.commands),
	}
}

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.Info()); err != nil {
		return err
	}

	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case PlayCommand:
			backend.Play(c)
		case AddCommand:
			backend.Add(c)
		case RemoveCommand:
			backend.Remove(c)
		case WaitCommand:
			backend.Wait(c)
		case NarrateCommand:
			backend.Narrate(c)
		}
	}

	return backend.End()
}
