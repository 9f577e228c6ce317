package recording

import (
	"time"

	"github.com/gogpu/mathscroll"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdPlay    CommandType = iota // Play an animation batch
	CmdAdd                        // Put mobjects on stage
	CmdRemove                     // Take mobjects off stage
	CmdWait                       // Hold the frame
	CmdNarrate                    // Start a voiceover block
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdPlay:    "Play",
	CmdAdd:     "Add",
	CmdRemove:  "Remove",
	CmdWait:    "Wait",
	CmdNarrate: "Narrate",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// At returns the scene time the command starts at.
	At() time.Duration
}

// --------------------------------------------------------------------------
// Animation descriptions
// --------------------------------------------------------------------------

// AnimationRecord is a detached description of an animation: its kind,
// run time and targets at the moment it was played. Later edits to the
// mobjects do not change it.
type AnimationRecord struct {
	Kind     mathscroll.AnimationKind
	Duration time.Duration
	Targets  []string

	// LagRatio and Children are set for animation groups.
	LagRatio float64
	Children []AnimationRecord
}

// Describe returns the record of a.
func Describe(a mathscroll.Animation) AnimationRecord {
	rec := AnimationRecord{Kind: a.Kind(), Duration: a.Duration()}
	if g, ok := a.(*mathscroll.AnimationGroup); ok {
		rec.LagRatio = g.LagRatio
		rec.Children = make([]AnimationRecord, 0, len(g.Animations))
		for _, c := range g.Animations {
			rec.Children = append(rec.Children, Describe(c))
		}
		return rec
	}
	for _, m := range a.Targets() {
		rec.Targets = append(rec.Targets, mathscroll.Describe(m))
	}
	return rec
}

// Leaves returns the number of non-group animations in the record.
func (r AnimationRecord) Leaves() int {
	if r.Kind != mathscroll.KindGroup {
		return 1
	}
	n := 0
	for _, c := range r.Children {
		n += c.Leaves()
	}
	return n
}

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

// PlayCommand is one animation batch.
type PlayCommand struct {
	Start time.Duration

	// RunTime is the effective run time: the Play argument when positive,
	// the animation's own duration otherwise.
	RunTime time.Duration

	Animation mathscroll.Animation
	Record    AnimationRecord

	// Introduced and Removed count the glyphs the batch put on and took
	// off stage. Live is the number of glyphs on stage afterwards.
	Introduced int
	Removed    int
	Live       int
}

// Type implements Command.
func (PlayCommand) Type() CommandType { return CmdPlay }

// At implements Command.
func (c PlayCommand) At() time.Duration { return c.Start }

// End returns the time the batch finishes.
func (c PlayCommand) End() time.Duration { return c.Start + c.RunTime }

// AddCommand puts mobjects on stage without animation.
type AddCommand struct {
	Start    time.Duration
	Mobjects []string
	Glyphs   int
}

// Type implements Command.
func (AddCommand) Type() CommandType { return CmdAdd }

// At implements Command.
func (c AddCommand) At() time.Duration { return c.Start }

// RemoveCommand takes mobjects off stage without animation.
type RemoveCommand struct {
	Start    time.Duration
	Mobjects []string
	Glyphs   int
}

// Type implements Command.
func (RemoveCommand) Type() CommandType { return CmdRemove }

// At implements Command.
func (c RemoveCommand) At() time.Duration { return c.Start }

// WaitCommand holds the current frame.
type WaitCommand struct {
	Start    time.Duration
	Duration time.Duration
}

// Type implements Command.
func (WaitCommand) Type() CommandType { return CmdWait }

// At implements Command.
func (c WaitCommand) At() time.Duration { return c.Start }

// Bookmark is a named instant inside a narration, as an offset from the
// start of the block.
type Bookmark struct {
	Mark   string
	Offset time.Duration
}

// NarrateCommand starts a voiceover block. Narration runs alongside the
// animations that follow it; it does not advance the clock by itself.
type NarrateCommand struct {
	Start     time.Duration
	Text      string
	Duration  time.Duration
	Bookmarks []Bookmark
}

// Type implements Command.
func (NarrateCommand) Type() CommandType { return CmdNarrate }

// At implements Command.
func (c NarrateCommand) At() time.Duration { return c.Start }
