package recording

import (
	"io"
	"time"
)

// Info describes a recording to a backend before any command is replayed.
type Info struct {
	// ID is the recording session id.
	ID string

	// Title is the name given with WithTitle, empty when unset.
	Title string

	// Duration is the scene time at which the recording was finished.
	Duration time.Duration

	// Commands is the number of recorded commands.
	Commands int
}

// Backend turns a recording into an output format: a YAML storyboard,
// trace spans, a frame renderer. Playback calls Begin, one method per
// command in order, then End. Command methods cannot fail; a backend keeps
// the first error it meets and returns it from End.
//
// Backend packages register a factory from init:
//
//	func init() {
//	    recording.Register(recording.Registration{
//	        Name:      "storyboard",
//	        Extension: ".yaml",
//	        New:       func() recording.Backend { return New() },
//	    })
//	}
type Backend interface {
	// Begin prepares the backend for a recording.
	// This must be called before any command is handled.
	Begin(info Info) error

	// End finalizes the output.
	// After End is called, output methods (WriteTo, SaveToFile) can be used.
	End() error

	// Play handles one animation batch.
	Play(cmd PlayCommand)

	// Add handles mobjects put on stage without animation.
	Add(cmd AddCommand)

	// Remove handles mobjects taken off stage without animation.
	Remove(cmd RemoveCommand)

	// Wait handles a held frame.
	Wait(cmd WaitCommand)

	// Narrate handles the start of a voiceover block.
	Narrate(cmd NarrateCommand)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the output to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}
