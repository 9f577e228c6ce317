// Package recording records the animation batches a script emits.
//
// A Recorder implements mathscroll.Scene without drawing anything: every
// Play call is captured as a typed command stamped on a virtual clock,
// and the set of glyphs on stage is tracked the way an animation runtime
// would track it. FinishRecording freezes the commands into a Recording,
// which can be replayed to any Backend.
//
// Commands are typed structs rather than an encoded stream so that tests
// and backends can inspect them directly.
//
// # Architecture
//
// Commands capture what the runtime would do:
//   - Play: one animation batch with its start time and run time
//   - Add and Remove: mobjects put on or taken off stage without animation
//   - Wait: the frame held for a duration
//   - Narrate: a voiceover block starting at the current time
//
// Backends register themselves by name, following the database/sql driver
// pattern, and are created with NewBackend.
//
// # Example
//
//	rec := recording.NewRecorder(recording.WithTitle("pythagoras"))
//	sm, _ := mathscroll.New(mathscroll.WithScene(rec), mathscroll.WithTypesetter(tex.New()))
//	// ... drive sm ...
//	r := rec.FinishRecording()
//
//	// Replay to a backend
//	import _ "github.com/gogpu/mathscroll/recording/backends/storyboard"
//	b, _ := recording.NewBackend("storyboard")
//	r.Playback(b)
package recording
