package recording

import "errors"

var (
	// ErrFinished is returned by Play and Wait after FinishRecording.
	ErrFinished = errors.New("recording: recorder is finished")

	// ErrNilAnimation is returned by Play for a nil animation.
	ErrNilAnimation = errors.New("recording: nil animation")

	// ErrUnknownBackend is returned by NewBackend for an unregistered name.
	ErrUnknownBackend = errors.New("recording: unknown backend")
)
