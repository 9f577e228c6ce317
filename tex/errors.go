package tex

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tex package.
var (
	// ErrSyntax is returned for malformed TeX source.
	ErrSyntax = errors.New("tex: syntax error")

	// ErrUnknownCommand is returned for control sequences the typesetter
	// does not implement.
	ErrUnknownCommand = errors.New("tex: unknown command")

	// ErrUnknownEnvironment is returned for unsupported template environments.
	ErrUnknownEnvironment = errors.New("tex: unknown environment")
)

// SyntaxError locates a parse failure in the source.
type SyntaxError struct {
	Source string
	Pos    int
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tex: %s at offset %d in %q", e.Msg, e.Pos, e.Source)
}

// Unwrap returns ErrSyntax or ErrUnknownCommand.
func (e *SyntaxError) Unwrap() error {
	if e.Err == nil {
		return ErrSyntax
	}
	return e.Err
}
