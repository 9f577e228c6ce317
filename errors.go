package mathscroll

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the scroll manager and its helpers.
// All of them indicate a bug in the authoring script, never bad runtime data,
// so callers are expected to abort the render when they see one.
var (
	// ErrInvalidTarget is returned for an unknown label, an out-of-range index
	// or a zero Target.
	ErrInvalidTarget = errors.New("mathscroll: invalid target")

	// ErrBackwardsReveal is returned when PrepareNext is asked to reveal an
	// item that has already been revealed.
	ErrBackwardsReveal = errors.New("mathscroll: cannot reveal backwards")

	// ErrOutOfViewEdit is returned when an edit addresses an index outside
	// [firstInView, nextToReveal).
	ErrOutOfViewEdit = errors.New("mathscroll: index is not in view")

	// ErrMissingReplacement is returned by RestoreOriginal when the index was
	// never replaced.
	ErrMissingReplacement = errors.New("mathscroll: no replacement recorded")

	// ErrDuplicateLabel is returned when a label is registered twice.
	ErrDuplicateLabel = errors.New("mathscroll: duplicate label")

	// ErrNotFound is returned by the Locator when a needle has no match.
	ErrNotFound = errors.New("mathscroll: element not found")

	// ErrSubsumedSlot is returned when an edit addresses a queue slot that was
	// folded into a group replacement. Address the group head instead.
	ErrSubsumedSlot = errors.New("mathscroll: slot is part of a group replacement")

	// ErrNoScene is returned by viewport commands before SetScene.
	ErrNoScene = errors.New("mathscroll: no scene attached")

	// ErrNoTypesetter is returned by the Tex helpers when the manager was
	// built without a Typesetter.
	ErrNoTypesetter = errors.New("mathscroll: no typesetter configured")
)

// TargetError carries the target that failed to resolve.
type TargetError struct {
	Target Target
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Target)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}
