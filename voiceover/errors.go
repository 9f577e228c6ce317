package voiceover

import "errors"

var (
	// ErrUnknownBookmark is returned for a mark the block does not contain.
	ErrUnknownBookmark = errors.New("voiceover: unknown bookmark")

	// ErrMalformedMarkup is returned for a bookmark tag that cannot be parsed.
	ErrMalformedMarkup = errors.New("voiceover: malformed bookmark")

	// ErrDuplicateBookmark is returned when a block names a mark twice.
	ErrDuplicateBookmark = errors.New("voiceover: duplicate bookmark")
)
