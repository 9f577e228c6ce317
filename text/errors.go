package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrSourceClosed is returned by FontSource methods after Close.
	ErrSourceClosed = errors.New("text: font source closed")

	// ErrMissingGlyph is returned when the font has no glyph for a rune.
	ErrMissingGlyph = errors.New("text: missing glyph")
)

// GlyphError reports a failed glyph lookup.
type GlyphError struct {
	Font string
	GID  GlyphID
	Err  error
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("text: %s glyph %d: %v", e.Font, e.GID, e.Err)
}

func (e *GlyphError) Unwrap() error { return e.Err }
