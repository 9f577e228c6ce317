package text

import "sync"

// ShapedGlyph is a glyph positioned by a Shaper.
type ShapedGlyph struct {
	// GID is the glyph index in the font.
	GID GlyphID

	// Cluster is the index of the first rune of the source text this
	// glyph was produced from.
	Cluster int

	// X is the horizontal position relative to the run origin.
	X float64

	// Y is the vertical offset from the baseline, y-up.
	Y float64

	// XAdvance is the horizontal advance to the next glyph.
	XAdvance float64
}

// Shaper converts text to positioned glyphs.
//   - BuiltinShaper: cmap lookup with pair kerning, no substitutions
//   - GoTextShaper: HarfBuzz shaping via go-text/typesetting
type Shaper interface {
	// Shape converts text into positioned glyphs using the given face.
	// The font size is obtained from face.Size().
	Shape(text string, face *Face) []ShapedGlyph
}

var (
	shaperMu     sync.RWMutex
	globalShaper Shaper = &BuiltinShaper{}
)

// SetShaper sets the global shaper used by Shape().
// Pass nil to reset to the default BuiltinShaper.
//
//	text.SetShaper(text.NewGoTextShaper())
//	defer text.SetShaper(nil)
func SetShaper(s Shaper) {
	shaperMu.Lock()
	defer shaperMu.Unlock()
	if s == nil {
		s = &BuiltinShaper{}
	}
	globalShaper = s
}

// GetShaper returns the current global shaper.
func GetShaper() Shaper {
	shaperMu.RLock()
	defer shaperMu.RUnlock()
	return globalShaper
}

// Shape is a convenience function that uses the global shaper.
func Shape(text string, face *Face) []ShapedGlyph {
	return GetShaper().Shape(text, face)
}

// BuiltinShaper positions glyphs from the cmap and the kern table without
// ligatures or contextual forms. Clusters map one-to-one to runes.
//
// BuiltinShaper is stateless and safe for concurrent use.
type BuiltinShaper struct{}

// Shape implements the Shaper interface.
func (s *BuiltinShaper) Shape(text string, face *Face) []ShapedGlyph {
	if text == "" || face == nil {
		return nil
	}

	result := make([]ShapedGlyph, 0, len(text))
	cluster := 0
	for g := range face.Glyphs(text) {
		result = append(result, ShapedGlyph{
			GID:      g.GID,
			Cluster:  cluster,
			X:        g.X,
			XAdvance: g.Advance,
		})
		cluster++
	}
	return result
}
