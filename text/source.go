package text

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/mathscroll/cache"
)

// GlyphID is a glyph index in a font.
type GlyphID uint16

// FontSource represents a loaded font file.
// One FontSource can create multiple Face instances at different sizes.
// FontSource is heavyweight and should be shared across the application.
//
// FontSource is safe for concurrent use.
// FontSource must not be copied after creation (enforced by copyCheck).
type FontSource struct {
	// addr must point to the FontSource itself.
	addr *FontSource

	data []byte
	name string

	mu   sync.RWMutex
	font *opentype.Font
	upem fixed.Int26_6

	// sfnt.Buffer is not safe for concurrent use.
	buffers sync.Pool

	outlines *cache.Sharded[GlyphID, uint64]
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	s := &FontSource{
		data: dataCopy,
		font: f,
		upem: fixed.Int26_6(f.UnitsPerEm()) << 6,
		buffers: sync.Pool{
			New: func() any { return new(sfnt.Buffer) },
		},
		outlines: cache.NewSharded[GlyphID, uint64](0, func(gid GlyphID) uint64 {
			return uint64(gid)
		}),
	}
	s.addr = s
	s.name = fontName(f)

	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}

	return NewFontSource(data)
}

var (
	goRegular = sync.OnceValues(func() (*FontSource, error) { return NewFontSource(goregular.TTF) })
	goItalic  = sync.OnceValues(func() (*FontSource, error) { return NewFontSource(goitalic.TTF) })
	goBold    = sync.OnceValues(func() (*FontSource, error) { return NewFontSource(gobold.TTF) })
)

// GoRegular returns the shared embedded Go Regular font.
// The shared sources must not be closed.
func GoRegular() (*FontSource, error) { return goRegular() }

// GoItalic returns the shared embedded Go Italic font.
func GoItalic() (*FontSource, error) { return goItalic() }

// GoBold returns the shared embedded Go Bold font.
func GoBold() (*FontSource, error) { return goBold() }

// Face creates a Face at the specified size in scene units per em.
// Panics if s is nil (e.g. when NewFontSourceFromFile error was ignored).
func (s *FontSource) Face(size float64) *Face {
	if s == nil {
		panic("text: FontSource is nil, did you check the error from NewFontSourceFromFile?")
	}
	s.copyCheck()
	return &Face{source: s, size: size}
}

// Name returns the font family name.
func (s *FontSource) Name() string {
	s.copyCheck()
	return s.name
}

// Data returns the raw font data. The slice must not be modified.
func (s *FontSource) Data() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// UnitsPerEm returns the font's design grid size.
func (s *FontSource) UnitsPerEm() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.font == nil {
		return 0
	}
	return int(s.font.UnitsPerEm())
}

// GlyphIndex returns the glyph for r, or 0 when the font has none.
func (s *FontSource) GlyphIndex(r rune) GlyphID {
	var gid GlyphID
	_ = s.withFont(func(f *sfnt.Font, buf *sfnt.Buffer) error {
		idx, err := f.GlyphIndex(buf, r)
		if err == nil {
			gid = GlyphID(idx)
		}
		return err
	})
	return gid
}

// Close releases resources associated with the FontSource.
// All faces created from this source become invalid after Close.
func (s *FontSource) Close() error {
	s.copyCheck()

	s.mu.Lock()
	s.data = nil
	s.font = nil
	s.mu.Unlock()

	// Outline keys are computed under a shard lock that then takes s.mu.
	s.outlines.Clear()
	return nil
}

// withFont runs fn with the parsed font and a pooled buffer.
func (s *FontSource) withFont(fn func(f *sfnt.Font, buf *sfnt.Buffer) error) error {
	s.copyCheck()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.font == nil {
		return ErrSourceClosed
	}
	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)
	return fn(s.font, buf)
}

// scale converts a 26.6 value measured at ppem = unitsPerEm to size units.
func (s *FontSource) scale(v fixed.Int26_6, size float64) float64 {
	return float64(v) / float64(s.upem) * size
}

func (s *FontSource) advance(gid GlyphID, size float64) float64 {
	var adv float64
	_ = s.withFont(func(f *sfnt.Font, buf *sfnt.Buffer) error {
		a, err := f.GlyphAdvance(buf, sfnt.GlyphIndex(gid), s.upem, font.HintingNone)
		if err == nil {
			adv = s.scale(a, size)
		}
		return err
	})
	return adv
}

// bounds returns the glyph's ink box at size, y-up, relative to its origin.
func (s *FontSource) bounds(gid GlyphID, size float64) Rect {
	var r Rect
	_ = s.withFont(func(f *sfnt.Font, buf *sfnt.Buffer) error {
		b, _, err := f.GlyphBounds(buf, sfnt.GlyphIndex(gid), s.upem, font.HintingNone)
		if err != nil {
			return err
		}
		r = Rect{
			MinX: s.scale(b.Min.X, size),
			MinY: -s.scale(b.Max.Y, size),
			MaxX: s.scale(b.Max.X, size),
			MaxY: -s.scale(b.Min.Y, size),
		}
		return nil
	})
	return r
}

func (s *FontSource) kern(a, b GlyphID, size float64) float64 {
	var k float64
	_ = s.withFont(func(f *sfnt.Font, buf *sfnt.Buffer) error {
		v, err := f.Kern(buf, sfnt.GlyphIndex(a), sfnt.GlyphIndex(b), s.upem, font.HintingNone)
		if err == nil {
			k = s.scale(v, size)
		}
		return err
	})
	return k
}

func (s *FontSource) metrics(size float64) Metrics {
	var m Metrics
	_ = s.withFont(func(f *sfnt.Font, buf *sfnt.Buffer) error {
		fm, err := f.Metrics(buf, s.upem, font.HintingNone)
		if err != nil {
			return err
		}
		m = Metrics{
			Ascent:    s.scale(fm.Ascent, size),
			Descent:   s.scale(fm.Descent, size),
			LineGap:   s.scale(fm.Height-fm.Ascent-fm.Descent, size),
			XHeight:   s.scale(fm.XHeight, size),
			CapHeight: s.scale(fm.CapHeight, size),
		}
		return nil
	})
	return m
}

// copyCheck panics if FontSource was copied by value.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("text: FontSource must not be copied by value")
	}
}

func fontName(f *opentype.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}
