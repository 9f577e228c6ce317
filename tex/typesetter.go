package tex

import (
	"fmt"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/text"
)

// DefaultSize is the em size, in scene units, of expressions at scale 1.
const DefaultSize = 0.6

// reservedShapes is the lowest shape key a font glyph may use; smaller
// keys belong to rules and frames.
const reservedShapes = 0x100

// Option configures a Typesetter.
type Option func(*options)

type options struct {
	upright, italic, bold *text.FontSource
	shaper                text.Shaper
	size                  float64
}

// WithFonts sets the upright, italic and bold fonts. Nil arguments keep
// the embedded Go fonts.
func WithFonts(upright, italic, bold *text.FontSource) Option {
	return func(o *options) {
		o.upright, o.italic, o.bold = upright, italic, bold
	}
}

// WithShaper sets the shaper used for \text runs and captions.
// The default is a text.GoTextShaper.
func WithShaper(s text.Shaper) Option {
	return func(o *options) { o.shaper = s }
}

// WithSize sets the em size in scene units at scale 1.
func WithSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.size = size
		}
	}
}

// Typesetter typesets a subset of TeX into mathscroll expressions.
//
// Math mode supports letters (italic), digits and operators (upright),
// ^ and _, braces, \frac, \binom, \sqrt, \text, \mathrm, \mathbf,
// \operatorname, \overline, \left and \right, Greek letters, common
// operator and relation symbols, function names such as \sin, and the
// spacing commands. Text mode typesets running text with inline $math$.
// Both modes break lines at \\.
//
// Output is deterministic in (source, template): the same fragment always
// produces the same shape sequence. A Typesetter is safe for concurrent use.
type Typesetter struct {
	opts options

	fontsOnce sync.Once
	fonts     [3]*text.FontSource
	metrics   text.Metrics
	fontsErr  error
}

// Compile-time check.
var _ mathscroll.Typesetter = (*Typesetter)(nil)

// New returns a Typesetter. Fonts are loaded on first use.
func New(opts ...Option) *Typesetter {
	o := options{size: DefaultSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shaper == nil {
		o.shaper = text.NewGoTextShaper()
	}
	return &Typesetter{opts: o}
}

func (t *Typesetter) loadFonts() error {
	t.fontsOnce.Do(func() {
		load := func(src *text.FontSource, fallback func() (*text.FontSource, error)) *text.FontSource {
			if src != nil || t.fontsErr != nil {
				return src
			}
			src, t.fontsErr = fallback()
			return src
		}
		t.fonts[fontUpright] = load(t.opts.upright, text.GoRegular)
		t.fonts[fontItalic] = load(t.opts.italic, text.GoItalic)
		t.fonts[fontBold] = load(t.opts.bold, text.GoBold)
		if t.fontsErr == nil {
			t.metrics = t.fonts[fontUpright].Face(1).Metrics()
		}
	})
	return t.fontsErr
}

// Typeset implements mathscroll.Typesetter.
func (t *Typesetter) Typeset(source string, tmpl mathscroll.Template) (*mathscroll.Expression, error) {
	if err := t.loadFonts(); err != nil {
		return nil, fmt.Errorf("tex: load fonts: %w", err)
	}
	align, err := environment(tmpl)
	if err != nil {
		return nil, err
	}

	normalized := norm.NFC.String(source)
	p := newParser(normalized)
	var nodes []node
	st := styleDisplay
	if tmpl.Mode == mathscroll.ModeText {
		nodes, err = p.parseText()
		st = styleText
	} else {
		nodes, err = p.parseMath()
	}
	if err != nil {
		return nil, err
	}

	l := &layouter{
		fonts:   t.fonts,
		shaper:  t.opts.shaper,
		em:      t.opts.size * tmpl.EffectiveScale(),
		metrics: t.metrics,
	}
	b, err := l.lines(nodes, st, align)
	if err != nil {
		return nil, err
	}

	glyphs, err := emit(b)
	if err != nil {
		return nil, err
	}
	expr := mathscroll.NewExpression(source, tmpl, glyphs)
	if len(glyphs) > 0 {
		expr.Shift(expr.Bounds().Center().Neg())
	}

	mathscroll.Logger().Debug("tex: typeset",
		"source", source, "mode", tmpl.Mode, "glyphs", len(glyphs))
	return expr, nil
}

// environment maps a template environment to a line alignment.
func environment(tmpl mathscroll.Template) (alignment, error) {
	switch tmpl.Environment {
	case "":
		if tmpl.Mode == mathscroll.ModeText {
			return alignCenter, nil
		}
		return alignMarks, nil
	case "align", "align*", "aligned", "eqnarray*":
		return alignMarks, nil
	case "gather", "gather*", "center":
		return alignCenter, nil
	case "flushleft":
		return alignLeft, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEnvironment, tmpl.Environment)
}

// emit converts placed items to glyph atoms. Items without ink (spaces)
// produce no atom.
func emit(b *box) ([]*mathscroll.Glyph, error) {
	glyphs := make([]*mathscroll.Glyph, 0, len(b.items))
	for _, it := range b.items {
		if it.rule {
			glyphs = append(glyphs, &mathscroll.Glyph{
				Shape:   mathscroll.RuleShape,
				Text:    it.src,
				Box:     mathscroll.Rect{MinX: it.x, MinY: it.y, MaxX: it.x + it.w, MaxY: it.y + it.h},
				Color:   mathscroll.White,
				Opacity: 1,
			})
			continue
		}

		ink := it.font.Face(it.size).GlyphBounds(it.gid)
		if ink.Empty() {
			continue
		}
		key, err := it.font.OutlineKey(it.gid)
		if err != nil {
			return nil, fmt.Errorf("tex: outline of %q: %w", it.src, err)
		}
		if key < reservedShapes {
			key += reservedShapes
		}
		glyphs = append(glyphs, &mathscroll.Glyph{
			Shape: mathscroll.ShapeKey(key),
			Text:  it.src,
			Box: mathscroll.Rect{
				MinX: it.x + ink.MinX, MinY: it.y + ink.MinY,
				MaxX: it.x + ink.MaxX, MaxY: it.y + ink.MaxY,
			},
			Color:   mathscroll.White,
			Opacity: 1,
		})
	}
	return glyphs, nil
}
