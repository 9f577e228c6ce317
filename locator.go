package mathscroll

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/mathscroll/cache"
)

// Typesetter turns TeX source into an Expression.
//
// Implementations must be deterministic with respect to (source, template):
// typesetting the same fragment twice yields the same shape sequence. The
// Locator depends on this to find sub-expressions by shape.
// See package tex for the reference implementation.
type Typesetter interface {
	Typeset(source string, tmpl Template) (*Expression, error)
}

// patternKey identifies a memoized needle rendering.
type patternKey struct {
	template string
	needle   string
}

func hashPatternKey(k patternKey) uint64 {
	return cache.StringHasher(k.template + "\x00" + k.needle)
}

// Locator finds sub-elements of an Expression by the shape of a TeX
// fragment. It is safe for concurrent use if the Typesetter is.
type Locator struct {
	ts       Typesetter
	patterns *cache.Sharded[patternKey, []ShapeKey]
}

// NewLocator returns a Locator that renders needles with ts.
func NewLocator(ts Typesetter) *Locator {
	return &Locator{
		ts:       ts,
		patterns: cache.NewSharded[patternKey, []ShapeKey](0, hashPatternKey),
	}
}

// CacheStats returns the shape-pattern cache statistics.
func (l *Locator) CacheStats() cache.Stats {
	return l.patterns.Stats()
}

// Pattern returns the shape sequence of needle typeset with tmpl.
func (l *Locator) Pattern(tmpl Template, needle string) ([]ShapeKey, error) {
	key := patternKey{template: tmpl.Key(), needle: needle}
	return l.patterns.GetOrCreate(key, func() ([]ShapeKey, error) {
		expr, err := l.ts.Typeset(needle, tmpl)
		if err != nil {
			return nil, fmt.Errorf("mathscroll: typeset needle %q: %w", needle, err)
		}
		return expr.Shapes(), nil
	})
}

// FindAll returns every non-overlapping match of needle in haystack, left
// to right.
func (l *Locator) FindAll(haystack *Expression, needle string) ([]*GlyphRange, error) {
	pattern, err := l.Pattern(haystack.Template(), needle)
	if err != nil {
		return nil, err
	}
	starts := indexAll(haystack.Shapes(), pattern)
	ranges := make([]*GlyphRange, len(starts))
	for i, s := range starts {
		ranges[i] = &GlyphRange{Expr: haystack, Start: s, End: s + len(pattern)}
	}
	return ranges, nil
}

// FindOption configures FindElement.
type FindOption func(*findOptions)

type findOptions struct {
	nth     int
	color   *RGBA
	opacity *float64
	asGroup bool
}

// MatchNth selects the n-th match (0-indexed). Negative values count from
// the end: -1 is the last match.
func MatchNth(n int) FindOption {
	return func(o *findOptions) { o.nth = n }
}

// MatchColor recolors the matched glyphs.
func MatchColor(c RGBA) FindOption {
	return func(o *findOptions) { o.color = &c }
}

// MatchOpacity sets the opacity of the matched glyphs.
func MatchOpacity(a float64) FindOption {
	return func(o *findOptions) { o.opacity = &a }
}

// MatchAsGroup tags the returned range so it animates as one unit.
func MatchAsGroup() FindOption {
	return func(o *findOptions) { o.asGroup = true }
}

// FindElement returns the nth glyph range of haystack whose shapes match
// needle. It returns an error wrapping ErrNotFound when there is no such
// match.
func (l *Locator) FindElement(haystack *Expression, needle string, opts ...FindOption) (*GlyphRange, error) {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}

	matches, err := l.FindAll(haystack, needle)
	if err != nil {
		return nil, err
	}
	idx := o.nth
	if idx < 0 {
		idx += len(matches)
	}
	if idx < 0 || idx >= len(matches) {
		return nil, fmt.Errorf("%w: %q (match %d of %d) in %q", ErrNotFound, needle, o.nth, len(matches), haystack.Source())
	}

	r := matches[idx]
	r.AsGroup = o.asGroup
	if o.color != nil {
		r.SetColor(*o.color)
	}
	if o.opacity != nil {
		r.SetOpacity(*o.opacity)
	}
	return r, nil
}

// ElementSpec is one entry of a ParseElements request.
type ElementSpec struct {
	Name    string
	Needle  string
	Nth     int
	Color   *RGBA
	Opacity *float64
	AsGroup bool
}

// ParseElements runs FindElement once per ElementSpec and returns the ranges by
// name. Specs are independent: overlapping ranges are allowed and styling
// is applied in slice order. The first failing element aborts the call.
func (l *Locator) ParseElements(haystack *Expression, specs []ElementSpec) (map[string]*GlyphRange, error) {
	out := make(map[string]*GlyphRange, len(specs))
	for _, s := range specs {
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("%w: element %q", ErrDuplicateLabel, s.Name)
		}
		opts := []FindOption{MatchNth(s.Nth)}
		if s.Color != nil {
			opts = append(opts, MatchColor(*s.Color))
		}
		if s.Opacity != nil {
			opts = append(opts, MatchOpacity(*s.Opacity))
		}
		if s.AsGroup {
			opts = append(opts, MatchAsGroup())
		}
		r, err := l.FindElement(haystack, s.Needle, opts...)
		if err != nil {
			return nil, fmt.Errorf("mathscroll: element %q: %w", s.Name, err)
		}
		out[s.Name] = r
	}
	return out, nil
}

// ApplyColorMap recolors every occurrence of each needle. Needles are applied
// shortest first so longer, more specific needles win on overlaps. Needles
// without a match are logged and skipped.
func (l *Locator) ApplyColorMap(haystack *Expression, cm ColorMap) error {
	for _, needle := range cm.needles() {
		matches, err := l.FindAll(haystack, needle)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			Logger().Warn("color map needle not found",
				slog.String("needle", needle),
				slog.String("source", haystack.Source()))
			continue
		}
		for _, r := range matches {
			r.SetColor(cm[needle])
		}
	}
	return nil
}

// indexAll returns the start of every non-overlapping occurrence of pattern
// in text (Knuth-Morris-Pratt). An empty pattern matches nothing.
func indexAll(text, pattern []ShapeKey) []int {
	m := len(pattern)
	if m == 0 || m > len(text) {
		return nil
	}

	fail := make([]int, m)
	for i, k := 1, 0; i < m; i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = fail[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		fail[i] = k
	}

	var starts []int
	for i, k := 0, 0; i < len(text); i++ {
		for k > 0 && text[i] != pattern[k] {
			k = fail[k-1]
		}
		if text[i] == pattern[k] {
			k++
		}
		if k == m {
			starts = append(starts, i-m+1)
			k = 0 // non-overlapping
		}
	}
	return starts
}
