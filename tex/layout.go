package tex

import (
	"fmt"

	"github.com/gogpu/mathscroll/text"
)

// style is the TeX math style. It selects the size of nested material.
type style uint8

const (
	styleDisplay style = iota
	styleText
	styleScript
	styleScriptScript
)

var styleFactor = [...]float64{1, 1, 0.7, 0.5}

func (s style) sup() style {
	if s <= styleText {
		return styleScript
	}
	return styleScriptScript
}

func (s style) frac() style {
	return min(s+1, styleScriptScript)
}

func (s style) script() bool { return s >= styleScript }

// Layout constants in em.
const (
	ruleThickness = 0.045
	scriptSpace   = 0.05
	nullDelimiter = 0.12
	fracPadding   = 0.1
	largeOpScale  = 1.4
	lineGap       = 0.25
	baselineSkip  = 1.3
)

// item is a glyph or a rule placed in a box. Glyph items are positioned
// by their origin, rules by their lower-left corner.
type item struct {
	rule bool
	x, y float64
	w, h float64

	gid  text.GlyphID
	font *text.FontSource
	size float64

	src string
}

// box is a laid-out list with TeX dimensions: height above the baseline,
// depth below it.
type box struct {
	width, height, depth float64
	items                []item

	// mark is the x position of the first alignment point, or -1.
	mark float64
}

func newBox() *box { return &box{mark: -1} }

// add places the items of o at (dx, dy) and grows b's vertical extent.
func (b *box) add(o *box, dx, dy float64) {
	for _, it := range o.items {
		it.x += dx
		it.y += dy
		b.items = append(b.items, it)
	}
	b.height = max(b.height, o.height+dy)
	b.depth = max(b.depth, o.depth-dy)
}

// layouter lays out parsed lists for one Typeset call.
type layouter struct {
	fonts   [3]*text.FontSource
	shaper  text.Shaper
	em      float64
	metrics text.Metrics // upright metrics at 1 em
}

func (l *layouter) size(st style) float64 { return l.em * styleFactor[st] }

func (l *layouter) axis(st style) float64 { return l.metrics.AxisHeight() * l.size(st) }

func (l *layouter) xHeight(st style) float64 { return l.metrics.XHeight * l.size(st) }

// hlist lays out items left to right with TeX inter-atom spacing.
func (l *layouter) hlist(nodes []node, st style) (*box, error) {
	type laid struct {
		b     *box
		class class
		glue  float64
		mark  bool
	}
	var atoms []laid
	out := newBox()
	pendingGlue := 0.0
	pendingMark := false

	for _, n := range nodes {
		switch n := n.(type) {
		case *spaceNode:
			pendingGlue += n.mu * l.size(st) / 18
			continue
		case alignNode:
			pendingMark = true
			continue
		case breakNode:
			continue
		}
		b, c, err := l.node(n, st)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, laid{b: b, class: c, glue: pendingGlue, mark: pendingMark})
		pendingGlue = 0
		pendingMark = false
	}

	// A binary operator with nothing to operate on is an ordinary atom.
	for i := range atoms {
		if atoms[i].class != classBin {
			continue
		}
		if i == 0 || i == len(atoms)-1 {
			atoms[i].class = classOrd
			continue
		}
		switch atoms[i-1].class {
		case classBin, classOp, classRel, classOpen, classPunct:
			atoms[i].class = classOrd
			continue
		}
		switch atoms[i+1].class {
		case classRel, classClose, classPunct:
			atoms[i].class = classOrd
		}
	}

	x := 0.0
	for i, a := range atoms {
		if a.mark && out.mark < 0 {
			out.mark = x
		}
		if i > 0 {
			x += spaceBetween(atoms[i-1].class, a.class, st.script()) * l.size(st) / 18
		}
		x += a.glue
		out.add(a.b, x, 0)
		x += a.b.width
	}
	if pendingMark && out.mark < 0 {
		out.mark = x
	}
	out.width = x + pendingGlue
	return out, nil
}

// node lays out one node and returns its box and spacing class.
func (l *layouter) node(n node, st style) (*box, class, error) {
	switch n := n.(type) {
	case *atomNode:
		b, err := l.atom(n, st)
		return b, n.class, err
	case *listNode:
		b, err := l.hlist(n.items, st)
		return b, n.class, err
	case *scriptsNode:
		return l.scripts(n, st)
	case *fracNode:
		b, err := l.frac(n, st)
		return b, classInner, err
	case *sqrtNode:
		b, err := l.sqrt(n, st)
		return b, classOrd, err
	case *textNode:
		b, err := l.text(n, st)
		return b, classOrd, err
	case *delimNode:
		b, err := l.delimited(n, st)
		return b, classInner, err
	case *overlineNode:
		b, err := l.overline(n, st)
		return b, classOrd, err
	case *mathNode:
		b, err := l.hlist(n.items, styleText)
		return b, classOrd, err
	}
	return nil, classOrd, fmt.Errorf("tex: cannot lay out %T", n)
}

// glyph resolves r in font f, trying the fallback rune and then the
// upright font.
func (l *layouter) glyph(r, fallback rune, f fontKind) (*text.FontSource, text.GlyphID, error) {
	candidates := []*text.FontSource{l.fonts[f]}
	if f != fontUpright {
		candidates = append(candidates, l.fonts[fontUpright])
	}
	for _, src := range candidates {
		if gid := src.GlyphIndex(r); gid != 0 {
			return src, gid, nil
		}
		if fallback != 0 {
			if gid := src.GlyphIndex(fallback); gid != 0 {
				return src, gid, nil
			}
		}
	}
	return nil, 0, fmt.Errorf("tex: %w for %q in %s", text.ErrMissingGlyph, r, l.fonts[f].Name())
}

func (l *layouter) atom(a *atomNode, st style) (*box, error) {
	src, gid, err := l.glyph(a.r, a.fallback, a.font)
	if err != nil {
		return nil, err
	}
	size := l.size(st)
	large := a.large && st == styleDisplay
	if large {
		size *= largeOpScale
	}
	face := src.Face(size)
	bnd := face.GlyphBounds(gid)

	dy := 0.0
	if large {
		dy = l.axis(st) - (bnd.MinY+bnd.MaxY)/2
	}
	b := newBox()
	b.width = face.GlyphAdvance(gid)
	b.height = max(bnd.MaxY+dy, 0)
	b.depth = max(-(bnd.MinY + dy), 0)
	b.items = []item{{gid: gid, font: src, size: size, y: dy, src: a.src}}
	return b, nil
}

// text shapes a run with the configured shaper.
func (l *layouter) text(t *textNode, st style) (*box, error) {
	b := newBox()
	if t.s == "" {
		return b, nil
	}
	src := l.fonts[t.font]
	face := src.Face(l.size(st))
	glyphs := l.shaper.Shape(t.s, face)
	if len(glyphs) == 0 {
		return nil, fmt.Errorf("tex: shaping %q in %s failed", t.s, src.Name())
	}

	runes := []rune(t.s)
	for i, g := range glyphs {
		end := len(runes)
		if i+1 < len(glyphs) && glyphs[i+1].Cluster > g.Cluster {
			end = glyphs[i+1].Cluster
		}
		start := min(g.Cluster, len(runes))
		bnd := face.GlyphBounds(g.GID)
		b.height = max(b.height, bnd.MaxY+g.Y)
		b.depth = max(b.depth, -(bnd.MinY + g.Y))
		b.items = append(b.items, item{
			gid: g.GID, font: src, size: face.Size(),
			x: g.X, y: g.Y,
			src: string(runes[start:max(start, end)]),
		})
		b.width = g.X + g.XAdvance
	}
	return b, nil
}

// limitsBase reports whether n is a large operator that takes its scripts
// above and below in st.
func limitsBase(n node, st style) bool {
	a, ok := n.(*atomNode)
	return ok && a.large && a.r != '∫' && st == styleDisplay
}

func (l *layouter) scripts(s *scriptsNode, st style) (*box, class, error) {
	base, c, err := l.node(s.base, st)
	if err != nil {
		return nil, c, err
	}
	var sup, sub *box
	if s.sup != nil {
		if sup, _, err = l.node(s.sup, st.sup()); err != nil {
			return nil, c, err
		}
	}
	if s.sub != nil {
		if sub, _, err = l.node(s.sub, st.sup()); err != nil {
			return nil, c, err
		}
	}
	em := l.size(st)

	out := newBox()
	if limitsBase(s.base, st) {
		w := base.width
		for _, b := range []*box{sup, sub} {
			if b != nil {
				w = max(w, b.width)
			}
		}
		out.add(base, (w-base.width)/2, 0)
		if sup != nil {
			out.add(sup, (w-sup.width)/2, base.height+0.15*em+sup.depth)
		}
		if sub != nil {
			out.add(sub, (w-sub.width)/2, -(base.depth + 0.15*em + sub.height))
		}
		out.width = w
		return out, c, nil
	}

	out.add(base, 0, 0)
	supShift, subShift := 0.0, 0.0
	if sup != nil {
		supShift = max(0.42*em, base.height-0.2*em, sup.depth+0.25*l.xHeight(st))
	}
	if sub != nil {
		subShift = max(0.2*em, base.depth+0.1*em, sub.height-0.8*l.xHeight(st))
	}
	if sup != nil && sub != nil {
		if gap := (supShift - sup.depth) - (sub.height - subShift); gap < 0.1*em {
			subShift += 0.1*em - gap
		}
	}

	w := 0.0
	if sup != nil {
		out.add(sup, base.width, supShift)
		w = sup.width
	}
	if sub != nil {
		out.add(sub, base.width, -subShift)
		w = max(w, sub.width)
	}
	out.width = base.width + w + scriptSpace*em
	return out, c, nil
}

func (l *layouter) frac(f *fracNode, st style) (*box, error) {
	num, _, err := l.node(f.num, st.frac())
	if err != nil {
		return nil, err
	}
	den, _, err := l.node(f.den, st.frac())
	if err != nil {
		return nil, err
	}
	em := l.size(st)
	t := ruleThickness * em
	gap := t
	if st == styleDisplay {
		gap = 3 * t
	}
	axis := l.axis(st)
	pad := fracPadding * em
	w := max(num.width, den.width) + 2*pad

	out := newBox()
	numY := axis + t/2 + gap + num.depth
	denY := axis - t/2 - gap - den.height
	out.add(num, (w-num.width)/2, numY)
	if f.bar {
		out.items = append(out.items, item{rule: true, x: pad / 2, y: axis - t/2, w: w - pad, h: t, src: `\frac`})
	}
	out.add(den, (w-den.width)/2, denY)
	out.width = w
	return out, nil
}

func (l *layouter) sqrt(s *sqrtNode, st style) (*box, error) {
	body, _, err := l.node(s.body, st)
	if err != nil {
		return nil, err
	}
	em := l.size(st)
	t := ruleThickness * em
	gap := 0.12 * em
	if st == styleDisplay {
		gap = 0.2 * em
	}

	src, gid, err := l.glyph('√', 0, fontUpright)
	if err != nil {
		return nil, err
	}
	ink := src.Face(em).GlyphBounds(gid)
	need := body.height + body.depth + gap + t
	size := em * max(1, need/ink.Height())
	face := src.Face(size)
	ink = face.GlyphBounds(gid)
	top := body.height + gap + t
	dy := top - ink.MaxY

	out := newBox()
	rx := 0.0
	if s.index != nil {
		idx, _, err := l.node(s.index, styleScriptScript)
		if err != nil {
			return nil, err
		}
		out.add(idx, 0, 0.6*(top+ink.MinY+dy)+idx.depth)
		rx = max(0, idx.width-0.5*ink.Width())
	}

	out.items = append(out.items, item{gid: gid, font: src, size: size, x: rx, y: dy, src: `\sqrt`})
	out.height = max(out.height, top)
	out.depth = max(out.depth, -(ink.MinY + dy))

	bodyX := rx + ink.MaxX + 0.05*em
	out.items = append(out.items, item{rule: true, x: rx + ink.MaxX - t, y: top - t, w: body.width + 0.1*em + t, h: t, src: `\sqrt`})
	out.add(body, bodyX, 0)
	out.width = bodyX + body.width + 0.1*em
	return out, nil
}

func (l *layouter) delimited(d *delimNode, st style) (*box, error) {
	body, _, err := l.node(d.body, st)
	if err != nil {
		return nil, err
	}
	em := l.size(st)
	axis := l.axis(st)
	target := 2 * max(body.height-axis, body.depth+axis)

	out := newBox()
	x := 0.0
	place := func(a *atomNode) error {
		if a == nil {
			x += nullDelimiter * em
			return nil
		}
		src, gid, err := l.glyph(a.r, a.fallback, fontUpright)
		if err != nil {
			return err
		}
		ink := src.Face(em).GlyphBounds(gid)
		size, dy := em, 0.0
		if k := target / ink.Height(); k > 1 {
			size = em * k
			ink = src.Face(size).GlyphBounds(gid)
			dy = axis - (ink.MinY+ink.MaxY)/2
		}
		g := newBox()
		g.height = max(ink.MaxY+dy, 0)
		g.depth = max(-(ink.MinY + dy), 0)
		g.items = []item{{gid: gid, font: src, size: size, y: dy, src: a.src}}
		out.add(g, x, 0)
		x += src.Face(size).GlyphAdvance(gid)
		return nil
	}

	if err := place(d.left); err != nil {
		return nil, err
	}
	out.add(body, x, 0)
	x += body.width
	if err := place(d.right); err != nil {
		return nil, err
	}
	out.width = x
	return out, nil
}

func (l *layouter) overline(o *overlineNode, st style) (*box, error) {
	body, _, err := l.node(o.body, st)
	if err != nil {
		return nil, err
	}
	t := ruleThickness * l.size(st)
	out := newBox()
	out.add(body, 0, 0)
	out.items = append(out.items, item{rule: true, y: body.height + 3*t, w: body.width, h: t, src: `\overline`})
	out.height = body.height + 4*t
	out.width = body.width
	return out, nil
}

// alignment selects how lines are placed horizontally.
type alignment uint8

const (
	alignMarks alignment = iota
	alignCenter
	alignLeft
)

// lines lays out a top-level list split at \\ and stacks the lines.
func (l *layouter) lines(nodes []node, st style, align alignment) (*box, error) {
	var rows [][]node
	start := 0
	for i, n := range nodes {
		if _, ok := n.(breakNode); ok {
			rows = append(rows, nodes[start:i])
			start = i + 1
		}
	}
	rows = append(rows, nodes[start:])

	boxes := make([]*box, len(rows))
	maxMark, maxWidth := 0.0, 0.0
	for i, row := range rows {
		b, err := l.hlist(row, st)
		if err != nil {
			return nil, err
		}
		if b.mark < 0 {
			b.mark = b.width
		}
		boxes[i] = b
		maxMark = max(maxMark, b.mark)
		maxWidth = max(maxWidth, b.width)
	}

	em := l.size(st)
	out := newBox()
	y := 0.0
	for i, b := range boxes {
		if i > 0 {
			y -= max(baselineSkip*em, boxes[i-1].depth+b.height+lineGap*em)
		}
		x := 0.0
		switch align {
		case alignMarks:
			x = maxMark - b.mark
		case alignCenter:
			x = (maxWidth - b.width) / 2
		}
		out.add(b, x, y)
		out.width = max(out.width, x+b.width)
	}
	return out, nil
}
