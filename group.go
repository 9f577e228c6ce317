package mathscroll

// Group is an ordered collection of mobjects that moves and animates as
// one. Members may share glyphs (a GlyphRange and its Expression); shared
// atoms are moved once.
type Group struct {
	members []Mobject
}

// NewGroup returns a group of ms.
func NewGroup(ms ...Mobject) *Group {
	return &Group{members: append([]Mobject(nil), ms...)}
}

// Add appends members.
func (g *Group) Add(ms ...Mobject) {
	g.members = append(g.members, ms...)
}

// Members returns the members in order. The slice must not be modified.
func (g *Group) Members() []Mobject { return g.members }

// Len returns the member count.
func (g *Group) Len() int { return len(g.members) }

// At returns the i-th member.
func (g *Group) At(i int) Mobject { return g.members[i] }

// Head returns the first member, or nil for an empty group.
func (g *Group) Head() Mobject {
	if len(g.members) == 0 {
		return nil
	}
	return g.members[0]
}

// Glyphs implements Mobject.
func (g *Group) Glyphs() []*Glyph { return uniqueGlyphs(g.members...) }

// Bounds implements Mobject.
func (g *Group) Bounds() Rect { return boundsOf(g.Glyphs()) }

// Shift implements Mobject.
func (g *Group) Shift(d Point) { shiftGlyphs(g.Glyphs(), d) }

// SetColor implements Mobject.
func (g *Group) SetColor(c RGBA) {
	for _, m := range g.members {
		m.SetColor(c)
	}
}

// SetOpacity implements Mobject.
func (g *Group) SetOpacity(a float64) {
	for _, m := range g.members {
		m.SetOpacity(a)
	}
}

// Copy implements Mobject.
func (g *Group) Copy() Mobject {
	return &Group{members: copyMembers(g.members)}
}

func copyMembers(ms []Mobject) []Mobject {
	out := make([]Mobject, len(ms))
	for i, m := range ms {
		out[i] = m.Copy()
	}
	return out
}

// Arrange lays the members out one after another in direction dir with a
// gap of buff, aligning alignEdge. The first member does not move.
func (g *Group) Arrange(dir Point, buff float64, alignEdge Point) {
	for i := 1; i < len(g.members); i++ {
		NextTo(g.members[i], g.members[i-1].Bounds(), dir, buff, alignEdge)
	}
}

// Replace swaps old for repl wherever it appears in the group tree and
// reports whether anything was replaced. A nil repl removes old.
func (g *Group) Replace(old, repl Mobject) bool {
	var found bool
	g.members, found = replaceIn(g.members, old, repl)
	return found
}

func replaceIn(members []Mobject, old, repl Mobject) ([]Mobject, bool) {
	found := false
	out := members[:0]
	for _, m := range members {
		if m == old {
			found = true
			if repl != nil {
				out = append(out, repl)
			}
			continue
		}
		if r, ok := m.(replacer); ok && r.Replace(old, repl) {
			found = true
		}
		out = append(out, m)
	}
	return out, found
}

type replacer interface {
	Replace(old, repl Mobject) bool
}
