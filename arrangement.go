package mathscroll

// Frame and spacing defaults, in scene units.
const (
	// DefaultFrameWidth and DefaultFrameHeight describe a 16:9 frame eight
	// units tall centered on the origin.
	DefaultFrameWidth  = 14.222222222222221
	DefaultFrameHeight = 8.0

	// DefaultBuff is the gap between arranged steps and between the items
	// of one step.
	DefaultBuff = 0.25

	// DefaultEdgeMargin is the distance kept from the frame edge when no
	// anchor target is set.
	DefaultEdgeMargin = 0.5
)

// DefaultFrame returns the default canvas frame.
func DefaultFrame() Rect {
	return RectFromCenter(Origin, DefaultFrameWidth, DefaultFrameHeight)
}

type anchorConfig struct {
	target    Mobject
	direction Point
	buff      float64
	alignEdge Point
}

// Arrangement keeps top-level members in a vertical, left-aligned flow.
//
// Until the first scroll, every insertion re-flows all members and anchors
// the flow to the anchor target, or to the frame's upper-left corner when
// there is none. The flow's top-left corner is frozen as the start position
// on the first arrangement. After a scroll the laid-out members stay where
// the scroll put them and new members go below the last one, their left
// edge on the start position.
type Arrangement struct {
	members  []Mobject
	buff     float64
	frame    Rect
	margin   float64
	anchor   *anchorConfig
	start    Point
	hasStart bool
	scrolled bool
}

// NewArrangement returns an empty arrangement inside frame.
func NewArrangement(frame Rect, buff float64) *Arrangement {
	return &Arrangement{frame: frame, buff: buff, margin: DefaultEdgeMargin}
}

// SetPositionTarget anchors the flow next to target. It only affects
// layout before the first scroll; the start position is re-frozen.
func (a *Arrangement) SetPositionTarget(target Mobject, direction Point, buff float64, alignEdge Point) {
	a.anchor = &anchorConfig{target: target, direction: direction, buff: buff, alignEdge: alignEdge}
	if !a.scrolled {
		a.hasStart = false
		a.reflow()
	}
}

// Add inserts members at the end of the flow.
func (a *Arrangement) Add(ms ...Mobject) {
	for _, m := range ms {
		if a.scrolled {
			a.placeBelowLast(m)
		}
		a.members = append(a.members, m)
	}
	if !a.scrolled {
		a.reflow()
	}
}

// Members returns the members in flow order.
func (a *Arrangement) Members() []Mobject { return a.members }

// Len returns the number of members.
func (a *Arrangement) Len() int { return len(a.members) }

// Contains reports whether m is a top-level member.
func (a *Arrangement) Contains(m Mobject) bool {
	for _, x := range a.members {
		if x == m {
			return true
		}
	}
	return false
}

// StartPosition returns the frozen top-left anchor, if the flow has been
// laid out at least once.
func (a *Arrangement) StartPosition() (Point, bool) {
	return a.start, a.hasStart
}

// Scrolled reports whether the flow has been scrolled.
func (a *Arrangement) Scrolled() bool { return a.scrolled }

// Glyphs returns the atoms of all members.
func (a *Arrangement) Glyphs() []*Glyph { return uniqueGlyphs(a.members...) }

// Replace swaps old for repl in the member tree. A nil repl removes old.
func (a *Arrangement) Replace(old, repl Mobject) bool {
	var found bool
	a.members, found = replaceIn(a.members, old, repl)
	return found
}

func (a *Arrangement) markScrolled() {
	if !a.hasStart {
		a.start = a.defaultStart()
		a.hasStart = true
	}
	a.scrolled = true
}

func (a *Arrangement) defaultStart() Point {
	return Point{X: a.frame.MinX + a.margin, Y: a.frame.MaxY - a.margin}
}

func (a *Arrangement) reflow() {
	if len(a.members) == 0 {
		return
	}
	flow := &Group{members: a.members}
	flow.Arrange(Down, a.buff, Left)

	if a.anchor != nil && a.anchor.target != nil {
		NextTo(flow, a.anchor.target.Bounds(), a.anchor.direction, a.anchor.buff, a.anchor.alignEdge)
	} else {
		corner := a.defaultStart()
		if a.hasStart {
			corner = a.start
		}
		flow.Shift(corner.Sub(flow.Bounds().CriticalPoint(UpLeft)))
	}

	if !a.hasStart {
		a.start = flow.Bounds().CriticalPoint(UpLeft)
		a.hasStart = true
	}
}

func (a *Arrangement) placeBelowLast(m Mobject) {
	if len(a.members) == 0 {
		m.Shift(a.start.Sub(m.Bounds().CriticalPoint(UpLeft)))
		return
	}
	last := a.members[len(a.members)-1]
	NextTo(m, last.Bounds(), Down, a.buff, Left)
	m.Shift(Point{X: a.start.X - m.Bounds().MinX})
}
