package mathscroll

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// Callout is an auxiliary overlay bound to a future scroll event. It fades
// out in the batch of the first ScrollDown that brings ScrollCount to its
// scroll index.
type Callout struct {
	overlay     Mobject
	scrollIndex int
	visible     bool
	seq         int
}

// Overlay returns the drawable.
func (c *Callout) Overlay() Mobject { return c.overlay }

// ScrollIndex returns the scroll count at which the callout fades.
func (c *Callout) ScrollIndex() int { return c.scrollIndex }

// Visible reports whether the callout has not faded yet.
func (c *Callout) Visible() bool { return c.visible }

// calloutRegistry keeps pending callouts by scroll index and every callout
// ever attached, in attachment order.
type calloutRegistry struct {
	pending map[int][]*Callout
	history []*Callout
}

func newCalloutRegistry() calloutRegistry {
	return calloutRegistry{pending: make(map[int][]*Callout)}
}

func (r *calloutRegistry) add(c *Callout) {
	c.seq = len(r.history)
	r.pending[c.scrollIndex] = append(r.pending[c.scrollIndex], c)
	r.history = append(r.history, c)
}

// due returns the pending callouts with prev < scrollIndex ≤ upto, ordered
// by scroll index then attachment.
func (r *calloutRegistry) due(prev, upto int) []*Callout {
	var out []*Callout
	for idx, cs := range r.pending {
		if idx > prev && idx <= upto {
			out = append(out, cs...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].scrollIndex != out[j].scrollIndex {
			return out[i].scrollIndex < out[j].scrollIndex
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// fade marks cs invisible and drops them from the pending index.
func (r *calloutRegistry) fade(cs []*Callout) {
	for _, c := range cs {
		c.visible = false
		delete(r.pending, c.scrollIndex)
	}
}

// AttachCalloutAtScroll binds overlay to scrollIndex. The overlay is
// expected to be on stage already; it fades out during the ScrollDown that
// moves ScrollCount from below scrollIndex to at least scrollIndex. A
// scroll index that has already been reached fails with ErrInvalidTarget.
func (m *ScrollManager) AttachCalloutAtScroll(scrollIndex int, overlay Mobject) (*Callout, error) {
	if overlay == nil {
		return nil, fmt.Errorf("mathscroll: nil callout overlay: %w", ErrInvalidTarget)
	}
	if scrollIndex <= m.scrollCount {
		return nil, &TargetError{Target: ByIndex(scrollIndex), Err: ErrInvalidTarget}
	}
	c := &Callout{overlay: overlay, scrollIndex: scrollIndex, visible: true}
	m.callouts.add(c)
	Logger().Debug("mathscroll: callout attached",
		slog.Int("scroll_index", scrollIndex),
		slog.String("overlay", Describe(overlay)))
	return c, nil
}

// Callouts returns every attached callout in attachment order, faded ones
// included.
func (m *ScrollManager) Callouts() []*Callout {
	return append([]*Callout(nil), m.callouts.history...)
}

// PendingCallouts returns the callouts that have not faded yet.
func (m *ScrollManager) PendingCallouts() []*Callout {
	return m.callouts.due(m.scrollCount, math.MaxInt)
}
