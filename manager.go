package mathscroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ScrollManager coordinates a queue of typeset items with a windowed
// viewport. Items enter the queue through the Step builder; viewport
// commands reveal them, scroll them out, fade them and edit them in place.
//
// The viewport is described by three cursors:
//
//   - firstInView: index of the earliest item still on screen
//   - nextToReveal: index of the next item PrepareNext shows
//   - scrollCount: number of items scrolled off so far
//
// with 0 ≤ firstInView ≤ nextToReveal ≤ Len() after every command.
//
// A ScrollManager is driven by a single straight-line script and is not
// safe for concurrent use.
type ScrollManager struct {
	opts        options
	scene       Scene
	ts          Typesetter
	locator     *Locator
	arrangement *Arrangement

	queue  []slot
	labels map[string]int

	firstInView     int
	nextToReveal    int
	scrollCount     int
	lastRevealCount int

	replacements map[int]*replacement
	callouts     calloutRegistry
}

// New creates a ScrollManager. Equations passed with WithEquations are
// queued as one unlabeled step each.
func New(opts ...Option) (*ScrollManager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &ScrollManager{
		opts:         o,
		scene:        o.scene,
		ts:           o.ts,
		arrangement:  NewArrangement(o.frame, o.buff),
		labels:       make(map[string]int),
		replacements: make(map[int]*replacement),
		callouts:     newCalloutRegistry(),
	}
	if o.ts != nil {
		m.locator = NewLocator(o.ts)
	}
	for _, eq := range o.equations {
		if _, err := m.CreateStep(eq, ""); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetScene attaches the scene commands play on.
func (m *ScrollManager) SetScene(s Scene) { m.scene = s }

// Scene returns the attached scene.
func (m *ScrollManager) Scene() Scene { return m.scene }

// Locator returns the manager's Locator, nil without a Typesetter.
func (m *ScrollManager) Locator() *Locator { return m.locator }

// Typesetter returns the configured typesetter.
func (m *ScrollManager) Typesetter() Typesetter { return m.ts }

// Arrangement returns the global arrangement.
func (m *ScrollManager) Arrangement() *Arrangement { return m.arrangement }

// SetPositionTarget anchors the arrangement next to target before the
// first scroll.
func (m *ScrollManager) SetPositionTarget(target Mobject, direction Point, buff float64, alignEdge Point) {
	m.arrangement.SetPositionTarget(target, direction, buff, alignEdge)
}

// Cursors returns a snapshot of the viewport cursors.
func (m *ScrollManager) Cursors() Cursors {
	return Cursors{
		FirstInView:  m.firstInView,
		NextToReveal: m.nextToReveal,
		ScrollCount:  m.scrollCount,
		Len:          len(m.queue),
	}
}

// FirstInView returns the index of the earliest on-screen item.
func (m *ScrollManager) FirstInView() int { return m.firstInView }

// NextToReveal returns the index PrepareNext reveals next.
func (m *ScrollManager) NextToReveal() int { return m.nextToReveal }

// ScrollCount returns the number of items scrolled off.
func (m *ScrollManager) ScrollCount() int { return m.scrollCount }

// Len returns the queue length.
func (m *ScrollManager) Len() int { return len(m.queue) }

// Item returns the item in slot i. A slot folded into a group replacement
// yields the group head.
func (m *ScrollManager) Item(i int) (Item, error) {
	if i < 0 || i >= len(m.queue) {
		return nil, &TargetError{Target: ByIndex(i), Err: ErrInvalidTarget}
	}
	return m.queue[m.head(i)].item, nil
}

// GetByLabel returns the item registered under label.
func (m *ScrollManager) GetByLabel(label string) (Item, error) {
	i, err := m.resolve(ByLabel(label))
	if err != nil {
		return nil, err
	}
	return m.Item(i)
}

// IndexOf resolves a target to a queue index.
func (m *ScrollManager) IndexOf(t Target) (int, error) {
	return m.resolve(t)
}

// Labels returns a copy of the label index.
func (m *ScrollManager) Labels() map[string]int {
	out := make(map[string]int, len(m.labels))
	for k, v := range m.labels {
		out[k] = v
	}
	return out
}

// Visible returns the items in [firstInView, nextToReveal), skipping slots
// folded into a group replacement.
func (m *ScrollManager) Visible() []Item {
	var out []Item
	for i := m.firstInView; i < m.nextToReveal; i++ {
		if !m.queue[i].subsumed() {
			out = append(out, m.queue[i].item)
		}
	}
	return out
}

// appendItem adds it to the queue and registers label if non-empty.
// Labels must have been checked by the caller.
func (m *ScrollManager) appendItem(it Item, label string) int {
	idx := len(m.queue)
	m.queue = append(m.queue, slot{item: it, redirect: -1})
	if label != "" {
		m.labels[label] = idx
	}
	Logger().Debug("mathscroll: queued item",
		slog.Int("index", idx),
		slog.String("kind", it.Kind().String()),
		slog.String("label", label))
	return idx
}

// head follows a redirect to the group head.
func (m *ScrollManager) head(i int) int {
	if m.queue[i].subsumed() {
		return m.queue[i].redirect
	}
	return i
}

// resolve maps a label, index or queue mobject to a queue index.
func (m *ScrollManager) resolve(t Target) (int, error) {
	switch t.kind {
	case targetLabel:
		if i, ok := m.labels[t.label]; ok {
			return i, nil
		}
	case targetIndex:
		if t.index >= 0 && t.index < len(m.queue) {
			return t.index, nil
		}
	case targetMobject:
		if i, ok := m.indexOfMobject(t.mob); ok {
			return i, nil
		}
	}
	return 0, &TargetError{Target: t, Err: ErrInvalidTarget}
}

func (m *ScrollManager) indexOfMobject(mob Mobject) (int, bool) {
	for i, s := range m.queue {
		if !s.subsumed() && s.item.Mobject() == mob {
			return i, true
		}
	}
	return 0, false
}

// itemsIn returns the mobjects of slots [from, to), skipping redirects.
func (m *ScrollManager) itemsIn(from, to int) []Mobject {
	var out []Mobject
	for i := from; i < to; i++ {
		if !m.queue[i].subsumed() {
			out = append(out, m.queue[i].item.Mobject())
		}
	}
	return out
}

func (m *ScrollManager) play(ctx context.Context, anim Animation, runTime time.Duration) error {
	if m.scene == nil {
		return ErrNoScene
	}
	Logger().Debug("mathscroll: play",
		slog.String("animation", anim.Kind().String()),
		slog.Int("targets", len(anim.Targets())),
		slog.String("cursors", m.Cursors().String()))
	if err := m.scene.Play(ctx, anim, runTime); err != nil {
		return fmt.Errorf("mathscroll: play %s: %w", anim.Kind(), err)
	}
	return nil
}

// Indicate draws attention to m, an in-view item or any part of one.
func (m *ScrollManager) Indicate(ctx context.Context, mob Mobject, opts ...CommandOption) error {
	o := newCommandOptions(opts)
	f := o.animation
	if f == nil {
		f = NewIndicate
	}
	return m.play(ctx, f(mob), o.runTime)
}
