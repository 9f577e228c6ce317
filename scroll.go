package mathscroll

import (
	"context"
	"log/slog"
)

// ScrollDown scrolls the first visible items out of view in one batch:
// the remaining visible items slide up until their top meets the start
// position, the hidden items fade out upward, and every callout bound to a
// scroll index in (ScrollCount, ScrollCount+steps] fades out with them.
//
// Options: WithSteps(n) (default 1, clamped to the visible count),
// WithTarget(t) to scroll until t is the first visible item, WithRunTime.
// Zero steps is a no-op.
func (m *ScrollManager) ScrollDown(ctx context.Context, opts ...CommandOption) error {
	o := newCommandOptions(opts)

	steps := o.steps
	if o.target != nil {
		idx, err := m.resolve(*o.target)
		if err != nil {
			return err
		}
		if idx < m.firstInView || idx > m.nextToReveal {
			return &TargetError{Target: *o.target, Err: ErrInvalidTarget}
		}
		steps = idx - m.firstInView
	}
	steps = min(steps, m.nextToReveal-m.firstInView)
	if steps <= 0 {
		return nil
	}

	cut := m.firstInView + steps
	hidden := m.itemsIn(m.firstInView, cut)
	remaining := m.itemsIn(cut, m.nextToReveal)
	due := m.callouts.due(m.scrollCount, m.scrollCount+steps)

	delta := Point{Y: m.scrollDelta(hidden, remaining)}

	anims := make([]Animation, 0, len(hidden)+len(remaining)+len(due))
	for _, r := range remaining {
		anims = append(anims, &Shift{Target: r, By: delta})
	}
	for _, h := range hidden {
		anims = append(anims, &FadeOut{Target: h, Shift: delta})
	}
	for _, c := range due {
		anims = append(anims, &FadeOut{Target: c.overlay, Shift: delta})
	}
	if err := m.play(ctx, Together(anims...), o.runTime); err != nil {
		return err
	}

	// Everything below the cut follows the scroll, on stage or not.
	movers := append(append([]Mobject(nil), hidden...), remaining...)
	movers = append(movers, m.itemsIn(m.nextToReveal, len(m.queue))...)
	movers = append(movers, m.arrangement.Members()...)
	for _, c := range due {
		movers = append(movers, c.overlay)
	}
	ShiftAll(delta, movers...)

	m.arrangement.markScrolled()
	m.firstInView = cut
	m.scrollCount += steps
	m.callouts.fade(due)

	Logger().Debug("mathscroll: scrolled",
		slog.Int("steps", steps),
		slog.Int("callouts", len(due)),
		slog.Float64("delta", delta.Y),
		slog.String("cursors", m.Cursors().String()))
	return nil
}

// scrollDelta returns the vertical distance that brings the new visible
// head to the start position: the top of the remaining items, else the
// next unrevealed item, else the bottom of the hidden ones.
func (m *ScrollManager) scrollDelta(hidden, remaining []Mobject) float64 {
	start, ok := m.arrangement.StartPosition()
	if !ok {
		start = m.arrangement.defaultStart()
	}
	if len(remaining) > 0 {
		return start.Y - boundsOf(uniqueGlyphs(remaining...)).MaxY
	}
	for i := m.nextToReveal; i < len(m.queue); i++ {
		if m.queue[i].subsumed() {
			continue
		}
		if b := m.queue[i].item.Mobject().Bounds(); !b.IsEmpty() {
			return start.Y - b.MaxY
		}
	}
	return start.Y - boundsOf(uniqueGlyphs(hidden...)).MinY
}

// FadeOutInView fades the first visible items out without scrolling:
// FirstInView advances, ScrollCount does not.
//
// Options: WithSteps(n) (default 1, clamped to the visible count),
// WithAnimation(f) (default FadeOut), WithRunTime.
func (m *ScrollManager) FadeOutInView(ctx context.Context, opts ...CommandOption) error {
	o := newCommandOptions(opts)
	return m.fadeOut(ctx, o.steps, o)
}

// FadeOutAllInView fades every visible item out.
func (m *ScrollManager) FadeOutAllInView(ctx context.Context, opts ...CommandOption) error {
	o := newCommandOptions(opts)
	return m.fadeOut(ctx, m.nextToReveal-m.firstInView, o)
}

func (m *ScrollManager) fadeOut(ctx context.Context, steps int, o commandOptions) error {
	steps = min(steps, m.nextToReveal-m.firstInView)
	if steps <= 0 {
		return nil
	}
	f := o.animation
	if f == nil {
		f = NewFadeOut
	}

	cut := m.firstInView + steps
	items := m.itemsIn(m.firstInView, cut)
	anims := make([]Animation, 0, len(items))
	for _, it := range items {
		anims = append(anims, f(it))
	}
	batch := Together(anims...)
	if err := m.play(ctx, batch, o.runTime); err != nil {
		return err
	}

	// A custom animation may leave its target on stage.
	if left := notRemoved(items, batch); len(left) > 0 {
		m.scene.Remove(left...)
	}

	m.firstInView = cut
	Logger().Debug("mathscroll: faded out",
		slog.Int("steps", steps),
		slog.String("cursors", m.Cursors().String()))
	return nil
}

func notRemoved(items []Mobject, a Animation) []Mobject {
	gone := make(map[Mobject]struct{})
	for _, r := range Removed(a) {
		gone[r] = struct{}{}
	}
	var out []Mobject
	for _, it := range items {
		if _, ok := gone[it]; !ok {
			out = append(out, it)
		}
	}
	return out
}
