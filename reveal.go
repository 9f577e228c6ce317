package mathscroll

import (
	"context"
	"log/slog"
)

// PrepareNext reveals the next queued items in one animation batch.
//
// Options:
//
//   - WithSteps(n): reveal n items (default 1), clamped to the remainder.
//   - WithTarget(t): reveal up to and including t; a target before
//     NextToReveal fails with ErrBackwardsReveal.
//   - WithSameItem(): first roll NextToReveal back by the size of the
//     previous reveal, re-animating those items.
//   - WithAnimation(f): per-item animation (default Write).
//   - WithLagRatio(r), WithRunTime(d): batch schedule.
//   - WithTargetSlice(s, e): reveal only glyphs [s, e) of expression and
//     slice items.
//
// With nothing left to reveal PrepareNext is a no-op.
func (m *ScrollManager) PrepareNext(ctx context.Context, opts ...CommandOption) error {
	o := newCommandOptions(opts)

	next := m.nextToReveal
	if o.sameItem {
		next = max(m.firstInView, next-m.lastRevealCount)
	}

	steps := o.steps
	if o.target != nil {
		idx, err := m.resolve(*o.target)
		if err != nil {
			return err
		}
		if idx < next {
			return &TargetError{Target: *o.target, Err: ErrBackwardsReveal}
		}
		steps = idx - next + 1
	}
	steps = min(steps, len(m.queue)-next)
	if steps <= 0 {
		return nil
	}

	f := o.animation
	if f == nil {
		f = NewWrite
	}
	anims := make([]Animation, 0, steps)
	for i := next; i < next+steps; i++ {
		s := m.queue[i]
		if s.subsumed() {
			continue
		}
		anims = append(anims, revealAnimation(s.item, f, o.slice))
	}

	batch := &AnimationGroup{Animations: anims, LagRatio: o.lagRatio}
	if err := m.play(ctx, batch, o.runTime); err != nil {
		return err
	}

	m.nextToReveal = next + steps
	m.lastRevealCount = steps
	Logger().Debug("mathscroll: revealed",
		slog.Int("steps", steps),
		slog.Bool("same_item", o.sameItem),
		slog.String("cursors", m.Cursors().String()))
	return nil
}

// revealAnimation picks the animation for one item by its kind.
func revealAnimation(it Item, f AnimationFunc, slice *[2]int) Animation {
	switch v := it.(type) {
	case *AnnotatedItem:
		return Together(f(v.Eq.Base), NewFadeIn(v.Eq.Overlay))
	case *GroupItem:
		return f(v.Group)
	case *ExpressionItem:
		if slice != nil {
			return f(v.Expr.Slice(slice[0], slice[1]))
		}
		return f(v.Expr)
	case *SliceItem:
		if slice != nil {
			return f(v.Range.Sub(slice[0], slice[1]))
		}
		return f(v.Range)
	default:
		return f(it.Mobject())
	}
}
