package mathscroll

import (
	"context"
	"log/slog"
)

// morphTarget is the resolved target of a cross-expression morph.
type morphTarget struct {
	mob   Mobject
	index int // queue index, -1 for a free-floating mobject
}

// advances reports whether revealing the target moves NextToReveal: only
// queue items at or beyond the cursor do.
func (t morphTarget) advances(next int) bool {
	return t.index >= 0 && t.index >= next
}

// morphTarget resolves WithTarget, defaulting to the next unrevealed item.
// A ByMobject target that is not queued is free-floating.
func (m *ScrollManager) morphTarget(o commandOptions) (morphTarget, error) {
	if o.target == nil {
		if m.nextToReveal >= len(m.queue) {
			return morphTarget{}, &TargetError{Target: ByIndex(m.nextToReveal), Err: ErrInvalidTarget}
		}
		i := m.nextToReveal
		return morphTarget{mob: m.queue[i].item.Mobject(), index: i}, nil
	}
	t := *o.target
	if t.kind == targetMobject {
		if t.mob == nil {
			return morphTarget{}, &TargetError{Target: t, Err: ErrInvalidTarget}
		}
		if i, ok := m.indexOfMobject(t.mob); ok {
			return morphTarget{mob: t.mob, index: i}, nil
		}
		return morphTarget{mob: t.mob, index: -1}, nil
	}
	i, err := m.resolve(t)
	if err != nil {
		return morphTarget{}, err
	}
	i = m.head(i)
	return morphTarget{mob: m.queue[i].item.Mobject(), index: i}, nil
}

// FadeInFromTarget fades the target in so that it appears to emanate from
// source's current center. The target defaults to the next unrevealed
// item. A queued target at or beyond NextToReveal moves the cursor past
// it; an already revealed or free-floating target leaves the cursors alone.
//
// Options: WithTarget(t), WithRunTime.
func (m *ScrollManager) FadeInFromTarget(ctx context.Context, source Mobject, opts ...CommandOption) error {
	o := newCommandOptions(opts)
	t, err := m.morphTarget(o)
	if err != nil {
		return err
	}
	origin := source.Bounds().Center()
	anim := &FadeIn{Target: t.mob, Origin: &origin}
	if err := m.play(ctx, anim, o.runTime); err != nil {
		return err
	}
	m.advancePast(t)
	return nil
}

// TransformFromCopy morphs a copy of source into the target, leaving source
// in place. Target and cursor rules follow FadeInFromTarget.
//
// Options: WithTarget(t), WithTransform(f) (default TransformFromCopy),
// WithRunTime.
func (m *ScrollManager) TransformFromCopy(ctx context.Context, source Mobject, opts ...CommandOption) error {
	o := newCommandOptions(opts)
	t, err := m.morphTarget(o)
	if err != nil {
		return err
	}
	f := o.transform
	if f == nil {
		f = NewTransformFromCopy
	}
	if err := m.play(ctx, f(source, t.mob), o.runTime); err != nil {
		return err
	}
	m.advancePast(t)
	return nil
}

func (m *ScrollManager) advancePast(t morphTarget) {
	if !t.advances(m.nextToReveal) {
		Logger().Debug("mathscroll: morph without cursor move",
			slog.Int("index", t.index),
			slog.String("target", Describe(t.mob)))
		return
	}
	m.lastRevealCount = t.index + 1 - m.nextToReveal
	m.nextToReveal = t.index + 1
	Logger().Debug("mathscroll: morph revealed",
		slog.Int("index", t.index),
		slog.String("cursors", m.Cursors().String()))
}
