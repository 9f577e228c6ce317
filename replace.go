package mathscroll

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// replacement remembers what an edited slot held before its first edit.
// A group replacement covers span slots starting at the record's index.
type replacement struct {
	originals []Item
}

func (r *replacement) span() int { return len(r.originals) }

// validateEdit checks that slot index may be edited in place.
func (m *ScrollManager) validateEdit(index int) error {
	if index < 0 || index >= len(m.queue) {
		return &TargetError{Target: ByIndex(index), Err: ErrInvalidTarget}
	}
	if index < m.firstInView || index >= m.nextToReveal {
		return &TargetError{Target: ByIndex(index), Err: ErrOutOfViewEdit}
	}
	if m.queue[index].subsumed() {
		return &TargetError{Target: ByIndex(index), Err: ErrSubsumedSlot}
	}
	return nil
}

func (o commandOptions) transformFunc() TransformFunc {
	if o.transform != nil {
		return o.transform
	}
	return NewReplacementTransform
}

// ReplaceInPlace morphs the visible item at index into newContent and puts
// newContent in its queue slot. The first original of a slot is kept for
// RestoreOriginal.
//
// Options: WithTransform(f) (default ReplacementTransform), WithoutMove()
// to keep newContent where it is instead of centering it on the original,
// WithRunTime.
func (m *ScrollManager) ReplaceInPlace(ctx context.Context, index int, newContent Mobject, opts ...CommandOption) error {
	if err := m.validateEdit(index); err != nil {
		return err
	}
	o := newCommandOptions(opts)
	orig := m.queue[index].item
	if o.moveNewContent {
		MoveTo(newContent, orig.Mobject().Bounds().Center())
	}
	if err := m.play(ctx, o.transformFunc()(orig.Mobject(), newContent), o.runTime); err != nil {
		return err
	}
	m.commitReplace(index, orig, newContent)
	return nil
}

func (m *ScrollManager) commitReplace(index int, orig Item, newContent Mobject) {
	if _, ok := m.replacements[index]; !ok {
		m.replacements[index] = &replacement{originals: []Item{orig}}
	}
	m.queue[index].item = ItemOf(newContent)
	m.arrangement.Replace(orig.Mobject(), newContent)
	Logger().Debug("mathscroll: replaced",
		slog.Int("index", index),
		slog.String("content", Describe(newContent)))
}

// ReplaceRangeInPlace replaces the visible slots [start, end) with one
// piece of content. Slot start holds content; the other slots become
// redirects to it: editing them fails with ErrSubsumedSlot, and their
// labels resolve to the group head. RestoreOriginal(start) brings every
// original slot back.
func (m *ScrollManager) ReplaceRangeInPlace(ctx context.Context, start, end int, content Mobject, opts ...CommandOption) error {
	if end <= start {
		return fmt.Errorf("mathscroll: empty replacement range [%d, %d): %w", start, end, ErrInvalidTarget)
	}
	for i := start; i < end; i++ {
		if err := m.validateEdit(i); err != nil {
			return err
		}
	}
	o := newCommandOptions(opts)

	current := make([]Item, 0, end-start)
	mobs := make([]Mobject, 0, end-start)
	for i := start; i < end; i++ {
		current = append(current, m.queue[i].item)
		mobs = append(mobs, m.queue[i].item.Mobject())
	}
	old := NewGroup(mobs...)
	if o.moveNewContent {
		MoveTo(content, old.Bounds().Center())
	}
	if err := m.play(ctx, o.transformFunc()(old, content), o.runTime); err != nil {
		return err
	}

	// Keep the earliest originals of every covered slot. A covered slot
	// that heads an earlier group replacement brings its whole group.
	var originals []Item
	for i, it := range current {
		if rec, ok := m.replacements[start+i]; ok {
			originals = append(originals, rec.originals...)
			delete(m.replacements, start+i)
			continue
		}
		originals = append(originals, it)
	}
	m.replacements[start] = &replacement{originals: originals}

	m.queue[start].item = ItemOf(content)
	for i := start + 1; i < start+len(originals); i++ {
		m.queue[i] = slot{redirect: start}
	}
	m.arrangement.Replace(mobs[0], content)
	for _, mob := range mobs[1:] {
		m.arrangement.Replace(mob, nil)
	}
	Logger().Debug("mathscroll: replaced range",
		slog.Int("start", start),
		slog.Int("end", end),
		slog.String("content", Describe(content)))
	return nil
}

// HighlightOptions configures HighlightAndReplace. Zero fields take the
// defaults: Yellow, half a second of highlight, one second of replacement,
// and newContent keeping its own colors.
type HighlightOptions struct {
	HighlightColor RGBA
	HighlightTime  time.Duration
	ReplaceTime    time.Duration
	FinalColor     *RGBA
}

func (h HighlightOptions) withDefaults() HighlightOptions {
	if h.HighlightColor == (RGBA{}) {
		h.HighlightColor = Yellow
	}
	if h.HighlightTime <= 0 {
		h.HighlightTime = DefaultRunTime / 2
	}
	if h.ReplaceTime <= 0 {
		h.ReplaceTime = DefaultRunTime
	}
	return h
}

// HighlightAndReplace pulses the item at index in the highlight color,
// replaces it with newContent and recolors the result, as one batch.
func (m *ScrollManager) HighlightAndReplace(ctx context.Context, index int, newContent Mobject, h HighlightOptions, opts ...CommandOption) error {
	if err := m.validateEdit(index); err != nil {
		return err
	}
	h = h.withDefaults()
	o := newCommandOptions(opts)
	orig := m.queue[index].item
	if o.moveNewContent {
		MoveTo(newContent, orig.Mobject().Bounds().Center())
	}

	morph := o.transformFunc()(orig.Mobject(), newContent)
	setRunTime(morph, h.ReplaceTime)
	anims := []Animation{
		&Recolor{Target: orig.Mobject(), Color: h.HighlightColor, RunTime: h.HighlightTime},
		morph,
	}
	if h.FinalColor != nil {
		anims = append(anims, &Recolor{Target: newContent, Color: *h.FinalColor, RunTime: h.HighlightTime})
	}
	if err := m.play(ctx, Sequence(anims...), o.runTime); err != nil {
		return err
	}

	if h.FinalColor != nil {
		newContent.SetColor(*h.FinalColor)
	}
	m.commitReplace(index, orig, newContent)
	return nil
}

// CascadeUpdate replaces the visible slots starting at start with
// newContents, one after another: the i-th morph starts i*delay into the
// batch. WithRunTime sets the duration of each morph.
func (m *ScrollManager) CascadeUpdate(ctx context.Context, start int, newContents []Mobject, delay time.Duration, opts ...CommandOption) error {
	if len(newContents) == 0 {
		return nil
	}
	for i := range newContents {
		if err := m.validateEdit(start + i); err != nil {
			return err
		}
	}
	o := newCommandOptions(opts)
	f := o.transformFunc()

	origs := make([]Item, len(newContents))
	anims := make([]Animation, 0, len(newContents))
	for i, nc := range newContents {
		origs[i] = m.queue[start+i].item
		if o.moveNewContent {
			MoveTo(nc, origs[i].Mobject().Bounds().Center())
		}
		morph := f(origs[i].Mobject(), nc)
		setRunTime(morph, o.runTime)
		if i == 0 || delay <= 0 {
			anims = append(anims, morph)
			continue
		}
		anims = append(anims, Sequence(&Wait{RunTime: delay * time.Duration(i)}, morph))
	}
	if err := m.play(ctx, Together(anims...), 0); err != nil {
		return err
	}
	for i, nc := range newContents {
		m.commitReplace(start+i, origs[i], nc)
	}
	return nil
}

// RestoreOriginal morphs the item at index back into a copy of what the
// slot held before its first edit and clears the record. A group
// replacement restores every slot it covered. Fails with
// ErrMissingReplacement when the slot was never edited.
//
// Options: WithTransform(f), WithoutMove(), WithRunTime.
func (m *ScrollManager) RestoreOriginal(ctx context.Context, index int, opts ...CommandOption) error {
	if err := m.validateEdit(index); err != nil {
		return err
	}
	rec, ok := m.replacements[index]
	if !ok {
		return &TargetError{Target: ByIndex(index), Err: ErrMissingReplacement}
	}
	o := newCommandOptions(opts)
	current := m.queue[index].item.Mobject()

	copies := make([]Mobject, rec.span())
	for i, it := range rec.originals {
		copies[i] = it.Mobject().Copy()
	}
	var restored Mobject = copies[0]
	if len(copies) > 1 {
		restored = NewGroup(copies...)
	}
	if o.moveNewContent {
		MoveTo(restored, current.Bounds().Center())
	}
	if err := m.play(ctx, o.transformFunc()(current, restored), o.runTime); err != nil {
		return err
	}

	for i, c := range copies {
		m.queue[index+i] = slot{item: restoredItem(rec.originals[i], c), redirect: -1}
	}
	m.arrangement.Replace(current, restored)
	delete(m.replacements, index)
	Logger().Debug("mathscroll: restored",
		slog.Int("index", index),
		slog.Int("slots", len(copies)))
	return nil
}

// Replacements returns the sorted slot indices that hold edited content.
func (m *ScrollManager) Replacements() []int {
	out := make([]int, 0, len(m.replacements))
	for i := range m.replacements {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// restoredItem wraps a copy of orig in orig's variant.
func restoredItem(orig Item, c Mobject) Item {
	if s, ok := orig.(*SliceItem); ok {
		expr := c.(*Expression)
		return &SliceItem{Range: &GlyphRange{Expr: expr, End: expr.Len(), AsGroup: s.Range.AsGroup}}
	}
	return ItemOf(c)
}

func setRunTime(a Animation, d time.Duration) {
	if d <= 0 {
		return
	}
	if t, ok := a.(*Transform); ok {
		t.RunTime = d
	}
}
