package mathscroll

import (
	"errors"
	"fmt"
)

// LabeledItem pairs a mobject with the label it is registered under when
// it joins the queue.
type LabeledItem struct {
	Mobject
	Label string
}

// WithLabel returns m labeled for addressing.
func WithLabel(m Mobject, label string) LabeledItem {
	return LabeledItem{Mobject: m, Label: label}
}

// Step is a labeled, ordered bundle of items: typically a caption followed
// by one or more equation lines.
type Step struct {
	Group

	label       string
	itemLabels  []string
	addToScroll bool
	arrange     bool
	queued      bool
	indices     []int
}

// Label returns the step label, empty when unlabeled.
func (s *Step) Label() string { return s.label }

// Indices returns the queue indices of the step's items, in order.
func (s *Step) Indices() []int { return s.indices }

// Queued reports whether the step's items are in a scroll queue.
func (s *Step) Queued() bool { return s.queued }

// Copy implements Mobject. The copy is detached from any queue.
func (s *Step) Copy() Mobject {
	return &Step{
		Group:       Group{members: copyMembers(s.members)},
		label:       s.label,
		itemLabels:  append([]string(nil), s.itemLabels...),
		addToScroll: s.addToScroll,
		arrange:     s.arrange,
	}
}

// StepOption configures ConstructStep.
type StepOption func(*stepOptions)

type stepOptions struct {
	label       string
	direction   Point
	alignEdge   Point
	buff        float64
	addToScroll bool
	arrange     bool
}

// StepLabel labels the step itself. The label addresses the step's first
// queued item.
func StepLabel(label string) StepOption {
	return func(o *stepOptions) { o.label = label }
}

// StepDirection sets the layout direction of the step's items (default Down).
func StepDirection(dir Point) StepOption {
	return func(o *stepOptions) { o.direction = dir }
}

// StepAlignEdge sets the edge the items align on (default Left).
func StepAlignEdge(edge Point) StepOption {
	return func(o *stepOptions) { o.alignEdge = edge }
}

// StepBuff sets the gap between the step's items.
func StepBuff(buff float64) StepOption {
	return func(o *stepOptions) { o.buff = buff }
}

// AddToScroll controls whether the step's items join the queue (default true).
func AddToScroll(v bool) StepOption {
	return func(o *stepOptions) { o.addToScroll = v }
}

// Arrange controls whether the step joins the global arrangement. The
// default comes from WithGlobalArrangement.
func Arrange(v bool) StepOption {
	return func(o *stepOptions) { o.arrange = v }
}

type stepEntry struct {
	mob   Mobject
	label string
}

// ConstructStep assembles items into a Step, lays them out, appends them to
// the queue and inserts the step into the arrangement.
//
// Items may be expressions, LabeledItem values from the Tex helpers,
// annotated equations, groups or previously built steps. A step that is
// already queued contributes its layout but no new queue entries.
// Label collisions fail with ErrDuplicateLabel before anything changes.
func (m *ScrollManager) ConstructStep(items []Mobject, opts ...StepOption) (*Step, error) {
	o := stepOptions{
		direction:   Down,
		alignEdge:   Left,
		buff:        m.opts.buff,
		addToScroll: true,
		arrange:     m.opts.globalArrangement,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if len(items) == 0 {
		return nil, errors.New("mathscroll: empty step")
	}

	entries := make([]stepEntry, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
			return nil, errors.New("mathscroll: nil step item")
		case LabeledItem:
			if v.Mobject == nil {
				return nil, errors.New("mathscroll: nil step item")
			}
			entries = append(entries, stepEntry{mob: v.Mobject, label: v.Label})
		case *LabeledItem:
			entries = append(entries, stepEntry{mob: v.Mobject, label: v.Label})
		default:
			entries = append(entries, stepEntry{mob: it})
		}
	}

	if o.addToScroll {
		if err := m.checkLabels(o.label, entries); err != nil {
			return nil, err
		}
	}

	step := &Step{
		label:       o.label,
		addToScroll: o.addToScroll,
		arrange:     o.arrange,
	}
	for _, e := range entries {
		step.members = append(step.members, e.mob)
		step.itemLabels = append(step.itemLabels, e.label)
	}
	step.Arrange(o.direction, o.buff, o.alignEdge)

	if o.addToScroll {
		for _, e := range entries {
			if inner, ok := e.mob.(*Step); ok {
				if !inner.queued {
					m.enqueueStep(inner)
				}
				step.indices = append(step.indices, inner.indices...)
				continue
			}
			step.indices = append(step.indices, m.appendItem(ItemOf(e.mob), e.label))
		}
		if step.label != "" && len(step.indices) > 0 {
			m.labels[step.label] = step.indices[0]
		}
		step.queued = true
	}

	if o.arrange {
		m.arrangement.Add(step)
	}
	return step, nil
}

// enqueueStep appends the members of a step built without AddToScroll.
func (m *ScrollManager) enqueueStep(s *Step) {
	for i, mob := range s.members {
		label := ""
		if i < len(s.itemLabels) {
			label = s.itemLabels[i]
		}
		if inner, ok := mob.(*Step); ok {
			if !inner.queued {
				m.enqueueStep(inner)
			}
			s.indices = append(s.indices, inner.indices...)
			continue
		}
		s.indices = append(s.indices, m.appendItem(ItemOf(mob), label))
	}
	if s.label != "" && len(s.indices) > 0 {
		m.labels[s.label] = s.indices[0]
	}
	s.queued = true
}

// checkLabels verifies that every label the step would register is new.
func (m *ScrollManager) checkLabels(stepLabel string, entries []stepEntry) error {
	seen := make(map[string]struct{})
	check := func(l string) error {
		if l == "" {
			return nil
		}
		if _, ok := m.labels[l]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		if _, ok := seen[l]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		seen[l] = struct{}{}
		return nil
	}

	if err := check(stepLabel); err != nil {
		return err
	}
	var walk func(s *Step) error
	walk = func(s *Step) error {
		if s.queued {
			return nil
		}
		if err := check(s.label); err != nil {
			return err
		}
		for i, mob := range s.members {
			if inner, ok := mob.(*Step); ok {
				if err := walk(inner); err != nil {
					return err
				}
				continue
			}
			if i < len(s.itemLabels) {
				if err := check(s.itemLabels[i]); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, e := range entries {
		if inner, ok := e.mob.(*Step); ok {
			if err := walk(inner); err != nil {
				return err
			}
			continue
		}
		if err := check(e.label); err != nil {
			return err
		}
	}
	return nil
}

// CreateStep builds a single-item step. An empty label leaves the item
// addressable by index only.
func (m *ScrollManager) CreateStep(item Mobject, label string, opts ...StepOption) (*Step, error) {
	if label != "" {
		item = WithLabel(item, label)
	}
	return m.ConstructStep([]Mobject{item}, opts...)
}

// CreateSteps builds one step per item. labels may be nil; otherwise it must
// have one entry per item (empty entries mean unlabeled).
func (m *ScrollManager) CreateSteps(items []Mobject, labels []string, opts ...StepOption) ([]*Step, error) {
	if labels != nil && len(labels) != len(items) {
		return nil, fmt.Errorf("mathscroll: %d labels for %d items", len(labels), len(items))
	}
	steps := make([]*Step, 0, len(items))
	for i, it := range items {
		label := ""
		if labels != nil {
			label = labels[i]
		}
		s, err := m.CreateStep(it, label, opts...)
		if err != nil {
			return steps, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}
