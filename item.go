package mathscroll

import (
	"fmt"
	"strconv"
)

// ItemKind tags the variants of a queue Item.
type ItemKind uint8

const (
	// ItemExpression is a whole typeset expression.
	ItemExpression ItemKind = iota

	// ItemGroup is a group revealed as one unit.
	ItemGroup

	// ItemAnnotated is an expression whose annotation overlay fades in
	// alongside it.
	ItemAnnotated

	// ItemSlice is a glyph range of an expression.
	ItemSlice
)

var itemKindNames = [...]string{
	ItemExpression: "expression",
	ItemGroup:      "group",
	ItemAnnotated:  "annotated",
	ItemSlice:      "slice",
}

// String returns the kind name.
func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "unknown"
}

// Item is one animatable entry of the scroll queue.
type Item interface {
	Kind() ItemKind

	// Mobject returns the drawable behind the item.
	Mobject() Mobject
}

// ExpressionItem is the ItemExpression variant.
type ExpressionItem struct{ Expr *Expression }

func (i *ExpressionItem) Kind() ItemKind   { return ItemExpression }
func (i *ExpressionItem) Mobject() Mobject { return i.Expr }

// GroupItem is the ItemGroup variant.
type GroupItem struct{ Group Mobject }

func (i *GroupItem) Kind() ItemKind   { return ItemGroup }
func (i *GroupItem) Mobject() Mobject { return i.Group }

// AnnotatedItem is the ItemAnnotated variant.
type AnnotatedItem struct{ Eq *AnnotatedEquation }

func (i *AnnotatedItem) Kind() ItemKind   { return ItemAnnotated }
func (i *AnnotatedItem) Mobject() Mobject { return i.Eq }

// SliceItem is the ItemSlice variant.
type SliceItem struct{ Range *GlyphRange }

func (i *SliceItem) Kind() ItemKind   { return ItemSlice }
func (i *SliceItem) Mobject() Mobject { return i.Range }

// ItemOf wraps a mobject in the matching Item variant. Groups, steps and
// any other mobject become ItemGroup.
func ItemOf(m Mobject) Item {
	switch v := m.(type) {
	case *Expression:
		return &ExpressionItem{Expr: v}
	case *GlyphRange:
		return &SliceItem{Range: v}
	case *AnnotatedEquation:
		return &AnnotatedItem{Eq: v}
	default:
		return &GroupItem{Group: m}
	}
}

type targetKind uint8

const (
	targetNone targetKind = iota
	targetLabel
	targetIndex
	targetMobject
)

// Target addresses a queue item by label, by index or by identity.
// The zero Target is invalid.
type Target struct {
	kind  targetKind
	label string
	index int
	mob   Mobject
}

// ByLabel addresses the item registered under label.
func ByLabel(label string) Target { return Target{kind: targetLabel, label: label} }

// ByIndex addresses the queue slot i.
func ByIndex(i int) Target { return Target{kind: targetIndex, index: i} }

// ByMobject addresses the queue item whose mobject is m. A mobject that is
// not in the queue is free-floating; only the morph commands accept it.
func ByMobject(m Mobject) Target { return Target{kind: targetMobject, mob: m} }

// String implements fmt.Stringer.
func (t Target) String() string {
	switch t.kind {
	case targetLabel:
		return strconv.Quote(t.label)
	case targetIndex:
		return "#" + strconv.Itoa(t.index)
	case targetMobject:
		return Describe(t.mob)
	default:
		return "<none>"
	}
}

// slot is one queue entry. A slot folded into a group replacement keeps a
// redirect to the group head instead of an item.
type slot struct {
	item     Item
	redirect int // index of the group head, -1 when the slot holds an item
}

func (s slot) subsumed() bool { return s.redirect >= 0 }

// Cursors is a snapshot of the viewport state.
type Cursors struct {
	FirstInView  int
	NextToReveal int
	ScrollCount  int
	Len          int
}

// String implements fmt.Stringer.
func (c Cursors) String() string {
	return fmt.Sprintf("first=%d next=%d scrolled=%d len=%d", c.FirstInView, c.NextToReveal, c.ScrollCount, c.Len)
}

// Valid reports whether 0 ≤ first ≤ next ≤ len and scrolled ≥ 0.
func (c Cursors) Valid() bool {
	return c.FirstInView >= 0 && c.FirstInView <= c.NextToReveal && c.NextToReveal <= c.Len && c.ScrollCount >= 0
}
