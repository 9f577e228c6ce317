package mathscroll

import "time"

// DefaultRunTime is the run time of an animation that does not set one.
const DefaultRunTime = time.Second

// AnimationKind identifies the type of an animation descriptor.
type AnimationKind uint8

const (
	KindWrite AnimationKind = iota
	KindCreate
	KindFadeIn
	KindFadeOut
	KindTransform
	KindReplacementTransform
	KindTransformFromCopy
	KindIndicate
	KindShift
	KindRecolor
	KindWait
	KindGroup
)

var animationKindNames = [...]string{
	KindWrite:                "Write",
	KindCreate:               "Create",
	KindFadeIn:               "FadeIn",
	KindFadeOut:              "FadeOut",
	KindTransform:            "Transform",
	KindReplacementTransform: "ReplacementTransform",
	KindTransformFromCopy:    "TransformFromCopy",
	KindIndicate:             "Indicate",
	KindShift:                "Shift",
	KindRecolor:              "Recolor",
	KindWait:                 "Wait",
	KindGroup:                "AnimationGroup",
}

// String returns the animation kind name.
func (k AnimationKind) String() string {
	if int(k) < len(animationKindNames) {
		return animationKindNames[k]
	}
	return "Unknown"
}

// Animation describes one transition for the animation runtime. The core
// builds descriptors and updates its own model; drawing the transition is
// the runtime's job.
type Animation interface {
	// Kind returns the animation type.
	Kind() AnimationKind

	// Targets returns the mobjects the animation acts on.
	Targets() []Mobject

	// Duration returns the run time, DefaultRunTime when unset.
	Duration() time.Duration
}

// AnimationFunc builds an animation acting on a single mobject. It is the
// type of the "animation type" parameter of the viewport commands.
type AnimationFunc func(m Mobject) Animation

// TransformFunc builds an animation morphing src into dst.
type TransformFunc func(src, dst Mobject) Animation

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultRunTime
	}
	return d
}

// Write draws the target stroke by stroke.
type Write struct {
	Target  Mobject
	RunTime time.Duration
}

func (a *Write) Kind() AnimationKind     { return KindWrite }
func (a *Write) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *Write) Duration() time.Duration { return orDefault(a.RunTime) }

// NewWrite is the AnimationFunc for Write.
func NewWrite(m Mobject) Animation { return &Write{Target: m} }

// Create traces the target's outline.
type Create struct {
	Target  Mobject
	RunTime time.Duration
}

func (a *Create) Kind() AnimationKind     { return KindCreate }
func (a *Create) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *Create) Duration() time.Duration { return orDefault(a.RunTime) }

// NewCreate is the AnimationFunc for Create.
func NewCreate(m Mobject) Animation { return &Create{Target: m} }

// FadeIn fades the target in. With Origin set the target appears to
// emanate from that point; Shift makes it slide in along the vector.
type FadeIn struct {
	Target  Mobject
	Shift   Point
	Origin  *Point
	RunTime time.Duration
}

func (a *FadeIn) Kind() AnimationKind     { return KindFadeIn }
func (a *FadeIn) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *FadeIn) Duration() time.Duration { return orDefault(a.RunTime) }

// NewFadeIn is the AnimationFunc for FadeIn.
func NewFadeIn(m Mobject) Animation { return &FadeIn{Target: m} }

// FadeOut fades the target out, optionally sliding along Shift, and removes
// it from the scene.
type FadeOut struct {
	Target  Mobject
	Shift   Point
	RunTime time.Duration
}

func (a *FadeOut) Kind() AnimationKind     { return KindFadeOut }
func (a *FadeOut) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *FadeOut) Duration() time.Duration { return orDefault(a.RunTime) }

// NewFadeOut is the AnimationFunc for FadeOut.
func NewFadeOut(m Mobject) Animation { return &FadeOut{Target: m} }

// Transform morphs Source into Target.
//
//   - KindTransform: Source stays on stage with Target's appearance.
//   - KindReplacementTransform: Target replaces Source on stage.
//   - KindTransformFromCopy: a copy of Source morphs into Target; Source stays.
type Transform struct {
	Variant AnimationKind
	Source  Mobject
	Target  Mobject
	RunTime time.Duration
}

func (a *Transform) Kind() AnimationKind     { return a.Variant }
func (a *Transform) Targets() []Mobject      { return []Mobject{a.Source, a.Target} }
func (a *Transform) Duration() time.Duration { return orDefault(a.RunTime) }

// NewTransform is the TransformFunc for a plain Transform.
func NewTransform(src, dst Mobject) Animation {
	return &Transform{Variant: KindTransform, Source: src, Target: dst}
}

// NewReplacementTransform is the TransformFunc for ReplacementTransform.
func NewReplacementTransform(src, dst Mobject) Animation {
	return &Transform{Variant: KindReplacementTransform, Source: src, Target: dst}
}

// NewTransformFromCopy is the TransformFunc for TransformFromCopy.
func NewTransformFromCopy(src, dst Mobject) Animation {
	return &Transform{Variant: KindTransformFromCopy, Source: src, Target: dst}
}

// Indicate briefly scales and recolors the target to draw attention to it.
type Indicate struct {
	Target      Mobject
	Color       RGBA
	ScaleFactor float64
	RunTime     time.Duration
}

func (a *Indicate) Kind() AnimationKind     { return KindIndicate }
func (a *Indicate) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *Indicate) Duration() time.Duration { return orDefault(a.RunTime) }

// NewIndicate is the AnimationFunc for a yellow Indicate.
func NewIndicate(m Mobject) Animation {
	return &Indicate{Target: m, Color: Yellow, ScaleFactor: 1.2}
}

// Shift slides the target by a vector.
type Shift struct {
	Target  Mobject
	By      Point
	RunTime time.Duration
}

func (a *Shift) Kind() AnimationKind     { return KindShift }
func (a *Shift) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *Shift) Duration() time.Duration { return orDefault(a.RunTime) }

// Recolor changes the target's color.
type Recolor struct {
	Target  Mobject
	Color   RGBA
	RunTime time.Duration
}

func (a *Recolor) Kind() AnimationKind     { return KindRecolor }
func (a *Recolor) Targets() []Mobject      { return []Mobject{a.Target} }
func (a *Recolor) Duration() time.Duration { return orDefault(a.RunTime) }

// Wait holds the frame. A zero RunTime waits for DefaultRunTime.
type Wait struct {
	RunTime time.Duration
}

func (a *Wait) Kind() AnimationKind     { return KindWait }
func (a *Wait) Targets() []Mobject      { return nil }
func (a *Wait) Duration() time.Duration { return orDefault(a.RunTime) }

// AnimationGroup plays its children with staggered starts: child i+1 starts
// once child i has run LagRatio of its duration. LagRatio 0 plays all
// children together, 1 plays them one after another.
type AnimationGroup struct {
	Animations []Animation
	LagRatio   float64
	RunTime    time.Duration
}

// Sequence returns a group playing anims one after another.
func Sequence(anims ...Animation) *AnimationGroup {
	return &AnimationGroup{Animations: anims, LagRatio: 1}
}

// Together returns a group playing anims simultaneously.
func Together(anims ...Animation) *AnimationGroup {
	return &AnimationGroup{Animations: anims, LagRatio: 0}
}

func (a *AnimationGroup) Kind() AnimationKind { return KindGroup }

// Targets returns the targets of every child, in order.
func (a *AnimationGroup) Targets() []Mobject {
	var out []Mobject
	for _, c := range a.Animations {
		out = append(out, c.Targets()...)
	}
	return out
}

// Duration returns RunTime when set, otherwise the end of the last child
// under the lag schedule.
func (a *AnimationGroup) Duration() time.Duration {
	if a.RunTime > 0 {
		return a.RunTime
	}
	var start, end time.Duration
	for _, c := range a.Animations {
		d := c.Duration()
		if start+d > end {
			end = start + d
		}
		start += time.Duration(float64(d) * a.LagRatio)
	}
	return end
}

// Introduced returns the mobjects an animation puts on stage.
func Introduced(a Animation) []Mobject {
	switch v := a.(type) {
	case *Write:
		return []Mobject{v.Target}
	case *Create:
		return []Mobject{v.Target}
	case *FadeIn:
		return []Mobject{v.Target}
	case *Transform:
		if v.Variant != KindTransform {
			return []Mobject{v.Target}
		}
	case *AnimationGroup:
		var out []Mobject
		for _, c := range v.Animations {
			out = append(out, Introduced(c)...)
		}
		return out
	}
	return nil
}

// Removed returns the mobjects an animation takes off stage.
func Removed(a Animation) []Mobject {
	switch v := a.(type) {
	case *FadeOut:
		return []Mobject{v.Target}
	case *Transform:
		if v.Variant == KindReplacementTransform {
			return []Mobject{v.Source}
		}
	case *AnimationGroup:
		var out []Mobject
		for _, c := range v.Animations {
			out = append(out, Removed(c)...)
		}
		return out
	}
	return nil
}
