package mathscroll

import "time"

// Option configures a ScrollManager during creation.
//
// Example:
//
//	sm, err := mathscroll.New(
//	    mathscroll.WithTypesetter(tex.New()),
//	    mathscroll.WithScene(recorder),
//	    mathscroll.WithScale(0.8),
//	)
type Option func(*options)

type options struct {
	scene             Scene
	ts                Typesetter
	equations         []Mobject
	globalArrangement bool
	buff              float64
	scale             float64
	frame             Rect
	colorMap          ColorMap
}

func defaultOptions() options {
	return options{
		globalArrangement: true,
		buff:              DefaultBuff,
		scale:             1,
		frame:             DefaultFrame(),
	}
}

// WithScene attaches the scene commands play on. See also SetScene.
func WithScene(s Scene) Option {
	return func(o *options) { o.scene = s }
}

// WithTypesetter sets the engine used by the Tex helpers and the Locator.
func WithTypesetter(ts Typesetter) Option {
	return func(o *options) { o.ts = ts }
}

// WithEquations queues pre-built mobjects, one step each, at construction.
func WithEquations(ms ...Mobject) Option {
	return func(o *options) { o.equations = append(o.equations, ms...) }
}

// WithGlobalArrangement sets whether new steps join the arrangement by
// default. Individual steps override it with Arrange.
func WithGlobalArrangement(v bool) Option {
	return func(o *options) { o.globalArrangement = v }
}

// WithBuff sets the gap between steps and between items of a step.
func WithBuff(b float64) Option {
	return func(o *options) { o.buff = b }
}

// WithScale sets the default expression scale of the Tex helpers.
func WithScale(s float64) Option {
	return func(o *options) { o.scale = s }
}

// WithFrame sets the canvas frame used for default anchoring.
func WithFrame(r Rect) Option {
	return func(o *options) { o.frame = r }
}

// WithColorMap sets colors applied to every expression the Tex helpers
// build.
func WithColorMap(cm ColorMap) Option {
	return func(o *options) { o.colorMap = cm }
}

// CommandOption configures a viewport command. Each command documents the
// options it honors; the rest are ignored.
type CommandOption func(*commandOptions)

type commandOptions struct {
	target         *Target
	steps          int
	sameItem       bool
	animation      AnimationFunc
	transform      TransformFunc
	runTime        time.Duration
	lagRatio       float64
	slice          *[2]int
	moveNewContent bool
}

func newCommandOptions(opts []CommandOption) commandOptions {
	o := commandOptions{steps: 1, lagRatio: 1, moveNewContent: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTarget addresses a queue item instead of counting steps.
func WithTarget(t Target) CommandOption {
	return func(o *commandOptions) { o.target = &t }
}

// WithSteps sets how many items the command acts on (default 1).
func WithSteps(n int) CommandOption {
	return func(o *commandOptions) { o.steps = n }
}

// WithSameItem re-reveals the items of the previous PrepareNext.
func WithSameItem() CommandOption {
	return func(o *commandOptions) { o.sameItem = true }
}

// WithAnimation sets the per-item animation (Write for reveals, FadeOut for
// fades).
func WithAnimation(f AnimationFunc) CommandOption {
	return func(o *commandOptions) { o.animation = f }
}

// WithTransform sets the morph used by replacements (default
// ReplacementTransform).
func WithTransform(f TransformFunc) CommandOption {
	return func(o *commandOptions) { o.transform = f }
}

// WithRunTime overrides the batch run time.
func WithRunTime(d time.Duration) CommandOption {
	return func(o *commandOptions) { o.runTime = d }
}

// WithLagRatio sets the stagger of a reveal batch: 0 plays items together,
// 1 (default) one after another.
func WithLagRatio(r float64) CommandOption {
	return func(o *commandOptions) { o.lagRatio = r }
}

// WithTargetSlice reveals only glyphs [start, end) of expression items.
func WithTargetSlice(start, end int) CommandOption {
	return func(o *commandOptions) { o.slice = &[2]int{start, end} }
}

// WithoutMove keeps replacement content where it is instead of centering it
// on the replaced item.
func WithoutMove() CommandOption {
	return func(o *commandOptions) { o.moveNewContent = false }
}
