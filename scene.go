package mathscroll

import (
	"context"
	"time"
)

// Scene is the seam to the animation runtime. The core never draws: every
// viewport command ends in exactly one Play call.
//
// Play blocks until the runtime has finished the animation. A zero runTime
// lets the animation's own Duration apply.
type Scene interface {
	Play(ctx context.Context, anim Animation, runTime time.Duration) error

	// Add puts mobjects on stage without animation.
	Add(ms ...Mobject)

	// Remove takes mobjects off stage without animation.
	Remove(ms ...Mobject)
}
