package scenes

import (
	"context"
	"time"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/voiceover"
)

func quadratic(ctx context.Context, env *Env) error {
	sm := env.SM
	s := newScript(sm)
	s.step(s.text(`Solve by completing the square`), s.math(`x^2+6x+5=0`, "eq"))
	s.step(s.text(`Move the constant, then add $9$ to both sides`),
		s.annotated(`x^2+6x=-5`, `+9`, `6x`, `-5`, "moved"),
		s.math(`x^2+6x+9=4`, "added"))
	s.step(s.text(`Factor the left side`), s.math(`(x+3)^2=4`, "square"), s.math(`x+3=\pm 2`, "roots"))
	if s.err != nil {
		return s.err
	}

	err := env.Say(ctx, `Let us solve this quadratic by completing the square.`, func(*voiceover.Tracker) error {
		return sm.PrepareNext(ctx, mathscroll.WithSteps(2))
	})
	if err != nil {
		return err
	}

	err = env.Say(ctx, `Move the five across, <bookmark mark="nine"/> then add nine to both sides.`,
		func(tr *voiceover.Tracker) error {
			if err := sm.PrepareNext(ctx, mathscroll.WithSteps(2)); err != nil {
				return err
			}
			if err := tr.WaitUntilBookmark(ctx, "nine"); err != nil {
				return err
			}
			return sm.FadeInFromTarget(ctx, s.get("moved"))
		})
	if err != nil {
		return err
	}

	if err := sm.ScrollDown(ctx, mathscroll.WithSteps(2)); err != nil {
		return err
	}
	if err := sm.PrepareNext(ctx, mathscroll.WithSteps(2), mathscroll.WithLagRatio(0.5)); err != nil {
		return err
	}
	if err := sm.TransformFromCopy(ctx, s.get("square")); err != nil {
		return err
	}

	square, err := s.index("square")
	if err != nil {
		return err
	}
	roots, err := s.index("roots")
	if err != nil {
		return err
	}
	powered, err := sm.CreateMathTex(`(x+3)^2=2^2`)
	if err != nil {
		return err
	}
	shifted, err := sm.CreateMathTex(`x=-3\pm 2`)
	if err != nil {
		return err
	}
	err = env.Say(ctx, `Four is two squared, <bookmark mark="back"/> so x plus three is plus or minus two.`,
		func(tr *voiceover.Tracker) error {
			err := sm.CascadeUpdate(ctx, square, []mathscroll.Mobject{powered.Mobject, shifted.Mobject},
				300*time.Millisecond, mathscroll.WithRunTime(800*time.Millisecond))
			if err != nil {
				return err
			}
			if err := tr.WaitUntilBookmark(ctx, "back"); err != nil {
				return err
			}
			return sm.RestoreOriginal(ctx, roots)
		})
	if err != nil {
		return err
	}

	solutions, err := sm.CreateMathTex(`x=-1 \text{ or } x=-5`)
	if err != nil {
		return err
	}
	err = env.Say(ctx, `The roots are minus one and minus five.`, func(*voiceover.Tracker) error {
		return sm.ReplaceRangeInPlace(ctx, square, roots+1, solutions.Mobject)
	})
	if err != nil {
		return err
	}
	return sm.FadeOutAllInView(ctx)
}
