package scenes

import (
	"context"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/voiceover"
)

func pythagoras(ctx context.Context, env *Env) error {
	sm := env.SM
	s := newScript(sm)
	s.step(s.text(`The Pythagorean theorem`), s.math(`a^2+b^2=c^2`, "theorem"))
	s.step(s.text(`Take $a=3$ and $b=4$`), s.math(`3^2+4^2=c^2`, "substituted"))
	s.step(s.text(`Square both legs and add`), s.math(`9+16=c^2`, "sum"), s.math(`c^2=25`, "square"))
	s.step(s.math(`c=\sqrt{25}`, "root"))
	if s.err != nil {
		return s.err
	}

	err := env.Say(ctx, `In a right triangle <bookmark mark="law"/> the squares of the legs add up to the square of the hypotenuse.`,
		func(tr *voiceover.Tracker) error {
			if err := sm.PrepareNext(ctx); err != nil {
				return err
			}
			if err := tr.WaitUntilBookmark(ctx, "law"); err != nil {
				return err
			}
			return sm.PrepareNext(ctx)
		})
	if err != nil {
		return err
	}

	theorem := s.get("theorem").(*mathscroll.Expression)
	hyp, err := sm.Locator().FindElement(theorem, `c^2`)
	if err != nil {
		return err
	}
	if err := sm.Indicate(ctx, hyp); err != nil {
		return err
	}

	// The frame stays up until the theorem scrolls away.
	frame := mathscroll.SurroundingRectangle(theorem, 0.1, mathscroll.Yellow)
	if err := sm.Scene().Play(ctx, mathscroll.NewCreate(frame), 0); err != nil {
		return err
	}
	if _, err := sm.AttachCalloutAtScroll(2, frame); err != nil {
		return err
	}

	err = env.Say(ctx, `Take a equal to three and b equal to four.`, func(*voiceover.Tracker) error {
		return sm.PrepareNext(ctx, mathscroll.WithSteps(2))
	})
	if err != nil {
		return err
	}
	if err := sm.ScrollDown(ctx, mathscroll.WithSteps(2)); err != nil {
		return err
	}

	err = env.Say(ctx, `Square both legs <bookmark mark="add"/> and add them up.`, func(tr *voiceover.Tracker) error {
		if err := sm.PrepareNext(ctx, mathscroll.WithSteps(2)); err != nil {
			return err
		}
		if err := tr.WaitUntilBookmark(ctx, "add"); err != nil {
			return err
		}
		return sm.TransformFromCopy(ctx, s.get("sum"), mathscroll.WithTarget(mathscroll.ByLabel("square")))
	})
	if err != nil {
		return err
	}

	if err := sm.PrepareNext(ctx); err != nil {
		return err
	}
	five, err := sm.CreateMathTex(`c=5`)
	if err != nil {
		return err
	}
	root, err := s.index("root")
	if err != nil {
		return err
	}
	green := mathscroll.Green
	err = env.Say(ctx, `So the hypotenuse is five.`, func(*voiceover.Tracker) error {
		return sm.HighlightAndReplace(ctx, root, five.Mobject, mathscroll.HighlightOptions{FinalColor: &green})
	})
	if err != nil {
		return err
	}
	return sm.FadeOutAllInView(ctx)
}
