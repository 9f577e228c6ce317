package scenes

import (
	"context"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/voiceover"
)

func derivative(ctx context.Context, env *Env) error {
	sm := env.SM
	s := newScript(sm)
	powers := mathscroll.TexColorMap(mathscroll.ColorMap{`x^2`: mathscroll.Blue})
	s.step(s.text(`Differentiate term by term`), s.math(`f(x)=3x^2+2x+1`, "f", powers))
	s.step(s.text(`The power rule`), s.math(`\frac{d}{dx}x^n=nx^{n-1}`, "rule"))
	s.step(s.math(`f'(x)=6x+2`, "df"))
	s.step(s.group("second", `f''(x)=6`, `f'''(x)=0`))
	if s.err != nil {
		return s.err
	}

	err := env.Say(ctx, `Here is a polynomial.`, func(*voiceover.Tracker) error {
		return sm.PrepareNext(ctx, mathscroll.WithSteps(2))
	})
	if err != nil {
		return err
	}
	f := s.get("f").(*mathscroll.Expression)
	square, err := sm.Locator().FindElement(f, `x^2`)
	if err != nil {
		return err
	}
	if err := sm.Indicate(ctx, square); err != nil {
		return err
	}

	err = env.Say(ctx, `Each term follows <bookmark mark="rule"/> the power rule.`, func(tr *voiceover.Tracker) error {
		if err := sm.PrepareNext(ctx); err != nil {
			return err
		}
		if err := tr.WaitUntilBookmark(ctx, "rule"); err != nil {
			return err
		}
		return sm.PrepareNext(ctx,
			mathscroll.WithTarget(mathscroll.ByLabel("rule")),
			mathscroll.WithAnimation(mathscroll.NewFadeIn))
	})
	if err != nil {
		return err
	}

	err = env.Say(ctx, `The derivative is named first, <bookmark mark="body"/> then bring each exponent down.`,
		func(tr *voiceover.Tracker) error {
			if err := sm.PrepareNext(ctx, mathscroll.WithTargetSlice(0, 5)); err != nil {
				return err
			}
			if err := tr.WaitUntilBookmark(ctx, "body"); err != nil {
				return err
			}
			return sm.PrepareNext(ctx, mathscroll.WithSameItem())
		})
	if err != nil {
		return err
	}

	if err := sm.ScrollDown(ctx, mathscroll.WithTarget(mathscroll.ByIndex(2))); err != nil {
		return err
	}
	err = env.Say(ctx, `Keep going until nothing is left.`, func(*voiceover.Tracker) error {
		return sm.PrepareNext(ctx)
	})
	if err != nil {
		return err
	}
	if err := sm.FadeOutInView(ctx); err != nil {
		return err
	}
	return sm.FadeOutAllInView(ctx)
}
