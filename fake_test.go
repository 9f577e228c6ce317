package mathscroll

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"
	"unicode"
)

// runeTypesetter lays every non-space rune out as one glyph on a baseline,
// left to right. Shapes depend on the rune only.
type runeTypesetter struct {
	calls int
	fail  error
}

func (ts *runeTypesetter) Typeset(source string, tmpl Template) (*Expression, error) {
	ts.calls++
	if ts.fail != nil {
		return nil, ts.fail
	}
	s := tmpl.EffectiveScale()
	var glyphs []*Glyph
	x := 0.0
	for _, r := range source {
		if unicode.IsSpace(r) {
			x += 0.25 * s
			continue
		}
		h := fnv.New64a()
		h.Write([]byte(string(r)))
		glyphs = append(glyphs, &Glyph{
			Shape:   ShapeKey(h.Sum64() | 0x100),
			Text:    string(r),
			Box:     Rect{MinX: x, MinY: 0, MaxX: x + 0.4*s, MaxY: 0.6 * s},
			Color:   White,
			Opacity: 1,
		})
		x += 0.5 * s
	}
	return NewExpression(source, tmpl, glyphs), nil
}

func mathExpr(ts Typesetter, src string) *Expression {
	e, err := ts.Typeset(src, MathTemplate)
	if err != nil {
		panic(err)
	}
	return e
}

// played is one Play call seen by recordingScene.
type played struct {
	anim    Animation
	runTime time.Duration
}

// recordingScene keeps every batch and the set of glyphs on stage.
type recordingScene struct {
	plays []played
	live  map[*Glyph]struct{}
	fail  error
}

func newRecordingScene() *recordingScene {
	return &recordingScene{live: make(map[*Glyph]struct{})}
}

func (s *recordingScene) Play(ctx context.Context, anim Animation, runTime time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.fail != nil {
		return s.fail
	}
	s.plays = append(s.plays, played{anim: anim, runTime: runTime})
	s.Remove(Removed(anim)...)
	s.Add(Introduced(anim)...)
	return nil
}

func (s *recordingScene) Add(ms ...Mobject) {
	for _, g := range uniqueGlyphs(ms...) {
		s.live[g] = struct{}{}
	}
}

func (s *recordingScene) Remove(ms ...Mobject) {
	for _, g := range uniqueGlyphs(ms...) {
		delete(s.live, g)
	}
}

func (s *recordingScene) onStage(m Mobject) bool {
	gs := m.Glyphs()
	if len(gs) == 0 {
		return false
	}
	for _, g := range gs {
		if _, ok := s.live[g]; !ok {
			return false
		}
	}
	return true
}

func (s *recordingScene) offStage(m Mobject) bool {
	for _, g := range m.Glyphs() {
		if _, ok := s.live[g]; ok {
			return false
		}
	}
	return true
}

func (s *recordingScene) last() Animation {
	if len(s.plays) == 0 {
		return nil
	}
	return s.plays[len(s.plays)-1].anim
}

var errSceneDown = errors.New("scene down")

// newTestManager returns a manager over a runeTypesetter and a recording
// scene, with n single-expression steps labeled s0, s1 and so on.
func newTestManager(t interface{ Fatalf(string, ...any) }, n int, opts ...Option) (*ScrollManager, *recordingScene) {
	sc := newRecordingScene()
	ts := &runeTypesetter{}
	m, err := New(append([]Option{WithTypesetter(ts), WithScene(sc)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := range n {
		item, err := m.CreateMathTex(stepSource(i), TexLabel(stepLabel(i)))
		if err != nil {
			t.Fatalf("CreateMathTex: %v", err)
		}
		if _, err := m.ConstructStep([]Mobject{item}); err != nil {
			t.Fatalf("ConstructStep: %v", err)
		}
	}
	return m, sc
}

func stepSource(i int) string { return fmt.Sprintf("x_%d = %d", i, i*i) }

func stepLabel(i int) string { return fmt.Sprintf("s%d", i) }
