// Package scenes holds the narrated tutorial scripts shipped with the
// mathscroll command and the plumbing that renders them into recordings.
package scenes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
	"github.com/gogpu/mathscroll/tex"
	"github.com/gogpu/mathscroll/voiceover"
)

// ErrUnknownScene is returned by Lookup for a name with no script.
var ErrUnknownScene = errors.New("scenes: unknown scene")

// Scene is a named tutorial script.
type Scene struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Env is what a script drives: the scroll manager, the narrator and the
// recorder both of them write to.
type Env struct {
	SM       *mathscroll.ScrollManager
	Narrator *voiceover.Narrator
	Recorder *recording.Recorder
}

// Say narrates markup while body runs. See voiceover.Narrator.Say.
func (e *Env) Say(ctx context.Context, markup string, body func(*voiceover.Tracker) error) error {
	return e.Narrator.Say(ctx, markup, body)
}

var registry = []Scene{
	{Name: "pythagoras", Description: "Solve a right triangle for its hypotenuse", Run: pythagoras},
	{Name: "quadratic", Description: "Complete the square of a quadratic", Run: quadratic},
	{Name: "derivative", Description: "Differentiate a polynomial term by term", Run: derivative},
}

// All returns the scenes, sorted by name.
func All() []Scene {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Scene) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the scene names, sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the scene called name.
func Lookup(name string) (Scene, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Scene{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
}

// Options configures Render. Zero fields take the defaults of the
// corresponding packages.
type Options struct {
	Scale    float64
	Buff     float64
	FontSize float64
	Pace     float64

	// Service synthesizes narration. Nil uses an EstimatingService at
	// WordsPerMinute with Tail, behind a cache of CacheSize entries.
	Service        voiceover.Service
	WordsPerMinute float64
	Tail           time.Duration
	CacheSize      int
}

// NewService returns the narration service described by o.
func (o Options) NewService() voiceover.Service {
	if o.Service != nil {
		return o.Service
	}
	size := o.CacheSize
	if size <= 0 {
		size = 64
	}
	return voiceover.NewCachingService(&voiceover.EstimatingService{
		WordsPerMinute: o.WordsPerMinute,
		Tail:           o.Tail,
	}, size)
}

// NewEnv wires a recorder titled name, a scroll manager and a narrator.
func NewEnv(name string, o Options) (*Env, error) {
	rec := recording.NewRecorder(recording.WithTitle(name), recording.WithPace(o.Pace))

	var texOpts []tex.Option
	if o.FontSize > 0 {
		texOpts = append(texOpts, tex.WithSize(o.FontSize))
	}
	smOpts := []mathscroll.Option{
		mathscroll.WithScene(rec),
		mathscroll.WithTypesetter(tex.New(texOpts...)),
	}
	if o.Scale > 0 {
		smOpts = append(smOpts, mathscroll.WithScale(o.Scale))
	}
	if o.Buff > 0 {
		smOpts = append(smOpts, mathscroll.WithBuff(o.Buff))
	}
	sm, err := mathscroll.New(smOpts...)
	if err != nil {
		return nil, err
	}
	return &Env{
		SM:       sm,
		Narrator: voiceover.NewNarrator(o.NewService(), rec),
		Recorder: rec,
	}, nil
}

// Render runs s in a fresh environment and returns the finished recording.
func Render(ctx context.Context, s Scene, o Options) (*recording.Recording, error) {
	env, err := NewEnv(s.Name, o)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := s.Run(ctx, env); err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	r := env.Recorder.FinishRecording()
	mathscroll.Logger().Info("scenes: rendered",
		"scene", s.Name,
		"duration", r.Duration(),
		"commands", len(r.Commands()),
		"elapsed", time.Since(start))
	return r, nil
}

// script collects tex and step errors so a scene can declare its queue
// without checking every call.
type script struct {
	sm    *mathscroll.ScrollManager
	items map[string]mathscroll.Mobject
	err   error
}

func newScript(sm *mathscroll.ScrollManager) *script {
	return &script{sm: sm, items: make(map[string]mathscroll.Mobject)}
}

func (s *script) text(src string) mathscroll.Mobject {
	if s.err != nil {
		return nil
	}
	it, err := s.sm.CreateTex(src)
	if err != nil {
		s.err = err
		return nil
	}
	return it
}

func (s *script) math(src, label string, opts ...mathscroll.TexOption) mathscroll.Mobject {
	if s.err != nil {
		return nil
	}
	it, err := s.sm.CreateMathTex(src, append(opts, mathscroll.TexLabel(label))...)
	if err != nil {
		s.err = err
		return nil
	}
	if label != "" {
		s.items[label] = it.Mobject
	}
	return it
}

func (s *script) annotated(src, note, from, to, label string) mathscroll.Mobject {
	if s.err != nil {
		return nil
	}
	it, err := s.sm.CreateAnnotatedEquation(src, note, from, to, mathscroll.TexLabel(label))
	if err != nil {
		s.err = err
		return nil
	}
	s.items[label] = it.Mobject
	return it
}

// group typesets each source and bundles them into one queue item.
func (s *script) group(label string, srcs ...string) mathscroll.Mobject {
	if s.err != nil {
		return nil
	}
	g := mathscroll.NewGroup()
	for _, src := range srcs {
		it, err := s.sm.CreateMathTex(src)
		if err != nil {
			s.err = err
			return nil
		}
		g.Add(it.Mobject)
	}
	g.Arrange(mathscroll.Right, 0.4, mathscroll.Origin)
	s.items[label] = g
	return mathscroll.WithLabel(g, label)
}

func (s *script) step(items ...mathscroll.Mobject) {
	if s.err != nil {
		return
	}
	_, s.err = s.sm.ConstructStep(items)
}

// get returns the mobject created under label.
func (s *script) get(label string) mathscroll.Mobject {
	return s.items[label]
}

// index returns the queue index of label.
func (s *script) index(label string) (int, error) {
	return s.sm.IndexOf(mathscroll.ByLabel(label))
}
