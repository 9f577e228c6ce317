package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/internal/config"
	"github.com/gogpu/mathscroll/internal/scenes"
	"github.com/gogpu/mathscroll/recording"
	"github.com/gogpu/mathscroll/voiceover"

	// Register the recording backends.
	_ "github.com/gogpu/mathscroll/recording/backends/storyboard"
	_ "github.com/gogpu/mathscroll/recording/backends/trace"
)

func newRenderCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "render [scene...]",
		Short: "Render scenes through the configured backends",
		Long: `Render the named scenes, or every scene when none is named. Each
backend writes <output.dir>/<scene><ext>: .yaml for storyboard and
.trace.json for trace.

With --watch the scenes are rendered again whenever the config file
changes, until interrupted.

Examples:
  mathscroll render
  mathscroll render pythagoras -b storyboard -b trace
  mathscroll render quadratic --watch`,
		ValidArgs: scenes.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			selected, err := selectScenes(args)
			if err != nil {
				return err
			}
			r := &renderer{cfg: a.cfg}
			r.svc = r.newService()

			if err := r.renderAll(ctx, selected, cmd); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.watch(ctx, func() error {
				r.cfg = a.cfg
				return r.renderAll(ctx, selected, cmd)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the config file changes")
	return cmd
}

func selectScenes(names []string) ([]scenes.Scene, error) {
	if len(names) == 0 {
		return scenes.All(), nil
	}
	out := make([]scenes.Scene, 0, len(names))
	for _, n := range names {
		s, err := scenes.Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// renderer renders scenes with one configuration. The speech service is
// shared between renders so that watch mode reuses synthesized narration.
type renderer struct {
	cfg config.Config
	svc voiceover.Service
}

func (r *renderer) newService() voiceover.Service {
	return r.options().NewService()
}

func (r *renderer) options() scenes.Options {
	c := r.cfg
	return scenes.Options{
		Scale:          c.Layout.Scale,
		Buff:           c.Layout.Buff,
		FontSize:       c.Layout.FontSize,
		Pace:           c.Preview.Pace,
		Service:        r.svc,
		WordsPerMinute: c.Voiceover.WordsPerMinute,
		Tail:           c.Voiceover.Tail,
		CacheSize:      c.Voiceover.CacheSize,
	}
}

// renderAll renders the scenes concurrently and prints one line per
// written file.
func (r *renderer) renderAll(ctx context.Context, ss []scenes.Scene, cmd *cobra.Command) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	written := make([][]string, len(ss))
	for i, s := range ss {
		g.Go(func() error {
			paths, err := r.render(ctx, s)
			written[i] = paths
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, paths := range written {
		for _, p := range paths {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
				return err
			}
		}
	}
	return nil
}

// render records s once and plays it back through every backend.
func (r *renderer) render(ctx context.Context, s scenes.Scene) ([]string, error) {
	rec, err := scenes.Render(ctx, s, r.options())
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(r.cfg.Output.Backends))
	for _, name := range r.cfg.Output.Backends {
		reg, err := recording.Lookup(name)
		if err != nil {
			return nil, err
		}
		b := reg.New()
		if err := rec.Playback(b); err != nil {
			return nil, fmt.Errorf("%s: playback to %s: %w", s.Name, name, err)
		}
		fb, ok := b.(recording.FileBackend)
		if !ok {
			return nil, fmt.Errorf("%s: backend %s cannot write files", s.Name, name)
		}
		path := filepath.Join(r.cfg.Output.Dir, s.Name+reg.Extension)
		if err := fb.SaveToFile(path); err != nil {
			return nil, err
		}
		mathscroll.Logger().Debug("render: wrote", "scene", s.Name, "backend", name, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
