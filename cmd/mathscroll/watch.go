package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/mathscroll"
)

// errNoConfigFile is returned by watch when no config file was loaded.
var errNoConfigFile = errors.New("--watch needs a config file; run mathscroll init")

// watch calls rerender after every debounced change of the config file
// until ctx is done. Render errors are logged, not returned, so that a
// broken edit can be fixed without restarting.
func (a *app) watch(ctx context.Context, rerender func() error) error {
	path := a.v.ConfigFileUsed()
	if path == "" {
		return errNoConfigFile
	}
	w, err := newConfigWatcher(path, a.cfg.Preview.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	log := mathscroll.Logger()
	log.Info("watching", "file", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.errors:
			log.Warn("watch error", "err", err)
		case <-w.changes:
			if err := a.reload(); err != nil {
				log.Error("config rejected", "err", err)
				continue
			}
			if err := rerender(); err != nil {
				log.Error("render failed", "err", err)
			}
		}
	}
}

// configWatcher reports writes to one file, debounced. Editors often
// replace a file instead of writing it, so the parent directory is
// watched and events are filtered by name.
type configWatcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan struct{}
	errors   chan error
	done     chan struct{}
}

func newConfigWatcher(path string, debounce time.Duration) (*configWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(abs), err)
	}
	w := &configWatcher{
		fs:       fsw,
		path:     abs,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *configWatcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *configWatcher) loop() {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}

func (w *configWatcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && abs == w.path
}
