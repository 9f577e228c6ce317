// Package storyboard provides a YAML storyboard backend for the recording
// system.
//
// A storyboard lists every recorded command with its start time: the
// animation batches with their targets and glyph counts, held frames and
// voiceover blocks. Storyboards are stable across runs of the same script
// (apart from the session id), which makes them useful as golden files.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/mathscroll/recording/backends/storyboard"
//
//	b := recording.MustBackend("storyboard")
//	if err := rec.FinishRecording().Playback(b); err != nil { ... }
//	b.(recording.FileBackend).SaveToFile("scene.yaml")
package storyboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
)

func init() {
	recording.Register(recording.Registration{
		Name:      "storyboard",
		Extension: ".yaml",
		New:       func() recording.Backend { return New() },
	})
}

var (
	// ErrNotBegun is returned by End before Begin.
	ErrNotBegun = errors.New("storyboard: End called before Begin")

	// ErrNotEnded is returned by the output methods before End.
	ErrNotEnded = errors.New("storyboard: output requested before End")
)

// Storyboard is the document a Backend produces.
type Storyboard struct {
	Title    string  `yaml:"title,omitempty"`
	ID       string  `yaml:"id,omitempty"`
	Duration string  `yaml:"duration"`
	Events   []Event `yaml:"events"`
}

// Event is one recorded command.
type Event struct {
	At   string `yaml:"at"`
	Type string `yaml:"type"`

	// Play
	RunTime   string       `yaml:"run_time,omitempty"`
	Animation *Animation   `yaml:"animation,omitempty"`
	Glyphs    *GlyphCounts `yaml:"glyphs,omitempty"`

	// Add, Remove
	Mobjects []string `yaml:"mobjects,omitempty,flow"`

	// Wait, Narrate
	Duration  string     `yaml:"duration,omitempty"`
	Text      string     `yaml:"text,omitempty"`
	Bookmarks []Bookmark `yaml:"bookmarks,omitempty"`
}

// Animation describes an animation and, for groups, its children.
type Animation struct {
	Kind     string      `yaml:"kind"`
	Duration string      `yaml:"duration"`
	LagRatio float64     `yaml:"lag_ratio,omitempty"`
	Targets  []string    `yaml:"targets,omitempty,flow"`
	Children []Animation `yaml:"children,omitempty"`
}

// GlyphCounts are the stage changes of a Play event.
type GlyphCounts struct {
	Introduced int `yaml:"introduced"`
	Removed    int `yaml:"removed"`
	Live       int `yaml:"live"`
}

// Bookmark is a named instant of a voiceover block.
type Bookmark struct {
	Mark   string `yaml:"mark"`
	Offset string `yaml:"offset"`
}

// Backend collects a Storyboard from a recording.
// It implements recording.WriterBackend and recording.FileBackend.
type Backend struct {
	board Storyboard
	begun bool
	ended bool
}

// Compile-time checks.
var (
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// New returns an empty storyboard backend.
func New() *Backend {
	return &Backend{}
}

// Begin implements recording.Backend.
func (b *Backend) Begin(info recording.Info) error {
	b.board = Storyboard{
		Title:    info.Title,
		ID:       info.ID,
		Duration: info.Duration.String(),
		Events:   make([]Event, 0, info.Commands),
	}
	b.begun, b.ended = true, false
	return nil
}

// End implements recording.Backend.
func (b *Backend) End() error {
	if !b.begun {
		return ErrNotBegun
	}
	b.ended = true
	mathscroll.Logger().Debug("storyboard: finished",
		"title", b.board.Title, "events", len(b.board.Events))
	return nil
}

// Play implements recording.Backend.
func (b *Backend) Play(cmd recording.PlayCommand) {
	a := animation(cmd.Record)
	b.board.Events = append(b.board.Events, Event{
		At:        cmd.Start.String(),
		Type:      cmd.Type().String(),
		RunTime:   cmd.RunTime.String(),
		Animation: &a,
		Glyphs: &GlyphCounts{
			Introduced: cmd.Introduced,
			Removed:    cmd.Removed,
			Live:       cmd.Live,
		},
	})
}

// Add implements recording.Backend.
func (b *Backend) Add(cmd recording.AddCommand) {
	b.board.Events = append(b.board.Events, Event{
		At: cmd.Start.String(), Type: cmd.Type().String(), Mobjects: cmd.Mobjects,
	})
}

// Remove implements recording.Backend.
func (b *Backend) Remove(cmd recording.RemoveCommand) {
	b.board.Events = append(b.board.Events, Event{
		At: cmd.Start.String(), Type: cmd.Type().String(), Mobjects: cmd.Mobjects,
	})
}

// Wait implements recording.Backend.
func (b *Backend) Wait(cmd recording.WaitCommand) {
	b.board.Events = append(b.board.Events, Event{
		At: cmd.Start.String(), Type: cmd.Type().String(), Duration: cmd.Duration.String(),
	})
}

// Narrate implements recording.Backend.
func (b *Backend) Narrate(cmd recording.NarrateCommand) {
	ev := Event{
		At:       cmd.Start.String(),
		Type:     cmd.Type().String(),
		Text:     cmd.Text,
		Duration: cmd.Duration.String(),
	}
	for _, bm := range cmd.Bookmarks {
		ev.Bookmarks = append(ev.Bookmarks, Bookmark{Mark: bm.Mark, Offset: bm.Offset.String()})
	}
	b.board.Events = append(b.board.Events, ev)
}

// Storyboard returns the collected document.
func (b *Backend) Storyboard() *Storyboard {
	return &b.board
}

// WriteTo implements recording.WriterBackend.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.ended {
		return 0, ErrNotEnded
	}
	data, err := b.board.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// SaveToFile implements recording.FileBackend. Parent directories are
// created as needed.
func (b *Backend) SaveToFile(path string) error {
	if !b.ended {
		return ErrNotEnded
	}
	data, err := b.board.Marshal()
	if err != nil {
		return err
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o750); err != nil {
		return fmt.Errorf("storyboard: create directory: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o600); err != nil {
		return fmt.Errorf("storyboard: write: %w", err)
	}
	mathscroll.Logger().Info("storyboard: written", "path", clean, "events", len(b.board.Events))
	return nil
}

// Marshal encodes the storyboard as YAML with two-space indentation.
func (s *Storyboard) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("storyboard: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("storyboard: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Load decodes a storyboard from YAML.
func Load(r io.Reader) (*Storyboard, error) {
	var s Storyboard
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("storyboard: decode: %w", err)
	}
	return &s, nil
}

// LoadFile decodes a storyboard file.
func LoadFile(path string) (*Storyboard, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("storyboard: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// TotalDuration parses the Duration field.
func (s *Storyboard) TotalDuration() (time.Duration, error) {
	return time.ParseDuration(s.Duration)
}

// Count returns the number of events of the given type ("Play", "Wait", ...).
func (s *Storyboard) Count(typ string) int {
	n := 0
	for _, e := range s.Events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func animation(r recording.AnimationRecord) Animation {
	a := Animation{
		Kind:     r.Kind.String(),
		Duration: r.Duration.String(),
		LagRatio: r.LagRatio,
		Targets:  r.Targets,
	}
	for _, c := range r.Children {
		a.Children = append(a.Children, animation(c))
	}
	return a
}
