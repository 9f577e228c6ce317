// Package trace provides an OpenTelemetry backend for the recording system.
//
// Every recorded command becomes a span on the scene timeline: the scene
// itself is the root span, animation batches are child spans (groups nest
// their children), and voiceover blocks carry one span event per bookmark.
// Span timestamps are the epoch plus scene time, so a trace viewer shows
// the storyboard as a flame graph.
//
// By default spans are written as JSON with the stdout exporter into an
// internal buffer, available through WriteTo and SaveToFile after End.
//
//	import _ "github.com/gogpu/mathscroll/recording/backends/trace"
//
//	b := recording.MustBackend("trace")
package trace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
)

// ServiceName is the service.name resource attribute of scene traces.
const ServiceName = "mathscroll"

func init() {
	recording.Register(recording.Registration{
		Name:      "trace",
		Extension: ".trace.json",
		New:       func() recording.Backend { return New() },
	})
}

var (
	// ErrNotBegun is returned by End before Begin.
	ErrNotBegun = errors.New("trace: End called before Begin")

	// ErrNotEnded is returned by the output methods before End.
	ErrNotEnded = errors.New("trace: output requested before End")

	// ErrExternalExporter is returned by the output methods when spans go
	// to an exporter given with WithExporter.
	ErrExternalExporter = errors.New("trace: spans were sent to an external exporter")
)

// Option configures a Backend.
type Option func(*Backend)

// WithExporter sends spans to exp instead of the internal buffer. The
// exporter is flushed, not shut down, by End.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(b *Backend) { b.external = exp }
}

// WithEpoch sets the wall-clock time of scene time zero.
// The default is the Unix epoch, which keeps traces reproducible.
func WithEpoch(t time.Time) Option {
	return func(b *Backend) { b.epoch = t }
}

// Backend turns a recording into OpenTelemetry spans.
// It implements recording.WriterBackend and recording.FileBackend.
type Backend struct {
	epoch    time.Time
	external sdktrace.SpanExporter

	buf      bytes.Buffer
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	ctx      context.Context
	root     oteltrace.Span
	info     recording.Info
	err      error
	ended    bool
}

// Compile-time checks.
var (
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// New returns a trace backend.
func New(opts ...Option) *Backend {
	b := &Backend{epoch: time.Unix(0, 0).UTC()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin implements recording.Backend.
func (b *Backend) Begin(info recording.Info) error {
	exp := b.external
	if exp == nil {
		b.buf.Reset()
		var err error
		exp, err = stdouttrace.New(stdouttrace.WithWriter(&b.buf))
		if err != nil {
			return fmt.Errorf("trace: create exporter: %w", err)
		}
	}

	b.provider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exp),
	)
	b.tracer = b.provider.Tracer("github.com/gogpu/mathscroll/recording")
	b.info, b.err, b.ended = info, nil, false

	name := "scene"
	if info.Title != "" {
		name = "scene " + info.Title
	}
	b.ctx, b.root = b.tracer.Start(context.Background(), name,
		oteltrace.WithTimestamp(b.epoch),
		oteltrace.WithAttributes(
			attribute.String("mathscroll.recording.id", info.ID),
			attribute.Int("mathscroll.recording.commands", info.Commands),
		))
	return nil
}

// End implements recording.Backend.
func (b *Backend) End() error {
	if b.root == nil {
		return ErrNotBegun
	}
	b.root.End(oteltrace.WithTimestamp(b.at(b.info.Duration)))
	b.root = nil

	ctx := context.Background()
	if err := b.provider.ForceFlush(ctx); err != nil && b.err == nil {
		b.err = fmt.Errorf("trace: flush: %w", err)
	}
	if b.external == nil {
		if err := b.provider.Shutdown(ctx); err != nil && b.err == nil {
			b.err = fmt.Errorf("trace: shutdown: %w", err)
		}
	}
	b.ended = true
	mathscroll.Logger().Debug("trace: finished", "id", b.info.ID, "bytes", b.buf.Len())
	return b.err
}

// Play implements recording.Backend.
func (b *Backend) Play(cmd recording.PlayCommand) {
	b.animation(b.ctx, cmd.Record, cmd.Start, cmd.RunTime,
		attribute.Int("mathscroll.glyphs.introduced", cmd.Introduced),
		attribute.Int("mathscroll.glyphs.removed", cmd.Removed),
		attribute.Int("mathscroll.glyphs.live", cmd.Live),
	)
}

// animation emits the span of r and, for groups, its children on the lag
// schedule, scaled to fit runTime.
func (b *Backend) animation(ctx context.Context, r recording.AnimationRecord, start, runTime time.Duration, attrs ...attribute.KeyValue) {
	attrs = append(attrs,
		attribute.String("mathscroll.animation.kind", r.Kind.String()),
		attribute.Int64("mathscroll.animation.run_time_ms", runTime.Milliseconds()),
	)
	if len(r.Targets) > 0 {
		attrs = append(attrs, attribute.StringSlice("mathscroll.animation.targets", r.Targets))
	}
	ctx, span := b.tracer.Start(ctx, r.Kind.String(),
		oteltrace.WithTimestamp(b.at(start)),
		oteltrace.WithAttributes(attrs...))
	defer span.End(oteltrace.WithTimestamp(b.at(start + runTime)))

	if len(r.Children) == 0 || r.Duration <= 0 {
		return
	}
	scale := float64(runTime) / float64(r.Duration)
	offset := time.Duration(0)
	for _, c := range r.Children {
		d := time.Duration(float64(c.Duration) * scale)
		b.animation(ctx, c, start+offset, d)
		offset += time.Duration(float64(d) * r.LagRatio)
	}
}

// Add implements recording.Backend.
func (b *Backend) Add(cmd recording.AddCommand) {
	b.root.AddEvent("add",
		oteltrace.WithTimestamp(b.at(cmd.Start)),
		oteltrace.WithAttributes(
			attribute.StringSlice("mathscroll.mobjects", cmd.Mobjects),
			attribute.Int("mathscroll.glyphs", cmd.Glyphs),
		))
}

// Remove implements recording.Backend.
func (b *Backend) Remove(cmd recording.RemoveCommand) {
	b.root.AddEvent("remove",
		oteltrace.WithTimestamp(b.at(cmd.Start)),
		oteltrace.WithAttributes(
			attribute.StringSlice("mathscroll.mobjects", cmd.Mobjects),
			attribute.Int("mathscroll.glyphs", cmd.Glyphs),
		))
}

// Wait implements recording.Backend.
func (b *Backend) Wait(cmd recording.WaitCommand) {
	_, span := b.tracer.Start(b.ctx, "Wait", oteltrace.WithTimestamp(b.at(cmd.Start)))
	span.End(oteltrace.WithTimestamp(b.at(cmd.Start + cmd.Duration)))
}

// Narrate implements recording.Backend.
func (b *Backend) Narrate(cmd recording.NarrateCommand) {
	_, span := b.tracer.Start(b.ctx, "Narrate",
		oteltrace.WithTimestamp(b.at(cmd.Start)),
		oteltrace.WithAttributes(attribute.String("mathscroll.voiceover.text", cmd.Text)))
	for _, bm := range cmd.Bookmarks {
		span.AddEvent("bookmark",
			oteltrace.WithTimestamp(b.at(cmd.Start+bm.Offset)),
			oteltrace.WithAttributes(attribute.String("mathscroll.voiceover.mark", bm.Mark)))
	}
	span.End(oteltrace.WithTimestamp(b.at(cmd.Start + cmd.Duration)))
}

// WriteTo implements recording.WriterBackend. It writes the spans as JSON,
// one object per span.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if err := b.output(); err != nil {
		return 0, err
	}
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

// SaveToFile implements recording.FileBackend.
func (b *Backend) SaveToFile(path string) error {
	if err := b.output(); err != nil {
		return err
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o750); err != nil {
		return fmt.Errorf("trace: create directory: %w", err)
	}
	if err := os.WriteFile(clean, b.buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("trace: write: %w", err)
	}
	return nil
}

func (b *Backend) output() error {
	if !b.ended {
		return ErrNotEnded
	}
	if b.external != nil {
		return ErrExternalExporter
	}
	return nil
}

func (b *Backend) at(d time.Duration) time.Time {
	return b.epoch.Add(d)
}
