package trace

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/recording"
)

func expr(src string) *mathscroll.Expression {
	var glyphs []*mathscroll.Glyph
	for i, r := range src {
		x := float64(i)
		glyphs = append(glyphs, &mathscroll.Glyph{
			Shape:   mathscroll.ShapeKey(0x100 + r),
			Text:    string(r),
			Box:     mathscroll.Rect{MinX: x, MaxX: x + 0.8, MaxY: 1},
			Color:   mathscroll.White,
			Opacity: 1,
		})
	}
	return mathscroll.NewExpression(src, mathscroll.MathTemplate, glyphs)
}

func record(t *testing.T) *recording.Recording {
	t.Helper()
	ctx := context.Background()
	rec := recording.NewRecorder(recording.WithTitle("demo"))
	a, b := expr("ab"), expr("cd")

	rec.Narrate("watch", 2*time.Second, []recording.Bookmark{{Mark: "A", Offset: 1500 * time.Millisecond}})
	require.NoError(t, rec.Play(ctx, mathscroll.Sequence(mathscroll.NewWrite(a), mathscroll.NewWrite(b)), 4*time.Second))
	require.NoError(t, rec.Wait(ctx, time.Second))
	rec.Add(a)
	return rec.FinishRecording()
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestBackendRegistered(t *testing.T) {
	assert.Contains(t, recording.Backends(), "trace")
}

func TestBackend_Spans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New(WithExporter(exp), WithEpoch(epoch))
	require.NoError(t, record(t).Playback(b))

	spans := exp.GetSpans()
	byName := make(map[string]tracetest.SpanStub)
	for _, s := range spans {
		byName[s.Name] = s
	}
	require.Len(t, spans, 6, "root, narrate, group, two writes, wait")

	root := byName["scene demo"]
	assert.Equal(t, epoch, root.StartTime)
	assert.Equal(t, epoch.Add(5*time.Second), root.EndTime)
	require.Len(t, root.Events, 1)
	assert.Equal(t, "add", root.Events[0].Name)

	group := byName["AnimationGroup"]
	assert.Equal(t, root.SpanContext.SpanID(), group.Parent.SpanID())
	assert.Equal(t, epoch, group.StartTime)
	assert.Equal(t, epoch.Add(4*time.Second), group.EndTime)
	live, ok := attr(group.Attributes, "mathscroll.glyphs.live")
	require.True(t, ok)
	assert.Equal(t, int64(4), live.AsInt64())

	var writes []tracetest.SpanStub
	for _, s := range spans {
		if s.Name == "Write" {
			writes = append(writes, s)
		}
	}
	require.Len(t, writes, 2)
	for _, w := range writes {
		assert.Equal(t, group.SpanContext.SpanID(), w.Parent.SpanID())
	}
	assert.Equal(t, epoch.Add(2*time.Second), writes[1].StartTime, "children are scaled to the batch run time")
	targets, ok := attr(writes[1].Attributes, "mathscroll.animation.targets")
	require.True(t, ok)
	assert.Equal(t, []string{"tex(cd)"}, targets.AsStringSlice())

	narrate := byName["Narrate"]
	require.Len(t, narrate.Events, 1)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), narrate.Events[0].Time)

	wait := byName["Wait"]
	assert.Equal(t, epoch.Add(4*time.Second), wait.StartTime)

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	assert.ErrorIs(t, err, ErrExternalExporter)
}

func TestBackend_JSONOutput(t *testing.T) {
	b := New()
	require.NoError(t, record(t).Playback(b))

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	require.Positive(t, n)

	dec := json.NewDecoder(&buf)
	names := map[string]bool{}
	for dec.More() {
		var span struct{ Name string }
		require.NoError(t, dec.Decode(&span))
		names[span.Name] = true
	}
	assert.True(t, names["scene demo"])
	assert.True(t, names["Wait"])

	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, b.SaveToFile(path))
}

func TestBackend_Lifecycle(t *testing.T) {
	b := New()
	assert.ErrorIs(t, b.End(), ErrNotBegun)
	_, err := b.WriteTo(bufio.NewWriter(&bytes.Buffer{}))
	assert.ErrorIs(t, err, ErrNotEnded)
}
