package recording

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mathscroll"
)

// mockBackend records the calls it receives.
type mockBackend struct {
	info     Info
	calls    []CommandType
	ended    bool
	beginErr error
}

func (b *mockBackend) Begin(info Info) error {
	b.info = info
	return b.beginErr
}

func (b *mockBackend) End() error {
	b.ended = true
	return nil
}

func (b *mockBackend) Play(PlayCommand)       { b.calls = append(b.calls, CmdPlay) }
func (b *mockBackend) Add(AddCommand)         { b.calls = append(b.calls, CmdAdd) }
func (b *mockBackend) Remove(RemoveCommand)   { b.calls = append(b.calls, CmdRemove) }
func (b *mockBackend) Wait(WaitCommand)       { b.calls = append(b.calls, CmdWait) }
func (b *mockBackend) Narrate(NarrateCommand) { b.calls = append(b.calls, CmdNarrate) }

func mock(name string) Registration {
	return Registration{Name: name, Extension: ".mock", New: func() Backend { return &mockBackend{} }}
}

// resetRegistry clears all registered backends for test isolation.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Registration)
}

func TestRegisterAndNewBackend(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	Register(mock("mock"))

	assert.True(t, IsRegistered("mock"))
	r, err := Lookup("mock")
	require.NoError(t, err)
	assert.Equal(t, ".mock", r.Extension)
	b, err := NewBackend("mock")
	require.NoError(t, err)
	assert.IsType(t, &mockBackend{}, b)

	b2 := MustBackend("mock")
	assert.NotSame(t, b, b2, "each call creates a new instance")
}

func TestNewBackend_Unknown(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	_, err := NewBackend("pdf")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	_, err = Lookup("pdf")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, err.Error(), "forgotten import")
	assert.Panics(t, func() { MustBackend("pdf") })
}

func TestRegister_Panics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	assert.Panics(t, func() { Register(Registration{Name: "nil"}) })
	assert.Panics(t, func() { Register(mock("")) })
	assert.Panics(t, func() {
		r := mock("ext")
		r.Extension = "yaml"
		Register(r)
	})
	Register(mock("dup"))
	assert.Panics(t, func() { Register(mock("dup")) })
}

func TestBackendsSorted(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	for _, name := range []string{"trace", "storyboard", "mock"} {
		Register(mock(name))
	}
	assert.Equal(t, []string{"mock", "storyboard", "trace"}, Backends())

	Unregister("mock")
	Unregister("missing")
	assert.Equal(t, []string{"storyboard", "trace"}, Backends())
}

func TestRegistry_Concurrent(t *testing.T) {
	resetRegistry()
	defer resetRegistry()
	Register(mock("mock"))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewBackend("mock")
			assert.NoError(t, err)
			_ = Backends()
		}()
	}
	wg.Wait()
}

func TestPlayback(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(WithTitle("demo"))
	e := expr("ab", 2)

	rec.Narrate("look", time.Second, nil)
	require.NoError(t, rec.Play(ctx, mathscroll.NewWrite(e), 0))
	require.NoError(t, rec.Wait(ctx, time.Second))
	rec.Remove(e)
	rec.Add(e)

	b := &mockBackend{}
	r := rec.FinishRecording()
	require.NoError(t, r.Playback(b))

	assert.Equal(t, []CommandType{CmdNarrate, CmdPlay, CmdWait, CmdRemove, CmdAdd}, b.calls)
	assert.True(t, b.ended)
	assert.Equal(t, "demo", b.info.Title)
	assert.Equal(t, r.ID().String(), b.info.ID)
	assert.Equal(t, 2*time.Second, b.info.Duration)
	assert.Equal(t, 5, b.info.Commands)
}

func TestPlayback_BeginError(t *testing.T) {
	rec := NewRecorder()
	rec.Add(expr("a", 1))
	b := &mockBackend{beginErr: assert.AnError}

	err := rec.FinishRecording().Playback(b)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, b.calls)
	assert.False(t, b.ended)
}
