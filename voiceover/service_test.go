package voiceover

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatingService(t *testing.T) {
	s := &EstimatingService{WordsPerMinute: 120, Tail: 250 * time.Millisecond}
	sp, err := s.Synthesize(context.Background(), "one two three four", []Mark{{"A", 2}, {"Z", 9}})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second+250*time.Millisecond, sp.Duration)
	assert.Equal(t, time.Second, sp.Bookmarks["A"])
	assert.Equal(t, 2*time.Second, sp.Bookmarks["Z"], "marks past the text clamp to its end")
	assert.Empty(t, sp.Audio)
}

func TestEstimatingService_DefaultRate(t *testing.T) {
	sp, err := (&EstimatingService{}).Synthesize(context.Background(), "word", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Minute/DefaultWordsPerMinute, sp.Duration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&EstimatingService{}).Synthesize(ctx, "word", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// countingService counts calls to the wrapped service.
type countingService struct {
	Service
	calls int
	fail  error
}

func (s *countingService) Synthesize(ctx context.Context, text string, marks []Mark) (*Speech, error) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	return s.Service.Synthesize(ctx, text, marks)
}

func TestCachingService(t *testing.T) {
	inner := &countingService{Service: &EstimatingService{}}
	s := NewCachingService(inner, 8)
	ctx := context.Background()

	a, err := s.Synthesize(ctx, "hello world", []Mark{{"A", 1}})
	require.NoError(t, err)
	b, err := s.Synthesize(ctx, "hello world", []Mark{{"A", 1}})
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, inner.calls)

	_, err = s.Synthesize(ctx, "hello world", []Mark{{"A", 0}})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "marks are part of the key")

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestCachingService_ErrorsNotCached(t *testing.T) {
	boom := errors.New("engine down")
	inner := &countingService{Service: &EstimatingService{}, fail: boom}
	s := NewCachingService(inner, 8)

	_, err := s.Synthesize(context.Background(), "x", nil)
	assert.ErrorIs(t, err, boom)
	inner.fail = nil
	_, err = s.Synthesize(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
