package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedGetSet(t *testing.T) {
	c := NewSharded[string, int](4, StringHasher)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestShardedEviction(t *testing.T) {
	// A constant hasher puts every key in shard 0.
	c := NewSharded[string, int](2, func(string) uint64 { return 0 })

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a") // a is now most recently used
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry must be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestShardedGetOrCreate(t *testing.T) {
	c := NewSharded[string, int](0, StringHasher)
	calls := 0
	create := func() (int, error) {
		calls++
		return 7, nil
	}

	v, err := c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = c.GetOrCreate("k", create)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.InDelta(t, 0.5, st.HitRate(), 1e-9)
}

func TestShardedGetOrCreateErrorNotCached(t *testing.T) {
	c := NewSharded[string, int](0, StringHasher)
	boom := errors.New("boom")

	_, err := c.GetOrCreate("k", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestShardedDeleteClear(t *testing.T) {
	c := NewSharded[string, int](0, StringHasher)
	c.Set("a", 1)
	c.Set("b", 2)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestShardedConcurrent(t *testing.T) {
	c := NewSharded[string, int](64, StringHasher)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := strconv.Itoa(i % 50)
				_, _ = c.GetOrCreate(key, func() (int, error) { return i, nil })
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
