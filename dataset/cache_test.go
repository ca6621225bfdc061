package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(CacheOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenCacheNeedsDir(t *testing.T) {
	_, err := OpenCache(CacheOptions{})
	assert.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	c := openMemoryCache(t)

	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	amp := [][]float64{{-80, -12.5, 0}, {3.25, 40, -0.5}}
	require.NoError(t, c.Put("k", amp))
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, amp, got)
}

func TestCacheOnDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenCache(CacheOptions{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, c.Put("k", [][]float64{{1, 2}}))
	require.NoError(t, c.Close())

	c, err = OpenCache(CacheOptions{Dir: dir, Logger: quietLogger()})
	require.NoError(t, err)
	defer c.Close()
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][]float64{{1, 2}}, got)
}

func TestLoaderFillsCache(t *testing.T) {
	name := filepath.Join(t.TempDir(), "mixture.wav")
	writeSine(t, name, rate/4, 440)

	cfg := testConfig()
	cache := openMemoryCache(t)
	l := NewLoader(cfg, quietLogger(), cache)

	amp, err := l.Amplitude(name)
	require.NoError(t, err)

	key, err := Key(name, cfg.Song.SampleRate, cfg.Transform())
	require.NoError(t, err)
	cached, ok, err := cache.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cached, amp)

	exact, err := NewLoader(cfg, quietLogger(), nil).Amplitude(name)
	require.NoError(t, err)
	require.Len(t, exact, len(amp))
	for y := range amp {
		for x := range amp[y] {
			// half precision
			assert.InDelta(t, exact[y][x], amp[y][x], 0.05+1e-3*abs(exact[y][x]))
		}
	}

	again, err := l.Amplitude(name)
	require.NoError(t, err)
	assert.Equal(t, cached, again)

	other := cfg.Transform()
	other.HopLength = 32
	otherKey, err := Key(name, cfg.Song.SampleRate, other)
	require.NoError(t, err)
	assert.NotEqual(t, key, otherKey)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
