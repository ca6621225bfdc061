package evaluate

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(n int, cycles float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * cycles * float64(i) / float64(n))
	}
	return out
}

func mix(a []float64, ga float64, b []float64, gb float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = ga*a[i] + gb*b[i]
	}
	return out
}

func TestBSSPerfect(t *testing.T) {
	s1, s2 := tone(1000, 5), tone(1000, 7)
	m, err := BSS([][]float64{s1, s2}, s1, 0)
	require.NoError(t, err)
	assert.Greater(t, m.SDR, 100.0)
	assert.Greater(t, m.SIR, 100.0)
	assert.Greater(t, m.SAR, 100.0)
}

func TestBSSInterference(t *testing.T) {
	s1, s2 := tone(1000, 5), tone(1000, 7)
	m, err := BSS([][]float64{s1, s2}, mix(s1, 1, s2, 0.1), 0)
	require.NoError(t, err)
	assert.InDelta(t, 20, m.SDR, 1e-6)
	assert.InDelta(t, 20, m.SIR, 1e-6)
	assert.Greater(t, m.SAR, 100.0)
}

func TestBSSArtifacts(t *testing.T) {
	s1, s2, noise := tone(1000, 5), tone(1000, 7), tone(1000, 11)
	m, err := BSS([][]float64{s1, s2}, mix(s1, 1, noise, 0.1), 0)
	require.NoError(t, err)
	assert.InDelta(t, 20, m.SDR, 1e-6)
	assert.Greater(t, m.SIR, 100.0)
	assert.InDelta(t, 20, m.SAR, 1e-6)
}

func TestBSSScaledEstimate(t *testing.T) {
	s1, s2 := tone(1000, 5), tone(1000, 7)
	m, err := BSS([][]float64{s1, s2}, mix(s1, 0.5, s2, 0), 0)
	require.NoError(t, err)
	assert.Greater(t, m.SDR, 100.0)
}

func TestBSSErrors(t *testing.T) {
	s1 := tone(100, 3)
	_, err := BSS([][]float64{s1, make([]float64, 100)}, s1, 1)
	assert.ErrorIs(t, err, ErrSilent)

	_, err = BSS([][]float64{s1}, s1[:50], 0)
	assert.Error(t, err)

	_, err = BSS([][]float64{s1}, s1, 2)
	assert.Error(t, err)

	_, err = BSS([][]float64{s1, s1}, s1, 0)
	assert.Error(t, err)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestScan(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNoDirectory)

	dir := t.TempDir()
	for _, s := range []string{"vocals.wav", "Accompaniment.wav", "estimated_vocals.WAV", "estimated_accompaniment.wav", "mixture.wav"} {
		touch(t, filepath.Join(dir, "song", s))
	}
	songs, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "song", songs[0].Name)
	assert.Len(t, songs[0].Tracks, 4)
	assert.Equal(t, filepath.Join(dir, "song", "Accompaniment.wav"), songs[0].Tracks[Accompaniment])

	touch(t, filepath.Join(dir, "other", "vocals.wav"))
	_, err = Scan(dir)
	assert.ErrorIs(t, err, ErrStemMismatch)
}

func TestEvaluate(t *testing.T) {
	const rate = 8000
	dir := t.TempDir()
	write := func(name string, buf []float64) {
		path := filepath.Join(dir, "song", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, audio.SaveWav(path, audio.New(buf, rate), false))
	}
	vocals := mix(tone(rate, 440), 0.4, tone(rate, 1000), 0)
	accompaniment := mix(tone(rate, 440), 0, tone(rate, 1000), 0.4)
	write("vocals.wav", vocals)
	write("accompaniment.wav", accompaniment)
	// separated output is shorter than the references
	write("estimated_vocals.wav", vocals[:rate-300])
	write("estimated_accompaniment.wav", accompaniment[:rate-300])

	cfg := config.Default()
	cfg.Song.SampleRate = rate
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	results, err := NewEvaluator(cfg, log).Evaluate(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "song", results[0].Song)
	assert.Greater(t, results[0].Vocals.SDR, 60.0)
	assert.Greater(t, results[0].Accompaniment.SDR, 60.0)
	assert.Greater(t, results[0].Vocals.SIR, 60.0)

	_, err = NewEvaluator(cfg, log).Evaluate(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrNoDirectory)
}
