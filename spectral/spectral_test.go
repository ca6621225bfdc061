package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/neurlang/gosep/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()*2 - 1
	}
	return out
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewConfig(1024, 256).Validate())
	assert.NoError(t, NewConfig(64, 32).Validate())
	assert.NoError(t, NewConfig(3, 1).Validate())
	assert.ErrorIs(t, NewConfig(1, 1).Validate(), ErrConfig)
	assert.ErrorIs(t, NewConfig(2, 1).Validate(), ErrConfig)
	assert.ErrorIs(t, NewConfig(64, 0).Validate(), ErrConfig)
	assert.ErrorIs(t, NewConfig(64, 33).Validate(), ErrConfig)

	cfg := NewConfig(64, 16)
	cfg.AMin = 0
	assert.ErrorIs(t, cfg.Validate(), ErrConfig)
}

func TestTransformShape(t *testing.T) {
	cfg := NewConfig(64, 16)
	f, err := Transform(audio.New(noise(1000, 1), 8000), cfg, Options{})
	require.NoError(t, err)

	assert.Equal(t, 33, f.Bins())
	assert.Equal(t, 1+1000/16, f.Frames())
	assert.Equal(t, cfg.Frames(1000), f.Frames())
	assert.Equal(t, 1000, f.Length)
	assert.Equal(t, 8000, f.SampleRate)
	assert.Nil(t, f.Spectrogram)
}

func TestTransformConsumesSignal(t *testing.T) {
	sig := audio.New(noise(300, 2), 8000)
	_, err := Transform(sig, NewConfig(64, 16), Options{})
	require.NoError(t, err)
	assert.True(t, sig.Consumed())

	_, err = Transform(sig, NewConfig(64, 16), Options{})
	assert.ErrorIs(t, err, audio.ErrConsumed)
}

func TestTransformKeepSignal(t *testing.T) {
	sig := audio.New(noise(300, 3), 8000)
	_, err := Transform(sig, NewConfig(64, 16), Options{KeepSignal: true})
	require.NoError(t, err)
	assert.False(t, sig.Consumed())
	assert.Equal(t, 300, sig.Len())
}

func TestTransformInvalidConfig(t *testing.T) {
	sig := audio.New(noise(300, 4), 8000)
	_, err := Transform(sig, NewConfig(64, 64), Options{})
	assert.ErrorIs(t, err, ErrConfig)
	assert.False(t, sig.Consumed())
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name        string
		window, hop int
		length      int
	}{
		{"even", 64, 16, 1000},
		{"half overlap", 64, 32, 777},
		{"odd window", 63, 15, 500},
		{"default", 1024, 256, 5000},
		{"short", 64, 16, 10},
		{"smallest", 3, 1, 50},
	} {
		t.Run(tc.name, func(t *testing.T) {
			want := noise(tc.length, int64(tc.length))
			sig := audio.New(append([]float64(nil), want...), 22050)

			f, err := Transform(sig, NewConfig(tc.window, tc.hop), Options{KeepSpectrogram: true})
			require.NoError(t, err)

			masked, err := ApplyMask(f, Ones(f.Bins(), f.Frames()))
			require.NoError(t, err)

			got, err := Invert(masked)
			require.NoError(t, err)
			assert.Equal(t, 22050, got.SampleRate)
			require.Len(t, got.Samples, len(want))
			for i := range want {
				require.InDelta(t, want[i], got.Samples[i], 1e-9, "sample %d", i)
			}
		})
	}
}

func TestZeroMaskSilence(t *testing.T) {
	f, err := Transform(audio.New(noise(800, 5), 8000), NewConfig(64, 16), Options{KeepSpectrogram: true})
	require.NoError(t, err)

	zero, _ := ThresholdToMask(Ones(f.Bins(), f.Frames()), 1)
	masked, err := ApplyMask(f, zero)
	require.NoError(t, err)

	got, err := Invert(masked)
	require.NoError(t, err)
	for i, v := range got.Samples {
		require.InDelta(t, 0, v, 1e-12, "sample %d", i)
	}
}

func TestMaskAndComplementSum(t *testing.T) {
	want := noise(600, 6)
	f, err := Transform(audio.New(append([]float64(nil), want...), 8000), NewConfig(64, 16), Options{KeepSpectrogram: true})
	require.NoError(t, err)

	probs := make([][]float64, f.Bins())
	r := rand.New(rand.NewSource(7))
	for y := range probs {
		probs[y] = make([]float64, f.Frames())
		for x := range probs[y] {
			probs[y][x] = r.Float64()
		}
	}
	mask, complement := ThresholdToMask(probs, 0.45)

	a, err := ApplyMask(f, mask)
	require.NoError(t, err)
	b, err := ApplyMask(f, complement)
	require.NoError(t, err)
	va, err := Invert(a)
	require.NoError(t, err)
	vb, err := Invert(b)
	require.NoError(t, err)

	for i := range want {
		require.InDelta(t, want[i], va.Samples[i]+vb.Samples[i], 1e-9)
	}
}

func TestApplyMaskLeavesInputIntact(t *testing.T) {
	f, err := Transform(audio.New(noise(200, 8), 8000), NewConfig(32, 8), Options{KeepSpectrogram: true})
	require.NoError(t, err)
	before := f.Spectrogram[3][4]

	zero, _ := ThresholdToMask(Ones(f.Bins(), f.Frames()), 2)
	_, err = ApplyMask(f, zero)
	require.NoError(t, err)
	assert.Equal(t, before, f.Spectrogram[3][4])
}

func TestNoSpectrogram(t *testing.T) {
	f, err := Transform(audio.New(noise(200, 9), 8000), NewConfig(32, 8), Options{})
	require.NoError(t, err)

	_, err = Invert(f)
	assert.ErrorIs(t, err, ErrNoSpectrogram)
	_, err = ApplyMask(f, Ones(f.Bins(), f.Frames()))
	assert.ErrorIs(t, err, ErrNoSpectrogram)
	_, err = Invert(nil)
	assert.ErrorIs(t, err, ErrNoSpectrogram)
}

func TestApplyMaskShape(t *testing.T) {
	f, err := Transform(audio.New(noise(200, 10), 8000), NewConfig(32, 8), Options{KeepSpectrogram: true})
	require.NoError(t, err)

	_, err = ApplyMask(f, Ones(f.Bins()-1, f.Frames()))
	assert.ErrorIs(t, err, ErrShape)
	_, err = ApplyMask(f, Ones(f.Bins(), f.Frames()+1))
	assert.ErrorIs(t, err, ErrShape)
}

func TestSineEnergyBin(t *testing.T) {
	const rate, window = 8000, 256
	n := 4096
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / rate)
	}
	f, err := Transform(audio.New(samples, rate), NewConfig(window, 64), Options{})
	require.NoError(t, err)

	mid := f.Frames() / 2
	best := 0
	for k := range f.Amplitude {
		if f.Amplitude[k][mid] > f.Amplitude[best][mid] {
			best = k
		}
	}
	assert.Equal(t, 1000*window/rate, best)
}

func TestPowerToDB(t *testing.T) {
	m := [][]float64{{1, 100}, {0, 1e-12}}
	got := PowerToDB(m, 1e-10, 0)
	assert.InDelta(t, 0, got[0][0], 1e-12)
	assert.InDelta(t, 20, got[0][1], 1e-12)
	assert.InDelta(t, -100, got[1][0], 1e-12)
	assert.InDelta(t, -100, got[1][1], 1e-12)

	clamped := PowerToDB([][]float64{{1e4, 1e-8}}, 1e-10, 80)
	assert.InDelta(t, 40, clamped[0][0], 1e-12)
	assert.InDelta(t, -40, clamped[0][1], 1e-12)
}

func TestThresholdToMask(t *testing.T) {
	mask, complement := ThresholdToMask([][]float64{{0.2, 0.5, 0.46, 0.44}}, 0.45)
	assert.Equal(t, Mask{{0, 1, 1, 0}}, mask)
	assert.Equal(t, Mask{{1, 0, 0, 1}}, complement)
}

func TestThresholdComplementary(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	probs := make([][]float64, 7)
	for y := range probs {
		probs[y] = make([]float64, 13)
		for x := range probs[y] {
			probs[y][x] = r.Float64()
		}
	}
	probs[0][0] = 0.45
	mask, complement := ThresholdToMask(probs, 0.45)
	for y := range probs {
		for x := range probs[y] {
			assert.Equal(t, 1.0, mask[y][x]+complement[y][x])
		}
	}
	assert.Zero(t, mask[0][0])
}

func TestTranspose(t *testing.T) {
	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, Transpose([][]float64{{1, 2, 3}, {4, 5, 6}}))
	assert.Nil(t, Transpose(nil))
}
