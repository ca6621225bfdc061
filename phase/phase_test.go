package phase

import (
	"math"
	"testing"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/spectral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4 * math.Pi, 0},
	} {
		assert.InDelta(t, tc.want, wrap(tc.in), 1e-9, "%v", tc.in)
	}
}

func TestAngles(t *testing.T) {
	a := Angles([][]complex128{{1, 1i}, {-1i, -1}})
	assert.InDeltaSlice(t, []float64{0, math.Pi / 2}, a[0], 1e-12)
	assert.InDeltaSlice(t, []float64{-math.Pi / 2, math.Pi}, a[1], 1e-12)
}

func TestDeviationFlatOnBinFrequency(t *testing.T) {
	const window, hop, rate, bin = 64, 16, 8000, 8
	buf := make([]float64, 2000)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * bin * float64(i) / window)
	}
	f, err := spectral.Transform(audio.New(buf, rate), spectral.NewConfig(window, hop), spectral.Options{KeepSpectrogram: true})
	require.NoError(t, err)

	d, err := Deviation(f.Spectrogram, window, hop)
	require.NoError(t, err)
	require.Len(t, d, f.Bins())
	assert.Zero(t, d[bin][0])
	// frames fully inside the signal
	for x := window/hop + 1; x < f.Frames()-window/hop-1; x++ {
		assert.InDelta(t, 0, d[bin][x], 1e-3, "frame %d", x)
	}
}

func TestDeviationErrors(t *testing.T) {
	_, err := Deviation(nil, 0, 16)
	assert.ErrorIs(t, err, ErrShape)
	_, err = Deviation(nil, 64, 0)
	assert.ErrorIs(t, err, ErrShape)
}
