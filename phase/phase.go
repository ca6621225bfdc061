package phase

import "errors"
import "math"
import "math/cmplx"

var ErrShape = errors.New("phase: invalid window or hop")

// Angles returns the phase of every cell of a [bin][frame] spectrogram, in
// radians.
func Angles(spectrogram [][]complex128) [][]float64 {
	out := make([][]float64, len(spectrogram))
	for y, row := range spectrogram {
		out[y] = make([]float64, len(row))
		for x, v := range row {
			out[y][x] = cmplx.Phase(v)
		}
	}
	return out
}

// Deviation returns, for every cell, how far the phase advanced since the
// previous frame beyond the advance of a sinusoid at the bin's centre
// frequency, wrapped to (-pi, pi]. Frame 0 is zero.
func Deviation(spectrogram [][]complex128, window, hop int) ([][]float64, error) {
	if window < 1 || hop < 1 {
		return nil, ErrShape
	}
	out := Angles(spectrogram)
	for y, row := range out {
		expected := 2 * math.Pi * float64(y) * float64(hop) / float64(window)
		prev := 0.0
		for x := range row {
			cur := row[x]
			if x == 0 {
				row[x] = 0
			} else {
				row[x] = wrap(cur - prev - expected)
			}
			prev = cur
		}
	}
	return out, nil
}

func wrap(v float64) float64 {
	v = math.Mod(v+math.Pi, 2*math.Pi)
	if v <= 0 {
		v += 2 * math.Pi
	}
	return v - math.Pi
}
