package mel

import "errors"
import "fmt"
import "math"

// Mel represents the configuration for mel-scaling an amplitude matrix.
type Mel struct {
	NumMels int
	MelFmin float64
	// MelFmax is clamped to the Nyquist frequency.
	MelFmax float64
}

// NewMel creates a new Mel instance with default values.
func NewMel() *Mel {
	return &Mel{
		NumMels: 160,
		MelFmin: 0,
		MelFmax: 8000,
	}
}

var ErrRange = errors.New("mel: invalid frequency range")

// Scale maps amp, [bin][frame] over 0..sampleRate/2, onto NumMels bands. Row
// 0 of the result is the lowest band.
func (m *Mel) Scale(amp [][]float64, sampleRate int) ([][]float64, error) {
	if len(amp) < 2 {
		return nil, fmt.Errorf("%w: %d bins", ErrRange, len(amp))
	}
	nyquist := float64(sampleRate) / 2
	fmax := math.Min(m.MelFmax, nyquist)
	if m.NumMels < 1 || m.MelFmin < 0 || !(m.MelFmin < fmax) {
		return nil, fmt.Errorf("%w: %d mels over %g..%g Hz", ErrRange, m.NumMels, m.MelFmin, fmax)
	}
	return domel(amp, nyquist, m.NumMels, m.MelFmin, fmax), nil
}

func mel_to_hz(value float64) float64 {
	const _MEL_BREAK_FREQUENCY_HERTZ = 700.0
	const _MEL_HIGH_FREQUENCY_Q = 1127.0
	return _MEL_BREAK_FREQUENCY_HERTZ * (math.Exp(value/_MEL_HIGH_FREQUENCY_Q) - 1.0)
}

func hz_to_mel(value float64) float64 {
	const _MEL_BREAK_FREQUENCY_HERTZ = 700.0
	const _MEL_HIGH_FREQUENCY_Q = 1127.0
	return _MEL_HIGH_FREQUENCY_Q * math.Log(1.0+(value/_MEL_BREAK_FREQUENCY_HERTZ))
}

// domel averages the bins under each mel band. Bands narrower than a bin
// interpolate between their two neighbouring bins instead.
func domel(amp [][]float64, nyquist float64, mels int, mel_fmin, mel_fmax float64) (melspectrum [][]float64) {
	bins := len(amp)
	frames := len(amp[0])
	last := float64(bins - 1)

	var mello = hz_to_mel(mel_fmin)
	var melbin = (hz_to_mel(mel_fmax) - mello) / float64(mels)

	melspectrum = make([][]float64, mels)
	for i := 0; i < mels; i++ {
		var vallo = last * mel_to_hz(mello+melbin*float64(i+0)) / nyquist
		var valhi = last * mel_to_hz(mello+melbin*float64(i+1)) / nyquist

		var inlo, modlo = math.Modf(vallo)
		var inhi = math.Min(math.Floor(valhi), last)
		lo, hi := int(inlo), int(inhi)

		row := make([]float64, frames)
		for t := range row {
			if hi <= lo+1 {
				next := lo + 1
				if next >= bins {
					next = bins - 1
				}
				row[t] = amp[lo][t]*(1-modlo) + amp[next][t]*modlo
				continue
			}
			var total float64
			for k := lo; k < hi; k++ {
				total += amp[k][t]
			}
			row[t] = total / float64(hi-lo)
		}
		melspectrum[i] = row
	}
	return
}
