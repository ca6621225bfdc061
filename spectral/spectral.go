package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/neurlang/gosep/audio"
	"github.com/r9y9/gossp/stft"
)

var (
	// ErrConfig is returned for window/hop combinations the transform cannot invert.
	ErrConfig = errors.New("spectral: invalid config")
	// ErrNoSpectrogram is returned when a frame without a retained complex
	// spectrogram is masked or inverted.
	ErrNoSpectrogram = errors.New("spectral: no spectrogram retained")
	// ErrShape is returned when a mask does not match its spectrogram.
	ErrShape = errors.New("spectral: shape mismatch")
)

// Config holds the transform parameters. The same Config must be used for the
// forward transform and for any later inversion; Frame carries a copy so that
// Invert never sees a different one.
type Config struct {
	WindowSize int
	HopLength  int

	// TopDB clamps the amplitude to max-TopDB. Zero or less disables it.
	TopDB float64
	// AMin is the power floor before taking the logarithm.
	AMin float64
}

// NewConfig creates a Config with the power_to_db defaults.
func NewConfig(window, hop int) Config {
	return Config{
		WindowSize: window,
		HopLength:  hop,
		TopDB:      80,
		AMin:       1e-10,
	}
}

// Validate checks that the frames overlap enough to be inverted.
func (c Config) Validate() error {
	// a two-point Hann window is all zeros
	if c.WindowSize < 3 {
		return fmt.Errorf("%w: window size %d < 3", ErrConfig, c.WindowSize)
	}
	if c.HopLength < 1 || c.HopLength > c.WindowSize/2 {
		return fmt.Errorf("%w: hop length %d outside [1, %d]", ErrConfig, c.HopLength, c.WindowSize/2)
	}
	if !(c.AMin > 0) {
		return fmt.Errorf("%w: amin %g must be positive", ErrConfig, c.AMin)
	}
	return nil
}

// Bins returns the number of frequency bins, floor(W/2)+1.
func (c Config) Bins() int {
	return c.WindowSize/2 + 1
}

// Frames returns the number of time frames produced for n samples.
func (c Config) Frames(n int) int {
	return 1 + n/c.HopLength
}

// Options selects what Transform keeps besides the amplitude.
type Options struct {
	// KeepSpectrogram retains the complex spectrogram for later inversion.
	KeepSpectrogram bool
	// KeepSignal leaves the samples in the input signal instead of taking them.
	KeepSignal bool
}

// Frame is the time-frequency representation of one signal.
type Frame struct {
	Config     Config
	SampleRate int
	// Length is the number of samples the frame was computed from.
	Length int

	// Amplitude is the log-power spectrum, [bin][frame].
	Amplitude [][]float64
	// Spectrogram is the complex STFT, [bin][frame], or nil.
	Spectrogram [][]complex128
}

// Bins returns the frequency axis size.
func (f *Frame) Bins() int {
	if f.Amplitude != nil {
		return len(f.Amplitude)
	}
	return len(f.Spectrogram)
}

// Frames returns the time axis size.
func (f *Frame) Frames() int {
	switch {
	case len(f.Amplitude) > 0:
		return len(f.Amplitude[0])
	case len(f.Spectrogram) > 0:
		return len(f.Spectrogram[0])
	}
	return 0
}

// Release drops the amplitude and spectrogram.
func (f *Frame) Release() {
	f.Amplitude = nil
	f.Spectrogram = nil
}

// Transform computes the STFT of sig. Unless opt.KeepSignal is set, the
// signal's samples are taken and sig is left consumed; transforming a
// consumed signal fails with audio.ErrConsumed.
func Transform(sig *audio.Signal, cfg Config, opt Options) (*Frame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sig.Consumed() {
		return nil, audio.ErrConsumed
	}
	rate := sig.SampleRate

	var buf []float64
	if opt.KeepSignal {
		buf = sig.Samples
	} else {
		var err error
		if buf, err = sig.Take(); err != nil {
			return nil, err
		}
	}
	length := len(buf)

	s := stft.New(cfg.HopLength, cfg.WindowSize)
	spectrum := s.STFT(pad(buf, cfg.WindowSize))

	bins := cfg.Bins()
	frames := len(spectrum)

	spectrogram := make([][]complex128, bins)
	power := make([][]float64, bins)
	for k := 0; k < bins; k++ {
		spectrogram[k] = make([]complex128, frames)
		power[k] = make([]float64, frames)
		for t := 0; t < frames; t++ {
			v := spectrum[t][k]
			spectrogram[k][t] = v
			a := cmplx.Abs(v)
			power[k][t] = a * a
		}
	}

	f := &Frame{
		Config:     cfg,
		SampleRate: rate,
		Length:     length,
		Amplitude:  PowerToDB(power, cfg.AMin, cfg.TopDB),
	}
	if opt.KeepSpectrogram {
		f.Spectrogram = spectrogram
	}
	return f, nil
}

// PowerToDB converts a power spectrogram to decibels in place and returns it:
// 10*log10(max(amin, p)), then clamped from below at max-topDB when topDB > 0.
func PowerToDB(power [][]float64, amin, topDB float64) [][]float64 {
	peak := math.Inf(-1)
	for _, row := range power {
		for i, p := range row {
			row[i] = 10 * math.Log10(math.Max(amin, p))
			peak = math.Max(peak, row[i])
		}
	}
	if topDB > 0 {
		floor := peak - topDB
		for _, row := range power {
			for i := range row {
				if row[i] < floor {
					row[i] = floor
				}
			}
		}
	}
	return power
}

// pad centres the signal: half a window of zeros before it and the rest of a
// window after it, so that frame t is centred on sample t*hop.
func pad(buf []float64, window int) []float64 {
	left := window / 2
	out := make([]float64, left+len(buf)+window-left)
	copy(out[left:], buf)
	return out
}
