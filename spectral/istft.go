package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/neurlang/gosep/audio"
	"github.com/r9y9/gossp/stft"
)

// ApplyMask multiplies the retained spectrogram of f by mask cell by cell and
// returns the result as a new frame. f itself is left untouched so several
// masks can be applied to one mixture.
func ApplyMask(f *Frame, mask Mask) (*Frame, error) {
	if f == nil || f.Spectrogram == nil {
		return nil, ErrNoSpectrogram
	}
	if len(mask) != len(f.Spectrogram) {
		return nil, fmt.Errorf("%w: mask has %d bins, spectrogram %d", ErrShape, len(mask), len(f.Spectrogram))
	}
	out := make([][]complex128, len(f.Spectrogram))
	for k, row := range f.Spectrogram {
		if len(mask[k]) != len(row) {
			return nil, fmt.Errorf("%w: bin %d has %d mask frames, spectrogram %d", ErrShape, k, len(mask[k]), len(row))
		}
		out[k] = make([]complex128, len(row))
		for t, v := range row {
			out[k][t] = v * complex(mask[k][t], 0)
		}
	}
	return &Frame{
		Config:      f.Config,
		SampleRate:  f.SampleRate,
		Length:      f.Length,
		Spectrogram: out,
	}, nil
}

// Invert reconstructs the waveform from the frame's complex spectrogram by
// overlap-add, normalising by the summed squared window. The centre padding
// added by Transform is removed and exactly f.Length samples are returned.
func Invert(f *Frame) (*audio.Signal, error) {
	if f == nil || f.Spectrogram == nil {
		return nil, ErrNoSpectrogram
	}
	cfg := f.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(f.Spectrogram) != cfg.Bins() {
		return nil, fmt.Errorf("%w: %d bins, window %d needs %d", ErrShape, len(f.Spectrogram), cfg.WindowSize, cfg.Bins())
	}

	frameLen := cfg.WindowSize
	frameShift := cfg.HopLength
	numFrames := f.Frames()
	window := stft.New(frameShift, frameLen).Window

	reconstructedSignal := make([]float64, frameLen+(numFrames-1)*frameShift)
	windowSum := make([]float64, len(reconstructedSignal))
	full := make([]complex128, frameLen)

	for i := 0; i < numFrames; i++ {
		for k := range f.Spectrogram {
			full[k] = f.Spectrogram[k][i]
		}
		for k := len(f.Spectrogram); k < frameLen; k++ {
			full[k] = cmplx.Conj(full[frameLen-k])
		}
		buf := fft.IFFT(full)
		for j := 0; j < frameLen; j++ {
			pos := i*frameShift + j
			reconstructedSignal[pos] += real(buf[j]) * window[j]
			windowSum[pos] += window[j] * window[j]
		}
	}

	for i := range reconstructedSignal {
		if windowSum[i] > 1e-10 {
			reconstructedSignal[i] /= windowSum[i]
		}
	}

	out := make([]float64, f.Length)
	copy(out, reconstructedSignal[frameLen/2:])
	return audio.New(out, f.SampleRate), nil
}
