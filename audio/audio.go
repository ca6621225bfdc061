package audio

import "errors"

// ErrConsumed is returned when a signal's samples were already taken.
var ErrConsumed = errors.New("audio: signal already consumed")

// ErrFileNotLoaded is returned when a file decodes to no samples.
var ErrFileNotLoaded = errors.New("audio: file not loaded")

// Signal is a mono waveform.
type Signal struct {
	Samples    []float64
	SampleRate int

	consumed bool
}

// New wraps samples into a Signal. The signal takes ownership of samples.
func New(samples []float64, sampleRate int) *Signal {
	return &Signal{Samples: samples, SampleRate: sampleRate}
}

// Take transfers the sample buffer to the caller and marks the signal as
// consumed. A second call returns ErrConsumed.
func (s *Signal) Take() ([]float64, error) {
	if s == nil || s.consumed {
		return nil, ErrConsumed
	}
	buf := s.Samples
	s.Samples = nil
	s.consumed = true
	return buf, nil
}

// Consumed reports whether Take has been called.
func (s *Signal) Consumed() bool {
	return s == nil || s.consumed
}

// Len returns the number of samples still held by the signal.
func (s *Signal) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

// Seconds returns the duration of the held samples.
func (s *Signal) Seconds() float64 {
	if s == nil || s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}
