package audio

import (
	"fmt"
	"math"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample returns a signal at the requested rate. The input signal is
// consumed; when the rates already match its buffer is moved unchanged.
// Otherwise the output is aligned with the input and holds exactly
// round(len*rate/from) samples.
func Resample(sig *Signal, rate int) (*Signal, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("audio: invalid target sample rate %d", rate)
	}
	from := 0
	if sig != nil {
		from = sig.SampleRate
	}
	buf, err := sig.Take()
	if err != nil {
		return nil, err
	}
	if from == rate {
		return New(buf, rate), nil
	}
	if from <= 0 {
		return nil, fmt.Errorf("audio: invalid source sample rate %d", from)
	}

	out, err := process(buf, from, rate)
	if err != nil {
		return nil, err
	}
	shift, err := offset(from, rate)
	if err != nil {
		return nil, err
	}
	return New(align(out, shift, int(math.Round(float64(len(buf))*float64(rate)/float64(from)))), rate), nil
}

// process runs buf through a fresh resampler and flushes it.
func process(buf []float64, from, rate int) ([]float64, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(rate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("audio: create resampler: %w", err)
	}
	out, err := r.Process(buf)
	if err != nil {
		return nil, fmt.Errorf("audio: resample %d -> %d: %w", from, rate, err)
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("audio: flush resampler %d -> %d: %w", from, rate, err)
	}
	return append(out, tail...), nil
}

var offsets sync.Map // [2]int{from, rate} -> int

// offset returns how many output samples the resampler's output lags the
// input by. It is negative when the filters start ahead of the input. The
// value is measured once per rate pair with an impulse.
func offset(from, rate int) (int, error) {
	key := [2]int{from, rate}
	if v, ok := offsets.Load(key); ok {
		return v.(int), nil
	}
	at := max(from/4, 64)
	impulse := make([]float64, 2*at)
	impulse[at] = 1
	out, err := process(impulse, from, rate)
	if err != nil {
		return 0, err
	}
	peak := 0
	for i, v := range out {
		if math.Abs(v) > math.Abs(out[peak]) {
			peak = i
		}
	}
	shift := peak - int(math.Round(float64(at)*float64(rate)/float64(from)))
	offsets.Store(key, shift)
	return shift, nil
}

// align undoes a lag of shift samples and then cuts or pads buf to n samples.
func align(buf []float64, shift, n int) []float64 {
	switch {
	case shift > 0:
		buf = buf[min(shift, len(buf)):]
	case shift < 0:
		buf = append(make([]float64, -shift, -shift+len(buf)), buf...)
	}
	if len(buf) >= n {
		return buf[:n]
	}
	return append(buf, make([]float64, n-len(buf))...)
}

// LoadResampled loads a file and converts it to the given sample rate.
func LoadResampled(name string, rate int) (*Signal, error) {
	sig, err := Load(name)
	if err != nil {
		return nil, err
	}
	return Resample(sig, rate)
}
