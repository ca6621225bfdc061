package audio

import (
	"errors"
	"math"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// SaveWav writes the signal as a mono 16-bit wav file. When normalize is set
// the waveform is scaled so its peak sits at full scale; otherwise samples
// outside [-1, 1] are clipped by the encoder.
func SaveWav(name string, sig *Signal, normalize bool) error {
	if sig == nil || sig.SampleRate <= 0 {
		return errors.New("audio: signal has no sample rate")
	}
	vec := sig.Samples
	gain := 1.0
	if normalize {
		var peak float64
		for _, v := range vec {
			peak = math.Max(peak, math.Abs(v))
		}
		if peak > 0 {
			gain = 1 / peak
		}
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}

	pos := 0
	streamer := beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= len(vec) {
			return 0, false
		}
		for n < len(samples) && pos < len(vec) {
			v := vec[pos] * gain
			samples[n][0], samples[n][1] = v, v
			n++
			pos++
		}
		return n, true
	})
	format := beep.Format{
		SampleRate:  beep.SampleRate(sig.SampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(f, streamer, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
