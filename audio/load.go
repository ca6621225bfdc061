package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep/wav"
	"github.com/mewkiz/flac"
)

// Load decodes a WAV or FLAC file, chosen by extension, into a mono signal.
func Load(name string) (*Signal, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".flac":
		return LoadFlac(name)
	case ".wav", ".wave":
		return LoadWav(name)
	default:
		return nil, fmt.Errorf("audio: unsupported file type %q", filepath.Ext(name))
	}
}

// LoadWav loads a wav file, averaging its channels into one.
func LoadWav(name string) (*Signal, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotLoaded, err)
	}
	defer file.Close()

	stream, format, err := wav.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", name, err)
	}
	defer stream.Close()

	var out []float64
	if n := stream.Len(); n > 0 {
		out = make([]float64, 0, n)
	}
	var samples = make([][2]float64, 4096)
	for {
		n, ok := stream.Stream(samples)
		for i := 0; i < n; i++ {
			out = append(out, (samples[i][0]+samples[i][1])/2)
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("audio: stream %s: %w", name, err)
	}
	if len(out) == 0 || format.SampleRate == 0 {
		return nil, ErrFileNotLoaded
	}
	return New(out, int(format.SampleRate)), nil
}

// LoadFlac loads a flac file, averaging its channels into one.
func LoadFlac(name string) (*Signal, error) {
	stream, err := flac.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotLoaded, err)
	}
	defer stream.Close()

	var (
		channels = int(stream.Info.NChannels)
		scale    = float64(int64(1) << (stream.Info.BitsPerSample - 1))
		out      []float64
	)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audio: parse %s: %w", name, err)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i])
			}
			out = append(out, sum/float64(channels)/scale)
		}
	}
	if len(out) == 0 || stream.Info.SampleRate == 0 {
		return nil, ErrFileNotLoaded
	}
	return New(out, int(stream.Info.SampleRate)), nil
}
