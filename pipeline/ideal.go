package pipeline

import (
	"context"
	"path/filepath"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/spectral"
)

const (
	IdealVocals        = "processed_vocals.wav"
	IdealInstrumentals = "processed_instrumentals.wav"
)

// Ideal separates mixture with the binary mask of a known vocal track: a
// cell is vocal when the vocal amplitude exceeds mask.ideal_threshold. Both
// halves are written to dir as IdealVocals and IdealInstrumentals. It gives
// the best result a binary mask could reach, for comparison with the
// classifier's output.
func (p *Pipeline) Ideal(ctx context.Context, mixture, vocals, dir string) error {
	p.log.Info("Loading files...")
	mix, err := audio.LoadResampled(mixture, p.cfg.Song.SampleRate)
	if err != nil {
		return err
	}
	voc, err := audio.LoadResampled(vocals, p.cfg.Song.SampleRate)
	if err != nil {
		return err
	}

	p.log.Info("Processing audio data...")
	cfg := p.cfg.Transform()
	f, err := spectral.Transform(mix, cfg, spectral.Options{KeepSpectrogram: true})
	if err != nil {
		return err
	}
	v, err := spectral.Transform(voc, cfg, spectral.Options{})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.log.Info("Generating masks...")
	// a vocal track of another length is cut or padded with silence
	amp := make([][]float64, f.Bins())
	for y := range amp {
		amp[y] = make([]float64, f.Frames())
		for x := range amp[y] {
			amp[y][x] = p.cfg.Mask.IdealThreshold
			if x < v.Frames() {
				amp[y][x] = v.Amplitude[y][x]
			}
		}
	}
	v.Release()
	mask, complement := spectral.ThresholdToMask(amp, p.cfg.Mask.IdealThreshold)

	p.log.Info("Applying masks...")
	vf, err := spectral.ApplyMask(f, mask)
	if err != nil {
		return err
	}
	af, err := spectral.ApplyMask(f, complement)
	if err != nil {
		return err
	}
	if err := p.write(filepath.Join(dir, IdealVocals), vf); err != nil {
		return err
	}
	return p.write(filepath.Join(dir, IdealInstrumentals), af)
}
