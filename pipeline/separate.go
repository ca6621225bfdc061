package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/classifier"
	"github.com/neurlang/gosep/slicer"
	"github.com/neurlang/gosep/spectral"
	"github.com/sirupsen/logrus"
)

// SeparateOptions are the inputs of Separate.
type SeparateOptions struct {
	Weights string
	File    string
	Output  string
	// DumpData writes the intermediate matrices to DumpDir.
	DumpData bool
	DumpDir  string
	// SaveAccompaniment also writes instrumental_<output> next to Output.
	SaveAccompaniment bool
}

// AccompanimentName returns where the accompaniment of output is written.
func AccompanimentName(output string) string {
	return filepath.Join(filepath.Dir(output), "instrumental_"+filepath.Base(output))
}

// Separate extracts the vocals of File into Output.
func (p *Pipeline) Separate(ctx context.Context, opts SeparateOptions) error {
	p.log.Info("Preparing to separate vocals from instrumentals...")
	sig, err := audio.LoadResampled(opts.File, p.cfg.Song.SampleRate)
	if err != nil {
		return err
	}
	f, err := spectral.Transform(sig, p.cfg.Transform(), spectral.Options{KeepSpectrogram: true})
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(opts.File), filepath.Ext(opts.File))
	if opts.DumpData {
		if err := p.dump(opts.DumpDir, base+"-original-amplitude.out", f.Amplitude); err != nil {
			return err
		}
		if err := p.dumpComplex(opts.DumpDir, base+"-original-spectrogram.out", f.Spectrogram); err != nil {
			return err
		}
	}

	m := p.model()
	if _, err := os.Stat(opts.Weights); err != nil {
		return fmt.Errorf("%w: %s", ErrNoWeights, opts.Weights)
	}
	if err := m.Load(opts.Weights); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	vocals, accompaniment, err := p.Isolate(f, m, opts)
	if err != nil {
		return err
	}
	if opts.DumpData {
		if err := p.dumpComplex(opts.DumpDir, base+"-processed-spectrogram.out", vocals.Spectrogram); err != nil {
			return err
		}
	}
	if accompaniment != nil {
		if err := p.write(AccompanimentName(opts.Output), accompaniment); err != nil {
			return err
		}
	}
	return p.write(opts.Output, vocals)
}

// Isolate runs the classifier over every frame of f and returns the masked
// vocal frame and, when requested, the complementary accompaniment frame.
func (p *Pipeline) Isolate(f *spectral.Frame, m classifier.Classifier, opts SeparateOptions) (vocals, accompaniment *spectral.Frame, err error) {
	p.log.Info("Preparing the song...")
	slices, err := slicer.SplitSliding(f.Amplitude, p.cfg.Song.SampleLength)
	if err != nil {
		return nil, nil, err
	}
	x, err := slicer.Stack(slices)
	if err != nil {
		return nil, nil, err
	}

	p.log.WithField("slices", x.N).Info("Extracting vocals from the audio file...")
	prediction, err := m.Predict(x)
	if err != nil {
		return nil, nil, err
	}
	if err := checkPrediction(prediction, x.N, len(f.Amplitude)); err != nil {
		return nil, nil, err
	}
	probabilities := spectral.Transpose(prediction)
	if opts.DumpData {
		if err := p.dump(opts.DumpDir, "predicted_probabilities.out", probabilities); err != nil {
			return nil, nil, err
		}
	}

	p.log.Info("Calculating the binary mask...")
	mask, complement := spectral.ThresholdToMask(probabilities, p.cfg.Mask.Cutoff)
	if opts.DumpData {
		if err := p.dump(opts.DumpDir, "predicted_mask.out", mask); err != nil {
			return nil, nil, err
		}
	}

	if opts.SaveAccompaniment {
		if accompaniment, err = spectral.ApplyMask(f, complement); err != nil {
			return nil, nil, err
		}
	}
	if vocals, err = spectral.ApplyMask(f, mask); err != nil {
		return nil, nil, err
	}
	return vocals, accompaniment, nil
}

// checkPrediction makes sure the classifier returned one row of bins values
// per frame.
func checkPrediction(prediction [][]float64, frames, bins int) error {
	if len(prediction) != frames {
		return fmt.Errorf("%w: classifier returned %d rows for %d frames", spectral.ErrShape, len(prediction), frames)
	}
	for i, row := range prediction {
		if len(row) != bins {
			return fmt.Errorf("%w: classifier row %d has %d values, want %d", spectral.ErrShape, i, len(row), bins)
		}
	}
	return nil
}

// write inverts f and saves it normalised.
func (p *Pipeline) write(name string, f *spectral.Frame) error {
	sig, err := spectral.Invert(f)
	if err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{"file": name, "seconds": sig.Seconds()}).Info("Writing audio")
	return audio.SaveWav(name, sig, true)
}

func (p *Pipeline) dump(dir, name string, m [][]float64) error {
	return p.dumpWith(dir, name, func(f *os.File) error { return spectral.WriteMatrix(f, m) })
}

func (p *Pipeline) dumpComplex(dir, name string, m [][]complex128) error {
	return p.dumpWith(dir, name, func(f *os.File) error { return spectral.WriteComplexMatrix(f, m) })
}

func (p *Pipeline) dumpWith(dir, name string, write func(*os.File) error) error {
	name = filepath.Join(dir, name)
	p.log.WithField("file", name).Debug("Dumping data")
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
