package dataset

import (
	"context"
	"fmt"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/classifier"
	"github.com/neurlang/gosep/config"
	"github.com/neurlang/gosep/slicer"
	"github.com/neurlang/gosep/spectral"
	"github.com/sirupsen/logrus"
)

// Data is the accumulated training input of a directory.
type Data struct {
	// Windows holds every mixture block, N x bins x sample_length x 1.
	Windows *slicer.Tensor
	// Labels is the N x Bins label matrix, row-major.
	Labels []float32
	Bins   int
	Songs  int
}

// Set returns the data as a classifier training set.
func (d *Data) Set() classifier.Set {
	return classifier.Set{X: d.Windows, Y: d.Labels}
}

// Loader reads songs and prepares them for the classifier.
type Loader struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	cache *Cache
}

// NewLoader returns a loader. cache may be nil.
func NewLoader(cfg *config.Config, log logrus.FieldLogger, cache *Cache) *Loader {
	return &Loader{cfg: cfg, log: log, cache: cache}
}

// Load scans dir and returns the windows and labels of every song in it.
// Each song's spectra are dropped once its slices and labels are extracted.
func (l *Loader) Load(ctx context.Context, dir string) (*Data, error) {
	songs, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{"dir": dir, "songs": len(songs)}).Info("Loading dataset")

	d := &Data{Windows: &slicer.Tensor{Channels: 1}, Bins: l.cfg.Bins()}
	for _, s := range songs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		windows, labels, err := l.song(s)
		if err != nil {
			return nil, fmt.Errorf("dataset: song %s: %w", s.Name, err)
		}
		if err := d.Windows.Append(windows); err != nil {
			return nil, err
		}
		d.Labels = append(d.Labels, labels...)
		d.Songs++
	}
	l.log.WithFields(logrus.Fields{
		"slices": d.Windows.N,
		"bins":   d.Windows.Height,
		"width":  d.Windows.Width,
	}).Debug("Dataset prepared")
	return d, nil
}

func (l *Loader) song(s Song) (*slicer.Tensor, []float32, error) {
	length := l.cfg.Song.SampleLength

	mixture, err := l.Amplitude(s.Mixture)
	if err != nil {
		return nil, nil, err
	}
	slices, err := slicer.SplitBlocks(mixture, length)
	if err != nil {
		return nil, nil, err
	}

	vocals, err := l.Amplitude(s.Vocals)
	if err != nil {
		return nil, nil, err
	}
	labels, err := slicer.Labels(vocals, length, l.cfg.Labels.Threshold)
	if err != nil {
		return nil, nil, err
	}

	if err := slicer.CheckAligned(len(slices), len(labels)); err != nil {
		return nil, nil, err
	}
	windows, err := slicer.Stack(slices)
	if err != nil {
		return nil, nil, err
	}
	matrix, _, err := slicer.LabelMatrix(labels)
	if err != nil {
		return nil, nil, err
	}
	l.log.WithFields(logrus.Fields{"song": s.Name, "slices": len(slices)}).Debug("Song prepared")
	return windows, matrix, nil
}

// Amplitude loads name at the configured rate and returns its log-power
// spectrum, going through the cache when one is set.
func (l *Loader) Amplitude(name string) ([][]float64, error) {
	rate := l.cfg.Song.SampleRate
	cfg := l.cfg.Transform()

	var key string
	if l.cache != nil {
		var err error
		if key, err = Key(name, rate, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", audio.ErrFileNotLoaded, err)
		}
		amp, ok, err := l.cache.Get(key)
		if err != nil {
			l.log.WithError(err).WithField("file", name).Warn("Cache read failed")
		} else if ok {
			l.log.WithField("file", name).Debug("Cache hit")
			return amp, nil
		}
	}

	l.log.WithField("file", name).Info("Loading song and computing stft for it")
	sig, err := audio.LoadResampled(name, rate)
	if err != nil {
		return nil, err
	}
	f, err := spectral.Transform(sig, cfg, spectral.Options{})
	if err != nil {
		return nil, err
	}
	amp := f.Amplitude
	f.Release()

	if l.cache != nil && len(amp) > 0 {
		// hand out what a later hit would return
		half, err := spectral.FromHalfBits(spectral.HalfBits(amp), len(amp), len(amp[0]))
		if err != nil {
			return nil, err
		}
		amp = half
		if err := l.cache.Put(key, amp); err != nil {
			l.log.WithError(err).WithField("file", name).Warn("Cache write failed")
		}
	}
	return amp, nil
}
