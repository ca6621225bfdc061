// Package evaluate scores separated stems against their references.
//
// An evaluation directory holds one folder per song with four tracks:
// vocals, accompaniment, estimated_vocals and estimated_accompaniment.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/config"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoDirectory  = errors.New("evaluate: directory does not exist")
	ErrStemMismatch = errors.New("evaluate: stems do not pair up")
)

const (
	Vocals                 = "vocals"
	Accompaniment          = "accompaniment"
	EstimatedVocals        = "estimated_vocals"
	EstimatedAccompaniment = "estimated_accompaniment"
)

// Song holds the track paths of one song, keyed by stem name.
type Song struct {
	Name   string
	Tracks map[string]string
}

var stems = []string{Vocals, Accompaniment, EstimatedVocals, EstimatedAccompaniment}

func stemOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".wav" && ext != ".flac" {
		return ""
	}
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, s := range stems {
		if base == s {
			return s
		}
	}
	return ""
}

// Scan collects the songs of dir, sorted by folder. Every folder holding any
// stem must hold all four.
func Scan(dir string) ([]Song, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
	}
	songs := map[string]*Song{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		s := stemOf(d.Name())
		if s == "" {
			return nil
		}
		folder := filepath.Dir(path)
		song := songs[folder]
		if song == nil {
			song = &Song{Name: filepath.Base(folder), Tracks: map[string]string{}}
			songs[folder] = song
		}
		if _, dup := song.Tracks[s]; dup {
			return fmt.Errorf("%w: two %s tracks in %s", ErrStemMismatch, s, folder)
		}
		song.Tracks[s] = path
		return nil
	})
	if err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(songs))
	for folder, song := range songs {
		for _, s := range stems {
			if _, ok := song.Tracks[s]; !ok {
				return nil, fmt.Errorf("%w: %s has no %s track", ErrStemMismatch, folder, s)
			}
		}
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	out := make([]Song, 0, len(folders))
	for _, f := range folders {
		out = append(out, *songs[f])
	}
	return out, nil
}

// Result holds the scores of one song.
type Result struct {
	Song          string
	Vocals        Metrics
	Accompaniment Metrics
}

// Evaluator loads stems at the configured rate and scores them.
type Evaluator struct {
	cfg *config.Config
	log logrus.FieldLogger
}

func NewEvaluator(cfg *config.Config, log logrus.FieldLogger) *Evaluator {
	return &Evaluator{cfg: cfg, log: log}
}

// Evaluate scores every song in dir.
func (e *Evaluator) Evaluate(ctx context.Context, dir string) ([]Result, error) {
	songs, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(songs))
	for _, s := range songs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := e.Song(s)
		if err != nil {
			return nil, fmt.Errorf("evaluate: song %s: %w", s.Name, err)
		}
		e.log.WithFields(logrus.Fields{
			"song":              r.Song,
			"vocals_sdr":        r.Vocals.SDR,
			"vocals_sir":        r.Vocals.SIR,
			"vocals_sar":        r.Vocals.SAR,
			"accompaniment_sdr": r.Accompaniment.SDR,
			"accompaniment_sir": r.Accompaniment.SIR,
			"accompaniment_sar": r.Accompaniment.SAR,
		}).Info("Metrics calculated")
		results = append(results, r)
	}
	return results, nil
}

// Song scores one song. The separated output is usually a little shorter
// than the references, so every track is cut to the shortest one.
func (e *Evaluator) Song(s Song) (Result, error) {
	tracks := make(map[string][]float64, len(stems))
	shortest := -1
	for _, stem := range stems {
		e.log.WithField("file", s.Tracks[stem]).Debug("Loading track")
		sig, err := audio.LoadResampled(s.Tracks[stem], e.cfg.Song.SampleRate)
		if err != nil {
			return Result{}, err
		}
		buf, err := sig.Take()
		if err != nil {
			return Result{}, err
		}
		tracks[stem] = buf
		if shortest < 0 || len(buf) < shortest {
			shortest = len(buf)
		}
	}
	for stem, buf := range tracks {
		if len(buf) > shortest {
			e.log.WithFields(logrus.Fields{"song": s.Name, "stem": stem, "cut": len(buf) - shortest}).Debug("Trimming track")
			tracks[stem] = buf[:shortest]
		}
	}

	refs := [][]float64{tracks[Vocals], tracks[Accompaniment]}
	vocals, err := BSS(refs, tracks[EstimatedVocals], 0)
	if err != nil {
		return Result{}, err
	}
	accompaniment, err := BSS(refs, tracks[EstimatedAccompaniment], 1)
	if err != nil {
		return Result{}, err
	}
	return Result{Song: s.Name, Vocals: vocals, Accompaniment: accompaniment}, nil
}
