// Package dataset turns a directory of songs into classifier training data.
//
// Every song lives in its own folder holding a mixture and a vocals track
// (mixture.wav and vocals.wav, case-insensitive, FLAC accepted as well).
// Mixtures are cut into blocks of sample_length frames; vocals give one label
// vector per block.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNoDirectory   = errors.New("dataset: directory does not exist")
	ErrNoMixtures    = errors.New("dataset: no mixtures found")
	ErrNoVocals      = errors.New("dataset: no vocals found")
	ErrCountMismatch = errors.New("dataset: mixtures and vocals do not pair up")
)

// Song is one mixture/vocals pair.
type Song struct {
	Name    string
	Mixture string
	Vocals  string
}

// stem reports which track a file holds, or "" for files to ignore.
func stem(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".wav" && ext != ".flac" {
		return ""
	}
	switch base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))); base {
	case "mixture", "vocals":
		return base
	}
	return ""
}

// Scan walks dir and pairs mixtures with the vocals of the same folder. Songs
// are returned sorted by folder.
func Scan(dir string) ([]Song, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
	}

	songs := map[string]*Song{}
	var mixtures, vocals int
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		kind := stem(d.Name())
		if kind == "" {
			return nil
		}
		folder := filepath.Dir(path)
		s := songs[folder]
		if s == nil {
			s = &Song{Name: filepath.Base(folder)}
			songs[folder] = s
		}
		switch kind {
		case "mixture":
			if s.Mixture != "" {
				return fmt.Errorf("%w: two mixtures in %s", ErrCountMismatch, folder)
			}
			s.Mixture = path
			mixtures++
		case "vocals":
			if s.Vocals != "" {
				return fmt.Errorf("%w: two vocal tracks in %s", ErrCountMismatch, folder)
			}
			s.Vocals = path
			vocals++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if mixtures == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMixtures, dir)
	}
	if vocals == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoVocals, dir)
	}

	folders := make([]string, 0, len(songs))
	for folder, s := range songs {
		if s.Mixture == "" || s.Vocals == "" {
			return nil, fmt.Errorf("%w: %d mixtures, %d vocals, %s incomplete", ErrCountMismatch, mixtures, vocals, folder)
		}
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	out := make([]Song, 0, len(folders))
	for _, folder := range folders {
		out = append(out, *songs[folder])
	}
	return out, nil
}
