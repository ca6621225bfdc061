package pipeline

import (
	"errors"

	"github.com/neurlang/gosep/audio"
	"github.com/neurlang/gosep/classifier"
	"github.com/neurlang/gosep/config"
	"github.com/neurlang/gosep/dataset"
	"github.com/neurlang/gosep/evaluate"
	"github.com/neurlang/gosep/slicer"
	"github.com/neurlang/gosep/spectral"
)

var exitCodes = []struct {
	err  error
	code int
}{
	{config.ErrInvalid, 2},
	{spectral.ErrConfig, 2},
	{classifier.ErrLoadWeights, 3},
	{classifier.ErrNotBuilt, 4},
	{classifier.ErrSaveWeights, 5},
	{audio.ErrConsumed, 6},
	{spectral.ErrNoSpectrogram, 7},
	{dataset.ErrNoDirectory, 8},
	{dataset.ErrNoMixtures, 9},
	{dataset.ErrNoVocals, 10},
	{ErrNoWeights, 11},
	{ErrInvalidMode, 12},
	{evaluate.ErrNoDirectory, 13},
	{evaluate.ErrStemMismatch, 14},
	{dataset.ErrCountMismatch, 15},
	{spectral.ErrShape, 16},
	{slicer.ErrMisaligned, 17},
	{audio.ErrFileNotLoaded, 18},
}

// ExitCode maps an error to the process exit status: 0 for nil, 1 for
// errors without a dedicated code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return 1
}
