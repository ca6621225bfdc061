package classifier

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strconv"

	"github.com/neurlang/gosep/slicer"
)

var (
	ErrNotBuilt    = errors.New("classifier: model not built")
	ErrLoadWeights = errors.New("classifier: cannot load weights")
	ErrSaveWeights = errors.New("classifier: cannot save weights")
	ErrShape       = errors.New("classifier: input shape mismatch")
)

// Classifier predicts per-bin probabilities for every slice of a batch.
type Classifier interface {
	Predict(x *slicer.Tensor) ([][]float64, error)
}

// Set is a batch of slices and their N x bins labels, row-major.
type Set struct {
	X *slicer.Tensor
	Y []float32
}

// Len returns the number of samples.
func (s Set) Len() int {
	if s.X == nil {
		return 0
	}
	return s.X.N
}

// Trainer is a Classifier that can be fitted and persisted.
type Trainer interface {
	Classifier
	Build(bins, width int)
	Fit(ctx context.Context, train, valid Set, epochs int) (History, error)
	Save(name string) error
	Load(name string) error
}

// Epoch holds the statistics of one training pass.
type Epoch struct {
	Epoch       int
	Loss        float64
	Accuracy    float64
	ValLoss     float64
	ValAccuracy float64
}

// History is the per-epoch record of a Fit call.
type History []Epoch

// WriteCSV stores the history with a header row.
func (h History) WriteCSV(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Write([]string{"epoch", "loss", "accuracy", "val_loss", "val_accuracy"})
	for _, e := range h {
		w.Write([]string{
			strconv.Itoa(e.Epoch),
			strconv.FormatFloat(e.Loss, 'g', -1, 64),
			strconv.FormatFloat(e.Accuracy, 'g', -1, 64),
			strconv.FormatFloat(e.ValLoss, 'g', -1, 64),
			strconv.FormatFloat(e.ValAccuracy, 'g', -1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
