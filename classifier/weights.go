package classifier

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

const weightsVersion = 1

type weightsFile struct {
	Version int         `msgpack:"version"`
	Bins    int         `msgpack:"bins"`
	Width   int         `msgpack:"width"`
	Context int         `msgpack:"context"`
	W       [][]float64 `msgpack:"w"`
	B       []float64   `msgpack:"b"`
}

// Save writes the weights to name, overwriting it.
func (m *Logistic) Save(name string) error {
	if m.w == nil {
		return fmt.Errorf("%w: %v", ErrSaveWeights, ErrNotBuilt)
	}
	data, err := msgpack.Marshal(&weightsFile{
		Version: weightsVersion,
		Bins:    m.bins,
		Width:   m.width,
		Context: m.opts.Context,
		W:       m.w,
		B:       m.b,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveWeights, err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveWeights, err)
	}
	m.log.WithField("file", name).Debug("Weights saved")
	return nil
}

// Load replaces the weights with those stored in name. The model must be
// built with the same shape the weights were trained for.
func (m *Logistic) Load(name string) error {
	if m.w == nil {
		return fmt.Errorf("%w: %v", ErrLoadWeights, ErrNotBuilt)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadWeights, err)
	}
	var wf weightsFile
	if err := msgpack.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadWeights, err)
	}
	if wf.Version != weightsVersion {
		return fmt.Errorf("%w: version %d", ErrLoadWeights, wf.Version)
	}
	if wf.Bins != m.bins || wf.Width != m.width || wf.Context != m.opts.Context ||
		len(wf.W) != m.bins || len(wf.B) != m.bins {
		return fmt.Errorf("%w: file is %dx%d context %d, model %dx%d context %d", ErrLoadWeights,
			wf.Bins, wf.Width, wf.Context, m.bins, m.width, m.opts.Context)
	}
	for y := range wf.W {
		if len(wf.W[y]) != len(m.w[y]) {
			return fmt.Errorf("%w: bin %d has %d weights", ErrLoadWeights, y, len(wf.W[y]))
		}
	}
	m.w, m.b = wf.W, wf.B
	m.log.WithFields(logrus.Fields{"file": name}).Info("Weights loaded")
	return nil
}
