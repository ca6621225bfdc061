package classifier

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/neurlang/gosep/slicer"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// inputScale maps decibel amplitudes to roughly unit range.
const inputScale = 1.0 / 80

// Options tunes Logistic training.
type Options struct {
	BatchSize    int
	LearningRate float64
	// Context is the number of neighbouring bins on each side a bin looks at.
	Context int
	// CheckpointEvery saves weights every N epochs when CheckpointPattern is
	// set. The pattern receives the epoch number.
	CheckpointEvery   int
	CheckpointPattern string
	Seed              int64
}

// Logistic is a per-bin logistic regression classifier.
type Logistic struct {
	opts Options
	log  logrus.FieldLogger

	bins, width int
	// w[y] holds (2*Context+1)*width weights, neighbour -Context first.
	w [][]float64
	b []float64
}

// NewLogistic creates an unbuilt model.
func NewLogistic(opts Options, log logrus.FieldLogger) *Logistic {
	if opts.BatchSize < 1 {
		opts.BatchSize = 32
	}
	if !(opts.LearningRate > 0) {
		opts.LearningRate = 0.05
	}
	if opts.Context < 0 {
		opts.Context = 0
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Logistic{opts: opts, log: log}
}

// Build allocates zeroed weights for the given input shape.
func (m *Logistic) Build(bins, width int) {
	m.bins, m.width = bins, width
	m.w = make([][]float64, bins)
	for y := range m.w {
		m.w[y] = make([]float64, (2*m.opts.Context+1)*width)
	}
	m.b = make([]float64, bins)
	m.log.WithFields(logrus.Fields{
		"bins":    bins,
		"width":   width,
		"context": m.opts.Context,
		"weights": bins * ((2*m.opts.Context+1)*width + 1),
	}).Info("Model built")
}

func (m *Logistic) check(x *slicer.Tensor) error {
	if m.w == nil {
		return ErrNotBuilt
	}
	if x == nil {
		return fmt.Errorf("%w: nil batch", ErrShape)
	}
	if x.N > 0 && (x.Height != m.bins || x.Width != m.width || x.Channels != 1) {
		return fmt.Errorf("%w: got %dx%dx%d, model %dx%dx1", ErrShape, x.Height, x.Width, x.Channels, m.bins, m.width)
	}
	return nil
}

func (m *Logistic) sample(x *slicer.Tensor, n int, buf []float64) []float64 {
	for i, v := range x.Sample(n) {
		buf[i] = float64(v) * inputScale
	}
	return buf
}

// forward fills p with the probabilities for one scaled sample.
func (m *Logistic) forward(xs, p []float64) {
	c := m.opts.Context
	for y := 0; y < m.bins; y++ {
		z := m.b[y]
		for d := -c; d <= c; d++ {
			row := y + d
			if row < 0 || row >= m.bins {
				continue
			}
			off := (d + c) * m.width
			z += floats.Dot(m.w[y][off:off+m.width], xs[row*m.width:(row+1)*m.width])
		}
		p[y] = sigmoid(z)
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Predict returns x.N probability vectors of length bins.
func (m *Logistic) Predict(x *slicer.Tensor) ([][]float64, error) {
	if err := m.check(x); err != nil {
		return nil, err
	}
	out := make([][]float64, x.N)
	xs := make([]float64, m.bins*m.width)
	for n := 0; n < x.N; n++ {
		out[n] = make([]float64, m.bins)
		m.forward(m.sample(x, n, xs), out[n])
	}
	return out, nil
}

// Fit runs epochs of mini-batch gradient descent on binary cross-entropy.
// valid may be empty.
func (m *Logistic) Fit(ctx context.Context, train, valid Set, epochs int) (History, error) {
	if err := m.check(train.X); err != nil {
		return nil, err
	}
	if valid.X != nil && valid.X.N > 0 {
		if err := m.check(valid.X); err != nil {
			return nil, err
		}
	}
	if len(train.Y) != train.Len()*m.bins {
		return nil, fmt.Errorf("%w: %d labels for %d samples of %d bins", ErrShape, len(train.Y), train.Len(), m.bins)
	}
	if len(valid.Y) != valid.Len()*m.bins {
		return nil, fmt.Errorf("%w: %d validation labels for %d samples", ErrShape, len(valid.Y), valid.Len())
	}

	rng := rand.New(rand.NewSource(m.opts.Seed))
	order := rng.Perm(train.Len())
	c := m.opts.Context

	gw := make([][]float64, m.bins)
	for y := range gw {
		gw[y] = make([]float64, len(m.w[y]))
	}
	gb := make([]float64, m.bins)
	xs := make([]float64, m.bins*m.width)
	p := make([]float64, m.bins)

	var history History
	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for start := 0; start < len(order); start += m.opts.BatchSize {
			end := start + m.opts.BatchSize
			if end > len(order) {
				end = len(order)
			}
			for y := range gw {
				floats.Scale(0, gw[y])
			}
			floats.Scale(0, gb)

			for _, n := range order[start:end] {
				m.forward(m.sample(train.X, n, xs), p)
				target := train.Y[n*m.bins : (n+1)*m.bins]
				for y := 0; y < m.bins; y++ {
					g := p[y] - float64(target[y])
					gb[y] += g
					for d := -c; d <= c; d++ {
						row := y + d
						if row < 0 || row >= m.bins {
							continue
						}
						off := (d + c) * m.width
						floats.AddScaled(gw[y][off:off+m.width], g, xs[row*m.width:(row+1)*m.width])
					}
				}
			}

			step := -m.opts.LearningRate / float64(end-start)
			for y := range m.w {
				floats.AddScaled(m.w[y], step, gw[y])
			}
			floats.AddScaled(m.b, step, gb)
		}

		e := Epoch{Epoch: epoch}
		e.Loss, e.Accuracy = m.evaluate(train)
		if valid.Len() > 0 {
			e.ValLoss, e.ValAccuracy = m.evaluate(valid)
		}
		history = append(history, e)
		m.log.WithFields(logrus.Fields{
			"epoch":        epoch,
			"loss":         e.Loss,
			"accuracy":     e.Accuracy,
			"val_loss":     e.ValLoss,
			"val_accuracy": e.ValAccuracy,
		}).Info("Epoch finished")

		if m.opts.CheckpointPattern != "" && m.opts.CheckpointEvery > 0 && epoch%m.opts.CheckpointEvery == 0 {
			if err := m.Save(fmt.Sprintf(m.opts.CheckpointPattern, epoch)); err != nil {
				return history, err
			}
		}
	}
	return history, nil
}

// evaluate returns mean binary cross-entropy and accuracy at 0.5.
func (m *Logistic) evaluate(s Set) (loss, accuracy float64) {
	const eps = 1e-7
	xs := make([]float64, m.bins*m.width)
	p := make([]float64, m.bins)
	var correct int
	for n := 0; n < s.Len(); n++ {
		m.forward(m.sample(s.X, n, xs), p)
		for y, t := range s.Y[n*m.bins : (n+1)*m.bins] {
			q := math.Min(math.Max(p[y], eps), 1-eps)
			if t > 0.5 {
				loss -= math.Log(q)
			} else {
				loss -= math.Log(1 - q)
			}
			if (p[y] > 0.5) == (t > 0.5) {
				correct++
			}
		}
	}
	total := float64(s.Len() * m.bins)
	if total == 0 {
		return 0, 0
	}
	return loss / total, float64(correct) / total
}
