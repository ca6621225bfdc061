// Package pipeline wires the audio, spectral, slicer and classifier packages
// into the train, separate, evaluate and ideal-mask flows.
//
// Nothing here terminates the process. Errors carry the sentinels of the
// package that failed and ExitCode turns them into a process status.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/neurlang/gosep/classifier"
	"github.com/neurlang/gosep/config"
	"github.com/neurlang/gosep/dataset"
	"github.com/neurlang/gosep/evaluate"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoWeights   = errors.New("pipeline: weights file not found")
	ErrInvalidMode = errors.New("pipeline: invalid mode")
)

// ModelFunc creates an unbuilt classifier.
type ModelFunc func(cfg *config.Config, log logrus.FieldLogger) classifier.Trainer

// Baseline creates the logistic regression classifier.
func Baseline(cfg *config.Config, log logrus.FieldLogger) classifier.Trainer {
	return classifier.NewLogistic(classifier.Options{
		BatchSize:         cfg.Model.BatchSize,
		LearningRate:      cfg.Model.LearningRate,
		Context:           1,
		CheckpointEvery:   cfg.Model.CheckpointEvery,
		CheckpointPattern: cfg.Model.CheckpointPattern,
	}, log)
}

// Pipeline runs the flows with one configuration.
type Pipeline struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	cache *dataset.Cache

	// NewModel builds the classifier. Defaults to Baseline.
	NewModel ModelFunc
}

// New returns a pipeline. cache may be nil.
func New(cfg *config.Config, log logrus.FieldLogger, cache *dataset.Cache) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, cache: cache, NewModel: Baseline}
}

func (p *Pipeline) model() classifier.Trainer {
	m := p.NewModel(p.cfg, p.log)
	m.Build(p.cfg.Bins(), p.cfg.Song.SampleLength)
	return m
}

// TrainOptions are the inputs of Train.
type TrainOptions struct {
	Weights       string
	DataDir       string
	ValidationDir string // empty skips validation
	Epochs        int
}

// Train fits the classifier on DataDir, resuming from Weights when that file
// exists, and saves the result to Weights.
func (p *Pipeline) Train(ctx context.Context, opts TrainOptions) (classifier.History, error) {
	p.log.Info("Preparing to train a model...")
	loader := dataset.NewLoader(p.cfg, p.log, p.cache)

	train, err := loader.Load(ctx, opts.DataDir)
	if err != nil {
		return nil, err
	}
	var valid classifier.Set
	if opts.ValidationDir != "" {
		v, err := loader.Load(ctx, opts.ValidationDir)
		if err != nil {
			return nil, err
		}
		valid = v.Set()
	}

	m := p.model()
	if _, err := os.Stat(opts.Weights); err == nil {
		p.log.WithField("file", opts.Weights).Info("Found existing weights, loading them...")
		if err := m.Load(opts.Weights); err != nil {
			return nil, err
		}
	}

	history, err := m.Fit(ctx, train.Set(), valid, opts.Epochs)
	if err != nil {
		return history, err
	}
	if p.cfg.Model.SaveHistory {
		if err := history.WriteCSV(p.cfg.Model.HistoryFilename); err != nil {
			return history, fmt.Errorf("pipeline: write history: %w", err)
		}
	}
	p.log.WithField("file", opts.Weights).Info("Saving weights...")
	return history, m.Save(opts.Weights)
}

// Evaluate scores the separated songs in dir.
func (p *Pipeline) Evaluate(ctx context.Context, dir string) ([]evaluate.Result, error) {
	p.log.Info("Preparing to evaluate the effectiveness of an output")
	return evaluate.NewEvaluator(p.cfg, p.log).Evaluate(ctx, dir)
}
