package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/neurlang/gosep/config"
	"github.com/neurlang/gosep/dataset"
	"github.com/neurlang/gosep/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globals struct {
	config  string
	verbose bool
}

// NewRootCmd builds the gosep command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "gosep",
		Short: "Vocal and accompaniment separation",
		Long: `gosep: separates vocals from music with a spectrogram classifier.

Commands:
  train     Fit the classifier on mixture/vocals pairs
  separate  Extract the vocals of a mixture
  evaluate  Score separated stems against their references
  ideal     Separate with the ideal binary mask of a known vocal track
  version   Version information`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %s", pipeline.ErrInvalidMode, args[0])
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&g.config, "config", "config.yaml", "configuration file, created with defaults when missing")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newTrainCmd(g),
		newSeparateCmd(g),
		newEvaluateCmd(g),
		newIdealCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// app is what every flow needs, built from the global flags.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	pipe  *pipeline.Pipeline
	close []io.Closer
}

func (g *globals) open(withCache bool) (*app, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, err
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
	}
	log, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, close: []io.Closer{closer}}

	var cache *dataset.Cache
	if withCache && cfg.Cache.Dir != "" {
		if cache, err = dataset.OpenCache(dataset.CacheOptions{Dir: cfg.Cache.Dir, Logger: log}); err != nil {
			a.Close()
			return nil, err
		}
		a.close = append([]io.Closer{cache}, a.close...)
	}
	a.pipe = pipeline.New(cfg, log, cache)
	log.WithField("config", g.config).Debug("Script started.")
	return a, nil
}

func (a *app) Close() error {
	var first error
	for _, c := range a.close {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// run opens the app, runs f and logs the outcome.
func (g *globals) run(cmd *cobra.Command, withCache bool, f func(ctx context.Context, a *app) error) error {
	a, err := g.open(withCache)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := f(cmd.Context(), a); err != nil {
		a.log.WithError(err).WithField("exit", pipeline.ExitCode(err)).Error("Script failed")
		return err
	}
	a.log.Info("Script finished!")
	return nil
}
