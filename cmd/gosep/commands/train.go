package commands

import (
	"context"

	"github.com/neurlang/gosep/pipeline"
	"github.com/spf13/cobra"
)

func newTrainCmd(g *globals) *cobra.Command {
	var opts pipeline.TrainOptions
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the classifier on a directory of songs",
		Long: `Fit the classifier on the mixture/vocals pairs of --datadir.

Existing weights are loaded and training continues from them. Weights are
checkpointed every model.checkpoint_every epochs and the per-epoch history
is written to model.history_filename.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, true, func(ctx context.Context, a *app) error {
				_, err := a.pipe.Train(ctx, opts)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&opts.Weights, "weights", "network.weights", "weights file, created when missing")
	cmd.Flags().StringVar(&opts.DataDir, "datadir", "data", "training data directory")
	cmd.Flags().StringVar(&opts.ValidationDir, "validationdir", "data-valid", "validation data directory, empty to skip")
	cmd.Flags().IntVar(&opts.Epochs, "epochs", 1, "passes over the training data")
	return cmd
}
