package commands

import (
	"context"

	"github.com/neurlang/gosep/pipeline"
	"github.com/spf13/cobra"
)

func newSeparateCmd(g *globals) *cobra.Command {
	var opts pipeline.SeparateOptions
	cmd := &cobra.Command{
		Use:   "separate",
		Short: "Extract the vocals of a mixture",
		Long: `Extract the vocals of --file into --output.

With --save-accompaniment the rest of the mixture is written to
instrumental_<output>. With --dump-data the amplitude, spectrograms,
predicted probabilities and mask are written as text matrices.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(ctx context.Context, a *app) error {
				return a.pipe.Separate(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Weights, "weights", "network.weights", "weights file")
	cmd.Flags().StringVar(&opts.File, "file", "mixture.wav", "mixture to separate")
	cmd.Flags().StringVar(&opts.Output, "output", "vocals.wav", "vocals output file")
	cmd.Flags().BoolVar(&opts.DumpData, "dump-data", false, "dump intermediate matrices")
	cmd.Flags().StringVar(&opts.DumpDir, "dump-dir", ".", "directory for --dump-data files")
	cmd.Flags().BoolVar(&opts.SaveAccompaniment, "save-accompaniment", false, "also write the accompaniment")
	return cmd
}
