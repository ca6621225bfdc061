package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func newIdealCmd(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "ideal <mixture> <vocals>",
		Short: "Separate with the ideal binary mask of a known vocal track",
		Long: `Build a binary mask from the vocal track and apply it and its complement to
the mixture. Writes processed_vocals.wav and processed_instrumentals.wav.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(ctx context.Context, a *app) error {
				return a.pipe.Ideal(ctx, args[0], args[1], dir)
			})
		},
	}
	cmd.Flags().StringVar(&dir, "outdir", ".", "output directory")
	return cmd
}
