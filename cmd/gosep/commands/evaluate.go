package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score separated stems against their references",
		Long: `Score the songs of --evaluationdir. Each song folder holds vocals,
accompaniment, estimated_vocals and estimated_accompaniment tracks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, false, func(ctx context.Context, a *app) error {
				results, err := a.pipe.Evaluate(ctx, dir)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "SONG\tSTEM\tSDR\tSIR\tSAR")
				for _, r := range results {
					fmt.Fprintf(tw, "%s\tvocals\t%.2f\t%.2f\t%.2f\n", r.Song, r.Vocals.SDR, r.Vocals.SIR, r.Vocals.SAR)
					fmt.Fprintf(tw, "%s\taccompaniment\t%.2f\t%.2f\t%.2f\n", r.Song, r.Accompaniment.SDR, r.Accompaniment.SIR, r.Accompaniment.SAR)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&dir, "evaluationdir", "evaluate", "directory with separated songs and references")
	return cmd
}
