package main

import (
	"strings"

	"github.com/spf13/cobra"

	"reeldiary/internal/workflow"
)

type graphFlags struct {
	noRatings bool
	noTags    bool
	watchlist bool
}

func (f graphFlags) request() workflow.GraphRequest {
	return workflow.GraphRequest{
		Ratings:   !f.noRatings,
		Tags:      !f.noTags,
		Watchlist: f.watchlist,
	}
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noRatings, "no-ratings", false, "Omit per-rating series")
	cmd.Flags().BoolVar(&f.noTags, "no-tags", false, "Omit per-tag series")
	cmd.Flags().BoolVar(&f.watchlist, "watchlist", false, "Add the cumulative watchlist series")
}

func newGraphCommand(ctx *commandContext) *cobra.Command {
	var flags graphFlags
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render cumulative watch counts as a line chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.newManager(cmd)
			if err != nil {
				return err
			}
			req := flags.request()
			req.Output = strings.TrimSpace(outputFlag)
			artifact, err := manager.BuildGraph(cmd.Context(), req)
			if err != nil {
				return err
			}
			printArtifact(cmd.OutOrStdout(), "Chart", "series", artifact)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (overrides output.chart_file)")
	return cmd
}
