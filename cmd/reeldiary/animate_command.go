package main

import (
	"strings"

	"github.com/spf13/cobra"

	"reeldiary/internal/workflow"
)

func newAnimateCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Render the rating distribution growing over time as a GIF",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.newManager(cmd)
			if err != nil {
				return err
			}
			artifact, err := manager.BuildAnimation(cmd.Context(), workflow.AnimationRequest{
				Output: strings.TrimSpace(outputFlag),
			})
			if err != nil {
				return err
			}
			printArtifact(cmd.OutOrStdout(), "Animation", "rated entries", artifact)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (overrides output.animation_file)")
	return cmd
}
