package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reeldiary/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the export, output directory, and Letterboxd reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Remote: !offline})
			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := isTerminal(out)
				for _, line := range renderSectionHeader("Readiness", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range results {
					fmt.Fprintln(out, renderStatusLine(result.Name, resultKind(result), result.Detail, colorize))
				}
			}
			if preflight.Failed(results) {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the Letterboxd reachability check")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of status lines")
	return cmd
}
