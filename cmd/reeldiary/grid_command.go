package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reeldiary/internal/workflow"
)

func newGridCommand(ctx *commandContext) *cobra.Command {
	var monthFlag string
	var userFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Render a month of the diary as a poster grid",
		Long: "Scrape the Letterboxd diary page for one month, match each row to the export,\n" +
			"fetch poster URLs, and write a static HTML grid.",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}
			manager, err := ctx.newManager(cmd)
			if err != nil {
				return err
			}
			artifact, err := manager.BuildGrid(cmd.Context(), workflow.GridRequest{
				Username: strings.TrimSpace(userFlag),
				Year:     month.Year(),
				Month:    month.Month(),
				Output:   strings.TrimSpace(outputFlag),
			})
			if err != nil {
				return err
			}
			printArtifact(cmd.OutOrStdout(), "Poster grid", "posters", artifact)
			return nil
		},
	}

	cmd.Flags().StringVarP(&monthFlag, "month", "m", "", "Month to render as YYYY-MM (required)")
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Letterboxd username (overrides letterboxd.username)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (overrides output.grid_file)")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func parseMonth(value string) (time.Time, error) {
	month, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("--month must be YYYY-MM, got %q", value)
	}
	return month, nil
}
