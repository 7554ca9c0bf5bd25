package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reeldiary/internal/timeline"
)

type seriesJSON struct {
	Days   []string         `json:"days"`
	Series []categoryValues `json:"series"`
}

type categoryValues struct {
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Values   []int  `json:"values"`
}

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	var flags graphFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Show the cumulative daily series without rendering a chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.newManager(cmd)
			if err != nil {
				return err
			}
			result, err := manager.Series(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, seriesPayload(result))
			}
			out := cmd.OutOrStdout()
			if len(result.Days) == 0 {
				fmt.Fprintln(out, "No diary entries")
				return nil
			}
			fmt.Fprintf(out, "%d days from %s to %s\n", len(result.Days), result.Days.First(), result.Days.Last())
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Kind", "First", "Total"},
				seriesRows(result),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit every daily value as JSON")
	return cmd
}

func seriesPayload(result *timeline.Result) seriesJSON {
	payload := seriesJSON{Days: result.Days.Strings()}
	for _, category := range result.Categories() {
		values, _ := result.Series(category)
		payload.Series = append(payload.Series, categoryValues{
			Category: category.Label(),
			Kind:     category.Kind.String(),
			Values:   values,
		})
	}
	return payload
}

func seriesRows(result *timeline.Result) [][]string {
	categories := result.Categories()
	rows := make([][]string, 0, len(categories))
	for _, category := range categories {
		values, _ := result.Series(category)
		first := "-"
		for i, value := range values {
			if value > 0 {
				first = result.Days[i].String()
				break
			}
		}
		rows = append(rows, []string{
			category.Label(),
			category.Kind.String(),
			first,
			strconv.Itoa(result.Final(category)),
		})
	}
	return rows
}
