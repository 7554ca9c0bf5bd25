package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reeldiary/internal/diary"
	"reeldiary/internal/workflow"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the diary export",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.newManager(cmd)
			if err != nil {
				return err
			}
			stats, err := manager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				statsRows(stats),
				[]columnAlignment{alignLeft, alignRight},
			))
			if stats.Rated > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Rating", "Stars", "Entries"},
					distributionRows(stats),
					[]columnAlignment{alignRight, alignLeft, alignRight},
					"Total", "", strconv.Itoa(stats.Rated),
				))
			}
			if len(stats.Tags) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Tag", "Entries"},
					tagRows(stats),
					[]columnAlignment{alignLeft, alignRight},
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of tables")
	return cmd
}

func statsRows(stats workflow.Stats) [][]string {
	rows := [][]string{
		{"Entries", strconv.Itoa(stats.Entries)},
		{"Rated", strconv.Itoa(stats.Rated)},
		{"Liked", strconv.Itoa(stats.Liked)},
		{"Rewatched", strconv.Itoa(stats.Rewatched)},
		{"Watchlist", strconv.Itoa(stats.Watchlist)},
		{"Days", strconv.Itoa(stats.Days)},
	}
	if stats.FirstWatched != "" {
		rows = append(rows,
			[]string{"First watched", stats.FirstWatched},
			[]string{"Last watched", stats.LastWatched})
	}
	return rows
}

func distributionRows(stats workflow.Stats) [][]string {
	counts := stats.Distribution()
	rows := make([][]string, 0, diary.RatingLevels)
	for _, rating := range diary.AllRatings {
		rows = append(rows, []string{rating.String(), rating.StarGlyphs(), strconv.Itoa(counts.Get(rating))})
	}
	return rows
}

func tagRows(stats workflow.Stats) [][]string {
	rows := make([][]string, 0, len(stats.Tags))
	for _, tag := range stats.Tags {
		rows = append(rows, []string{tag.Tag, strconv.Itoa(tag.Count)})
	}
	return rows
}
