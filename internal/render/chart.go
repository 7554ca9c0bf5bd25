package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"reeldiary/internal/timeline"
)

// DefaultChartTitle is used when ChartOptions.Title is empty.
const DefaultChartTitle = "Movies Watched Over Time (Cumulative)"

// ChartOptions selects which category families are plotted.
type ChartOptions struct {
	Title   string
	Ratings bool
	Tags    bool
}

// Chart renders the cumulative series as an interactive line chart page.
func Chart(w io.Writer, result *timeline.Result, options ChartOptions) error {
	title := options.Title
	if title == "" {
		title = DefaultChartTitle
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "640px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Number of Movies"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(result.Days.Strings())

	for _, category := range ChartCategories(result, options) {
		series, _ := result.Series(category)
		data := make([]opts.LineData, len(series))
		for i, v := range series {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(category.Label(), data)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// ChartCategories returns the categories Chart plots, in display order.
func ChartCategories(result *timeline.Result, options ChartOptions) []timeline.Category {
	var out []timeline.Category
	for _, category := range result.Categories() {
		switch category.Kind {
		case timeline.KindRating:
			if !options.Ratings {
				continue
			}
		case timeline.KindTag:
			if !options.Tags {
				continue
			}
		}
		out = append(out, category)
	}
	return out
}
