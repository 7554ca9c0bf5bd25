package timeline

import (
	"fmt"

	"cloud.google.com/go/civil"

	"reeldiary/internal/diary"
	"reeldiary/internal/services"
)

// Result holds the dense calendar and one cumulative series per category.
// A Result is not modified after it is returned.
type Result struct {
	Days     DailySeries
	order    []Category
	counters map[Category][]int
}

// Replay walks every day between the earliest and latest watched date and
// accumulates each record's categories on its watched date. Every category
// series has one entry per day; days before a category's first contribution
// are zero.
func Replay(records []diary.WatchRecord, extractors []Extractor, seed ...Category) (*Result, error) {
	result := &Result{counters: make(map[Category][]int)}
	if len(records) == 0 {
		for _, category := range seed {
			if err := result.register(category, 0); err != nil {
				return nil, err
			}
		}
		result.Days = DailySeries{}
		return result, nil
	}

	first, last := records[0].Watched, records[0].Watched
	byDate := make(map[civil.Date][]int)
	for i, rec := range records {
		if !rec.Watched.IsValid() {
			return nil, services.Wrap(services.ErrValidation, "timeline", "replay", fmt.Sprintf("record %q has no watched date", rec.Key), nil)
		}
		if rec.Watched.Before(first) {
			first = rec.Watched
		}
		if rec.Watched.After(last) {
			last = rec.Watched
		}
		byDate[rec.Watched] = append(byDate[rec.Watched], i)
	}

	result.Days = Normalize(first, last)
	for _, category := range seed {
		if err := result.register(category, len(result.Days)); err != nil {
			return nil, err
		}
	}

	running := make(map[Category]int)
	for day, date := range result.Days {
		for _, i := range byDate[date] {
			for _, extractor := range extractors {
				for _, category := range extractor.Extract(records[i]) {
					if _, ok := result.counters[category]; !ok {
						if err := result.register(category, len(result.Days)); err != nil {
							return nil, fmt.Errorf("extractor %s: %w", extractor.Name(), err)
						}
					}
					running[category]++
				}
			}
		}
		for _, category := range result.order {
			result.counters[category][day] = running[category]
		}
	}
	return result, nil
}

func (r *Result) register(category Category, days int) error {
	if err := category.validate(); err != nil {
		return services.Wrap(services.ErrValidation, "timeline", "register category", "", err)
	}
	if _, ok := r.counters[category]; ok {
		return nil
	}
	r.order = append(r.order, category)
	r.counters[category] = make([]int, days)
	return nil
}

// Categories returns the categories in display order.
func (r *Result) Categories() []Category {
	return append([]Category(nil), r.order...)
}

// Series returns a copy of the cumulative counts for category.
func (r *Result) Series(category Category) ([]int, bool) {
	series, ok := r.counters[category]
	if !ok {
		return nil, false
	}
	return append([]int(nil), series...), true
}

// Final returns the last cumulative value for category, or 0 when unknown.
func (r *Result) Final(category Category) int {
	series := r.counters[category]
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// WithSeries returns a copy of r with an extra cumulative series built from
// an independent dated feed, aligned against the same days. Dates outside
// the calendar are ignored.
func (r *Result) WithSeries(category Category, dates []civil.Date) (*Result, error) {
	if err := category.validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "timeline", "add series", "", err)
	}
	if _, ok := r.counters[category]; ok {
		return nil, services.Wrap(services.ErrValidation, "timeline", "add series", fmt.Sprintf("category %s already present", category.Label()), nil)
	}

	daily := make([]int, len(r.Days))
	for _, date := range dates {
		if i, ok := r.Days.Index(date); ok {
			daily[i]++
		}
	}
	for i := 1; i < len(daily); i++ {
		daily[i] += daily[i-1]
	}

	out := &Result{
		Days:     r.Days,
		order:    append(r.Categories(), category),
		counters: make(map[Category][]int, len(r.counters)+1),
	}
	for key, series := range r.counters {
		out.counters[key] = series
	}
	out.counters[category] = daily
	return out, nil
}
