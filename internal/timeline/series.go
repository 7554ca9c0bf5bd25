package timeline

import "cloud.google.com/go/civil"

// DailySeries is an ascending run of consecutive calendar days.
type DailySeries []civil.Date

// Normalize returns every day from first to last inclusive. An inverted range
// yields an empty series.
func Normalize(first, last civil.Date) DailySeries {
	if last.Before(first) {
		return DailySeries{}
	}
	days := make(DailySeries, 0, last.DaysSince(first)+1)
	for day := first; !day.After(last); day = day.AddDays(1) {
		days = append(days, day)
	}
	return days
}

// Index returns the position of date in the series.
func (s DailySeries) Index(date civil.Date) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	i := date.DaysSince(s[0])
	if i < 0 || i >= len(s) {
		return 0, false
	}
	return i, true
}

// First returns the earliest day. It panics on an empty series.
func (s DailySeries) First() civil.Date { return s[0] }

// Last returns the latest day. It panics on an empty series.
func (s DailySeries) Last() civil.Date { return s[len(s)-1] }

// Strings formats every day as YYYY-MM-DD.
func (s DailySeries) Strings() []string {
	out := make([]string, len(s))
	for i, day := range s {
		out[i] = day.String()
	}
	return out
}
