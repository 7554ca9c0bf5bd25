// Package timeline replays watch records into cumulative per-category
// counters over a dense daily calendar.
//
// Normalize expands a date range into a gapless DailySeries. Replay groups
// records by watched date, walks every day of the range, and carries running
// totals forward so each category series is non-decreasing and aligned with
// the calendar. Categories appear in seed order followed by first appearance.
package timeline
