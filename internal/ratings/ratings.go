// Package ratings turns rated diary entries into a chronological sequence of
// rating-bucket snapshots, one per rating event.
package ratings

import (
	"sort"

	"reeldiary/internal/diary"
)

// Counts holds one counter per rating level, indexed by Rating.Index.
type Counts [diary.RatingLevels]int

// Get returns the count for a rating level.
func (c Counts) Get(r diary.Rating) int {
	return c[r.Index()]
}

// Sum returns the total across all buckets.
func (c Counts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Max returns the largest bucket count.
func (c Counts) Max() int {
	highest := 0
	for _, n := range c {
		highest = max(highest, n)
	}
	return highest
}

// Snapshot is the bucket state right after one rating event. Counts is a
// value copy, so later events never change an earlier snapshot.
type Snapshot struct {
	// Index is the 1-based position of the event in the sequence.
	Index  int
	Counts Counts
	Record diary.WatchRecord
}

// Count returns the bucket count for r in this snapshot.
func (s Snapshot) Count(r diary.Rating) int {
	return s.Counts.Get(r)
}

// Events selects rated records and orders them by watched date. Records
// watched on the same day keep their feed order.
func Events(records []diary.WatchRecord) []diary.WatchRecord {
	events := make([]diary.WatchRecord, 0, len(records))
	for _, rec := range records {
		if rec.Rated() {
			events = append(events, rec)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Watched.Before(events[j].Watched)
	})
	return events
}

// Bucketize emits one snapshot per rated event, in the order given. Unrated
// records are skipped and do not consume an index.
func Bucketize(events []diary.WatchRecord) []Snapshot {
	var counts Counts
	snapshots := make([]Snapshot, 0, len(events))
	for _, rec := range events {
		if !rec.Rated() {
			continue
		}
		counts[rec.Rating.Index()]++
		snapshots = append(snapshots, Snapshot{
			Index:  len(snapshots) + 1,
			Counts: counts,
			Record: rec,
		})
	}
	return snapshots
}

// Distribution returns the final bucket counts for records, or zero counts
// when none are rated.
func Distribution(records []diary.WatchRecord) Counts {
	snapshots := Bucketize(records)
	if len(snapshots) == 0 {
		return Counts{}
	}
	return snapshots[len(snapshots)-1].Counts
}
