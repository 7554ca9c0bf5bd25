package workflow

import (
	"context"
	"sort"

	"reeldiary/internal/diary"
	"reeldiary/internal/ratings"
	"reeldiary/internal/timeline"
)

// TagCount is a tag and how many entries carry it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats summarizes the export.
type Stats struct {
	Entries      int            `json:"entries"`
	Rated        int            `json:"rated"`
	Liked        int            `json:"liked"`
	Rewatched    int            `json:"rewatched"`
	Watchlist    int            `json:"watchlist"`
	FirstWatched string         `json:"first_watched,omitempty"`
	LastWatched  string         `json:"last_watched,omitempty"`
	Days         int            `json:"days"`
	Ratings      map[string]int `json:"ratings"`
	Tags         []TagCount     `json:"tags,omitempty"`

	distribution ratings.Counts
}

// Distribution returns the rating bucket counts.
func (s Stats) Distribution() ratings.Counts { return s.distribution }

// Stats computes summary counters from the final day of the replay.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	history, err := m.LoadHistory(ctx)
	if err != nil {
		return Stats{}, err
	}
	result, err := m.replay(ctx, history, GraphRequest{Tags: true})
	if err != nil {
		return Stats{}, err
	}
	return summarize(history, result), nil
}

func summarize(history *History, result *timeline.Result) Stats {
	records := history.Entities.Records()
	distribution := ratings.Distribution(ratings.Events(records))
	stats := Stats{
		Entries:      result.Final(timeline.Total),
		Rated:        distribution.Sum(),
		Liked:        result.Final(timeline.Liked),
		Rewatched:    result.Final(timeline.Rewatched),
		Watchlist:    len(history.Watchlist),
		Days:         len(result.Days),
		Ratings:      make(map[string]int, diary.RatingLevels),
		distribution: distribution,
	}
	if len(result.Days) > 0 {
		stats.FirstWatched = result.Days.First().String()
		stats.LastWatched = result.Days.Last().String()
	}
	for _, rating := range diary.AllRatings {
		stats.Ratings[rating.String()] = distribution.Get(rating)
	}
	for _, category := range result.Categories() {
		if category.Kind == timeline.KindTag {
			stats.Tags = append(stats.Tags, TagCount{Tag: category.Tag, Count: result.Final(category)})
		}
	}
	sort.SliceStable(stats.Tags, func(i, j int) bool {
		return stats.Tags[i].Count > stats.Tags[j].Count
	})
	return stats
}
