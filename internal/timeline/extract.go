package timeline

import "reeldiary/internal/diary"

// Extractor maps a record to the categories it contributes to on its watched
// date.
type Extractor interface {
	Name() string
	Extract(rec diary.WatchRecord) []Category
}

type extractorFunc struct {
	name string
	fn   func(diary.WatchRecord) []Category
}

func (e extractorFunc) Name() string { return e.name }

func (e extractorFunc) Extract(rec diary.WatchRecord) []Category { return e.fn(rec) }

// NewExtractor adapts a function to the Extractor interface.
func NewExtractor(name string, fn func(diary.WatchRecord) []Category) Extractor {
	return extractorFunc{name: name, fn: fn}
}

// TotalExtractor counts every record.
func TotalExtractor() Extractor {
	return NewExtractor("total", func(diary.WatchRecord) []Category {
		return []Category{Total}
	})
}

// LikedExtractor counts liked records.
func LikedExtractor() Extractor {
	return NewExtractor("liked", func(rec diary.WatchRecord) []Category {
		if rec.Liked {
			return []Category{Liked}
		}
		return nil
	})
}

// RewatchedExtractor counts rewatches.
func RewatchedExtractor() Extractor {
	return NewExtractor("rewatched", func(rec diary.WatchRecord) []Category {
		if rec.Rewatched {
			return []Category{Rewatched}
		}
		return nil
	})
}

// RatingExtractor counts rated records by rating level.
func RatingExtractor() Extractor {
	return NewExtractor("rating", func(rec diary.WatchRecord) []Category {
		if !rec.Rated() {
			return nil
		}
		return []Category{RatingCategory(rec.Rating)}
	})
}

// TagExtractor counts one contribution per distinct tag, ignoring case.
func TagExtractor() Extractor {
	return NewExtractor("tag", func(rec diary.WatchRecord) []Category {
		if len(rec.Tags) == 0 {
			return nil
		}
		out := make([]Category, 0, len(rec.Tags))
		seen := make(map[Category]struct{}, len(rec.Tags))
		for _, tag := range rec.Tags {
			category := TagCategory(tag)
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}
			out = append(out, category)
		}
		return out
	})
}

// DefaultExtractors returns every built-in extractor.
func DefaultExtractors() []Extractor {
	return []Extractor{
		TotalExtractor(),
		LikedExtractor(),
		RewatchedExtractor(),
		RatingExtractor(),
		TagExtractor(),
	}
}

// DefaultSeed lists categories that always appear, even when nothing
// contributes to them.
func DefaultSeed() []Category {
	return []Category{Total, Liked, Rewatched}
}
