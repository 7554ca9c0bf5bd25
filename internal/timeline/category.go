package timeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reeldiary/internal/diary"
)

// Kind enumerates the category dimensions.
type Kind uint8

const (
	KindTotal Kind = iota + 1
	KindLiked
	KindRewatched
	KindWatchlist
	KindRating
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindTotal:
		return "total"
	case KindLiked:
		return "liked"
	case KindRewatched:
		return "rewatched"
	case KindWatchlist:
		return "watchlist"
	case KindRating:
		return "rating"
	case KindTag:
		return "tag"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Category is one counted dimension. Rating is set only for KindRating and
// Tag only for KindTag.
type Category struct {
	Kind   Kind
	Rating diary.Rating
	Tag    string
}

var (
	Total     = Category{Kind: KindTotal}
	Liked     = Category{Kind: KindLiked}
	Rewatched = Category{Kind: KindRewatched}
	Watchlist = Category{Kind: KindWatchlist}
)

// RatingCategory returns the category for one rating level.
func RatingCategory(r diary.Rating) Category {
	return Category{Kind: KindRating, Rating: r}
}

// TagCategory returns the category for a tag. Tags differing only in case
// map to the same category.
func TagCategory(tag string) Category {
	return Category{Kind: KindTag, Tag: cases.Fold().String(strings.TrimSpace(tag))}
}

// Label is the display name used in charts and tables.
func (c Category) Label() string {
	switch c.Kind {
	case KindTotal:
		return "Total"
	case KindLiked:
		return "Liked"
	case KindRewatched:
		return "Rewatched"
	case KindWatchlist:
		return "Watchlist"
	case KindRating:
		return "Rating " + c.Rating.String()
	case KindTag:
		return "Tag " + cases.Title(language.Und).String(c.Tag)
	default:
		return c.Kind.String()
	}
}

func (c Category) String() string { return c.Label() }

func (c Category) validate() error {
	switch c.Kind {
	case KindTotal, KindLiked, KindRewatched, KindWatchlist:
		if c.Rating != diary.NoRating || c.Tag != "" {
			return fmt.Errorf("category %s carries a payload", c.Kind)
		}
	case KindRating:
		if !c.Rating.Valid() {
			return fmt.Errorf("rating category with invalid rating %d", c.Rating)
		}
	case KindTag:
		if c.Tag == "" {
			return fmt.Errorf("tag category without a tag")
		}
	default:
		return fmt.Errorf("unknown category kind %d", c.Kind)
	}
	return nil
}
