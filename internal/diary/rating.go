package diary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"reeldiary/internal/services"
)

// Rating is a half-star rating level. The zero value means unrated; valid
// ratings count half stars from 1 (0.5 stars) to 10 (5 stars).
type Rating uint8

// NoRating marks a record without a rating.
const NoRating Rating = 0

// RatingLevels is the number of half-star buckets.
const RatingLevels = 10

// AllRatings lists every rating level in ascending order.
var AllRatings = [RatingLevels]Rating{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// Valid reports whether r is one of the ten rating levels.
func (r Rating) Valid() bool {
	return r >= 1 && r <= RatingLevels
}

// Stars returns the rating out of five.
func (r Rating) Stars() float64 {
	return float64(r) / 2
}

// Index returns the zero-based bucket position of r. It panics for NoRating.
func (r Rating) Index() int {
	if !r.Valid() {
		panic(fmt.Sprintf("diary: rating %d has no bucket", r))
	}
	return int(r) - 1
}

// String renders the rating with one decimal place, e.g. "3.5".
func (r Rating) String() string {
	if r == NoRating {
		return "none"
	}
	return strconv.FormatFloat(r.Stars(), 'f', 1, 64)
}

// StarGlyphs renders r as full stars followed by a half star when needed.
func (r Rating) StarGlyphs() string {
	if !r.Valid() {
		return ""
	}
	glyphs := strings.Repeat("★", int(r)/2)
	if r%2 == 1 {
		glyphs += "½"
	}
	return glyphs
}

// RatingFromStars converts a value out of five to a rating level.
func RatingFromStars(stars float64) (Rating, bool) {
	halves := stars * 2
	if math.IsNaN(halves) || halves != math.Trunc(halves) || halves < 1 || halves > RatingLevels {
		return NoRating, false
	}
	return Rating(halves), true
}

// ParseRating parses the export's rating column. A blank value yields
// NoRating; anything that is not one of the ten levels is a parse error.
func ParseRating(raw string) (Rating, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoRating, nil
	}
	stars, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return NoRating, services.Wrap(services.ErrParse, "diary", "parse rating", fmt.Sprintf("rating %q", raw), err)
	}
	rating, ok := RatingFromStars(stars)
	if !ok {
		return NoRating, services.Wrap(services.ErrParse, "diary", "parse rating", fmt.Sprintf("rating %q is not a half-star level between 0.5 and 5", raw), nil)
	}
	return rating, nil
}
