package timeline_test

import (
	"errors"
	"reflect"
	"testing"

	"cloud.google.com/go/civil"

	"reeldiary/internal/diary"
	"reeldiary/internal/services"
	"reeldiary/internal/timeline"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func record(t *testing.T, key, watched string, rating diary.Rating, liked bool, tags ...string) diary.WatchRecord {
	t.Helper()
	return diary.WatchRecord{Key: key, Title: key, Watched: date(t, watched), Rating: rating, Liked: liked, Tags: tags}
}

func TestNormalizeIsDenseAndInclusive(t *testing.T) {
	days := timeline.Normalize(date(t, "2024-02-27"), date(t, "2024-03-02"))
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if !reflect.DeepEqual(days.Strings(), want) {
		t.Fatalf("Normalize = %v", days.Strings())
	}
	if i, ok := days.Index(date(t, "2024-03-01")); !ok || i != 3 {
		t.Fatalf("Index = %d, %v", i, ok)
	}
	if _, ok := days.Index(date(t, "2024-03-03")); ok {
		t.Fatal("date past the end should not be indexed")
	}
	if got := timeline.Normalize(date(t, "2024-01-02"), date(t, "2024-01-01")); len(got) != 0 {
		t.Fatalf("inverted range should be empty, got %v", got)
	}
	if got := timeline.Normalize(date(t, "2024-01-02"), date(t, "2024-01-02")); len(got) != 1 {
		t.Fatalf("single day range = %v", got)
	}
}

func TestReplayCarriesTotalsAcrossGapDays(t *testing.T) {
	records := []diary.WatchRecord{
		record(t, "A", "2024-01-01", diary.NoRating, false),
		record(t, "B", "2024-01-03", diary.NoRating, false),
	}
	result, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if len(result.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(result.Days))
	}
	total, _ := result.Series(timeline.Total)
	if !reflect.DeepEqual(total, []int{1, 1, 2}) {
		t.Fatalf("Total = %v, want [1 1 2]", total)
	}
}

func TestReplayBackFillsLateCategories(t *testing.T) {
	records := []diary.WatchRecord{
		record(t, "A", "2024-01-01", diary.Rating(6), false),
		record(t, "B", "2024-01-02", diary.NoRating, true, "horror"),
		record(t, "C", "2024-01-04", diary.Rating(8), true, "horror", "rewatch"),
		record(t, "D", "2024-01-04", diary.Rating(6), false),
	}
	result, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}

	want := map[timeline.Category][]int{
		timeline.Total:                         {1, 2, 2, 4},
		timeline.Liked:                         {0, 1, 1, 2},
		timeline.Rewatched:                     {0, 0, 0, 0},
		timeline.RatingCategory(diary.Rating(6)): {1, 1, 1, 2},
		timeline.TagCategory("horror"):          {0, 1, 1, 2},
		timeline.RatingCategory(diary.Rating(8)): {0, 0, 0, 1},
		timeline.TagCategory("rewatch"):         {0, 0, 0, 1},
	}
	for category, series := range want {
		got, ok := result.Series(category)
		if !ok {
			t.Fatalf("missing category %s", category.Label())
		}
		if !reflect.DeepEqual(got, series) {
			t.Errorf("%s = %v, want %v", category.Label(), got, series)
		}
	}

	labels := make([]string, 0)
	for _, category := range result.Categories() {
		labels = append(labels, category.Label())
	}
	wantLabels := []string{"Total", "Liked", "Rewatched", "Rating 3.0", "Tag Horror", "Rating 4.0", "Tag Rewatch"}
	if !reflect.DeepEqual(labels, wantLabels) {
		t.Fatalf("category order = %v, want %v", labels, wantLabels)
	}
}

func TestReplaySeriesAreMonotonicAndAligned(t *testing.T) {
	var records []diary.WatchRecord
	dates := []string{"2023-12-30", "2024-01-05", "2023-12-31", "2024-01-05", "2024-01-20", "2024-01-02"}
	for i, d := range dates {
		records = append(records, record(t, string(rune('A'+i)), d, diary.Rating(i%10+1), i%2 == 0, "t"+string(rune('a'+i%3))))
	}
	result, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	for _, category := range result.Categories() {
		series, _ := result.Series(category)
		if len(series) != len(result.Days) {
			t.Fatalf("%s has %d entries, want %d", category.Label(), len(series), len(result.Days))
		}
		for d := 1; d < len(series); d++ {
			if series[d] < series[d-1] {
				t.Fatalf("%s decreases at day %d: %v", category.Label(), d, series)
			}
		}
	}
	if got := result.Final(timeline.Total); got != len(records) {
		t.Fatalf("final total = %d, want %d", got, len(records))
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	records := []diary.WatchRecord{
		record(t, "A", "2024-01-02", diary.Rating(3), true, "x", "y"),
		record(t, "B", "2024-01-01", diary.Rating(9), false, "z"),
	}
	first, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	second, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("replaying identical input produced different results")
	}
}

func TestSeriesReturnsCopy(t *testing.T) {
	result, err := timeline.Replay([]diary.WatchRecord{record(t, "A", "2024-01-01", diary.NoRating, false)}, timeline.DefaultExtractors())
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	series, _ := result.Series(timeline.Total)
	series[0] = 99
	if again, _ := result.Series(timeline.Total); again[0] != 1 {
		t.Fatalf("Series leaked internal state: %v", again)
	}
}

func TestReplayEmptyInput(t *testing.T) {
	result, err := timeline.Replay(nil, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if len(result.Days) != 0 || len(result.Categories()) != 3 {
		t.Fatalf("unexpected empty result: days=%d categories=%v", len(result.Days), result.Categories())
	}
}

func TestReplayRejectsInvalidCategory(t *testing.T) {
	bad := timeline.NewExtractor("bad", func(diary.WatchRecord) []timeline.Category {
		return []timeline.Category{{Kind: timeline.KindRating}}
	})
	_, err := timeline.Replay([]diary.WatchRecord{record(t, "A", "2024-01-01", diary.NoRating, false)}, []timeline.Extractor{bad})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWithSeriesAlignsSideFeed(t *testing.T) {
	records := []diary.WatchRecord{
		record(t, "A", "2024-01-02", diary.NoRating, false),
		record(t, "B", "2024-01-05", diary.NoRating, false),
	}
	result, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	watchlist := []civil.Date{
		date(t, "2023-12-25"),
		date(t, "2024-01-03"),
		date(t, "2024-01-03"),
		date(t, "2024-02-01"),
	}
	extended, err := result.WithSeries(timeline.Watchlist, watchlist)
	if err != nil {
		t.Fatalf("WithSeries returned error: %v", err)
	}
	got, _ := extended.Series(timeline.Watchlist)
	if !reflect.DeepEqual(got, []int{0, 2, 2, 2}) {
		t.Fatalf("Watchlist = %v, want [0 2 2 2]", got)
	}
	if _, ok := result.Series(timeline.Watchlist); ok {
		t.Fatal("WithSeries must not modify the receiver")
	}
	if _, err := extended.WithSeries(timeline.Watchlist, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate series, got %v", err)
	}
}

func TestWithSeriesIgnoresDatesBeforeFirstDay(t *testing.T) {
	records := []diary.WatchRecord{
		record(t, "A", "2024-01-01", diary.NoRating, false),
		record(t, "B", "2024-01-03", diary.NoRating, false),
	}
	result, err := timeline.Replay(records, timeline.DefaultExtractors(), timeline.DefaultSeed()...)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	watchlist := []civil.Date{
		date(t, "2023-06-01"),
		date(t, "2023-07-01"),
		date(t, "2024-01-02"),
	}
	extended, err := result.WithSeries(timeline.Watchlist, watchlist)
	if err != nil {
		t.Fatalf("WithSeries returned error: %v", err)
	}
	got, _ := extended.Series(timeline.Watchlist)
	if !reflect.DeepEqual(got, []int{0, 1, 1}) {
		t.Fatalf("Watchlist = %v, want [0 1 1]", got)
	}
}

func TestTagCategoriesIgnoreCase(t *testing.T) {
	if timeline.TagCategory("Horror") != timeline.TagCategory(" horror ") {
		t.Fatal("tags differing only in case should share a category")
	}
	records := []diary.WatchRecord{
		record(t, "A", "2024-01-01", diary.NoRating, false, "horror"),
		record(t, "B", "2024-01-02", diary.NoRating, false, "Horror", "HORROR"),
	}
	result, err := timeline.Replay(records, []timeline.Extractor{timeline.TagExtractor()})
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	categories := result.Categories()
	if len(categories) != 1 || categories[0].Label() != "Tag Horror" {
		t.Fatalf("expected one Tag Horror category, got %v", categories)
	}
	got, _ := result.Series(categories[0])
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("Tag Horror = %v, want [1 2]", got)
	}
}
