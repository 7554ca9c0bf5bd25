package diary_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"cloud.google.com/go/civil"

	"reeldiary/internal/diary"
	"reeldiary/internal/services"
)

func TestResolveBlankRatingWithoutOverlayMatch(t *testing.T) {
	rows := []diary.Row{{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01", Rating: "", Rewatch: "No"}}
	likes := diary.LikedOverlay([]diary.OverlayRow{{Title: "Heat", Year: "1995"}})

	entities, err := diary.Resolve(rows, diary.LastWins, likes)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	rec, ok := entities.Get("Inception (2010)")
	if !ok {
		t.Fatalf("expected Inception entity, keys=%v", entities.Keys())
	}
	if rec.Rated() || rec.Rating != diary.NoRating {
		t.Fatalf("expected absent rating, got %v", rec.Rating)
	}
	if rec.Liked || rec.Rewatched {
		t.Fatalf("expected liked=false rewatched=false, got %+v", rec)
	}
	if entities.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", entities.Len())
	}
}

func TestLikedOverlayMarksExistingAndDropsUnknown(t *testing.T) {
	rows := []diary.Row{
		{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01"},
		{Title: "Arrival", Year: "2016", WatchedDate: "2024-01-02", Rating: "4.5"},
	}
	likes := diary.LikedOverlay([]diary.OverlayRow{
		{Title: "Inception", Year: "2010"},
		{Title: "Inception", Year: "2011"},
		{Title: "Solaris", Year: "1972"},
	})

	entities, err := diary.Resolve(rows, diary.KeepAll, likes)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if entities.Len() != 2 {
		t.Fatalf("overlay must not create entities, got %d", entities.Len())
	}
	for _, rec := range entities.Records() {
		want := rec.Title == "Inception"
		if rec.Liked != want {
			t.Fatalf("%s liked=%v, want %v", rec.Key, rec.Liked, want)
		}
	}
}

func TestOverlayIsIdempotent(t *testing.T) {
	rows := []diary.Row{
		{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01"},
		{Title: "Arrival", Year: "2016", WatchedDate: "2024-01-02"},
	}
	likes := diary.LikedOverlay([]diary.OverlayRow{{Title: "Arrival", Year: "2016"}})

	once, err := diary.Resolve(rows, diary.KeepAll, likes)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	twice, err := diary.Resolve(rows, diary.KeepAll, likes, likes)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !reflect.DeepEqual(once.Records(), twice.Records()) {
		t.Fatalf("overlay applied twice differs:\n%+v\n%+v", once.Records(), twice.Records())
	}
}

func TestIdentityFieldsMatchCreatingRow(t *testing.T) {
	rows := []diary.Row{
		{Title: " Amélie ", Year: "2001", WatchedDate: "2023-05-04", Rating: "5", Rewatch: "Yes", Tags: "paris, comfort, paris", URI: "https://boxd.it/abc"},
		{Title: "Heat", Year: "1995", WatchedDate: "2023-05-06", Rating: "3.5"},
	}
	entities, err := diary.Resolve(rows, diary.KeepAll)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	records := entities.Records()
	if len(records) != len(rows) {
		t.Fatalf("expected %d records, got %d", len(rows), len(records))
	}
	for i, rec := range records {
		row := rows[i]
		if rec.Key != diary.CanonicalKey(row.Title, row.Year) {
			t.Errorf("record %d key %q", i, rec.Key)
		}
		if rec.Title != strings.TrimSpace(row.Title) || rec.Year != row.Year {
			t.Errorf("record %d identity %q/%q", i, rec.Title, rec.Year)
		}
		if rec.Watched.String() != row.WatchedDate {
			t.Errorf("record %d watched %s", i, rec.Watched)
		}
	}
	first := records[0]
	if first.Rating != diary.Rating(10) || !first.Rewatched || first.URI != "https://boxd.it/abc" {
		t.Fatalf("unexpected first record %+v", first)
	}
	if !reflect.DeepEqual(first.Tags, []string{"paris", "comfort"}) {
		t.Fatalf("tags = %v", first.Tags)
	}
}

func TestDuplicatePolicies(t *testing.T) {
	rows := []diary.Row{
		{Title: "Heat", Year: "1995", WatchedDate: "2024-01-01", Rating: "3"},
		{Title: "Alien", Year: "1979", WatchedDate: "2024-01-02"},
		{Title: "Heat", Year: "1995", WatchedDate: "2024-02-01", Rating: "4.5", Rewatch: "Yes"},
	}

	keep, err := diary.Resolve(rows, diary.KeepAll)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if keep.Len() != 3 {
		t.Fatalf("KeepAll entities = %d, want 3", keep.Len())
	}
	if got := len(keep.Sightings("Heat (1995)")); got != 2 {
		t.Fatalf("expected 2 sightings, got %d", got)
	}

	last, err := diary.Resolve(rows, diary.LastWins)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !reflect.DeepEqual(last.Keys(), []string{"Heat (1995)", "Alien (1979)"}) {
		t.Fatalf("LastWins keys = %v", last.Keys())
	}
	heat, _ := last.Get("Heat (1995)")
	if heat.Rating.String() != "4.5" || !heat.Rewatched {
		t.Fatalf("later row should win, got %+v", heat)
	}
}

func TestKeepAllKeepsSameDayRepeats(t *testing.T) {
	rows := []diary.Row{
		{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01", Rating: "4"},
		{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01", Rating: "5", Rewatch: "Yes"},
		{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01"},
	}
	entities, err := diary.Resolve(rows, diary.KeepAll)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := []string{
		"Inception (2010) @ 2024-01-01",
		"Inception (2010) @ 2024-01-01 #2",
		"Inception (2010) @ 2024-01-01 #3",
	}
	if !reflect.DeepEqual(entities.Keys(), want) {
		t.Fatalf("keys = %v, want %v", entities.Keys(), want)
	}
	if got := len(entities.Sightings("Inception (2010)")); got != 3 {
		t.Fatalf("expected 3 sightings, got %d", got)
	}
	second, _ := entities.Get(want[1])
	if second.Rating.String() != "5.0" || !second.Rewatched {
		t.Fatalf("second row lost its fields: %+v", second)
	}
}

func TestResolveRejectsMalformedFields(t *testing.T) {
	tests := []struct {
		name string
		row  diary.Row
	}{
		{"bad rating", diary.Row{Title: "A", Year: "2000", WatchedDate: "2024-01-01", Rating: "four"}},
		{"off-level rating", diary.Row{Title: "A", Year: "2000", WatchedDate: "2024-01-01", Rating: "3.3"}},
		{"rating out of range", diary.Row{Title: "A", Year: "2000", WatchedDate: "2024-01-01", Rating: "6"}},
		{"bad date", diary.Row{Title: "A", Year: "2000", WatchedDate: "01/02/2024"}},
		{"missing title", diary.Row{Year: "2000", WatchedDate: "2024-01-01"}},
		{"missing year", diary.Row{Title: "A", WatchedDate: "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := diary.Resolve([]diary.Row{tt.row}, diary.KeepAll)
			if !errors.Is(err, services.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	for _, stars := range []string{"0.5", "1", "2.5", "5.0"} {
		rating, err := diary.ParseRating(stars)
		if err != nil || !rating.Valid() {
			t.Fatalf("ParseRating(%q) = %v, %v", stars, rating, err)
		}
	}
	if rating, err := diary.ParseRating("  "); err != nil || rating != diary.NoRating {
		t.Fatalf("blank rating = %v, %v", rating, err)
	}
	if got := diary.Rating(7).StarGlyphs(); got != "★★★½" {
		t.Fatalf("StarGlyphs = %q", got)
	}
	if got := diary.Rating(8).String(); got != "4.0" {
		t.Fatalf("String = %q", got)
	}
}

func TestReverseAndDateRange(t *testing.T) {
	rows := []diary.Row{
		{Title: "B", Year: "2001", WatchedDate: "2024-03-01"},
		{Title: "A", Year: "2000", WatchedDate: "2024-01-05"},
		{Title: "C", Year: "2002", WatchedDate: "2024-02-01"},
	}
	entities, err := diary.Resolve(rows, diary.LastWins)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	reversed := entities.Reverse()
	if !reflect.DeepEqual(reversed.Keys(), []string{"C (2002)", "A (2000)", "B (2001)"}) {
		t.Fatalf("reversed keys = %v", reversed.Keys())
	}
	first, last, ok := entities.DateRange()
	if !ok || first != (civil.Date{Year: 2024, Month: 1, Day: 5}) || last != (civil.Date{Year: 2024, Month: 3, Day: 1}) {
		t.Fatalf("DateRange = %v %v %v", first, last, ok)
	}
}

func TestDecodeDiaryByHeaderName(t *testing.T) {
	input := "Date,Name,Year,Letterboxd URI,Rating,Rewatch,Tags,Watched Date\n" +
		"2024-01-02,Inception,2010,https://boxd.it/1,4.5,Yes,\"heist, dreams\",2024-01-01\n" +
		"2024-01-03,\"Crouching Tiger, Hidden Dragon\",2000,https://boxd.it/2,,,,2024-01-02\n"

	rows, err := diary.DecodeDiary(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeDiary returned error: %v", err)
	}
	want := []diary.Row{
		{Title: "Inception", Year: "2010", WatchedDate: "2024-01-01", Rating: "4.5", Rewatch: "Yes", Tags: "heist, dreams", URI: "https://boxd.it/1"},
		{Title: "Crouching Tiger, Hidden Dragon", Year: "2000", WatchedDate: "2024-01-02", URI: "https://boxd.it/2"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestDecodeDiaryMissingColumn(t *testing.T) {
	_, err := diary.DecodeDiary(strings.NewReader("Name,Year\nInception,2010\n"))
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !strings.Contains(err.Error(), "Watched Date") {
		t.Fatalf("expected missing column in message, got %v", err)
	}
}

func TestReadExportFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	likesPath := write("films.csv", "Date,Name,Year,Letterboxd URI\n2024-01-01,Heat,1995,https://boxd.it/h\n")
	watchPath := write("watchlist.csv", "Date,Name,Year,Letterboxd URI\n2024-01-01,Heat,1995,x\n2024-01-04,Ran,1985,y\n")
	badWatch := write("bad.csv", "Date,Name\nlater,Ran\n")

	likes, err := diary.ReadLikes(likesPath)
	if err != nil || len(likes) != 1 || likes[0] != (diary.OverlayRow{Title: "Heat", Year: "1995"}) {
		t.Fatalf("ReadLikes = %+v, %v", likes, err)
	}
	dates, err := diary.ReadWatchlist(watchPath)
	if err != nil || len(dates) != 2 || dates[1].String() != "2024-01-04" {
		t.Fatalf("ReadWatchlist = %v, %v", dates, err)
	}
	if _, err := diary.ReadWatchlist(badWatch); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse for bad watchlist date, got %v", err)
	}
	if _, err := diary.ReadDiary(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
