package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"reeldiary/internal/config"
)

// DiaryEntry is one diary.csv fixture row.
type DiaryEntry struct {
	Name        string
	Year        string
	WatchedDate string
	Rating      string
	Rewatch     string
	Tags        string
}

// Film names a film in likes or watchlist fixtures.
type Film struct {
	Name  string
	Year  string
	Added string
}

// Export describes the files of a Letterboxd export.
type Export struct {
	Diary     []DiaryEntry
	Likes     []Film
	Watchlist []Film
}

// Write creates diary, likes and, when entries are present, watchlist CSVs at
// the locations cfg resolves.
func (e Export) Write(t testing.TB, cfg *config.Config) {
	t.Helper()

	diary := [][]string{{"Date", "Name", "Year", "Letterboxd URI", "Rating", "Rewatch", "Tags", "Watched Date"}}
	for _, entry := range e.Diary {
		diary = append(diary, []string{entry.WatchedDate, entry.Name, entry.Year, "https://boxd.it/x", entry.Rating, entry.Rewatch, entry.Tags, entry.WatchedDate})
	}
	WriteCSV(t, cfg.DiaryPath(), diary)

	likes := [][]string{{"Date", "Name", "Year", "Letterboxd URI"}}
	for _, film := range e.Likes {
		likes = append(likes, []string{film.Added, film.Name, film.Year, "https://boxd.it/x"})
	}
	WriteCSV(t, cfg.LikesPath(), likes)

	if len(e.Watchlist) > 0 && cfg.WatchlistPath() != "" {
		watchlist := [][]string{{"Date", "Name", "Year", "Letterboxd URI"}}
		for _, film := range e.Watchlist {
			watchlist = append(watchlist, []string{film.Added, film.Name, film.Year, "https://boxd.it/x"})
		}
		WriteCSV(t, cfg.WatchlistPath(), watchlist)
	}
}

// WriteCSV writes records to path, creating parent directories.
func WriteCSV(t testing.TB, path string, records [][]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
