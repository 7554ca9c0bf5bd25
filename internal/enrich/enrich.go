// Package enrich attaches Letterboxd poster images to diary entities for one
// month of activity.
package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"reeldiary/internal/diary"
	"reeldiary/internal/letterboxd"
	"reeldiary/internal/logging"
	"reeldiary/internal/postercache"
	"reeldiary/internal/services"
)

// Source fetches the month page and poster URLs.
type Source interface {
	DiaryMonth(ctx context.Context, username string, year int, month time.Month) ([]letterboxd.DiaryEntry, error)
	Poster(ctx context.Context, slug string) (string, error)
}

// Cache stores resolved poster URLs between runs.
type Cache interface {
	Lookup(ctx context.Context, slug string) (postercache.Entry, bool, error)
	Store(ctx context.Context, entry postercache.Entry) error
}

// Options selects the month and the optional collaborators.
type Options struct {
	Username string
	Year     int
	Month    time.Month
	// Cache may be nil.
	Cache Cache
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
	Logger   *slog.Logger
}

// Summary reports what enrichment did.
type Summary struct {
	PageRows  int
	Enriched  int
	Skipped   int
	CacheHits int
}

// WithPosters fetches the month's diary page, matches each row to an entity,
// and returns a new map holding only matched entities, in page order, with
// Image set. Rows without a matching entity or without a poster are skipped.
// Fetch failures abort.
func WithPosters(ctx context.Context, entities *diary.EntityMap, source Source, opts Options) (*diary.EntityMap, Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx = services.WithStage(ctx, "enrich")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "enrich"))

	var summary Summary
	rows, err := source.DiaryMonth(ctx, opts.Username, opts.Year, opts.Month)
	if err != nil {
		return nil, summary, fmt.Errorf("fetch diary month: %w", err)
	}
	summary.PageRows = len(rows)
	logger.Info("diary month fetched",
		logging.String(logging.FieldEventType, "diary_month_fetched"),
		logging.String("month", fmt.Sprintf("%04d-%02d", opts.Year, int(opts.Month))),
		logging.Int("rows", len(rows)))

	bar := newProgressBar(opts.Progress, len(rows))
	used := make(map[string]struct{})
	out := diary.NewEntityMap()
	for _, row := range rows {
		err := enrichRow(ctx, entities, source, opts, row, used, out, &summary)
		_ = bar.Add(1)
		switch {
		case err == nil:
			summary.Enriched++
		case !services.Fatal(err):
			summary.Skipped++
			logger.Debug("diary row skipped",
				logging.String(logging.FieldEventType, "diary_row_skipped"),
				logging.String("title", row.Title),
				logging.String("year", row.Year),
				logging.Error(err))
		default:
			_ = bar.Exit()
			return nil, summary, err
		}
	}
	_ = bar.Finish()

	logger.Info("poster enrichment complete",
		logging.String(logging.FieldEventType, "enrich_complete"),
		logging.Int("enriched", summary.Enriched),
		logging.Int("skipped", summary.Skipped),
		logging.Int("cache_hits", summary.CacheHits))
	return out, summary, nil
}

func enrichRow(ctx context.Context, entities *diary.EntityMap, source Source, opts Options, row letterboxd.DiaryEntry, used map[string]struct{}, out *diary.EntityMap, summary *Summary) error {
	canonical := diary.CanonicalKey(row.Title, row.Year)
	key, ok := pickSighting(entities, canonical, opts.Year, opts.Month, row.Day, used)
	if !ok {
		return services.Wrap(services.ErrLookup, "enrich", "match", fmt.Sprintf("%s is not in the diary export", canonical), nil)
	}
	rec, _ := entities.Get(key)

	poster, hit, err := resolvePoster(ctx, source, opts.Cache, row)
	if err != nil {
		return err
	}
	if hit {
		summary.CacheHits++
	}
	used[key] = struct{}{}
	rec.Image = poster
	out.Set(key, rec)
	return nil
}

func resolvePoster(ctx context.Context, source Source, cache Cache, row letterboxd.DiaryEntry) (string, bool, error) {
	if cache != nil {
		entry, ok, err := cache.Lookup(ctx, row.Slug)
		if err != nil {
			return "", false, fmt.Errorf("poster cache lookup: %w", err)
		}
		if ok {
			return entry.PosterURL, true, nil
		}
	}
	poster, err := source.Poster(ctx, row.Slug)
	if err != nil {
		return "", false, err
	}
	if cache != nil {
		entry := postercache.Entry{Slug: row.Slug, Title: row.Title, Year: row.Year, PosterURL: poster}
		if err := cache.Store(ctx, entry); err != nil {
			return "", false, fmt.Errorf("poster cache store: %w", err)
		}
	}
	return poster, false, nil
}

// pickSighting chooses which diary entry a page row refers to: an unused
// entry watched on the row's day, then one in the same month, then any
// unused entry for the film.
func pickSighting(entities *diary.EntityMap, canonical string, year int, month time.Month, day int, used map[string]struct{}) (string, bool) {
	keys := entities.Sightings(canonical)
	var sameMonth, fallback string
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		if _, taken := used[key]; taken {
			continue
		}
		rec, _ := entities.Get(key)
		inMonth := rec.Watched.Year == year && rec.Watched.Month == month
		if inMonth && day > 0 && rec.Watched.Day == day {
			return key, true
		}
		if inMonth && sameMonth == "" {
			sameMonth = key
		}
		if fallback == "" {
			fallback = key
		}
	}
	if sameMonth != "" {
		return sameMonth, true
	}
	return fallback, fallback != ""
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.NewOptions(total, progressbar.OptionSetVisibility(false))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("posters"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
}
