package postercache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reeldiary/internal/logging"
)

// Entry maps a film slug to its poster URL.
type Entry struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	PosterURL string    `json:"poster_url"`
	CachedAt  time.Time `json:"cached_at"`
}

// Cache is a SQLite-backed poster URL cache.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open creates or connects to the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("poster cache path is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path, logger: logging.NewComponentLogger(logger, "postercache")}
	if err := cache.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached entry for slug.
func (c *Cache) Lookup(ctx context.Context, slug string) (Entry, bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Entry{}, false, nil
	}
	row := c.db.QueryRowContext(ctx,
		"SELECT slug, title, year, poster_url, cached_at FROM posters WHERE slug = ?", slug)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup poster %q: %w", slug, err)
	}
	return entry, true, nil
}

// Store adds or replaces an entry.
func (c *Cache) Store(ctx context.Context, entry Entry) error {
	entry.Slug = strings.TrimSpace(entry.Slug)
	if entry.Slug == "" {
		return errors.New("film slug cannot be empty")
	}
	if strings.TrimSpace(entry.PosterURL) == "" {
		return fmt.Errorf("poster url for %q cannot be empty", entry.Slug)
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now()
	}
	err := c.execWithRetry(ctx, `INSERT INTO posters (slug, title, year, poster_url, cached_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			poster_url = excluded.poster_url,
			cached_at = excluded.cached_at`,
		entry.Slug, entry.Title, entry.Year, entry.PosterURL, entry.CachedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store poster %q: %w", entry.Slug, err)
	}
	c.logger.Debug("cached poster url",
		logging.String("slug", entry.Slug),
		logging.String("title", entry.Title))
	return nil
}

// Remove deletes the entry for slug.
func (c *Cache) Remove(ctx context.Context, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return errors.New("film slug cannot be empty")
	}
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := c.db.ExecContext(ctx, "DELETE FROM posters WHERE slug = ?", slug)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("remove poster %q: %w", slug, err)
	}
	if affected == 0 {
		return fmt.Errorf("slug %q not found in cache", slug)
	}
	return nil
}

// List returns all entries, newest first.
func (c *Cache) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT slug, title, year, poster_url, cached_at FROM posters ORDER BY cached_at DESC, slug")
	if err != nil {
		return nil, fmt.Errorf("list posters: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poster: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posters: %w", err)
	}
	return entries, nil
}

// Clear removes every entry and returns how many were deleted.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := c.db.ExecContext(ctx, "DELETE FROM posters")
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear posters: %w", err)
	}
	c.logger.Debug("cleared poster cache", logging.Int64("removed", removed))
	return removed, nil
}

// Count returns the number of cached posters.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM posters").Scan(&count); err != nil {
		return 0, fmt.Errorf("count posters: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry    Entry
		cachedAt string
	)
	if err := row.Scan(&entry.Slug, &entry.Title, &entry.Year, &entry.PosterURL, &cachedAt); err != nil {
		return Entry{}, err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, cachedAt); err == nil {
		entry.CachedAt = parsed
	}
	return entry, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (c *Cache) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := c.db.ExecContext(ctx, query, args...)
		return err
	})
}
