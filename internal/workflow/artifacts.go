package workflow

import (
	"context"
	"fmt"
	"io"
	"time"

	"reeldiary/internal/enrich"
	"reeldiary/internal/logging"
	"reeldiary/internal/postercache"
	"reeldiary/internal/ratings"
	"reeldiary/internal/render"
	"reeldiary/internal/services"
	"reeldiary/internal/timeline"
)

// Artifact describes a written output file.
type Artifact struct {
	Path     string
	Bytes    int64
	Items    int
	Duration time.Duration
}

// GridRequest selects the month to render.
type GridRequest struct {
	Username string
	Year     int
	Month    time.Month
	// Output overrides output.grid_file.
	Output string
}

// GraphRequest selects the chart series.
type GraphRequest struct {
	Ratings   bool
	Tags      bool
	Watchlist bool
	Output    string
}

// AnimationRequest configures the rating animation.
type AnimationRequest struct {
	Output string
}

// BuildGrid enriches one month of the diary with posters and writes the
// grid page.
func (m *Manager) BuildGrid(ctx context.Context, req GridRequest) (Artifact, error) {
	start := time.Now()
	history, err := m.LoadHistory(ctx)
	if err != nil {
		return Artifact{}, err
	}
	username := req.Username
	if username == "" {
		username = m.cfg.Letterboxd.Username
	}
	if username == "" {
		return Artifact{}, services.Wrap(services.ErrConfiguration, "grid", "username",
			"set letterboxd.username, LETTERBOXD_USERNAME, or --user", nil)
	}
	source, err := m.letterboxdSource()
	if err != nil {
		return Artifact{}, err
	}

	stageCtx, logger := m.stageContext(ctx, "grid")
	var cache enrich.Cache
	if m.cfg.PosterCache.Enabled {
		if err := m.cfg.EnsureDirectories(); err != nil {
			return Artifact{}, fmt.Errorf("ensure directories: %w", err)
		}
		store, err := postercache.Open(stageCtx, m.cfg.PosterCache.Path, m.logger)
		if err != nil {
			return Artifact{}, fmt.Errorf("open poster cache: %w", err)
		}
		defer store.Close()
		cache = store
	}

	enriched, summary, err := enrich.WithPosters(stageCtx, history.Entities, source, enrich.Options{
		Username: username,
		Year:     req.Year,
		Month:    req.Month,
		Cache:    cache,
		Progress: m.progress,
		Logger:   m.logger,
	})
	if err != nil {
		return Artifact{}, err
	}
	if enriched.Len() == 0 {
		return Artifact{}, services.Wrap(services.ErrLookup, "grid", "enrich",
			fmt.Sprintf("no diary rows for %04d-%02d matched the export", req.Year, int(req.Month)), nil)
	}

	path := m.outputPath(req.Output, m.cfg.Output.GridFile)
	artifact, err := m.write(path, func(w io.Writer) error {
		return render.Grid(w, enriched, render.GridOptions{Reverse: m.cfg.Output.ReverseGrid})
	})
	if err != nil {
		return Artifact{}, err
	}
	artifact.Items = summary.Enriched
	artifact.Duration = time.Since(start)
	logger.Info("grid page written", artifactAttrs(artifact)...)
	return artifact, nil
}

// Series replays the export into cumulative counters.
func (m *Manager) Series(ctx context.Context, req GraphRequest) (*timeline.Result, error) {
	history, err := m.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	return m.replay(ctx, history, req)
}

func (m *Manager) replay(ctx context.Context, history *History, req GraphRequest) (*timeline.Result, error) {
	_, logger := m.stageContext(ctx, "replay")
	extractors := []timeline.Extractor{
		timeline.TotalExtractor(),
		timeline.LikedExtractor(),
		timeline.RewatchedExtractor(),
	}
	if req.Ratings {
		extractors = append(extractors, timeline.RatingExtractor())
	}
	if req.Tags {
		extractors = append(extractors, timeline.TagExtractor())
	}
	result, err := timeline.Replay(history.Entities.Records(), extractors, timeline.DefaultSeed()...)
	if err != nil {
		return nil, err
	}
	if req.Watchlist {
		result, err = result.WithSeries(timeline.Watchlist, history.Watchlist)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("timeline replayed",
		logging.Int("days", len(result.Days)),
		logging.Int("categories", len(result.Categories())))
	return result, nil
}

// BuildGraph writes the cumulative line chart.
func (m *Manager) BuildGraph(ctx context.Context, req GraphRequest) (Artifact, error) {
	start := time.Now()
	result, err := m.Series(ctx, req)
	if err != nil {
		return Artifact{}, err
	}
	if len(result.Days) == 0 {
		return Artifact{}, services.Wrap(services.ErrValidation, "graph", "replay", "diary export has no entries", nil)
	}

	_, logger := m.stageContext(ctx, "graph")
	options := render.ChartOptions{Title: m.cfg.Output.ChartTitle, Ratings: req.Ratings, Tags: req.Tags}
	path := m.outputPath(req.Output, m.cfg.Output.ChartFile)
	artifact, err := m.write(path, func(w io.Writer) error {
		return render.Chart(w, result, options)
	})
	if err != nil {
		return Artifact{}, err
	}
	artifact.Items = len(render.ChartCategories(result, options))
	artifact.Duration = time.Since(start)
	logger.Info("chart written", artifactAttrs(artifact)...)
	return artifact, nil
}

// BuildAnimation writes the rating-bucket animation.
func (m *Manager) BuildAnimation(ctx context.Context, req AnimationRequest) (Artifact, error) {
	start := time.Now()
	history, err := m.LoadHistory(ctx)
	if err != nil {
		return Artifact{}, err
	}
	_, logger := m.stageContext(ctx, "animate")
	snapshots := ratings.Bucketize(ratings.Events(history.Entities.Records()))
	if len(snapshots) == 0 {
		return Artifact{}, services.Wrap(services.ErrValidation, "animate", "bucketize", render.ErrNoFrames.Error(), nil)
	}

	path := m.outputPath(req.Output, m.cfg.Output.AnimationFile)
	artifact, err := m.write(path, func(w io.Writer) error {
		return render.Animation(w, snapshots, render.AnimationOptions{
			Width:  m.cfg.Output.AnimationWidth,
			Height: m.cfg.Output.AnimationHeight,
		})
	})
	if err != nil {
		return Artifact{}, err
	}
	artifact.Items = len(snapshots)
	artifact.Duration = time.Since(start)
	logger.Info("animation written", artifactAttrs(artifact)...)
	return artifact, nil
}

func (m *Manager) outputPath(override, configured string) string {
	if override != "" {
		return m.cfg.OutputPath(override)
	}
	return m.cfg.OutputPath(configured)
}

func (m *Manager) write(path string, fn func(io.Writer) error) (Artifact, error) {
	var written int64
	err := m.withOutputLock(func() error {
		var err error
		written, err = render.WriteArtifact(path, fn)
		return err
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Artifact{Path: path, Bytes: written}, nil
}

func artifactAttrs(artifact Artifact) []any {
	return logging.Args(
		logging.String(logging.FieldEventType, "artifact_written"),
		logging.String("path", artifact.Path),
		logging.Int64("bytes", artifact.Bytes),
		logging.Int("items", artifact.Items),
		logging.Duration("duration", artifact.Duration),
	)
}
