package preflight

import (
	"context"

	"reeldiary/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// Options toggles checks that need the network.
type Options struct {
	// Remote probes the Letterboxd base URL.
	Remote bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryReadable("Export directory", cfg.Paths.ExportDir),
		CheckExportFile("Diary export", cfg.DiaryPath(), false),
		CheckExportFile("Liked films", cfg.LikesPath(), false),
	}
	if path := cfg.WatchlistPath(); path != "" {
		results = append(results, CheckExportFile("Watchlist", path, true))
	}
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))

	if cfg.PosterCache.Enabled {
		results = append(results, CheckPosterCache(cfg.PosterCache.Path))
	}

	if cfg.Letterboxd.Username == "" {
		results = append(results, Result{
			Name:     "Letterboxd username",
			Optional: true,
			Detail:   "not set (grid needs letterboxd.username or --user)",
		})
	} else {
		results = append(results, Result{Name: "Letterboxd username", Passed: true, Detail: cfg.Letterboxd.Username})
	}
	if opts.Remote {
		results = append(results, CheckLetterboxd(ctx, cfg.Letterboxd.BaseURL, cfg.Letterboxd.UserAgent))
	}

	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return true
		}
	}
	return false
}
