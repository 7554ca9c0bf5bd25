package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeHistory()
	c.normalizeLetterboxd()
	if err := c.normalizePosterCache(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExport() {
	c.Export.Diary = strings.TrimSpace(c.Export.Diary)
	if c.Export.Diary == "" {
		c.Export.Diary = defaultDiaryFile
	}
	c.Export.Likes = strings.TrimSpace(c.Export.Likes)
	if c.Export.Likes == "" {
		c.Export.Likes = defaultLikesFile
	}
	// An empty watchlist name disables the watchlist series.
	c.Export.Watchlist = strings.TrimSpace(c.Export.Watchlist)
}

func (c *Config) normalizeHistory() {
	c.History.Duplicates = strings.ToLower(strings.TrimSpace(c.History.Duplicates))
	if c.History.Duplicates == "" {
		c.History.Duplicates = defaultDuplicates
	}
}

func (c *Config) normalizeLetterboxd() {
	c.Letterboxd.Username = strings.TrimSpace(c.Letterboxd.Username)
	if c.Letterboxd.Username == "" {
		if value, ok := os.LookupEnv("LETTERBOXD_USERNAME"); ok {
			c.Letterboxd.Username = strings.TrimSpace(value)
		}
	}
	c.Letterboxd.BaseURL = strings.TrimRight(strings.TrimSpace(c.Letterboxd.BaseURL), "/")
	if c.Letterboxd.BaseURL == "" {
		c.Letterboxd.BaseURL = defaultBaseURL
	}
	c.Letterboxd.UserAgent = strings.TrimSpace(c.Letterboxd.UserAgent)
	if c.Letterboxd.UserAgent == "" {
		c.Letterboxd.UserAgent = defaultUserAgent
	}
	if c.Letterboxd.RequestIntervalMS < 0 {
		c.Letterboxd.RequestIntervalMS = 0
	}
	if c.Letterboxd.TimeoutSeconds <= 0 {
		c.Letterboxd.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizePosterCache() error {
	var err error
	if strings.TrimSpace(c.PosterCache.Path) == "" {
		c.PosterCache.Path = defaultPosterCachePath()
	}
	if c.PosterCache.Path, err = expandPath(c.PosterCache.Path); err != nil {
		return fmt.Errorf("poster_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.GridFile = strings.TrimSpace(c.Output.GridFile)
	if c.Output.GridFile == "" {
		c.Output.GridFile = defaultGridFile
	}
	c.Output.AnimationFile = strings.TrimSpace(c.Output.AnimationFile)
	if c.Output.AnimationFile == "" {
		c.Output.AnimationFile = defaultAnimationFile
	}
	c.Output.ChartFile = strings.TrimSpace(c.Output.ChartFile)
	if c.Output.ChartFile == "" {
		c.Output.ChartFile = defaultChartFile
	}
	if c.Output.AnimationWidth == 0 {
		c.Output.AnimationWidth = defaultAnimationWidth
	}
	if c.Output.AnimationHeight == 0 {
		c.Output.AnimationHeight = defaultAnimationHeight
	}
	c.Output.ChartTitle = strings.TrimSpace(c.Output.ChartTitle)
	if c.Output.ChartTitle == "" {
		c.Output.ChartTitle = defaultChartTitle
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
