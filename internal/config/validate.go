package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateLetterboxd(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validatePosterCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateHistory() error {
	switch c.History.Duplicates {
	case DuplicatesKeep, DuplicatesLast:
		return nil
	default:
		return fmt.Errorf("history.duplicates must be %q or %q, got %q", DuplicatesKeep, DuplicatesLast, c.History.Duplicates)
	}
}

func (c *Config) validateLetterboxd() error {
	parsed, err := url.Parse(c.Letterboxd.BaseURL)
	if err != nil {
		return fmt.Errorf("letterboxd.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("letterboxd.base_url must be an http(s) URL, got %q", c.Letterboxd.BaseURL)
	}
	if strings.ContainsAny(c.Letterboxd.Username, "/?# ") {
		return fmt.Errorf("letterboxd.username contains invalid characters: %q", c.Letterboxd.Username)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if err := ensurePositiveMap(map[string]int{
		"output.animation_width":  c.Output.AnimationWidth,
		"output.animation_height": c.Output.AnimationHeight,
	}); err != nil {
		return err
	}
	if c.Output.AnimationWidth < 160 || c.Output.AnimationHeight < 120 {
		return errors.New("output.animation_width and output.animation_height must be at least 160x120")
	}
	for key, name := range map[string]string{
		"output.grid_file":      c.Output.GridFile,
		"output.animation_file": c.Output.AnimationFile,
		"output.chart_file":     c.Output.ChartFile,
	} {
		if strings.HasSuffix(name, string(filepath.Separator)) {
			return fmt.Errorf("%s must name a file, got %q", key, name)
		}
	}
	return nil
}

func (c *Config) validatePosterCache() error {
	if c.PosterCache.Enabled && strings.TrimSpace(c.PosterCache.Path) == "" {
		return errors.New("poster_cache.path must be set when poster_cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
