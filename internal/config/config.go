package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ExportDir string `toml:"export_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Export names the files inside a Letterboxd export archive. Relative names
// resolve against Paths.ExportDir.
type Export struct {
	Diary     string `toml:"diary"`
	Likes     string `toml:"likes"`
	Watchlist string `toml:"watchlist"`
}

// History controls how diary rows are merged into entities.
type History struct {
	// Duplicates selects the policy for repeated title/year rows in the diary:
	// "keep" retains every sighting, "last" lets the later row win.
	Duplicates string `toml:"duplicates"`
}

// Letterboxd contains configuration for scraping letterboxd.com.
type Letterboxd struct {
	Username          string `toml:"username"`
	BaseURL           string `toml:"base_url"`
	UserAgent         string `toml:"user_agent"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// PosterCache contains configuration for the local poster URL cache.
type PosterCache struct {
	Enabled bool   `toml:"enabled"` // Default: false
	Path    string `toml:"path"`    // Default: ~/.cache/reeldiary/posters.db
}

// Output contains artifact file names and rendering knobs.
type Output struct {
	GridFile        string `toml:"grid_file"`
	AnimationFile   string `toml:"animation_file"`
	ChartFile       string `toml:"chart_file"`
	ReverseGrid     bool   `toml:"reverse_grid"`
	AnimationWidth  int    `toml:"animation_width"`
	AnimationHeight int    `toml:"animation_height"`
	ChartTitle      string `toml:"chart_title"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reeldiary.
//
// Configuration sections by subsystem:
//   - Paths: export input, artifact output, and log directories
//   - Export: file names inside the Letterboxd export
//   - History: duplicate diary row policy
//   - Letterboxd: scraping target and request pacing
//   - PosterCache: optional SQLite cache of poster URLs
//   - Output: artifact names and rendering sizes
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Export      Export      `toml:"export"`
	History     History     `toml:"history"`
	Letterboxd  Letterboxd  `toml:"letterboxd"`
	PosterCache PosterCache `toml:"poster_cache"`
	Output      Output      `toml:"output"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reeldiary.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories. The export
// directory is input only and is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.PosterCache.Enabled && strings.TrimSpace(c.PosterCache.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.PosterCache.Path), 0o755); err != nil {
			return fmt.Errorf("create poster cache directory: %w", err)
		}
	}
	return nil
}

// DiaryPath returns the absolute path of the diary CSV.
func (c *Config) DiaryPath() string {
	return c.exportFile(c.Export.Diary)
}

// LikesPath returns the absolute path of the liked films CSV.
func (c *Config) LikesPath() string {
	return c.exportFile(c.Export.Likes)
}

// WatchlistPath returns the absolute path of the watchlist CSV, or "" when
// the watchlist feed is not configured.
func (c *Config) WatchlistPath() string {
	if strings.TrimSpace(c.Export.Watchlist) == "" {
		return ""
	}
	return c.exportFile(c.Export.Watchlist)
}

// OutputPath resolves an artifact file name against the output directory.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.OutputDir, name)
}

func (c *Config) exportFile(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.ExportDir, filepath.FromSlash(name))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultPosterCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "reeldiary", "posters.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/reeldiary/posters.db"
	}
	return filepath.Join(home, ".cache", "reeldiary", "posters.db")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
