package testsupport

import (
	"path/filepath"
	"testing"

	"reeldiary/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ExportDir = filepath.Join(base, "export")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.PosterCache.Path = filepath.Join(base, "cache", "posters.db")
	cfgVal.Letterboxd.Username = "tester"
	cfgVal.Letterboxd.RequestIntervalMS = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the scraper at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Letterboxd.BaseURL = url
	}
}

// WithPosterCache enables the SQLite poster cache.
func WithPosterCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.PosterCache.Enabled = true
	}
}

// WithDuplicates sets the history.duplicates policy.
func WithDuplicates(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Duplicates = policy
	}
}

// WithExport writes a Letterboxd export into the config's export directory.
func WithExport(export Export) ConfigOption {
	return func(b *configBuilder) {
		export.Write(b.t, b.cfg)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ExportDir)
}
