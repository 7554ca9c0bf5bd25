package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reeldiary/internal/config"
	"reeldiary/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

var cliExport = testsupport.Export{
	Diary: []testsupport.DiaryEntry{
		{Name: "Heat", Year: "1995", WatchedDate: "2024-01-02", Rating: "4", Tags: "crime"},
		{Name: "Alien", Year: "1979", WatchedDate: "2024-01-04", Rating: "4.5", Tags: "horror"},
		{Name: "Heat", Year: "1995", WatchedDate: "2024-01-20", Rating: "4.5", Rewatch: "Yes", Tags: "crime"},
	},
	Likes: []testsupport.Film{
		{Name: "Heat", Year: "1995", Added: "2024-01-02"},
	},
	Watchlist: []testsupport.Film{
		{Name: "Stalker", Year: "1979", Added: "2024-01-10"},
	},
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithExport(cliExport)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("LETTERBOXD_USERNAME", "")

	configPath := filepath.Join(homeDir, ".config", "reeldiary", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
export_dir = %q
output_dir = %q
log_dir = %q

[letterboxd]
username = %q
base_url = %q
request_interval_ms = 0

[poster_cache]
enabled = %t
path = %q

[logging]
level = "error"
`,
		cfg.Paths.ExportDir,
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Letterboxd.Username,
		cfg.Letterboxd.BaseURL,
		cfg.PosterCache.Enabled,
		cfg.PosterCache.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
