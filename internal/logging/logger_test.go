package logging_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reeldiary/internal/config"
	"reeldiary/internal/logging"
	"reeldiary/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no source information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected source information in debug logs, got %q", buf.String())
	}
}

func TestConsoleFormatsComponentSubjectAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "abcd1234-0000-0000-0000-000000000000")
	ctx = services.WithStage(ctx, "replay")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "timeline"))
	logger.Info("series built", logging.Int("days", 3), logging.String("label", "two words"))

	line := buf.String()
	for _, want := range []string{
		"INFO [timeline] run abcd1234 (replay) – series built",
		"days=3",
		`label="two words"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "run_id=") {
		t.Fatalf("run id should be folded into the subject, got %q", line)
	}
}

func TestLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("info message should be filtered at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestJSONLoggerEmitsErrorKind(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	failure := services.Wrap(services.ErrFetch, "enrich", "poster", "request failed", errors.New("boom"))
	logger.Error("poster lookup failed", logging.Error(failure))

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"error_kind":"fetch"`, `"msg":"poster lookup failed"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFormatSubject(t *testing.T) {
	tests := []struct {
		runID, stage, want string
	}{
		{"abcd-1234", "grid", "run abcd (grid)"},
		{"abcd", "", "run abcd"},
		{"", "graph", "graph"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := logging.FormatSubject(tt.runID, tt.stage); got != tt.want {
			t.Errorf("FormatSubject(%q, %q) = %q, want %q", tt.runID, tt.stage, got, tt.want)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should report disabled")
	}
	logger.Error("ignored")
}

func TestJSONLoggerWritesDurationsAsMilliseconds(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("artifact written", logging.Duration("duration", 1500*time.Millisecond))
	if !strings.Contains(buf.String(), `"duration_ms":1500`) {
		t.Fatalf("expected duration_ms in %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"ts":"`) {
		t.Fatalf("expected ts key in %s", buf.String())
	}
}
