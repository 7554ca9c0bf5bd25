package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "index.html")

	n, err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "<html></html>")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic returned error: %v", err)
	}
	if n != int64(len("<html></html>")) {
		t.Fatalf("reported %d bytes", n)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<html></html>" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
}

func TestWriteAtomicKeepsOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratings.gif")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	boom := errors.New("render failed")
	_, err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "old" {
		t.Fatalf("original file changed: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temporary file left behind: %v", entries)
	}
}
