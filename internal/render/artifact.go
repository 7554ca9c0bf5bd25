package render

import (
	"io"

	"reeldiary/internal/fileutil"
)

// WriteArtifact renders into path atomically and returns the bytes written.
// A failed render leaves any previous artifact in place.
func WriteArtifact(path string, render func(io.Writer) error) (int64, error) {
	return fileutil.WriteAtomic(path, 0o644, render)
}
