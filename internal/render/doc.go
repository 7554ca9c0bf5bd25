// Package render writes the three reeldiary artifacts: the poster grid page,
// the rating animation GIF, and the cumulative line chart. Each renderer
// streams into an io.Writer; WriteArtifact commits the output atomically.
package render
