// Package main hosts the reeldiary CLI entrypoint and command graph.
//
// The Cobra-based command tree turns a Letterboxd export into artifacts: the
// monthly poster grid, the cumulative line chart, and the rating animation.
// It also exposes read-only views (stats, series), poster cache maintenance,
// and configuration scaffolding. Configuration resolution and logger setup
// happen once in the command context so subcommands only describe flags and
// output.
//
// Keep this package lean: pipeline behaviour belongs in internal/workflow and
// the packages beneath it. Commands here parse flags, call the Manager, and
// format results.
package main
