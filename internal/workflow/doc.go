// Package workflow wires the reeldiary pipeline stages together for the CLI.
//
// A Manager owns one run: it tags the context with a run identifier, loads
// the export into an entity map, runs the requested aggregation, and commits
// the resulting artifact under an exclusive lock on the output directory so
// two invocations never interleave writes. Every stage is a plain function
// in its own package; the Manager only sequences them and logs progress.
package workflow
