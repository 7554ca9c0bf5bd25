// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper so every stage reports
//     parse, lookup, and fetch failures the same way.
//
// Lookup failures are the only tolerated errors; everything else aborts the
// run before any artifact is written.
package services
