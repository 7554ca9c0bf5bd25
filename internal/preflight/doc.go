// Package preflight provides readiness checks for the files, directories,
// and remote site reeldiary depends on.
//
// The CLI "reeldiary status" command runs RunAll and renders each Result.
// Checks that only matter for an optional feature (watchlist series, poster
// cache, grid scraping) are skipped when the feature is not configured.
package preflight
