// Package config loads, normalizes, and validates reeldiary configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the LETTERBOXD_USERNAME environment
// fallback. The Config type centralizes the export location, artifact names,
// scraping settings, and logging knobs so commands resolve everything in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
