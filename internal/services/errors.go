package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks malformed or missing required fields in export rows. Fatal.
	ErrParse = errors.New("parse error")
	// ErrLookup marks an enrichment source that has no data for an identity.
	// Callers skip the entity instead of aborting.
	ErrLookup = errors.New("lookup error")
	// ErrFetch marks a failed or non-success network request. Fatal, never retried.
	ErrFetch         = errors.New("fetch error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err must abort the run. Lookup misses are the only
// failures the pipeline tolerates.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrLookup)
}

// Kind returns a short label for the marker carried by err, used in log fields.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrLookup):
		return "lookup"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
