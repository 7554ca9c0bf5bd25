// Package letterboxd scrapes the public letterboxd.com pages reeldiary uses
// for enrichment: a member's monthly diary page and the poster endpoint for
// a film slug.
//
// Requests run one at a time and are paced by a token bucket. A non-2xx
// response is reported as services.ErrFetch; a page that lacks the expected
// poster markup is reported as services.ErrLookup so callers can skip the
// film.
package letterboxd
