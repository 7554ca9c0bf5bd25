// Package diary turns a Letterboxd export into identity-keyed watch records.
//
// Export files are decoded into raw rows (ReadDiary, ReadLikes,
// ReadWatchlist), then Resolve merges the primary diary feed with overlay
// feeds such as likes into an EntityMap. Entities are keyed by the canonical
// "Title (Year)" string; the duplicate policy decides whether repeated
// diary entries for one film stay separate or collapse into one.
//
// Resolve is a pure transform. All file access lives in export.go so the
// merge rules can be tested without touching disk.
package diary
