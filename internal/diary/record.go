package diary

import (
	"strings"

	"cloud.google.com/go/civil"
	"golang.org/x/text/unicode/norm"
)

// WatchRecord is one watched film after identity resolution.
type WatchRecord struct {
	Key       string
	Title     string
	Year      string
	Watched   civil.Date
	Rating    Rating
	Liked     bool
	Rewatched bool
	Tags      []string
	URI       string
	// Image is the poster URL, set only by enrichment.
	Image string
}

// Rated reports whether the record carries a rating.
func (r WatchRecord) Rated() bool {
	return r.Rating.Valid()
}

func (r WatchRecord) clone() WatchRecord {
	r.Tags = append([]string(nil), r.Tags...)
	return r
}

// CanonicalKey builds the identity string shared by every feed that names a
// film, "Title (Year)". Titles are NFC-normalized so exported and scraped
// spellings agree.
func CanonicalKey(title, year string) string {
	return norm.NFC.String(strings.TrimSpace(title)) + " (" + strings.TrimSpace(year) + ")"
}

// Row is a raw diary entry as it appears in the export.
type Row struct {
	Title       string
	Year        string
	WatchedDate string
	Rating      string
	Rewatch     string
	Tags        string
	URI         string
}

// OverlayRow names a film in a secondary feed.
type OverlayRow struct {
	Title string
	Year  string
}

// Overlay is a secondary feed that only updates fields on films already in
// the diary. Set must be idempotent.
type Overlay struct {
	Name string
	Rows []OverlayRow
	Set  func(*WatchRecord)
}

// LikedOverlay marks every diary entry for the listed films as liked.
func LikedOverlay(rows []OverlayRow) Overlay {
	return Overlay{
		Name: "likes",
		Rows: rows,
		Set:  func(rec *WatchRecord) { rec.Liked = true },
	}
}

func parseRewatch(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "yes")
}

func parseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
