package diary

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"golang.org/x/text/unicode/norm"

	"reeldiary/internal/services"
)

// DuplicatePolicy decides what happens when the diary logs the same film
// more than once.
type DuplicatePolicy int

const (
	// KeepAll keeps every diary entry as its own entity, keyed by the
	// canonical key plus the watched date. Repeats on the same day get a
	// " #2", " #3", ... suffix.
	KeepAll DuplicatePolicy = iota
	// LastWins collapses repeated entries into one entity; the later row
	// replaces the earlier one's fields but keeps its position.
	LastWins
)

// ParseDuplicatePolicy maps the history.duplicates config value to a policy.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "keep":
		return KeepAll, nil
	case "last":
		return LastWins, nil
	default:
		return KeepAll, fmt.Errorf("unknown duplicate policy %q", value)
	}
}

func (p DuplicatePolicy) String() string {
	if p == LastWins {
		return "last"
	}
	return "keep"
}

// EntityKey returns the key an entry is stored under for the policy.
func (p DuplicatePolicy) EntityKey(canonical string, watched civil.Date) string {
	if p == LastWins {
		return canonical
	}
	return canonical + " @ " + watched.String()
}

// EntityMap is an insertion-ordered map of watch records.
type EntityMap struct {
	keys      []string
	records   map[string]*WatchRecord
	sightings map[string][]string
}

// NewEntityMap returns an empty map.
func NewEntityMap() *EntityMap {
	return &EntityMap{
		records:   make(map[string]*WatchRecord),
		sightings: make(map[string][]string),
	}
}

// Set stores rec under key. Replacing an existing key keeps its position.
func (m *EntityMap) Set(key string, rec WatchRecord) {
	rec = rec.clone()
	if existing, ok := m.records[key]; ok {
		*existing = rec
		return
	}
	m.keys = append(m.keys, key)
	m.records[key] = &rec
	m.sightings[rec.Key] = append(m.sightings[rec.Key], key)
}

// unusedKey returns key, or key with the first free " #n" suffix when key is
// already stored.
func (m *EntityMap) unusedKey(key string) string {
	if _, taken := m.records[key]; !taken {
		return key
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s #%d", key, n)
		if _, taken := m.records[candidate]; !taken {
			return candidate
		}
	}
}

// Len returns the number of entities.
func (m *EntityMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns entity keys in insertion order.
func (m *EntityMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns a copy of the record stored under an entity key.
func (m *EntityMap) Get(key string) (WatchRecord, bool) {
	if m == nil {
		return WatchRecord{}, false
	}
	rec, ok := m.records[key]
	if !ok {
		return WatchRecord{}, false
	}
	return rec.clone(), true
}

// Sightings returns the entity keys recorded for a canonical key, in feed
// order.
func (m *EntityMap) Sightings(canonical string) []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.sightings[canonical]...)
}

// Records returns copies of every record in insertion order.
func (m *EntityMap) Records() []WatchRecord {
	if m == nil {
		return nil
	}
	out := make([]WatchRecord, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, m.records[key].clone())
	}
	return out
}

// Reverse returns a new map with the same entries in reverse order.
func (m *EntityMap) Reverse() *EntityMap {
	out := NewEntityMap()
	if m == nil {
		return out
	}
	for i := len(m.keys) - 1; i >= 0; i-- {
		key := m.keys[i]
		out.Set(key, *m.records[key])
	}
	return out
}

// DateRange returns the earliest and latest watched dates. ok is false for an
// empty map.
func (m *EntityMap) DateRange() (first, last civil.Date, ok bool) {
	for i, key := range m.Keys() {
		watched := m.records[key].Watched
		if i == 0 || watched.Before(first) {
			first = watched
		}
		if i == 0 || watched.After(last) {
			last = watched
		}
		ok = true
	}
	return first, last, ok
}

// Resolve builds the entity map from the primary diary feed, then applies
// each overlay in order. Overlay rows naming films absent from the diary are
// dropped.
func Resolve(primary []Row, policy DuplicatePolicy, overlays ...Overlay) (*EntityMap, error) {
	entities := NewEntityMap()
	for i, row := range primary {
		rec, err := resolveRow(row)
		if err != nil {
			return nil, fmt.Errorf("diary row %d: %w", i+1, err)
		}
		key := policy.EntityKey(rec.Key, rec.Watched)
		if policy == KeepAll {
			key = entities.unusedKey(key)
		}
		entities.Set(key, rec)
	}
	for _, overlay := range overlays {
		ApplyOverlay(entities, overlay)
	}
	return entities, nil
}

// ApplyOverlay applies overlay to every sighting of each listed film and
// reports how many overlay rows matched.
func ApplyOverlay(entities *EntityMap, overlay Overlay) int {
	if overlay.Set == nil {
		return 0
	}
	matched := 0
	for _, row := range overlay.Rows {
		keys := entities.sightings[CanonicalKey(row.Title, row.Year)]
		if len(keys) == 0 {
			continue
		}
		matched++
		for _, key := range keys {
			overlay.Set(entities.records[key])
		}
	}
	return matched
}

func resolveRow(row Row) (WatchRecord, error) {
	title := strings.TrimSpace(row.Title)
	year := strings.TrimSpace(row.Year)
	if title == "" {
		return WatchRecord{}, services.Wrap(services.ErrParse, "diary", "resolve", "missing title", nil)
	}
	if year == "" {
		return WatchRecord{}, services.Wrap(services.ErrParse, "diary", "resolve", fmt.Sprintf("missing year for %q", title), nil)
	}
	watched, err := ParseDate(row.WatchedDate)
	if err != nil {
		return WatchRecord{}, err
	}
	rating, err := ParseRating(row.Rating)
	if err != nil {
		return WatchRecord{}, err
	}
	return WatchRecord{
		Key:       CanonicalKey(title, year),
		Title:     norm.NFC.String(title),
		Year:      year,
		Watched:   watched,
		Rating:    rating,
		Rewatched: parseRewatch(row.Rewatch),
		Tags:      parseTags(row.Tags),
		URI:       strings.TrimSpace(row.URI),
	}, nil
}

// ParseDate parses a YYYY-MM-DD export date.
func ParseDate(raw string) (civil.Date, error) {
	date, err := civil.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return civil.Date{}, services.Wrap(services.ErrParse, "diary", "parse date", fmt.Sprintf("date %q", raw), err)
	}
	return date, nil
}
