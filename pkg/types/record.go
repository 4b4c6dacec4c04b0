package types

import "time"

// CharacterRecord is one catalog entry after ingestion. Path is canonical
// (forward slashes); Tags are resolved from the filter index; URL is derived
// from the endpoint base and is not present in source data.
type CharacterRecord struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Personality string    `json:"personality,omitempty"`
	Scenario    string    `json:"scenario,omitempty"`
	Greetings   []string  `json:"greetings,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	DateCreate  time.Time `json:"datecreate"`
	DateUpdate  time.Time `json:"dateupdate"`
	URL         string    `json:"url"`
}

// ToSummary converts a record to its compact search-result form.
func (r *CharacterRecord) ToSummary() CardSummary {
	return CardSummary{
		Path:       r.Path,
		Name:       r.Name,
		Author:     r.Author,
		Tags:       r.Tags,
		Categories: r.Categories,
		DateCreate: r.DateCreate.Format(time.RFC3339),
		DateUpdate: r.DateUpdate.Format(time.RFC3339),
		URL:        r.URL,
	}
}

// SortKey selects the ordering of filtered results.
type SortKey string

const (
	SortName       SortKey = "name"       // lexicographic ascending
	SortAuthor     SortKey = "author"     // lexicographic ascending
	SortDateCreate SortKey = "datecreate" // newest first
	SortDateUpdate SortKey = "dateupdate" // newest first, default
)

// DefaultSort is the ordering applied when none is selected.
const DefaultSort = SortDateUpdate

// ValidSortKey reports whether s names a supported sort key.
func ValidSortKey(s SortKey) bool {
	switch s {
	case SortName, SortAuthor, SortDateCreate, SortDateUpdate:
		return true
	}
	return false
}

// SortKeys lists the supported sort keys in display order.
func SortKeys() []SortKey {
	return []SortKey{SortName, SortAuthor, SortDateCreate, SortDateUpdate}
}
