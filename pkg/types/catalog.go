package types

// SkipStats counts catalog rows excluded at ingestion, by reason.
type SkipStats struct {
	NotObject     int `json:"not_object,omitempty"`
	MissingName   int `json:"missing_name,omitempty"`
	MissingAuthor int `json:"missing_author,omitempty"`
	ErrorField    int `json:"error_field,omitempty"`
}

// Total returns the number of skipped rows across all reasons.
func (s SkipStats) Total() int {
	return s.NotObject + s.MissingName + s.MissingAuthor + s.ErrorField
}

// AuthorCount is one author with the number of cards attributed to them.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// TimelineBucket is the number of cards first published in one month.
type TimelineBucket struct {
	Month string `json:"month"` // YYYY-MM
	Added int    `json:"added"`
}

// CatalogInfo summarizes the current snapshot.
type CatalogInfo struct {
	Endpoint     string           `json:"endpoint"`
	TotalRecords int              `json:"total_records"`
	Skipped      SkipStats        `json:"skipped"`
	SkippedTotal int              `json:"skipped_total"`
	Categories   []TagCount       `json:"categories,omitempty"`
	TagCount     int              `json:"tag_count"`
	TopTags      []TagCount       `json:"top_tags,omitempty"`
	TopAuthors   []AuthorCount    `json:"top_authors,omitempty"`
	Timeline     []TimelineBucket `json:"timeline,omitempty"`
	FetchedAtMs  int64            `json:"fetched_at_ms"`
	AgeMs        int64            `json:"age_ms"`
}

// RecordChange names one updated record and which fields changed.
type RecordChange struct {
	Path   string   `json:"path"`
	Fields []string `json:"fields"`
}

// CatalogDelta is the difference between two snapshots, keyed by canonical path.
type CatalogDelta struct {
	Added   []string       `json:"added,omitempty"`
	Removed []string       `json:"removed,omitempty"`
	Updated []RecordChange `json:"updated,omitempty"`
}

// Empty reports whether the delta carries no changes.
func (d *CatalogDelta) Empty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0)
}
