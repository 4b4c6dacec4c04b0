package types

// Category ids stored in separate path lists in the filter index, distinct
// from free-form tags.
const (
	CategoryNSFW   = "nsfw"
	CategoryEQG    = "eqg"
	CategoryAnthro = "anthro"
)

// Categories lists the category ids in filter-index order.
func Categories() []string {
	return []string{CategoryNSFW, CategoryEQG, CategoryAnthro}
}

// IsCategory reports whether id names a category rather than a regular tag.
func IsCategory(id string) bool {
	return id == CategoryNSFW || id == CategoryEQG || id == CategoryAnthro
}

// SearchRequest contains parameters for one pipeline run.
type SearchRequest struct {
	SelectedIDs []string // selected tag and category ids, in selection order
	Term        string   // case-insensitive substring match on name or author
	Sort        SortKey  // empty means DefaultSort
	Page        int      // 1-based; overshoots back off to the last non-empty page
	PageSize    int      // fixed page size
	NSFWVisible bool     // when false, nsfw-listed entries are dropped up front
	Refresh     bool     // bypass the snapshot TTL and fetch before searching
}

// TagCount is one tag or category id with its count within the filtered set.
type TagCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// SearchResponse is one page of filtered, sorted results.
type SearchResponse struct {
	Results        []CardSummary `json:"results"`
	Page           int           `json:"page"` // effective page after overshoot backoff
	PageSize       int           `json:"page_size"`
	PageCount      int           `json:"page_count"`
	TotalCount     int           `json:"total_count"` // size of the filtered set, all pages
	Sort           SortKey       `json:"sort"`
	TagCounts      []TagCount    `json:"tag_counts,omitempty"`
	CategoryCounts []TagCount    `json:"category_counts,omitempty"`
	FetchedAtMs    int64         `json:"fetched_at_ms"`
}

// SessionView is a snapshot of one session's state for inspection.
type SessionView struct {
	SessionID   string   `json:"session_id"`
	SelectedIDs []string `json:"selected_ids,omitempty"`
	Term        string   `json:"term,omitempty"`
	Sort        SortKey  `json:"sort"`
	Page        int      `json:"page"`
	NSFWVisible bool     `json:"nsfw_visible"`
	Seq         uint64   `json:"seq"`
}
