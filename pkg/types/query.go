package types

// QueryRequest contains parameters for a catalog query operation.
type QueryRequest struct {
	Expression  string // JQ expression, run against the raw catalog document
	Deduplicate bool
	MaxResults  int // Default 200
}

// QueryResult contains the values extracted by a catalog query.
type QueryResult struct {
	Values   []any    `json:"values"`           // Extracted values
	Errors   []string `json:"errors,omitempty"` // Per-value errors
	RawCount int      `json:"raw_count"`        // Count before deduplication
}
