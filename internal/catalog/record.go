package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// SkipReason says why a catalog row was excluded at ingestion.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNotObject
	SkipErrorField
	SkipMissingName
	SkipMissingAuthor
)

// String returns the reason name used in skip logs.
func (r SkipReason) String() string {
	switch r {
	case SkipNotObject:
		return "not_object"
	case SkipErrorField:
		return "error_field"
	case SkipMissingName:
		return "missing_name"
	case SkipMissingAuthor:
		return "missing_author"
	}
	return "none"
}

// classifyRow decodes and validates one raw catalog row. Rows that are not
// JSON objects, carry an error field, or lack name or author are dropped
// before any transformation.
func classifyRow(value json.RawMessage) (*client.RawRecord, SkipReason) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, SkipNotObject
	}

	var raw client.RawRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, SkipNotObject
	}

	if raw.Error != nil {
		return nil, SkipErrorField
	}
	if raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
		return nil, SkipMissingName
	}
	if raw.Author == nil || strings.TrimSpace(*raw.Author) == "" {
		return nil, SkipMissingAuthor
	}

	return &raw, SkipNone
}

// buildRecord converts a validated raw record into its ingested form.
// The now argument supplies the default for absent or unparseable dates.
func buildRecord(p Path, raw *client.RawRecord, url string, now time.Time) *types.CharacterRecord {
	return &types.CharacterRecord{
		Path:        p.String(),
		Name:        strings.TrimSpace(*raw.Name),
		Author:      strings.TrimSpace(*raw.Author),
		Description: raw.Description,
		Personality: raw.Personality,
		Scenario:    raw.Scenario,
		Greetings:   []string(raw.Greetings),
		DateCreate:  parseDate(raw.DateCreate, now),
		DateUpdate:  parseDate(raw.DateUpdate, now),
		URL:         url,
	}
}

// dateLayouts are tried in order when parsing catalog timestamps. The
// archive emits RFC 3339 but older rows drop the zone or the time entirely.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a catalog timestamp, defaulting to now when the field is
// absent or unparseable.
func parseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
