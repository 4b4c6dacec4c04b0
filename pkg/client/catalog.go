package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// CatalogRow is one key/value pair of the catalog document. Key is the raw
// path string exactly as it appears in source data (separator style varies);
// Value is the undecoded record or error row.
type CatalogRow struct {
	Key   string
	Value json.RawMessage
}

// CatalogDocument is the decoded mares.json payload. Rows preserve document
// order, which is the unsorted baseline ordering of the catalog; Raw is the
// verbatim payload for query tooling.
type CatalogDocument struct {
	Raw  []byte
	Rows []CatalogRow
}

// RawRecord is the typed view of one catalog row value. Pointer fields
// distinguish absent from empty; rows missing Name or Author, or carrying
// Error, are excluded at ingestion.
type RawRecord struct {
	Name        *string      `json:"name"`
	Author      *string      `json:"author"`
	Description string       `json:"description"`
	Personality string       `json:"personality"`
	Scenario    string       `json:"scenario"`
	Greetings   StringOrList `json:"greetings"`
	DateCreate  string       `json:"datecreate"`
	DateUpdate  string       `json:"dateupdate"`
	Error       *string      `json:"error"`
}

// StringOrList accepts a JSON string or an array of strings; source data
// uses both forms for greetings.
type StringOrList []string

// UnmarshalJSON implements the string-or-array decoding.
func (s *StringOrList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var one string
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*s = StringOrList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*s = StringOrList(many)
	return nil
}

// FilterIndex is the decoded filters.json payload: three category path lists
// plus a raw-path-to-tags mapping. Keys in Tags use inconsistent separator
// styles; consumers must canonicalize.
type FilterIndex struct {
	NSFW   []string            `json:"nsfw"`
	EQG    []string            `json:"eqg"`
	Anthro []string            `json:"anthro"`
	Tags   map[string][]string `json:"tags"`
}

// FetchCatalog retrieves and decodes the catalog document.
func (c *Client) FetchCatalog(ctx context.Context) (*CatalogDocument, error) {
	data, _, err := c.fetch(ctx, CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	rows, err := decodeOrderedObject(data)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	return &CatalogDocument{Raw: data, Rows: rows}, nil
}

// FetchFilterIndex retrieves and decodes the filter index. The raw payload
// is returned alongside for schema validation.
func (c *Client) FetchFilterIndex(ctx context.Context) (*FilterIndex, []byte, error) {
	var idx FilterIndex
	raw, err := c.getJSON(ctx, FilterIndexPath, &idx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching filter index: %w", err)
	}
	return &idx, raw, nil
}

// decodeOrderedObject walks a JSON object with a token decoder so row order
// survives; encoding/json maps would shuffle it.
func decodeOrderedObject(data []byte) ([]CatalogRow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("catalog document is not a JSON object")
	}

	var rows []CatalogRow
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in catalog document", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding row %q: %w", key, err)
		}
		rows = append(rows, CatalogRow{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rows, nil
}
