package tools

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// GetCardInput is the input for cardstable_get_card.
type GetCardInput struct {
	Path string `json:"path" jsonschema:"Catalog path of the card, as returned by search_cards (e.g. mares/applejack.png)"`
}

// GetCardOutput is the output for cardstable_get_card.
type GetCardOutput struct {
	Path        string             `json:"path"`
	Name        string             `json:"name"`
	Author      string             `json:"author"`
	Description string             `json:"description,omitempty"`
	Personality string             `json:"personality,omitempty"`
	Scenario    string             `json:"scenario,omitempty"`
	Greetings   []string           `json:"greetings,omitzero"`
	Tags        []string           `json:"tags,omitzero"`
	Categories  []string           `json:"categories,omitzero"`
	DateCreate  string             `json:"datecreate"`
	DateUpdate  string             `json:"dateupdate"`
	URL         string             `json:"url"`
	Resource    *types.ResourceRef `json:"resource,omitempty"`
	Hint        string             `json:"hint,omitempty"`
}

// ToolGetCard returns the full record for one catalog path.
func ToolGetCard(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetCardInput) (*sdkmcp.CallToolResult, GetCardOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetCardInput) (*sdkmcp.CallToolResult, GetCardOutput, error) {
		p := catalog.NewPath(input.Path)
		if p.IsZero() {
			return nil, GetCardOutput{}, ErrInvalidInput("path is required")
		}

		snap, err := d.CurrentSnapshot(ctx)
		if err != nil {
			return nil, GetCardOutput{}, WrapCatalogError(err)
		}

		rec, ok := snap.Record(p.String())
		if !ok {
			return nil, GetCardOutput{}, ErrNotFound("card", p.String())
		}

		return nil, GetCardOutput{
			Path:        rec.Path,
			Name:        rec.Name,
			Author:      rec.Author,
			Description: rec.Description,
			Personality: rec.Personality,
			Scenario:    rec.Scenario,
			Greetings:   rec.Greetings,
			Tags:        rec.Tags,
			Categories:  rec.Categories,
			DateCreate:  rec.DateCreate.Format(time.RFC3339),
			DateUpdate:  rec.DateUpdate.Format(time.RFC3339),
			URL:         rec.URL,
			Resource:    CardResource(rec.Path),
			Hint:        fmt.Sprintf("Use download_cards(paths=[%q]) to fetch the file.", rec.Path),
		}, nil
	}
}
