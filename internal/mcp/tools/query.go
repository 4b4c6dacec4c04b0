package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// QueryCatalogInput is the input for cardstable_query_catalog.
type QueryCatalogInput struct {
	Expression  string `json:"expression" jsonschema:"required,jq expression over the raw document. The catalog is an object keyed by path, e.g. 'keys', '.[] | .author', '[.[] | select(.author == \"anon\")] | length'"`
	Source      string `json:"source,omitempty" jsonschema:"Document to query: catalog (default) or filters (the tag/category index)"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Drop duplicate values from the result stream"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max values to return (default 200, capped by the server)"`
}

// QueryCatalogOutput is the output for cardstable_query_catalog.
type QueryCatalogOutput struct {
	Values   []any    `json:"values,omitzero"`
	Errors   []string `json:"errors,omitzero"`
	RawCount int      `json:"raw_count"`
	Hint     string   `json:"hint,omitempty"`
}

// ToolQueryCatalog runs a jq expression against the verbatim catalog payload
// for inspection the structured tools don't cover.
func ToolQueryCatalog(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryCatalogInput) (*sdkmcp.CallToolResult, QueryCatalogOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryCatalogInput) (*sdkmcp.CallToolResult, QueryCatalogOutput, error) {
		if input.Expression == "" {
			return nil, QueryCatalogOutput{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryCatalogOutput{}, ErrInvalidInput(err.Error())
		}

		snap, err := d.CurrentSnapshot(ctx)
		if err != nil {
			return nil, QueryCatalogOutput{}, WrapCatalogError(err)
		}

		var data []byte
		switch input.Source {
		case "", "catalog":
			data = snap.Raw
		case "filters":
			data = snap.FilterRaw
		default:
			return nil, QueryCatalogOutput{}, ErrInvalidInput(fmt.Sprintf("unknown source %q (valid: catalog, filters)", input.Source))
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = d.Config.DefaultQueryLimit
		}
		if hard := d.Config.MaxQueryResults; maxResults > hard {
			maxResults = hard
		}

		result, err := d.Query.Query(ctx, data, types.QueryRequest{
			Expression:  input.Expression,
			Deduplicate: input.Deduplicate,
			MaxResults:  maxResults,
		})
		if err != nil {
			return nil, QueryCatalogOutput{}, WrapCatalogError(err)
		}

		var hint string
		switch {
		case len(result.Errors) > 0 && len(result.Values) == 0:
			hint = "Every row errored. The catalog is an object keyed by path; start from '.[]' or 'keys'."
		case len(result.Values) >= maxResults:
			hint = fmt.Sprintf("Capped at %d values; narrow the expression or raise max_results.", maxResults)
		case len(result.Values) == 0:
			hint = "No values. Remember select() drops rows silently; check the field names with '.[] | keys' first."
		}

		return nil, QueryCatalogOutput{
			Values:   result.Values,
			Errors:   result.Errors,
			RawCount: result.RawCount,
			Hint:     hint,
		}, nil
	}
}
