package tools

import (
	"context"
	"fmt"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

const defaultTagLimit = 50

// ListTagsInput is the input for cardstable_list_tags.
type ListTagsInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID (default: default)"`
	Filtered  bool   `json:"filtered,omitempty" jsonschema:"Count within the session's current filtered view instead of the whole catalog"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max tags to return, busiest first (default 50). Categories are always reported in full."`
}

// ListTagsOutput is the output for cardstable_list_tags.
type ListTagsOutput struct {
	Tags       []types.TagCount `json:"tags,omitzero"`
	Categories []types.TagCount `json:"categories,omitzero"`
	TagTotal   int              `json:"tag_total"`
	Hint       string           `json:"hint,omitempty"`
}

// ToolListTags lists tags and categories with counts, either catalog-wide or
// restricted to what the session's current filters leave visible.
func ToolListTags(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListTagsInput) (*sdkmcp.CallToolResult, ListTagsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListTagsInput) (*sdkmcp.CallToolResult, ListTagsOutput, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultTagLimit
		}

		var tags, categories []types.TagCount
		if input.Filtered {
			sess := d.Sessions.Get(input.SessionID)
			resp, err := sess.Search(ctx, d.Search, d.SearchParams())
			if err != nil {
				return nil, ListTagsOutput{}, WrapCatalogError(err)
			}
			tags, categories = resp.TagCounts, resp.CategoryCounts
		} else {
			snap, err := d.CurrentSnapshot(ctx)
			if err != nil {
				return nil, ListTagsOutput{}, WrapCatalogError(err)
			}
			tags, categories = snap.Index.CountWithin(snap.Index.All())
		}

		sort.Slice(tags, func(i, j int) bool {
			if tags[i].Count != tags[j].Count {
				return tags[i].Count > tags[j].Count
			}
			return tags[i].ID < tags[j].ID
		})

		total := len(tags)
		if len(tags) > limit {
			tags = tags[:limit]
		}

		var hint string
		if total > len(tags) {
			hint = fmt.Sprintf("Showing the %d busiest of %d tags; raise limit to see more. Add one with select_tags(add=[...]).", len(tags), total)
		} else {
			hint = "Add a tag with select_tags(add=[...]) to filter; regular tags are ANDed."
		}

		return nil, ListTagsOutput{
			Tags:       tags,
			Categories: categories,
			TagTotal:   total,
			Hint:       hint,
		}, nil
	}
}
