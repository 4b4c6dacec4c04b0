package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// SelectTagsInput is the input for cardstable_select_tags.
type SelectTagsInput struct {
	SessionID string   `json:"session_id,omitempty" jsonschema:"Session ID (default: default)"`
	Add       []string `json:"add,omitempty" jsonschema:"Tag or category ids to add to the selection. Categories are nsfw, eqg, and anthro; everything else is a regular tag. Regular tags are ANDed."`
	Remove    []string `json:"remove,omitempty" jsonschema:"Ids to remove from the selection (case-insensitive)"`
	Clear     bool     `json:"clear,omitempty" jsonschema:"Clear the whole selection first, then apply add"`
}

// SelectTagsOutput is the output for cardstable_select_tags.
type SelectTagsOutput struct {
	SelectedIDs []string `json:"selected_ids,omitzero"`
	Page        int      `json:"page"`
	Unknown     []string `json:"unknown,omitzero"`
	Hint        string   `json:"hint,omitempty"`
}

// ToolSelectTags edits a session's tag selection. Any change resets the
// session to page 1.
func ToolSelectTags(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SelectTagsInput) (*sdkmcp.CallToolResult, SelectTagsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SelectTagsInput) (*sdkmcp.CallToolResult, SelectTagsOutput, error) {
		if len(input.Add) == 0 && len(input.Remove) == 0 && !input.Clear {
			return nil, SelectTagsOutput{}, ErrInvalidInput("nothing to do: pass add, remove, or clear")
		}

		sess := d.Sessions.Get(input.SessionID)
		selected := sess.Select(input.Add, input.Remove, input.Clear)
		view := sess.View()

		// Advisory check against whatever snapshot is already in memory; a
		// cold store just skips it rather than forcing a fetch.
		var unknown []string
		if snap := d.Store.Current(); snap != nil {
			for _, id := range input.Add {
				id = strings.TrimSpace(id)
				if id == "" || types.IsCategory(id) {
					continue
				}
				if snap.Index.BitmapForTag(id) == nil {
					unknown = append(unknown, id)
				}
			}
		}

		var hint string
		switch {
		case len(unknown) > 0:
			hint = fmt.Sprintf("%q indexes nothing in the current catalog; results stay empty until it is removed.", unknown[0])
		case containsFold(selected, "nsfw") && !d.Settings.Get().NSFWVisible:
			hint = "The nsfw category is selected but nsfw_visible is off; results will be empty until update_settings(nsfw_visible=true)."
		case len(selected) == 0:
			hint = "Selection cleared. search_cards now shows the uncategorized view again."
		default:
			hint = fmt.Sprintf("%d id(s) selected; page reset to 1. Run search_cards to see the filtered list.", len(selected))
		}

		return nil, SelectTagsOutput{
			SelectedIDs: selected,
			Page:        view.Page,
			Unknown:     unknown,
			Hint:        hint,
		}, nil
	}
}

func containsFold(ids []string, want string) bool {
	for _, id := range ids {
		if strings.EqualFold(id, want) {
			return true
		}
	}
	return false
}
