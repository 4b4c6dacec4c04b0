package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// SearchCardsInput is the input for cardstable_search_cards.
type SearchCardsInput struct {
	SessionID string  `json:"session_id,omitempty" jsonschema:"Session ID (default: default)"`
	Term      *string `json:"term,omitempty" jsonschema:"Case-insensitive substring match on card name or author. Omit to keep the session's current term, pass an empty string to clear it."`
	Sort      string  `json:"sort,omitempty" jsonschema:"Sort key: name, author, datecreate, or dateupdate. Sticky: stays in effect for later searches in this session."`
	Page      int     `json:"page,omitempty" jsonschema:"1-based page override. Changing the term, tag selection, or NSFW visibility resets to page 1; overshooting backs off to the last non-empty page."`
}

// SearchCardsOutput is the output for cardstable_search_cards.
type SearchCardsOutput struct {
	Results        []types.CardSummary `json:"results,omitzero"`
	Page           int                 `json:"page"`
	PageSize       int                 `json:"page_size"`
	PageCount      int                 `json:"page_count"`
	TotalCount     int                 `json:"total_count"`
	Sort           types.SortKey       `json:"sort"`
	Term           string              `json:"term,omitempty"`
	SelectedIDs    []string            `json:"selected_ids,omitzero"`
	TagCounts      []types.TagCount    `json:"tag_counts,omitzero"`
	CategoryCounts []types.TagCount    `json:"category_counts,omitzero"`
	FetchedAtMs    int64               `json:"fetched_at_ms"`
	Hint           string              `json:"hint,omitempty"`
}

// ToolSearchCards runs the session-aware search pipeline and returns one page
// of card summaries.
func ToolSearchCards(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchCardsInput) (*sdkmcp.CallToolResult, SearchCardsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchCardsInput) (*sdkmcp.CallToolResult, SearchCardsOutput, error) {
		p := d.SearchParams()
		p.Term = input.Term

		if input.Sort != "" {
			key := types.SortKey(input.Sort)
			if !types.ValidSortKey(key) {
				return nil, SearchCardsOutput{}, ErrInvalidInput(fmt.Sprintf("unknown sort key %q (valid: name, author, datecreate, dateupdate)", input.Sort))
			}
			p.Sort = &key
		}
		if input.Page != 0 {
			if input.Page < 1 {
				return nil, SearchCardsOutput{}, ErrInvalidInput("page must be 1 or higher")
			}
			page := input.Page
			p.Page = &page
		}

		sess := d.Sessions.Get(input.SessionID)
		resp, err := sess.Search(ctx, d.Search, p)
		if err != nil {
			return nil, SearchCardsOutput{}, WrapCatalogError(err)
		}
		view := sess.View()

		// Build a hint with concrete next steps.
		var hint string
		switch {
		case resp.TotalCount == 0 && len(view.SelectedIDs) > 0:
			hint = fmt.Sprintf("No cards match. Drop a tag with select_tags(remove=[%q]) or clear the term.", view.SelectedIDs[0])
		case resp.TotalCount == 0:
			hint = "No cards match. Try a shorter term, or list_tags to see what the catalog holds."
		case resp.TotalCount == 1:
			hint = fmt.Sprintf("Single match. Use get_card(path=%q) for the full record.", resp.Results[0].Path)
		case resp.Page < resp.PageCount:
			hint = fmt.Sprintf("Page %d of %d (%d cards). Pass page=%d for the next page, or select_tags to narrow.", resp.Page, resp.PageCount, resp.TotalCount, resp.Page+1)
		default:
			hint = "Use get_card with a path for full details, or download_cards to fetch files."
		}

		show := d.Settings.Get().ShowTagCounts
		return nil, SearchCardsOutput{
			Results:        resp.Results,
			Page:           resp.Page,
			PageSize:       resp.PageSize,
			PageCount:      resp.PageCount,
			TotalCount:     resp.TotalCount,
			Sort:           resp.Sort,
			Term:           view.Term,
			SelectedIDs:    view.SelectedIDs,
			TagCounts:      counts(show, resp.TagCounts),
			CategoryCounts: counts(show, resp.CategoryCounts),
			FetchedAtMs:    resp.FetchedAtMs,
			Hint:           hint,
		}, nil
	}
}
