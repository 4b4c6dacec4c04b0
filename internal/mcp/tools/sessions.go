package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// SessionInfoInput is the input for cardstable_session_info.
type SessionInfoInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID (default: default)"`
}

// SessionInfoOutput is the output for cardstable_session_info.
type SessionInfoOutput struct {
	SessionID     string        `json:"session_id"`
	SelectedIDs   []string      `json:"selected_ids,omitzero"`
	Term          string        `json:"term,omitempty"`
	Sort          types.SortKey `json:"sort,omitempty"`
	Page          int           `json:"page"`
	NSFWVisible   bool          `json:"nsfw_visible"`
	Seq           uint64        `json:"seq"`
	KnownSessions []string      `json:"known_sessions,omitzero"`
	Hint          string        `json:"hint,omitempty"`
}

// ToolSessionInfo reports a session's current search state. The state shown
// is raw: an empty sort means the default_sort setting applies.
func ToolSessionInfo(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionInfoInput) (*sdkmcp.CallToolResult, SessionInfoOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionInfoInput) (*sdkmcp.CallToolResult, SessionInfoOutput, error) {
		view := d.Sessions.Get(input.SessionID).View()

		var hint string
		if view.Sort == "" {
			hint = fmt.Sprintf("No sort chosen yet; searches use the default_sort setting (%s).", d.Settings.Get().DefaultSort)
		}

		return nil, SessionInfoOutput{
			SessionID:     view.SessionID,
			SelectedIDs:   view.SelectedIDs,
			Term:          view.Term,
			Sort:          view.Sort,
			Page:          view.Page,
			NSFWVisible:   view.NSFWVisible,
			Seq:           view.Seq,
			KnownSessions: d.Sessions.IDs(),
			Hint:          hint,
		}, nil
	}
}

// ResetSessionInput is the input for cardstable_reset_session.
type ResetSessionInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID (default: default)"`
}

// ResetSessionOutput is the output for cardstable_reset_session.
type ResetSessionOutput struct {
	SessionID string `json:"session_id"`
	Hint      string `json:"hint,omitempty"`
}

// ToolResetSession discards a session's selection, term, sort, and page.
func ToolResetSession(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResetSessionInput) (*sdkmcp.CallToolResult, ResetSessionOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResetSessionInput) (*sdkmcp.CallToolResult, ResetSessionOutput, error) {
		sess := d.Sessions.Reset(input.SessionID)
		view := sess.View()

		return nil, ResetSessionOutput{
			SessionID: view.SessionID,
			Hint:      "Session is back to defaults: no selection, no term, page 1.",
		}, nil
	}
}
