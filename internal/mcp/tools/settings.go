package tools

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/internal/settings"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// GetSettingsInput is the input for cardstable_get_settings.
type GetSettingsInput struct{}

// SettingsOutput is the output for both settings tools.
type SettingsOutput struct {
	PageSize      int           `json:"page_size"`
	DefaultSort   types.SortKey `json:"default_sort"`
	NSFWVisible   bool          `json:"nsfw_visible"`
	CacheEnabled  bool          `json:"cache_enabled"`
	ShowTagCounts bool          `json:"show_tag_counts"`
	Hint          string        `json:"hint,omitempty"`
}

// ToolGetSettings returns the effective settings.
func ToolGetSettings(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetSettingsInput) (*sdkmcp.CallToolResult, SettingsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetSettingsInput) (*sdkmcp.CallToolResult, SettingsOutput, error) {
		out := settingsOutput(d.Settings.Get())
		out.Hint = "Change any field with update_settings; omitted fields keep their value."
		return nil, out, nil
	}
}

// UpdateSettingsInput is the input for cardstable_update_settings. Omitted
// fields keep their current values.
type UpdateSettingsInput struct {
	PageSize      *int    `json:"page_size,omitempty" jsonschema:"Results per page, 1 to 200"`
	DefaultSort   *string `json:"default_sort,omitempty" jsonschema:"Sort applied when a session has not chosen one: name, author, datecreate, or dateupdate"`
	NSFWVisible   *bool   `json:"nsfw_visible,omitempty" jsonschema:"Show cards from the nsfw category list. Off by default; flipping it resets sessions to page 1."`
	CacheEnabled  *bool   `json:"cache_enabled,omitempty" jsonschema:"Serve searches from the snapshot cache within its TTL. When off, every search refetches."`
	ShowTagCounts *bool   `json:"show_tag_counts,omitempty" jsonschema:"Include per-tag counts in search responses"`
}

// ToolUpdateSettings validates and applies a partial settings update, then
// persists the result.
func ToolUpdateSettings(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input UpdateSettingsInput) (*sdkmcp.CallToolResult, SettingsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input UpdateSettingsInput) (*sdkmcp.CallToolResult, SettingsOutput, error) {
		patch := types.SettingsPatch{
			PageSize:      input.PageSize,
			NSFWVisible:   input.NSFWVisible,
			CacheEnabled:  input.CacheEnabled,
			ShowTagCounts: input.ShowTagCounts,
		}
		if input.DefaultSort != nil {
			key := types.SortKey(*input.DefaultSort)
			patch.DefaultSort = &key
		}

		next, err := d.Settings.Update(ctx, patch)
		if err != nil {
			if errors.Is(err, settings.ErrInvalid) {
				return nil, SettingsOutput{}, ErrInvalidInput(err.Error())
			}
			return nil, SettingsOutput{}, fmt.Errorf("update settings: %w", err)
		}

		out := settingsOutput(next)
		out.Hint = "Saved. New searches pick these up immediately."
		return nil, out, nil
	}
}

func settingsOutput(s types.Settings) SettingsOutput {
	return SettingsOutput{
		PageSize:      s.PageSize,
		DefaultSort:   s.DefaultSort,
		NSFWVisible:   s.NSFWVisible,
		CacheEnabled:  s.CacheEnabled,
		ShowTagCounts: s.ShowTagCounts,
	}
}
