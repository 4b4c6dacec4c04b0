// Package tools contains the MCP tool implementations for cardstable.
package tools

import (
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// CardResource points at the full-record resource for a catalog path.
func CardResource(path string) *types.ResourceRef {
	return &types.ResourceRef{
		URI:  "cardstable://card/" + path,
		MIME: MimeJSON,
		Hint: "full record as a resource",
	}
}

// counts converts the gated tag-count slices for tool output; a nil return
// drops the field entirely when the show_tag_counts setting is off.
func counts(show bool, tc []types.TagCount) []types.TagCount {
	if !show {
		return nil
	}
	return tc
}
