package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleCurateCollection serves the select-and-download workflow prompt.
func HandleCurateCollection(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		theme := ""
		size := ""
		if args := req.Params.Arguments; args != nil {
			theme = args["theme"]
			size = args["size"]
		}

		var sb strings.Builder

		sb.WriteString("# Curate a Collection\n\n")
		sb.WriteString("You are assembling a themed set of character cards and importing them. ")
		if theme != "" {
			sb.WriteString(fmt.Sprintf("Theme: %s. ", theme))
		}
		if size != "" {
			sb.WriteString(fmt.Sprintf("Target size: about %s cards. ", size))
		}
		sb.WriteString("Settle the list first; download exactly once at the end.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Filter** - select_tags and a term until the filtered set IS the collection; counts on each response tell you how close you are\n")
		sb.WriteString("2. **Review** - export_list renders the whole filtered set as one table, no paging; confirm it with the user if the theme was theirs\n")
		sb.WriteString("3. **Download** - download_cards with the reviewed paths")
		sb.WriteString(fmt.Sprintf(", at most %d per call; split larger sets into batches\n", cfg.MaxBatchSize))
		sb.WriteString("4. **Verify** - the report is per item; one failure never aborts the batch, so check every item, not just the totals\n")
		sb.WriteString("5. **Clean up** - reset_session once the collection is done\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString("cardstable_select_tags(add=[\"<tag>\", ...])\n")
		sb.WriteString("cardstable_search_cards()\n")
		sb.WriteString("cardstable_export_list(format=\"markdown\")\n")
		sb.WriteString("cardstable_download_cards(paths=[...])\n")
		sb.WriteString("cardstable_reset_session()\n")
		sb.WriteString("```\n\n")

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Collection**: the exported table, trimmed to what was actually downloaded\n")
		sb.WriteString("2. **Report**: downloaded/imported totals and every failed path with its error kind\n")
		sb.WriteString("3. **Follow-ups**: retry candidates (DOWNLOAD_ERROR) vs dead entries (NOT_FOUND)\n\n")

		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **NOT_FOUND items?** The catalog entry points at a file the host no longer serves; refresh_catalog and re-search before retrying\n")
		sb.WriteString("- **BAD_PAYLOAD items?** The host returned something that is not a card image (usually an error page); skip the path\n")
		sb.WriteString("- **Batch rejected as too large?** Split it; the limit is per call, not per session\n\n")

		sb.WriteString("## Constraints\n\n")
		sb.WriteString("- Do NOT download page by page while still filtering; the filtered list changes under you\n")
		sb.WriteString("- Do NOT retry failed items in a loop; report them and let the user decide\n")

		return &sdkmcp.GetPromptResult{
			Description: "Select-and-download workflow for a themed card set",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
