package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleBrowseCatalog serves the guided-tour prompt.
func HandleBrowseCatalog(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		interest := ""
		if args := req.Params.Arguments; args != nil {
			interest = args["interest"]
		}

		var sb strings.Builder

		sb.WriteString("# Browse the Card Catalog\n\n")
		sb.WriteString("You are helping the user explore a character-card catalog served from ")
		sb.WriteString(fmt.Sprintf("%s. ", cfg.Endpoint))
		sb.WriteString("Give them a feel for what is in it before drilling into single cards.\n\n")

		sb.WriteString("## How the View Works\n\n")
		sb.WriteString("- With nothing selected, search_cards shows the **uncategorized** catalog: cards on the nsfw/eqg/anthro lists are hidden until their category id is selected\n")
		sb.WriteString("- Selecting categories is an OR (any selected category qualifies); selecting regular tags is an AND (every tag must match)\n")
		sb.WriteString(fmt.Sprintf("- Results come in pages of %d; the `hint` field on every response names the natural next call\n", cfg.PageSize))
		sb.WriteString("- Selection, term, sort, and page live in the session; they persist across calls until reset_session\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Size it up** - catalog_info gives totals, top tags, top authors, and a monthly additions timeline\n")
		sb.WriteString("2. **Map the vocabulary** - list_tags shows every tag with its count; the busiest tags partition the catalog best\n")
		sb.WriteString("3. **Sample a page** - search_cards with no arguments shows the default view\n")
		sb.WriteString("4. **Drill in** - get_card on anything interesting; it returns the full record plus greetings and scenario\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString("cardstable_catalog_info()\n")
		sb.WriteString("cardstable_list_tags()\n")
		if interest != "" {
			sb.WriteString(fmt.Sprintf("cardstable_search_cards(term=%q)\n", interest))
		} else {
			sb.WriteString("cardstable_search_cards()\n")
		}
		sb.WriteString("```\n\n")

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("Present the catalog to the user as:\n\n")
		sb.WriteString("1. **Overview**: one paragraph - size, age of the snapshot, dominant tags and authors\n")
		sb.WriteString("2. **Starting points**: 3-5 tags or searches worth trying, with their counts\n")
		sb.WriteString("3. **Sample**: a handful of cards from the first page, one line each\n\n")

		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **CATALOG_ERROR?** The endpoint is unreachable; report it and stop, the client already tried its mirrors\n")
		sb.WriteString("- **Empty default view?** The whole catalog may be categorized; run list_tags and select a category id\n")
		sb.WriteString("- **Stale numbers?** refresh_catalog forces a fetch and reports what changed\n\n")

		sb.WriteString("## Tips\n\n")
		sb.WriteString("- Do NOT read the cardstable://catalog resource for browsing; it is the whole snapshot and search_cards pages through the same data\n")
		sb.WriteString("- Tag and category counts in responses always describe the current filtered view, not the whole catalog\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guided tour of the card catalog",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
