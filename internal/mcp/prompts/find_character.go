package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleFindCharacter serves the targeted-search prompt.
func HandleFindCharacter(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		description := ""
		tags := ""
		if args := req.Params.Arguments; args != nil {
			description = args["description"]
			tags = args["tags"]
		}

		var sb strings.Builder

		sb.WriteString("# Find a Character\n\n")
		sb.WriteString("You are searching a character-card catalog for a specific card. ")
		sb.WriteString("Work from broad to narrow: tags first, then the term, and only then page.\n\n")

		sb.WriteString("## Search Semantics\n\n")
		sb.WriteString("- The term matches **name or author** as a case-insensitive substring; it does not search descriptions\n")
		sb.WriteString("- Selected tags are ANDed: each extra tag can only shrink the result\n")
		sb.WriteString("- The default view hides categorized cards (nsfw/eqg/anthro); select the category id to search inside one\n")
		sb.WriteString("- The nsfw category additionally needs `update_settings(nsfw_visible=true)`\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Check the vocabulary** - list_tags tells you which tag ids exist; guessing wastes a round trip\n")
		sb.WriteString("2. **Select tags** - start with the one or two most specific traits\n")
		sb.WriteString("3. **Add a term** - a name or author fragment on top of the selection\n")
		sb.WriteString("4. **Narrow or widen** - zero results: remove the weakest tag or shorten the term; too many: add a tag or sort by name and scan\n")
		sb.WriteString("5. **Confirm** - get_card on the best match; check greetings and scenario, names repeat across authors\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString("cardstable_list_tags()\n")
		if tags != "" {
			ids := strings.Split(tags, ",")
			for i := range ids {
				ids[i] = fmt.Sprintf("%q", strings.TrimSpace(ids[i]))
			}
			sb.WriteString(fmt.Sprintf("cardstable_select_tags(add=[%s])\n", strings.Join(ids, ", ")))
		} else {
			sb.WriteString("cardstable_select_tags(add=[\"<tag>\"])\n")
		}
		if description != "" {
			sb.WriteString(fmt.Sprintf("cardstable_search_cards(term=%q)\n", description))
		} else {
			sb.WriteString("cardstable_search_cards(term=\"<name or author>\")\n")
		}
		sb.WriteString("cardstable_get_card(path=\"<path from the results>\")\n")
		sb.WriteString("```\n\n")

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Match**: the card (path, name, author) or a clear statement that it is not in the catalog\n")
		sb.WriteString("2. **Evidence**: which fields matched the request\n")
		sb.WriteString("3. **Alternatives**: up to 3 near misses if the match is uncertain\n\n")

		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **Unknown tag?** select_tags reports ids that index nothing; re-check spelling against list_tags\n")
		sb.WriteString("- **Zero results with a selection?** Clear it (`select_tags(clear=true)`) and search by term alone\n")
		sb.WriteString("- **Searching for a description phrase?** Use query_catalog with a jq select() over the raw document; the term will not find it\n\n")

		sb.WriteString("## Tips\n\n")
		sb.WriteString("- Pass an empty term (`term=\"\"`) to clear it; omitting the argument keeps the previous one\n")
		sb.WriteString("- `sort=\"name\"` makes a scan through a long result list much easier than the default date order\n")

		return &sdkmcp.GetPromptResult{
			Description: "Strategy for finding a specific card",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
