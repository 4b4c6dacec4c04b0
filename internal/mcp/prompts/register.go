package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Guided tour of the catalog
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "browse_catalog",
		Description: "RECOMMENDED: Orient yourself in the card catalog. Start here - explains the default view, tag selection semantics, and counts before any expensive calls.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "interest",
				Description: "Topic to steer the tour toward (e.g. 'earth ponies', a particular author)",
				Required:    false,
			},
		},
	}, HandleBrowseCatalog(cfg))

	// Prompt 2: Targeted search strategy
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "find_character",
		Description: "RECOMMENDED: Find a specific character by name, author, or traits. Provides a narrow-then-widen search strategy using tags and terms.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "description",
				Description: "Who you are looking for (name fragment, author, or traits)",
				Required:    false,
			},
			{
				Name:        "tags",
				Description: "Comma-separated tag ids to start the selection from",
				Required:    false,
			},
		},
	}, HandleFindCharacter(cfg))

	// Prompt 3: Select-and-download workflow
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "curate_collection",
		Description: "Assemble and download a themed set of cards: filter, review the full list, then batch the downloads and verify the per-item report.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "theme",
				Description: "Theme of the collection (e.g. 'pegasi', 'one card per author')",
				Required:    false,
			},
			{
				Name:        "size",
				Description: "Rough target size of the collection",
				Required:    false,
			},
		},
	}, HandleCurateCollection(cfg))
}
