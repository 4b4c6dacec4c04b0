package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server. Registration goes
// through the local AddTool so every output type is schema-checked at
// startup.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: cardstable_search_cards
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_search_cards",
		Description: "Search the card catalog through a session: tag selection, free-text term on name/author, sort, and pagination. Term and sort stick to the session; changing the term, selection, or NSFW visibility resets to page 1. Returns one page of card summaries plus tag/category counts for the whole filtered set. With no filters the uncategorized catalog is shown.",
	}, ToolSearchCards(d))

	// Tool 2: cardstable_select_tags
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_select_tags",
		Description: "Add, remove, or clear tag and category ids in a session's selection. Categories (nsfw, eqg, anthro) are ORed against each other; regular tags are ANDed. Any change resets the session to page 1. Use list_tags to discover ids.",
	}, ToolSelectTags(d))

	// Tool 3: cardstable_get_card
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_get_card",
		Description: "Get the full record for one card by catalog path: description, personality, scenario, greetings, tags, categories, dates, and download URL. Paths come from search_cards results.",
	}, ToolGetCard(d))

	// Tool 4: cardstable_download_cards
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_download_cards",
		Description: "Download a batch of cards by catalog path and hand each one to the importer. Items are fetched concurrently, verified as PNG, and reported per item with bytes, sha256, and destination; a failed item never aborts the batch.",
	}, ToolDownloadCards(d))

	// Tool 5: cardstable_list_tags
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_list_tags",
		Description: "List tags and categories with card counts, busiest first. By default counts cover the whole catalog; set filtered=true to count within a session's current filtered view instead.",
	}, ToolListTags(d))

	// Tool 6: cardstable_catalog_info
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_catalog_info",
		Description: "Summarize the current catalog snapshot: record totals, rows skipped at ingestion by reason, category sizes, top tags and authors, a monthly additions timeline, and the snapshot's age.",
	}, ToolCatalogInfo(d))

	// Tool 7: cardstable_refresh_catalog
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_refresh_catalog",
		Description: "Refetch the catalog now, bypassing the snapshot TTL, and report what changed against the previous snapshot: added, updated (with the changed fields), and removed paths.",
	}, ToolRefreshCatalog(d))

	// Tool 8: cardstable_query_catalog
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_query_catalog",
		Description: "Run a jq expression against the verbatim catalog payload (or the filter index with source=filters) for ad-hoc inspection the structured tools don't cover. The catalog is a JSON object keyed by path. Results are bounded; per-row evaluation errors are reported without failing the query.",
	}, ToolQueryCatalog(d))

	// Tool 9: cardstable_export_list
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_export_list",
		Description: "Export the session's current filtered list, all pages of it, as CSV or a Markdown table with path, name, author, tags, categories, dates, and URL columns.",
	}, ToolExportList(d))

	// Tool 10: cardstable_get_settings
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_get_settings",
		Description: "Get the effective settings: page_size, default_sort, nsfw_visible, cache_enabled, show_tag_counts.",
	}, ToolGetSettings(d))

	// Tool 11: cardstable_update_settings
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_update_settings",
		Description: "Update settings; omitted fields keep their values. Validated (page_size 1-200, known sort keys) and persisted, so they survive restarts when a settings store is configured.",
	}, ToolUpdateSettings(d))

	// Tool 12: cardstable_session_info
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_session_info",
		Description: "Inspect a session's search state: selected ids, term, sort, page, NSFW visibility, and request sequence number, plus the ids of all known sessions.",
	}, ToolSessionInfo(d))

	// Tool 13: cardstable_reset_session
	AddTool(srv, &sdkmcp.Tool{
		Name:        "cardstable_reset_session",
		Description: "Reset a session to defaults: empty selection, no term, no chosen sort, page 1.",
	}, ToolResetSession(d))
}
