package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// DownloadCardsInput is the input for cardstable_download_cards.
type DownloadCardsInput struct {
	Paths []string `json:"paths" jsonschema:"Catalog paths to download, as returned by search_cards. Each card is fetched, verified as PNG, and handed to the importer."`
}

// DownloadCardsOutput is the output for cardstable_download_cards.
type DownloadCardsOutput struct {
	Requested int                `json:"requested"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Items     []types.ItemResult `json:"items,omitzero"`
	Hint      string             `json:"hint,omitempty"`
}

// ToolDownloadCards downloads a batch of cards through the worker pool and
// reports per-item outcomes. One bad path never aborts the rest.
func ToolDownloadCards(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DownloadCardsInput) (*sdkmcp.CallToolResult, DownloadCardsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DownloadCardsInput) (*sdkmcp.CallToolResult, DownloadCardsOutput, error) {
		if len(input.Paths) == 0 {
			return nil, DownloadCardsOutput{}, ErrInvalidInput("paths is required")
		}
		if max := d.Config.MaxBatchSize; len(input.Paths) > max {
			return nil, DownloadCardsOutput{}, ErrInvalidInput(fmt.Sprintf("batch of %d exceeds the limit of %d; split into smaller batches", len(input.Paths), max))
		}

		snap, err := d.CurrentSnapshot(ctx)
		if err != nil {
			return nil, DownloadCardsOutput{}, WrapCatalogError(err)
		}

		report := d.Downloader.Run(ctx, snap, input.Paths)

		var hint string
		switch {
		case report.Failed == 0:
			hint = fmt.Sprintf("All %d card(s) imported.", report.Succeeded)
		case report.Succeeded == 0:
			hint = "Every item failed; see each item's error_kind. NOT_FOUND paths usually need a fresh search_cards."
		default:
			hint = fmt.Sprintf("%d of %d imported. Failed items carry an error and error_kind; retry those paths alone.", report.Succeeded, report.Requested)
		}

		return nil, DownloadCardsOutput{
			Requested: report.Requested,
			Succeeded: report.Succeeded,
			Failed:    report.Failed,
			Items:     report.Items,
			Hint:      hint,
		}, nil
	}
}
