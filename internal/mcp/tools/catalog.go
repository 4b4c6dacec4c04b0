package tools

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/internal/config"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// deltaListCap bounds the per-class path lists in a refresh report; a first
// sync would otherwise list the whole catalog.
const deltaListCap = 100

// CatalogInfoInput is the input for cardstable_catalog_info.
type CatalogInfoInput struct {
	TopN int `json:"top_n,omitempty" jsonschema:"How many top tags and top authors to include (default 15)"`
}

// CatalogInfoOutput is the output for cardstable_catalog_info.
type CatalogInfoOutput struct {
	Info *types.CatalogInfo `json:"info"`
	Hint string             `json:"hint,omitempty"`
}

// ToolCatalogInfo summarizes the current snapshot: totals, ingestion skip
// counts, category sizes, top tags and authors, and a monthly timeline.
func ToolCatalogInfo(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CatalogInfoInput) (*sdkmcp.CallToolResult, CatalogInfoOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CatalogInfoInput) (*sdkmcp.CallToolResult, CatalogInfoOutput, error) {
		topN := input.TopN
		if topN <= 0 {
			topN = d.Config.InfoTopN
		}
		if topN <= 0 {
			topN = config.DefaultInfoTopNValue
		}

		snap, err := d.CurrentSnapshot(ctx)
		if err != nil {
			return nil, CatalogInfoOutput{}, WrapCatalogError(err)
		}

		info := catalog.Describe(snap, d.Store.Endpoint(), topN)

		age := (time.Duration(info.AgeMs) * time.Millisecond).Round(time.Second)
		hint := fmt.Sprintf("%d records, snapshot %s old. refresh_catalog forces a refetch and reports what changed.", info.TotalRecords, age)
		if info.SkippedTotal > 0 {
			hint = fmt.Sprintf("%d records (%d malformed rows skipped at ingestion), snapshot %s old. refresh_catalog forces a refetch.", info.TotalRecords, info.SkippedTotal, age)
		}

		return nil, CatalogInfoOutput{Info: info, Hint: hint}, nil
	}
}

// RefreshCatalogInput is the input for cardstable_refresh_catalog.
type RefreshCatalogInput struct{}

// RefreshCatalogOutput is the output for cardstable_refresh_catalog.
type RefreshCatalogOutput struct {
	TotalRecords int                  `json:"total_records"`
	FirstFetch   bool                 `json:"first_fetch,omitempty"`
	AddedCount   int                  `json:"added_count"`
	RemovedCount int                  `json:"removed_count"`
	UpdatedCount int                  `json:"updated_count"`
	Added        []string             `json:"added,omitzero"`
	Removed      []string             `json:"removed,omitzero"`
	Updated      []types.RecordChange `json:"updated,omitzero"`
	Truncated    bool                 `json:"truncated,omitempty"`
	FetchedAtMs  int64                `json:"fetched_at_ms"`
	Hint         string               `json:"hint,omitempty"`
}

// ToolRefreshCatalog bypasses the snapshot TTL, refetches both source
// documents, and reports the delta against the previous snapshot.
func ToolRefreshCatalog(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RefreshCatalogInput) (*sdkmcp.CallToolResult, RefreshCatalogOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RefreshCatalogInput) (*sdkmcp.CallToolResult, RefreshCatalogOutput, error) {
		snap, delta, err := d.Store.Refresh(ctx)
		if err != nil {
			return nil, RefreshCatalogOutput{}, WrapCatalogError(err)
		}

		out := RefreshCatalogOutput{
			TotalRecords: snap.Len(),
			FetchedAtMs:  snap.FetchedAt.UnixMilli(),
		}

		if delta == nil {
			out.FirstFetch = true
			out.Hint = fmt.Sprintf("First fetch: %d records, nothing to compare against yet.", snap.Len())
			return nil, out, nil
		}

		out.AddedCount = len(delta.Added)
		out.RemovedCount = len(delta.Removed)
		out.UpdatedCount = len(delta.Updated)

		var cut bool
		out.Added, cut = capList(delta.Added, deltaListCap)
		out.Truncated = out.Truncated || cut
		out.Removed, cut = capList(delta.Removed, deltaListCap)
		out.Truncated = out.Truncated || cut
		out.Updated, cut = capList(delta.Updated, deltaListCap)
		out.Truncated = out.Truncated || cut

		if delta.Empty() {
			out.Hint = "No changes since the previous snapshot."
		} else {
			out.Hint = fmt.Sprintf("%d added, %d updated, %d removed since the previous snapshot.", out.AddedCount, out.UpdatedCount, out.RemovedCount)
		}
		return nil, out, nil
	}
}

// capList returns at most n elements and whether anything was dropped.
func capList[T any](s []T, n int) ([]T, bool) {
	if len(s) <= n {
		return s, false
	}
	return s[:n], true
}
