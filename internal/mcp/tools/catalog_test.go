package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

func TestCatalogInfo_SummarizesSnapshot(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolCatalogInfo(d)

	_, out, err := handler(context.Background(), nil, CatalogInfoInput{})
	require.NoError(t, err)
	require.NotNil(t, out.Info)

	info := out.Info
	assert.Equal(t, 5, info.TotalRecords)
	assert.Equal(t, 1, info.Skipped.ErrorField)
	assert.Equal(t, 1, info.SkippedTotal)
	assert.Equal(t, 4, info.TagCount)
	assert.Equal(t, d.Store.Endpoint(), info.Endpoint)

	require.NotEmpty(t, info.TopTags)
	assert.Equal(t, types.TagCount{ID: "unicorn", Count: 2}, info.TopTags[0])

	require.NotEmpty(t, info.TopAuthors)
	assert.Equal(t, types.AuthorCount{Author: "anon", Count: 3}, info.TopAuthors[0])

	// One creation month per fixture card.
	assert.Len(t, info.Timeline, 5)
	assert.Equal(t, "2023-01", info.Timeline[0].Month)

	assert.Contains(t, out.Hint, "skipped")
}

func TestCatalogInfo_TopNBoundsLists(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolCatalogInfo(d)

	_, out, err := handler(context.Background(), nil, CatalogInfoInput{TopN: 1})
	require.NoError(t, err)
	assert.Len(t, out.Info.TopTags, 1)
	assert.Len(t, out.Info.TopAuthors, 1)
}

func TestRefreshCatalog_FirstFetch(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolRefreshCatalog(d)

	_, out, err := handler(context.Background(), nil, RefreshCatalogInput{})
	require.NoError(t, err)
	assert.True(t, out.FirstFetch)
	assert.Equal(t, 5, out.TotalRecords)
	assert.Contains(t, out.Hint, "First fetch")
}

func TestRefreshCatalog_ReportsDelta(t *testing.T) {
	d, a := newTestDeps(t)
	handler := ToolRefreshCatalog(d)
	ctx := context.Background()

	_, _, err := handler(ctx, nil, RefreshCatalogInput{})
	require.NoError(t, err)

	// Drop rarity, add pinkie, touch applejack's update date.
	a.setCatalog(`{
		"mares/applejack.png": {"name": "Applejack", "author": "anon", "description": "Honest to a fault", "personality": "stubborn, loyal", "scenario": "Sweet Apple Acres", "greetings": ["Howdy!"], "datecreate": "2023-01-15", "dateupdate": "2024-06-30"},
		"mares/rainbow.png": {"name": "Rainbow Dash", "author": "cloud_chaser", "greetings": "Hey there.", "datecreate": "2023-02-20", "dateupdate": "2024-05-10"},
		"mares/pinkie.png": {"name": "Pinkie Pie", "author": "anon", "datecreate": "2023-06-01", "dateupdate": "2024-06-01"},
		"special/midnight.png": {"name": "Midnight", "author": "anon", "datecreate": "2023-04-01", "dateupdate": "2024-02-11"},
		"eqg/sunset.png": {"name": "Sunset Shimmer", "author": "canterlot", "datecreate": "2023-05-12", "dateupdate": "2024-04-02"},
		"broken.png": {"error": "upstream import failed"}
	}`)

	_, out, err := handler(ctx, nil, RefreshCatalogInput{})
	require.NoError(t, err)

	assert.False(t, out.FirstFetch)
	assert.Equal(t, []string{"mares/pinkie.png"}, out.Added)
	assert.Equal(t, []string{"mares/rarity.png"}, out.Removed)
	require.Len(t, out.Updated, 1)
	assert.Equal(t, "mares/applejack.png", out.Updated[0].Path)
	assert.Equal(t, []string{"dateupdate"}, out.Updated[0].Fields)
	assert.False(t, out.Truncated)
	assert.Contains(t, out.Hint, "1 added, 1 updated, 1 removed")
}

func TestRefreshCatalog_NoChanges(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolRefreshCatalog(d)
	ctx := context.Background()

	_, _, err := handler(ctx, nil, RefreshCatalogInput{})
	require.NoError(t, err)

	_, out, err := handler(ctx, nil, RefreshCatalogInput{})
	require.NoError(t, err)
	assert.Zero(t, out.AddedCount)
	assert.Zero(t, out.RemovedCount)
	assert.Zero(t, out.UpdatedCount)
	assert.Contains(t, out.Hint, "No changes")
}
