package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

func TestSearchCards_DefaultView(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)

	_, out, err := handler(context.Background(), nil, SearchCardsInput{})
	require.NoError(t, err)

	// Uncategorized catalog only, newest update first, page size 2.
	assert.Equal(t, 3, out.TotalCount)
	assert.Equal(t, 2, out.PageCount)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.PageSize)
	assert.Equal(t, types.SortDateUpdate, out.Sort)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "mares/rainbow.png", out.Results[0].Path)
	assert.Equal(t, "mares/applejack.png", out.Results[1].Path)
	assert.Contains(t, out.Hint, "page=2")
}

func TestSearchCards_CountsCoverFilteredSet(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)

	_, out, err := handler(context.Background(), nil, SearchCardsInput{})
	require.NoError(t, err)

	// All four tags survive in the uncategorized view, one card each. The
	// unicorn count proves the backslash key in the filter index resolved.
	assert.Equal(t, []types.TagCount{
		{ID: "earth pony", Count: 1},
		{ID: "honest", Count: 1},
		{ID: "pegasus", Count: 1},
		{ID: "unicorn", Count: 1},
	}, out.TagCounts)

	// Categories are always reported, zero counts included.
	require.Len(t, out.CategoryCounts, 3)
	for _, c := range out.CategoryCounts {
		assert.Zero(t, c.Count, c.ID)
	}
}

func TestSearchCards_Pagination(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	_, out, err := handler(ctx, nil, SearchCardsInput{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "mares/rarity.png", out.Results[0].Path)

	// An overshoot backs off to the last non-empty page.
	_, out, err = handler(ctx, nil, SearchCardsInput{Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page)
}

func TestSearchCards_TermIsTriState(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	// Park the session on page 2, then change the term; page resets.
	_, _, err := handler(ctx, nil, SearchCardsInput{Page: 2})
	require.NoError(t, err)

	_, out, err := handler(ctx, nil, SearchCardsInput{Term: strPtr("anon")})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.TotalCount) // applejack and rarity, authored by anon

	// Omitting the term keeps it in effect.
	_, out, err = handler(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	assert.Equal(t, "anon", out.Term)
	assert.Equal(t, 2, out.TotalCount)

	// An empty string clears it.
	_, out, err = handler(ctx, nil, SearchCardsInput{Term: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, out.Term)
	assert.Equal(t, 3, out.TotalCount)
}

func TestSearchCards_SortSticksToSession(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	_, out, err := handler(ctx, nil, SearchCardsInput{Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, types.SortName, out.Sort)
	assert.Equal(t, "mares/applejack.png", out.Results[0].Path)

	_, out, err = handler(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	assert.Equal(t, types.SortName, out.Sort)
}

func TestSearchCards_SelectedTagsAreANDed(t *testing.T) {
	d, _ := newTestDeps(t)
	sel := ToolSelectTags(d)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	_, _, err := sel(ctx, nil, SelectTagsInput{Add: []string{"earth pony", "honest"}})
	require.NoError(t, err)

	_, out, err := handler(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.TotalCount)
	assert.Equal(t, "mares/applejack.png", out.Results[0].Path)
	assert.Equal(t, []string{"earth pony", "honest"}, out.SelectedIDs)
}

func TestSearchCards_NSFWCategoryNeedsVisibility(t *testing.T) {
	d, _ := newTestDeps(t)
	sel := ToolSelectTags(d)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	_, _, err := sel(ctx, nil, SelectTagsInput{Add: []string{"nsfw"}})
	require.NoError(t, err)

	_, out, err := handler(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	assert.Zero(t, out.TotalCount)

	_, err = d.Settings.Update(ctx, types.SettingsPatch{NSFWVisible: boolPtr(true)})
	require.NoError(t, err)

	_, out, err = handler(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.TotalCount)
	assert.Equal(t, "special/midnight.png", out.Results[0].Path)
}

func TestSearchCards_TagCountsGatedBySetting(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	_, err := d.Settings.Update(ctx, types.SettingsPatch{ShowTagCounts: boolPtr(false)})
	require.NoError(t, err)

	_, out, err := handler(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	assert.Nil(t, out.TagCounts)
	assert.Nil(t, out.CategoryCounts)
}

func TestSearchCards_SingleMatchHintNamesThePath(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)

	_, out, err := handler(context.Background(), nil, SearchCardsInput{Term: strPtr("rarity")})
	require.NoError(t, err)
	require.Equal(t, 1, out.TotalCount)
	assert.Contains(t, out.Hint, `get_card(path="mares/rarity.png")`)
}

func TestSearchCards_RejectsBadInput(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSearchCards(d)
	ctx := context.Background()

	_, _, err := handler(ctx, nil, SearchCardsInput{Sort: "bogus"})
	requireCode(t, err, ErrCodeInvalidInput)

	_, _, err = handler(ctx, nil, SearchCardsInput{Page: -1})
	requireCode(t, err, ErrCodeInvalidInput)
}

func TestSearchCards_CatalogFailureIsCoded(t *testing.T) {
	d, a := newTestDeps(t)
	a.setCatalog(`{broken`)
	handler := ToolSearchCards(d)

	_, _, err := handler(context.Background(), nil, SearchCardsInput{})
	requireCode(t, err, ErrCodeCatalogError)
}
