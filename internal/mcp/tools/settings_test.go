package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

func TestGetSettings_ReflectsConfig(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolGetSettings(d)

	_, out, err := handler(context.Background(), nil, GetSettingsInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, out.PageSize)
	assert.Equal(t, types.SortDateUpdate, out.DefaultSort)
	assert.False(t, out.NSFWVisible)
	assert.True(t, out.CacheEnabled)
	assert.True(t, out.ShowTagCounts)
	assert.Contains(t, out.Hint, "update_settings")
}

func TestUpdateSettings_AppliesPatch(t *testing.T) {
	d, _ := newTestDeps(t)
	update := ToolUpdateSettings(d)
	get := ToolGetSettings(d)
	ctx := context.Background()

	_, out, err := update(ctx, nil, UpdateSettingsInput{
		PageSize:    intPtr(10),
		DefaultSort: strPtr("name"),
		NSFWVisible: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, out.PageSize)
	assert.Equal(t, types.SortName, out.DefaultSort)
	assert.True(t, out.NSFWVisible)
	assert.True(t, out.CacheEnabled) // untouched fields keep their value
	assert.Contains(t, out.Hint, "Saved")

	_, got, err := get(ctx, nil, GetSettingsInput{})
	require.NoError(t, err)
	assert.Equal(t, out.PageSize, got.PageSize)
	assert.Equal(t, out.DefaultSort, got.DefaultSort)
}

func TestUpdateSettings_NewPageSizeReachesSearch(t *testing.T) {
	d, _ := newTestDeps(t)
	update := ToolUpdateSettings(d)
	search := ToolSearchCards(d)
	ctx := context.Background()

	_, _, err := update(ctx, nil, UpdateSettingsInput{PageSize: intPtr(10)})
	require.NoError(t, err)

	_, out, err := search(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)
	assert.Equal(t, 10, out.PageSize)
	assert.Equal(t, 1, out.PageCount)
	assert.Len(t, out.Results, 3)
}

func TestUpdateSettings_RejectsInvalidValues(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolUpdateSettings(d)
	ctx := context.Background()

	_, _, err := handler(ctx, nil, UpdateSettingsInput{PageSize: intPtr(0)})
	requireCode(t, err, ErrCodeInvalidInput)
	assert.Contains(t, err.Error(), "page_size")

	_, _, err = handler(ctx, nil, UpdateSettingsInput{DefaultSort: strPtr("bogus")})
	requireCode(t, err, ErrCodeInvalidInput)
	assert.Contains(t, err.Error(), "bogus")
}
