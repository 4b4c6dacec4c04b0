package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

func TestDownloadCards_ReportsPerItem(t *testing.T) {
	d, a := newTestDeps(t)
	a.addCard("mares/applejack.png", testPNG)
	a.addCard("mares/rainbow.png", testPNG)
	handler := ToolDownloadCards(d)

	_, out, err := handler(context.Background(), nil, DownloadCardsInput{
		Paths: []string{"mares/applejack.png", "mares/rainbow.png", "mares/ghost.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Requested)
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Items, 3)

	// Items keep request order.
	assert.Equal(t, "mares/applejack.png", out.Items[0].Path)
	assert.True(t, out.Items[0].Imported)
	assert.NotEmpty(t, out.Items[0].Dest)
	assert.Len(t, out.Items[0].SHA256, 64)

	ghost := out.Items[2]
	assert.False(t, ghost.Downloaded)
	assert.Equal(t, types.ErrKindNotFound, ghost.ErrorKind)
	assert.Contains(t, out.Hint, "2 of 3")
}

func TestDownloadCards_AllImportedHint(t *testing.T) {
	d, a := newTestDeps(t)
	a.addCard("mares/rarity.png", testPNG)
	handler := ToolDownloadCards(d)

	_, out, err := handler(context.Background(), nil, DownloadCardsInput{
		Paths: []string{"mares/rarity.png"},
	})
	require.NoError(t, err)
	assert.Zero(t, out.Failed)
	assert.Contains(t, out.Hint, "All 1 card(s) imported")
}

func TestDownloadCards_EnforcesBatchLimit(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolDownloadCards(d)

	// The harness config caps batches at 3.
	_, _, err := handler(context.Background(), nil, DownloadCardsInput{
		Paths: []string{"a.png", "b.png", "c.png", "d.png"},
	})
	requireCode(t, err, ErrCodeInvalidInput)
}

func TestDownloadCards_RequiresPaths(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolDownloadCards(d)

	_, _, err := handler(context.Background(), nil, DownloadCardsInput{})
	requireCode(t, err, ErrCodeInvalidInput)
}
