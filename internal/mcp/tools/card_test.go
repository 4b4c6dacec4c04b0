package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCard_ReturnsFullRecord(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolGetCard(d)

	_, out, err := handler(context.Background(), nil, GetCardInput{Path: "mares/applejack.png"})
	require.NoError(t, err)

	assert.Equal(t, "mares/applejack.png", out.Path)
	assert.Equal(t, "Applejack", out.Name)
	assert.Equal(t, "anon", out.Author)
	assert.Equal(t, "Honest to a fault", out.Description)
	assert.Equal(t, "stubborn, loyal", out.Personality)
	assert.Equal(t, "Sweet Apple Acres", out.Scenario)
	assert.Equal(t, []string{"Howdy!"}, out.Greetings)
	assert.Equal(t, []string{"earth pony", "honest"}, out.Tags)
	assert.Equal(t, "2023-01-15T00:00:00Z", out.DateCreate)
	assert.Contains(t, out.URL, "/cards/mares/applejack.png")

	require.NotNil(t, out.Resource)
	assert.Equal(t, "cardstable://card/mares/applejack.png", out.Resource.URI)
	assert.Contains(t, out.Hint, "download_cards")
}

func TestGetCard_CanonicalizesPath(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolGetCard(d)

	_, out, err := handler(context.Background(), nil, GetCardInput{Path: `mares\rarity.png`})
	require.NoError(t, err)
	assert.Equal(t, "mares/rarity.png", out.Path)
	assert.Equal(t, []string{"unicorn"}, out.Tags)
}

func TestGetCard_NotFound(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolGetCard(d)

	_, _, err := handler(context.Background(), nil, GetCardInput{Path: "mares/ghost.png"})
	requireCode(t, err, ErrCodeNotFound)
}

func TestGetCard_RequiresPath(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolGetCard(d)

	_, _, err := handler(context.Background(), nil, GetCardInput{})
	requireCode(t, err, ErrCodeInvalidInput)
}

func TestGetCard_SkippedRowIsNotFound(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolGetCard(d)

	// The row exists in the raw payload but carries an error field, so
	// ingestion dropped it.
	_, _, err := handler(context.Background(), nil, GetCardInput{Path: "broken.png"})
	requireCode(t, err, ErrCodeNotFound)
}
