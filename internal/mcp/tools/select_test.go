package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTags_AddRemoveClear(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSelectTags(d)
	ctx := context.Background()

	_, out, err := handler(ctx, nil, SelectTagsInput{Add: []string{"unicorn", "eqg"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"unicorn", "eqg"}, out.SelectedIDs)
	assert.Equal(t, 1, out.Page)

	_, out, err = handler(ctx, nil, SelectTagsInput{Remove: []string{"EQG"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"unicorn"}, out.SelectedIDs)

	_, out, err = handler(ctx, nil, SelectTagsInput{Clear: true})
	require.NoError(t, err)
	assert.Empty(t, out.SelectedIDs)
	assert.Contains(t, out.Hint, "cleared")
}

func TestSelectTags_NoOpIsRejected(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSelectTags(d)

	_, _, err := handler(context.Background(), nil, SelectTagsInput{})
	requireCode(t, err, ErrCodeInvalidInput)
}

func TestSelectTags_ResetsSessionPage(t *testing.T) {
	d, _ := newTestDeps(t)
	search := ToolSearchCards(d)
	sel := ToolSelectTags(d)
	ctx := context.Background()

	_, _, err := search(ctx, nil, SearchCardsInput{Page: 2})
	require.NoError(t, err)
	require.Equal(t, 2, d.Sessions.Get("").View().Page)

	_, out, err := sel(ctx, nil, SelectTagsInput{Add: []string{"pegasus"}})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
}

func TestSelectTags_FlagsUnknownIDs(t *testing.T) {
	d, _ := newTestDeps(t)
	search := ToolSearchCards(d)
	sel := ToolSelectTags(d)
	ctx := context.Background()

	// Prime the snapshot so the advisory lookup has an index to consult.
	_, _, err := search(ctx, nil, SearchCardsInput{})
	require.NoError(t, err)

	_, out, err := sel(ctx, nil, SelectTagsInput{Add: []string{"seapony"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"seapony"}, out.SelectedIDs)
	assert.Equal(t, []string{"seapony"}, out.Unknown)
	assert.Contains(t, out.Hint, "seapony")
}

func TestSelectTags_SkipsUnknownCheckOnColdStore(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSelectTags(d)

	// No search has run, so no snapshot exists; the selection still applies
	// and nothing is flagged.
	_, out, err := handler(context.Background(), nil, SelectTagsInput{Add: []string{"seapony"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"seapony"}, out.SelectedIDs)
	assert.Empty(t, out.Unknown)
}

func TestSelectTags_WarnsWhenNSFWHidden(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSelectTags(d)

	_, out, err := handler(context.Background(), nil, SelectTagsInput{Add: []string{"nsfw"}})
	require.NoError(t, err)
	assert.Contains(t, out.Hint, "nsfw_visible")
}
