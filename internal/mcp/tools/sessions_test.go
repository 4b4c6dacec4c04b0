package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

func TestSessionInfo_FreshSession(t *testing.T) {
	d, _ := newTestDeps(t)
	handler := ToolSessionInfo(d)

	_, out, err := handler(context.Background(), nil, SessionInfoInput{})
	require.NoError(t, err)

	assert.Equal(t, "default", out.SessionID)
	assert.Empty(t, out.SelectedIDs)
	assert.Empty(t, out.Term)
	assert.Empty(t, out.Sort)
	assert.Equal(t, 1, out.Page)
	assert.Zero(t, out.Seq)
	assert.Contains(t, out.KnownSessions, "default")
	assert.Contains(t, out.Hint, "dateupdate")
}

func TestSessionInfo_TracksSearchState(t *testing.T) {
	d, _ := newTestDeps(t)
	search := ToolSearchCards(d)
	selectTags := ToolSelectTags(d)
	info := ToolSessionInfo(d)
	ctx := context.Background()

	_, _, err := search(ctx, nil, SearchCardsInput{Term: strPtr("anon"), Sort: "name"})
	require.NoError(t, err)
	_, _, err = selectTags(ctx, nil, SelectTagsInput{Add: []string{"unicorn"}})
	require.NoError(t, err)

	_, out, err := info(ctx, nil, SessionInfoInput{})
	require.NoError(t, err)

	assert.Equal(t, []string{"unicorn"}, out.SelectedIDs)
	assert.Equal(t, "anon", out.Term)
	assert.Equal(t, types.SortName, out.Sort)
	assert.Equal(t, uint64(1), out.Seq)
	assert.Empty(t, out.Hint) // sort is set, nothing to explain
}

func TestSessionInfo_SessionsAreIndependent(t *testing.T) {
	d, _ := newTestDeps(t)
	search := ToolSearchCards(d)
	info := ToolSessionInfo(d)
	ctx := context.Background()

	_, _, err := search(ctx, nil, SearchCardsInput{SessionID: "research", Term: strPtr("anon")})
	require.NoError(t, err)

	_, out, err := info(ctx, nil, SessionInfoInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Term)
	assert.ElementsMatch(t, []string{"default", "research"}, out.KnownSessions)

	_, out, err = info(ctx, nil, SessionInfoInput{SessionID: "research"})
	require.NoError(t, err)
	assert.Equal(t, "anon", out.Term)
}

func TestResetSession_ClearsState(t *testing.T) {
	d, _ := newTestDeps(t)
	search := ToolSearchCards(d)
	selectTags := ToolSelectTags(d)
	reset := ToolResetSession(d)
	info := ToolSessionInfo(d)
	ctx := context.Background()

	_, _, err := search(ctx, nil, SearchCardsInput{Term: strPtr("anon"), Sort: "name"})
	require.NoError(t, err)
	_, _, err = selectTags(ctx, nil, SelectTagsInput{Add: []string{"unicorn"}})
	require.NoError(t, err)

	_, out, err := reset(ctx, nil, ResetSessionInput{})
	require.NoError(t, err)
	assert.Equal(t, "default", out.SessionID)
	assert.Contains(t, out.Hint, "defaults")

	_, state, err := info(ctx, nil, SessionInfoInput{})
	require.NoError(t, err)
	assert.Empty(t, state.SelectedIDs)
	assert.Empty(t, state.Term)
	assert.Empty(t, state.Sort)
	assert.Equal(t, 1, state.Page)
	assert.Zero(t, state.Seq)
}
