package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

func describeFixture() *Snapshot {
	fi := &client.FilterIndex{
		NSFW: []string{"lewd.png"},
		EQG:  []string{"human.png"},
		Tags: map[string][]string{
			"a.png":     {"mare", "canon"},
			"b.png":     {"mare"},
			"c.png":     {"mare", "oc"},
			"lewd.png":  {"mare"},
			"human.png": {"humanized"},
		},
	}
	doc := makeDoc(
		row("a.png", `{"name": "A", "author": "anon", "datecreate": "2024-01-10T00:00:00Z"}`),
		row("b.png", `{"name": "B", "author": "anon", "datecreate": "2024-01-20T00:00:00Z"}`),
		row("c.png", `{"name": "C", "author": "rose", "datecreate": "2024-02-01T00:00:00Z"}`),
		row("lewd.png", `{"name": "L", "author": "anon", "datecreate": "2024-02-14T00:00:00Z"}`),
		row("human.png", `{"name": "H", "author": "rose", "datecreate": "2024-03-01T00:00:00Z"}`),
		row("broken.png", `{"error": "failed"}`),
	)
	return BuildSnapshot(doc, fi, nil, testClient(), testTime)
}

func TestDescribe(t *testing.T) {
	info := Describe(describeFixture(), "https://cards.test", 2)

	assert.Equal(t, "https://cards.test", info.Endpoint)
	assert.Equal(t, 5, info.TotalRecords)
	assert.Equal(t, 1, info.SkippedTotal)
	assert.Equal(t, 1, info.Skipped.ErrorField)

	require.Len(t, info.Categories, 3)
	assert.Equal(t, types.TagCount{ID: "nsfw", Count: 1}, info.Categories[0])
	assert.Equal(t, types.TagCount{ID: "eqg", Count: 1}, info.Categories[1])
	assert.Equal(t, types.TagCount{ID: "anthro", Count: 0}, info.Categories[2])

	// Four distinct tags, capped to the top two by frequency.
	assert.Equal(t, 4, info.TagCount)
	require.Len(t, info.TopTags, 2)
	assert.Equal(t, types.TagCount{ID: "mare", Count: 4}, info.TopTags[0])

	require.Len(t, info.TopAuthors, 2)
	assert.Equal(t, "anon", info.TopAuthors[0].Author)
	assert.Equal(t, 3, info.TopAuthors[0].Count)
	assert.Equal(t, "rose", info.TopAuthors[1].Author)

	assert.Equal(t, []types.TimelineBucket{
		{Month: "2024-01", Added: 2},
		{Month: "2024-02", Added: 2},
		{Month: "2024-03", Added: 1},
	}, info.Timeline)

	assert.Equal(t, testTime.UnixMilli(), info.FetchedAtMs)
}

func TestDescribe_TiesBreakAlphabetically(t *testing.T) {
	fi := &client.FilterIndex{
		Tags: map[string][]string{
			"a.png": {"zebra", "apple"},
		},
	}
	doc := makeDoc(row("a.png", `{"name": "A", "author": "anon"}`))
	info := Describe(BuildSnapshot(doc, fi, nil, testClient(), testTime), "x", 5)

	require.Len(t, info.TopTags, 2)
	assert.Equal(t, "apple", info.TopTags[0].ID)
	assert.Equal(t, "zebra", info.TopTags[1].ID)
}
