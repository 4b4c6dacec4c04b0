package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCatalogClean(t *testing.T) {
	payload := `{
		"twilight.png": {"name": "Twilight", "author": "anon", "greetings": "hello"},
		"rarity.png": {"name": "Rarity", "author": "anon", "greetings": ["hi", "darling"]},
		"broken.png": {"error": "conversion failed"}
	}`

	assert.Empty(t, CheckCatalog([]byte(payload)))
}

func TestCheckCatalogFindings(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "row is not an object",
			payload: `{"a.png": "not a record"}`,
			want:    "/a.png",
		},
		{
			name:    "name is not a string",
			payload: `{"a.png": {"name": 42, "author": "anon"}}`,
			want:    "/a.png/name",
		},
		{
			name:    "greetings is a number",
			payload: `{"a.png": {"name": "A", "author": "anon", "greetings": 7}}`,
			want:    "/a.png/greetings",
		},
		{
			name:    "document is an array",
			payload: `[1, 2]`,
			want:    "got array, want object",
		},
		{
			name:    "invalid JSON",
			payload: `{`,
			want:    "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := CheckCatalog([]byte(tt.payload))
			assert.NotEmpty(t, findings)
			assert.True(t, containsSubstring(findings, tt.want),
				"findings %v should mention %q", findings, tt.want)
		})
	}
}

func TestCheckCatalogCapsFindings(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{")
	for i := 0; i < 50; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `"row%02d.png": %d`, i, i)
	}
	sb.WriteString("}")

	findings := CheckCatalog([]byte(sb.String()))
	assert.LessOrEqual(t, len(findings), maxFindings+1)
	assert.Contains(t, findings[len(findings)-1], "more")
}

func TestCheckFilterIndex(t *testing.T) {
	clean := `{
		"nsfw": ["lewd/a.png"],
		"eqg": [],
		"anthro": ["b.png"],
		"tags": {"a.png": ["mare", "canon"]}
	}`
	assert.Empty(t, CheckFilterIndex([]byte(clean)))

	missingTags := `{"nsfw": [], "eqg": [], "anthro": []}`
	findings := CheckFilterIndex([]byte(missingTags))
	assert.NotEmpty(t, findings)
	assert.True(t, containsSubstring(findings, "tags"),
		"findings %v should mention the tags key", findings)

	badList := `{"nsfw": "not-a-list", "tags": {}}`
	findings = CheckFilterIndex([]byte(badList))
	assert.True(t, containsSubstring(findings, "/nsfw"),
		"findings %v should point at /nsfw", findings)
}

func containsSubstring(findings []string, want string) bool {
	for _, f := range findings {
		if strings.Contains(f, want) {
			return true
		}
	}
	return false
}
