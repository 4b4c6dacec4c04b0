package catalog

import (
	"slices"
	"sort"
	"time"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// diffSnapshots compares two snapshots by canonical path. Returns nil when
// prev is nil, an empty delta when nothing changed. Paths in the result are
// sorted so identical refreshes report identically.
func diffSnapshots(prev, next *Snapshot) *types.CatalogDelta {
	if prev == nil {
		return nil
	}

	delta := &types.CatalogDelta{}

	for p, nextRec := range next.ByPath {
		prevRec, existed := prev.ByPath[p]
		if !existed {
			delta.Added = append(delta.Added, p.String())
			continue
		}
		fields := changedFields(prevRec, nextRec, prev.FetchedAt, next.FetchedAt)
		if len(fields) > 0 {
			delta.Updated = append(delta.Updated, types.RecordChange{
				Path:   p.String(),
				Fields: fields,
			})
		}
	}

	for p := range prev.ByPath {
		if _, exists := next.ByPath[p]; !exists {
			delta.Removed = append(delta.Removed, p.String())
		}
	}

	sort.Strings(delta.Added)
	sort.Strings(delta.Removed)
	sort.Slice(delta.Updated, func(i, j int) bool {
		return delta.Updated[i].Path < delta.Updated[j].Path
	})

	return delta
}

// changedFields lists which fields differ between two versions of a record.
// The snapshot fetch times are the defaults applied to absent dates, so a
// pair of defaulted dates compares equal even though the default moved.
func changedFields(prev, next *types.CharacterRecord, prevDefault, nextDefault time.Time) []string {
	var fields []string

	if prev.Name != next.Name {
		fields = append(fields, "name")
	}
	if prev.Author != next.Author {
		fields = append(fields, "author")
	}
	if prev.Description != next.Description {
		fields = append(fields, "description")
	}
	if prev.Personality != next.Personality {
		fields = append(fields, "personality")
	}
	if prev.Scenario != next.Scenario {
		fields = append(fields, "scenario")
	}
	if !slices.Equal(prev.Greetings, next.Greetings) {
		fields = append(fields, "greetings")
	}
	if !slices.Equal(prev.Tags, next.Tags) {
		fields = append(fields, "tags")
	}
	if !slices.Equal(prev.Categories, next.Categories) {
		fields = append(fields, "categories")
	}
	if !datesEqual(prev.DateCreate, next.DateCreate, prevDefault, nextDefault) {
		fields = append(fields, "datecreate")
	}
	if !datesEqual(prev.DateUpdate, next.DateUpdate, prevDefault, nextDefault) {
		fields = append(fields, "dateupdate")
	}

	return fields
}

func datesEqual(a, b, aDefault, bDefault time.Time) bool {
	if a.Equal(aDefault) && b.Equal(bDefault) {
		return true
	}
	return a.Equal(b)
}
