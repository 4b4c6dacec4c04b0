package catalog

import (
	"sort"
	"time"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Describe summarizes a snapshot: size, skip statistics, category sizes,
// the most used tags and most prolific authors, and a publication timeline
// bucketed by month. Counts here cover the whole catalog, unlike search
// responses whose counts cover the filtered set.
func Describe(snap *Snapshot, endpoint string, topN int) *types.CatalogInfo {
	if topN <= 0 {
		topN = 10
	}

	return &types.CatalogInfo{
		Endpoint:     endpoint,
		TotalRecords: len(snap.Records),
		Skipped:      snap.Skipped,
		SkippedTotal: snap.Skipped.Total(),
		Categories:   categorySizes(snap.Index),
		TagCount:     snap.Index.TagCount(),
		TopTags:      topTags(snap.Index, topN),
		TopAuthors:   topAuthors(snap.Index, topN),
		Timeline:     timeline(snap.Records),
		FetchedAtMs:  snap.FetchedAt.UnixMilli(),
		AgeMs:        time.Since(snap.FetchedAt).Milliseconds(),
	}
}

// categorySizes reports the membership of each category list.
func categorySizes(ix *Index) []types.TagCount {
	out := make([]types.TagCount, 0, 3)
	for _, id := range types.Categories() {
		var n int
		if bm := ix.BitmapForCategory(id); bm != nil {
			n = int(bm.GetCardinality())
		}
		out = append(out, types.TagCount{ID: id, Count: n})
	}
	return out
}

// topTags returns the topN most used tags by catalog-wide frequency.
func topTags(ix *Index, topN int) []types.TagCount {
	counts := make([]types.TagCount, 0, len(ix.idxTag))
	for folded, bm := range ix.idxTag {
		counts = append(counts, types.TagCount{
			ID:    ix.tagNames[folded],
			Count: int(bm.GetCardinality()),
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].ID < counts[j].ID
	})

	if len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

// topAuthors returns the topN authors by card count.
func topAuthors(ix *Index, topN int) []types.AuthorCount {
	counts := make([]types.AuthorCount, 0, len(ix.idxAuthor))
	for folded, bm := range ix.idxAuthor {
		counts = append(counts, types.AuthorCount{
			Author: ix.authorNames[folded],
			Count:  int(bm.GetCardinality()),
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Author < counts[j].Author
	})

	if len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

// timeline buckets records by the month of their creation date, oldest
// month first.
func timeline(records []*types.CharacterRecord) []types.TimelineBucket {
	byMonth := make(map[string]int)
	for _, rec := range records {
		byMonth[rec.DateCreate.Format("2006-01")]++
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	buckets := make([]types.TimelineBucket, 0, len(months))
	for _, month := range months {
		buckets = append(buckets, types.TimelineBucket{Month: month, Added: byMonth[month]})
	}
	return buckets
}
