package catalog

import (
	"log/slog"
	"sort"
	"time"

	"github.com/hayloft/cardstable-mcp/pkg/client"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Snapshot is one ingested catalog: the validated records in document
// order, the path lookup, and the inverted tag/category index, all built
// from the same fetch. Snapshots are immutable once published; the store
// replaces them as a unit so readers never see records from one fetch
// paired with an index from another.
type Snapshot struct {
	Records    []*types.CharacterRecord // document order; doc ID is the position
	ByPath     map[Path]*types.CharacterRecord
	Index      *Index
	Raw        []byte // verbatim catalog payload
	FilterRaw  []byte // verbatim filter index payload
	Skipped    types.SkipStats
	Violations []string // advisory schema findings from ingestion
	FetchedAt  time.Time
}

// BuildSnapshot ingests a fetched catalog document and filter index. Rows
// failing validation are counted and logged, never surfaced as errors. The
// client supplies download URLs for the ingested records.
func BuildSnapshot(doc *client.CatalogDocument, fi *client.FilterIndex, filterRaw []byte, c *client.Client, now time.Time) *Snapshot {
	lookup := newFilterLookup(fi)

	snap := &Snapshot{
		ByPath:    make(map[Path]*types.CharacterRecord, len(doc.Rows)),
		Index:     newIndex(),
		Raw:       doc.Raw,
		FilterRaw: filterRaw,
		FetchedAt: now,
	}

	for _, row := range doc.Rows {
		p := NewPath(row.Key)
		if p.IsZero() {
			snap.Skipped.NotObject++
			slog.Debug("skipping catalog row", slog.String("path", row.Key), slog.String("reason", "empty_path"))
			continue
		}

		raw, reason := classifyRow(row.Value)
		if reason != SkipNone {
			countSkip(&snap.Skipped, reason)
			slog.Debug("skipping catalog row",
				slog.String("path", p.String()),
				slog.String("reason", reason.String()),
			)
			continue
		}

		rec := buildRecord(p, raw, c.CardURL(p.String()), now)
		rec.Tags = lookup.tags[p]
		rec.Categories = lookup.categoriesOf(p)

		docID := uint32(len(snap.Records))
		snap.Records = append(snap.Records, rec)
		snap.ByPath[p] = rec
		snap.Index.add(docID, rec)
	}

	return snap
}

// Record returns the record for a path, raw or canonical.
func (s *Snapshot) Record(path string) (*types.CharacterRecord, bool) {
	rec, ok := s.ByPath[NewPath(path)]
	return rec, ok
}

// Len returns the number of ingested records.
func (s *Snapshot) Len() int {
	return len(s.Records)
}

// countSkip attributes one skipped row to its reason.
func countSkip(stats *types.SkipStats, r SkipReason) {
	switch r {
	case SkipNotObject:
		stats.NotObject++
	case SkipErrorField:
		stats.ErrorField++
	case SkipMissingName:
		stats.MissingName++
	case SkipMissingAuthor:
		stats.MissingAuthor++
	}
}

// filterLookup is the filter index after canonicalization. Tag lists whose
// raw keys collapse to the same canonical path are unioned, which is what
// makes resolution separator-agnostic.
type filterLookup struct {
	tags       map[Path][]string
	categories map[string]map[Path]struct{}
}

func newFilterLookup(fi *client.FilterIndex) *filterLookup {
	fl := &filterLookup{
		tags:       make(map[Path][]string),
		categories: make(map[string]map[Path]struct{}, 3),
	}
	if fi == nil {
		return fl
	}

	// Raw keys are visited in sorted order so unions of colliding keys come
	// out the same on every build.
	rawKeys := make([]string, 0, len(fi.Tags))
	for raw := range fi.Tags {
		rawKeys = append(rawKeys, raw)
	}
	sort.Strings(rawKeys)

	for _, raw := range rawKeys {
		p := NewPath(raw)
		if p.IsZero() {
			continue
		}
		fl.tags[p] = mergeTags(fl.tags[p], fi.Tags[raw])
	}

	fl.categories[types.CategoryNSFW] = pathSet(fi.NSFW)
	fl.categories[types.CategoryEQG] = pathSet(fi.EQG)
	fl.categories[types.CategoryAnthro] = pathSet(fi.Anthro)
	return fl
}

// categoriesOf returns the category ids listing p, in canonical order.
func (fl *filterLookup) categoriesOf(p Path) []string {
	var out []string
	for _, id := range types.Categories() {
		if _, ok := fl.categories[id][p]; ok {
			out = append(out, id)
		}
	}
	return out
}

// mergeTags unions two tag lists, keeping first-seen order and dropping
// case-insensitive duplicates.
func mergeTags(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, list := range [][]string{existing, incoming} {
		for _, tag := range list {
			folded := foldTag(tag)
			if folded == "" {
				continue
			}
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// pathSet canonicalizes a category path list into a set.
func pathSet(raws []string) map[Path]struct{} {
	set := make(map[Path]struct{}, len(raws))
	for _, raw := range raws {
		if p := NewPath(raw); !p.IsZero() {
			set[p] = struct{}{}
		}
	}
	return set
}
