// Package search runs the catalog filter pipeline: NSFW visibility, the
// category branch, conjunctive tag selection and the free-text term, in
// that order, followed by counting, sorting and pagination.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hayloft/cardstable-mcp/internal/catalog"
	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// fallbackPageSize guards against a zero page size reaching the paginator.
// The configured default is applied by the caller; this is a floor.
const fallbackPageSize = 30

// Engine runs searches over the catalog store's snapshots.
type Engine struct {
	store *catalog.Store
}

// New creates a search engine backed by the catalog store.
func New(store *catalog.Store) *Engine {
	return &Engine{store: store}
}

// Search fetches a snapshot, honoring the TTL cache unless the request asks
// for a refresh, and runs the pipeline over it. A fetch failure aborts the
// whole search; there is no partial result.
func (e *Engine) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	snap, err := e.snapshot(ctx, req.Refresh)
	if err != nil {
		return nil, err
	}
	return run(snap, req), nil
}

// List runs the same pipeline without pagination, returning the whole
// filtered set in sorted order. Exports consume this instead of walking
// pages.
func (e *Engine) List(ctx context.Context, req *types.SearchRequest) ([]types.CardSummary, error) {
	snap, err := e.snapshot(ctx, req.Refresh)
	if err != nil {
		return nil, err
	}

	sortKey := req.Sort
	if !types.ValidSortKey(sortKey) {
		sortKey = types.DefaultSort
	}

	candidates := planFilters(snap.Index, req)
	records, _ := applyTerm(snap, candidates, req.Term)
	sortRecords(records, sortKey)

	results := make([]types.CardSummary, 0, len(records))
	for _, rec := range records {
		results = append(results, rec.ToSummary())
	}
	return results, nil
}

func (e *Engine) snapshot(ctx context.Context, refresh bool) (*catalog.Snapshot, error) {
	if refresh {
		snap, _, err := e.store.Refresh(ctx)
		return snap, err
	}
	return e.store.Get(ctx)
}

// run executes the pipeline over one snapshot.
func run(snap *catalog.Snapshot, req *types.SearchRequest) *types.SearchResponse {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = fallbackPageSize
	}
	sortKey := req.Sort
	if !types.ValidSortKey(sortKey) {
		sortKey = types.DefaultSort
	}

	candidates := planFilters(snap.Index, req)
	records, survivors := applyTerm(snap, candidates, req.Term)

	// Counts cover the filtered set, all pages of it, and shift with every
	// search rather than describing the whole catalog.
	tagCounts, categoryCounts := snap.Index.CountWithin(survivors)
	sortTagCounts(tagCounts)

	sortRecords(records, sortKey)

	total := len(records)
	page, slice := paginate(records, req.Page, pageSize)

	results := make([]types.CardSummary, 0, len(slice))
	for _, rec := range slice {
		results = append(results, rec.ToSummary())
	}

	return &types.SearchResponse{
		Results:        results,
		Page:           page,
		PageSize:       pageSize,
		PageCount:      (total + pageSize - 1) / pageSize,
		TotalCount:     total,
		Sort:           sortKey,
		TagCounts:      tagCounts,
		CategoryCounts: categoryCounts,
		FetchedAtMs:    snap.FetchedAt.UnixMilli(),
	}
}

// planFilters narrows the candidate set with bitmap operations: the NSFW
// visibility drop, then the category branch, then one AND per selected tag.
func planFilters(ix *catalog.Index, req *types.SearchRequest) *roaring.Bitmap {
	result := ix.All()

	if !req.NSFWVisible {
		if bm := ix.BitmapForCategory(types.CategoryNSFW); bm != nil {
			result.AndNot(bm)
		}
	}

	selectedCategories, selectedTags := partitionSelected(req.SelectedIDs)

	if len(selectedCategories) > 0 {
		// With categories selected, membership in one of them is required,
		// so uncategorized entries are out too.
		union := roaring.New()
		for _, id := range selectedCategories {
			if bm := ix.BitmapForCategory(id); bm != nil {
				union.Or(bm)
			}
		}
		result.And(union)
	} else if categorized := ix.Categorized(); categorized != nil {
		// No category selected shows the uncategorized catalog only.
		result.AndNot(categorized)
	}

	for _, tag := range selectedTags {
		bm := ix.BitmapForTag(tag)
		if bm == nil {
			return roaring.New()
		}
		result.And(bm)
	}

	return result
}

// partitionSelected splits a selection into category ids and regular tags.
// Category ids are folded to their canonical lowercase form.
func partitionSelected(ids []string) (categories, tags []string) {
	for _, id := range ids {
		folded := strings.ToLower(strings.TrimSpace(id))
		if folded == "" {
			continue
		}
		if types.IsCategory(folded) {
			categories = append(categories, folded)
		} else {
			tags = append(tags, id)
		}
	}
	return categories, tags
}

// applyTerm drops candidates whose name and author both miss the term,
// returning the survivors in document order along with their bitmap.
func applyTerm(snap *catalog.Snapshot, candidates *roaring.Bitmap, term string) ([]*types.CharacterRecord, *roaring.Bitmap) {
	needle := strings.ToLower(strings.TrimSpace(term))

	if needle == "" {
		records := make([]*types.CharacterRecord, 0, candidates.GetCardinality())
		iter := candidates.Iterator()
		for iter.HasNext() {
			records = append(records, snap.Records[iter.Next()])
		}
		return records, candidates
	}

	matched := roaring.New()
	var records []*types.CharacterRecord
	iter := candidates.Iterator()
	for iter.HasNext() {
		docID := iter.Next()
		rec := snap.Records[docID]
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.Author), needle) {
			matched.Add(docID)
			records = append(records, rec)
		}
	}
	return records, matched
}

// sortRecords stable-sorts in place. Ties keep catalog document order, so
// two records sharing an update date stay in their pre-sort positions.
func sortRecords(records []*types.CharacterRecord, key types.SortKey) {
	switch key {
	case types.SortName:
		c := newCollator()
		sort.SliceStable(records, func(i, j int) bool {
			return c.CompareString(records[i].Name, records[j].Name) < 0
		})
	case types.SortAuthor:
		c := newCollator()
		sort.SliceStable(records, func(i, j int) bool {
			return c.CompareString(records[i].Author, records[j].Author) < 0
		})
	case types.SortDateCreate:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DateCreate.After(records[j].DateCreate)
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DateUpdate.After(records[j].DateUpdate)
		})
	}
}

// newCollator builds a case-insensitive collator. Collators are not safe
// for concurrent use, so each sort gets a fresh one.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// sortTagCounts orders counts descending, ties alphabetical, so the busiest
// tags lead regardless of map iteration order.
func sortTagCounts(counts []types.TagCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].ID < counts[j].ID
	})
}

// paginate slices one 1-based page out of the ordered records. An overshoot
// backs off a page at a time until a page has content; page 1 may come back
// empty, which is the no-results state.
func paginate(records []*types.CharacterRecord, page, pageSize int) (int, []*types.CharacterRecord) {
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	for page > 1 && start >= len(records) {
		page--
		start = (page - 1) * pageSize
	}

	if start >= len(records) {
		return page, nil
	}

	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return page, records[start:end]
}
