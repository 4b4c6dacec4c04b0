package catalog

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// Index is the inverted tag and category index over one snapshot. Doc IDs
// are positions in the snapshot's record slice, so iterating a bitmap walks
// records in document order. The index is built once during ingestion and
// read-only afterwards; concurrent readers need no lock because the store
// swaps whole snapshots.
type Index struct {
	idxTag      map[string]*roaring.Bitmap // lowercased tag -> doc IDs
	idxCategory map[string]*roaring.Bitmap // category id -> doc IDs
	idxAuthor   map[string]*roaring.Bitmap // lowercased author -> doc IDs
	tagNames    map[string]string          // lowercased tag -> first-seen display form
	authorNames map[string]string          // lowercased author -> first-seen display form
	categorized *roaring.Bitmap            // union of all category lists
	all         *roaring.Bitmap
}

func newIndex() *Index {
	return &Index{
		idxTag:      make(map[string]*roaring.Bitmap),
		idxCategory: make(map[string]*roaring.Bitmap),
		idxAuthor:   make(map[string]*roaring.Bitmap),
		tagNames:    make(map[string]string),
		authorNames: make(map[string]string),
		categorized: roaring.New(),
		all:         roaring.New(),
	}
}

// foldTag normalizes a tag for case-insensitive comparison.
func foldTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// add indexes one record under its doc ID.
func (ix *Index) add(docID uint32, rec *types.CharacterRecord) {
	ix.all.Add(docID)

	for _, tag := range rec.Tags {
		folded := foldTag(tag)
		if folded == "" {
			continue
		}
		if _, seen := ix.tagNames[folded]; !seen {
			ix.tagNames[folded] = tag
		}
		addToBitmap(ix.idxTag, folded, docID)
	}

	for _, cat := range rec.Categories {
		addToBitmap(ix.idxCategory, cat, docID)
		ix.categorized.Add(docID)
	}

	author := strings.ToLower(rec.Author)
	if _, seen := ix.authorNames[author]; !seen {
		ix.authorNames[author] = rec.Author
	}
	addToBitmap(ix.idxAuthor, author, docID)
}

// addToBitmap adds a doc ID to the bitmap for a key, creating it if needed.
func addToBitmap(m map[string]*roaring.Bitmap, key string, docID uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(docID)
}

// All returns a copy of the bitmap of every ingested doc ID.
func (ix *Index) All() *roaring.Bitmap {
	return ix.all.Clone()
}

// Categorized returns the bitmap of doc IDs present in any category list,
// or nil when no record is categorized.
func (ix *Index) Categorized() *roaring.Bitmap {
	if ix.categorized.IsEmpty() {
		return nil
	}
	return ix.categorized
}

// BitmapForTag returns the bitmap for a tag, matched case-insensitively.
// Returns nil when the tag indexes nothing.
func (ix *Index) BitmapForTag(tag string) *roaring.Bitmap {
	return ix.idxTag[foldTag(tag)]
}

// BitmapForCategory returns the bitmap for a category id, or nil.
func (ix *Index) BitmapForCategory(id string) *roaring.Bitmap {
	return ix.idxCategory[id]
}

// BitmapForAuthor returns the bitmap for an author, matched
// case-insensitively. Returns nil when the author indexes nothing.
func (ix *Index) BitmapForAuthor(author string) *roaring.Bitmap {
	return ix.idxAuthor[strings.ToLower(author)]
}

// TagCount returns the number of distinct tags in the index.
func (ix *Index) TagCount() int {
	return len(ix.idxTag)
}

// TagName returns the display form of a tag, matched case-insensitively.
func (ix *Index) TagName(tag string) string {
	if name, ok := ix.tagNames[foldTag(tag)]; ok {
		return name
	}
	return tag
}

// Tags returns every indexed tag in display form, unordered.
func (ix *Index) Tags() []string {
	out := make([]string, 0, len(ix.tagNames))
	for _, name := range ix.tagNames {
		out = append(out, name)
	}
	return out
}

// CountWithin returns per-tag and per-category counts restricted to the
// given doc set. Tags with no survivors are omitted; categories are always
// reported, zero counts included, so selection UIs keep all three visible.
func (ix *Index) CountWithin(docs *roaring.Bitmap) (tags []types.TagCount, categories []types.TagCount) {
	for folded, bm := range ix.idxTag {
		n := int(roaring.And(docs, bm).GetCardinality())
		if n == 0 {
			continue
		}
		tags = append(tags, types.TagCount{ID: ix.tagNames[folded], Count: n})
	}

	for _, id := range types.Categories() {
		var n int
		if bm := ix.idxCategory[id]; bm != nil {
			n = int(roaring.And(docs, bm).GetCardinality())
		}
		categories = append(categories, types.TagCount{ID: id, Count: n})
	}

	return tags, categories
}
