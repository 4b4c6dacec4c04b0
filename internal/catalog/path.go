package catalog

import "strings"

// Path is the canonical identity of a catalog record. Source data mixes
// separator styles, so the same card can appear as `anon\filly.png` in the
// catalog and `anon/filly.png` in the filter index. Raw keys are
// canonicalized exactly once, here, at ingestion; everything downstream is
// keyed by Path and never sees a raw string.
type Path string

// NewPath canonicalizes a raw key from the catalog or filter index:
// backslashes become forward slashes, surrounding whitespace and any
// leading slash are dropped.
func NewPath(raw string) Path {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, `\`, "/")
	s = strings.TrimPrefix(s, "/")
	return Path(s)
}

// String returns the canonical form.
func (p Path) String() string {
	return string(p)
}

// IsZero reports whether the raw key canonicalized to nothing.
func (p Path) IsZero() bool {
	return p == ""
}
