package domain

import (
	"fmt"
	"strings"
)

// SortMode is the ordering of a bookmark list.
type SortMode string

// Sort modes accepted by the API.
const (
	SortNewest   SortMode = "newest"
	SortOldest   SortMode = "oldest"
	SortTitle    SortMode = "title"
	SortPosition SortMode = "position"
)

// SortModes lists every valid sort mode.
func SortModes() []SortMode {
	return []SortMode{SortNewest, SortOldest, SortTitle, SortPosition}
}

// Valid reports whether s is one of the known sort modes.
func (s SortMode) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortTitle, SortPosition:
		return true
	default:
		return false
	}
}

// ParseSortMode parses a sort mode, case-insensitively.
func ParseSortMode(raw string) (SortMode, error) {
	s := SortMode(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid sort mode %q (must be newest, oldest, title, or position)", raw)
	}
	return s, nil
}

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 12

// Filters is the query state driving the next bookmark list request.
// Nil pointers and empty strings mean "no constraint".
type Filters struct {
	Search     string
	CategoryID *int64
	TagID      *int64
	IsFavorite *bool
	SortBy     SortMode
	Page       int
	Limit      int
}

// DefaultFilters returns the first page, newest first, with the given page size.
func DefaultFilters(limit int) Filters {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return Filters{SortBy: SortNewest, Page: 1, Limit: limit}
}

// Clone returns a deep copy so callers cannot alias store state.
func (f Filters) Clone() Filters {
	out := f
	out.CategoryID = clonePtr(f.CategoryID)
	out.TagID = clonePtr(f.TagID)
	out.IsFavorite = clonePtr(f.IsFavorite)
	return out
}

// Equal reports whether both filter states would produce the same request.
func (f Filters) Equal(o Filters) bool {
	return f.Search == o.Search &&
		ptrEqual(f.CategoryID, o.CategoryID) &&
		ptrEqual(f.TagID, o.TagID) &&
		ptrEqual(f.IsFavorite, o.IsFavorite) &&
		f.SortBy == o.SortBy &&
		f.Page == o.Page &&
		f.Limit == o.Limit
}

// FilterPatch is a partial change to Filters. Unchanged fields keep their
// current value; cleared fields drop the constraint.
type FilterPatch struct {
	Search     Optional[string]
	CategoryID Optional[int64]
	TagID      Optional[int64]
	IsFavorite Optional[bool]
	SortBy     Optional[SortMode]
	Limit      Optional[int]
}

// With merges p into f. Any filter change returns to page 1, since the old
// page number may be out of range for the new result set.
func (f Filters) With(p FilterPatch) Filters {
	out := f.Clone()
	p.Search.ApplyValue(&out.Search)
	out.Search = strings.TrimSpace(out.Search)
	p.CategoryID.ApplyPtr(&out.CategoryID)
	p.TagID.ApplyPtr(&out.TagID)
	p.IsFavorite.ApplyPtr(&out.IsFavorite)
	p.SortBy.ApplyValue(&out.SortBy)
	p.Limit.ApplyValue(&out.Limit)
	out.Page = 1
	return out
}

// WithPage moves to another page, keeping every other constraint.
func (f Filters) WithPage(page int) Filters {
	out := f.Clone()
	if page < 1 {
		page = 1
	}
	out.Page = page
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
