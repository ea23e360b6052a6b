// Package view derives filtered, sorted bookmark lists in memory, for the
// mode where the whole list is fetched once and never paginated.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// Builder computes views. Title ordering follows the collation rules of its
// language.
type Builder struct {
	lang language.Tag
}

// NewBuilder creates a builder for lang. language.Und gives root collation.
func NewBuilder(lang language.Tag) *Builder {
	return &Builder{lang: lang}
}

// Apply returns a new slice holding the bookmarks of base that match f,
// ordered by f.SortBy. base is never modified. Page and Limit are ignored.
func (b *Builder) Apply(base []domain.Bookmark, f domain.Filters) []domain.Bookmark {
	// Casers and collators keep internal state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(f.Search))

	out := make([]domain.Bookmark, 0, len(base))
	for i := range base {
		bm := &base[i]
		if f.CategoryID != nil && !bm.InCategory(*f.CategoryID) {
			continue
		}
		if f.TagID != nil && !bm.HasTag(*f.TagID) {
			continue
		}
		if f.IsFavorite != nil && bm.IsFavorite != *f.IsFavorite {
			continue
		}
		if needle != "" && !matches(fold, bm, needle) {
			continue
		}
		out = append(out, *bm)
	}

	b.sort(out, f.SortBy)
	return out
}

func matches(fold cases.Caser, bm *domain.Bookmark, needle string) bool {
	for _, field := range []string{bm.Title, bm.Description, bm.Link} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

func (b *Builder) sort(list []domain.Bookmark, mode domain.SortMode) {
	switch mode {
	case domain.SortOldest:
		slices.SortStableFunc(list, func(x, y domain.Bookmark) int {
			return x.CreatedAt.Compare(y.CreatedAt)
		})
	case domain.SortTitle:
		c := collate.New(b.lang, collate.IgnoreCase)
		slices.SortStableFunc(list, func(x, y domain.Bookmark) int {
			return c.CompareString(x.Title, y.Title)
		})
	case domain.SortPosition:
		slices.SortStableFunc(list, func(x, y domain.Bookmark) int {
			return x.Position - y.Position
		})
	default:
		slices.SortStableFunc(list, func(x, y domain.Bookmark) int {
			return y.CreatedAt.Compare(x.CreatedAt)
		})
	}
}
