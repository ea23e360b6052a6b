package api

import (
	"net/url"
	"strconv"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// BookmarkQuery encodes filters as list query parameters. Only constraints
// that are present are sent; IsFavorite is sent only when explicitly set.
func BookmarkQuery(f domain.Filters) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.CategoryID != nil {
		q.Set("categoryId", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.TagID != nil {
		q.Set("tagId", strconv.FormatInt(*f.TagID, 10))
	}
	if f.IsFavorite != nil {
		q.Set("isFavorite", strconv.FormatBool(*f.IsFavorite))
	}
	if f.SortBy != "" {
		q.Set("sortBy", string(f.SortBy))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}
