package api

import (
	"context"
	"net/http"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// ListBookmarks returns one page of bookmarks matching f.
func (c *Client) ListBookmarks(ctx context.Context, f domain.Filters) (*domain.Page[domain.Bookmark], error) {
	var out domain.Page[domain.Bookmark]
	req := request{method: http.MethodGet, path: "/bookmark", query: BookmarkQuery(f)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []domain.Bookmark{}
	}
	return &out, nil
}

// GetBookmark returns a single bookmark.
func (c *Client) GetBookmark(ctx context.Context, id int64) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("bookmark", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBookmark creates a bookmark. Tag names that do not exist yet are
// created by the server.
func (c *Client) CreateBookmark(ctx context.Context, in domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	var out domain.Bookmark
	req := request{method: http.MethodPost, path: "/bookmark/create", body: in, idempotent: true}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBookmark applies a partial update.
func (c *Client) UpdateBookmark(ctx context.Context, id int64, in domain.UpdateBookmarkInput) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := c.do(ctx, request{method: http.MethodPatch, path: idPath("bookmark", id), body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBookmark deletes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("bookmark", id)}, nil)
}

// ToggleFavorite flips the favorite flag and returns the updated bookmark.
func (c *Client) ToggleFavorite(ctx context.Context, id int64) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := c.do(ctx, request{method: http.MethodPatch, path: idPath("bookmark", id, "favorite")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
