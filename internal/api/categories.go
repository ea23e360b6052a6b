package api

import (
	"context"
	"net/http"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// ListCategories returns every category of the signed-in user.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/category"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	req := request{method: http.MethodPost, path: "/category", body: in, idempotent: true}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory renames or restyles a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, in domain.UpdateCategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, request{method: http.MethodPatch, path: idPath("category", id), body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory deletes a category. Its bookmarks lose their category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("category", id)}, nil)
}
