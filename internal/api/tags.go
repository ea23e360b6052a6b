package api

import (
	"context"
	"net/http"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// ListTags returns every tag of the signed-in user.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tag"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTag creates a tag, or returns the existing one with the same name.
func (c *Client) CreateTag(ctx context.Context, in domain.TagInput) (*domain.Tag, error) {
	in.Name = domain.NormalizeTagName(in.Name)
	var out domain.Tag
	req := request{method: http.MethodPost, path: "/tag", body: in, idempotent: true}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("tag", id)}, nil)
}
