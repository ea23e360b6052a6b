package api

import (
	"context"
	"net/http"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// SignIn exchanges credentials for an access token.
func (c *Client) SignIn(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signin", body: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new account and returns its access token.
func (c *Client) SignUp(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: creds, idempotent: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the profile of the signed-in user.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe applies a partial profile update.
func (c *Client) UpdateMe(ctx context.Context, in domain.UpdateUserInput) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/user/update", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
