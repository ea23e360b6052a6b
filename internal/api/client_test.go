package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Options{
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
		Burst:             1000,
		BreakerFailures:   3,
		BreakerCooldown:   time.Minute,
		HTTPClient:        server.Client(),
	}, func() string { return token }, slog.New(slog.DiscardHandler))
	t.Cleanup(client.Close)

	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_Headers(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantAuth string
	}{
		{name: "signed in", token: "tok-1", wantAuth: "Bearer tok-1"},
		{name: "signed out", token: "", wantAuth: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			client := newTestClient(t, tt.token, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				writeJSON(t, w, http.StatusOK, `[]`)
			})

			_, err := client.ListTags(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantAuth, got.Get("Authorization"))
			assert.True(t, strings.HasPrefix(got.Get(HeaderRequestID), "req-"))
			assert.Empty(t, got.Get(HeaderIdempotencyKey))
		})
	}
}

func TestClient_CreateSendsIdempotencyKey(t *testing.T) {
	var keys []string
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get(HeaderIdempotencyKey))
		writeJSON(t, w, http.StatusCreated, `{"id":1,"title":"Go docs","link":"https://go.dev"}`)
	})

	in := domain.CreateBookmarkInput{Title: "Go docs", Link: "https://go.dev"}
	_, err := client.CreateBookmark(context.Background(), in)
	require.NoError(t, err)
	_, err = client.CreateBookmark(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEqual(t, keys[0], keys[1])
}

func TestClient_ListBookmarks(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookmark", r.URL.Path)
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, http.StatusOK, `{
			"data": [{"id": 7, "title": "Go docs", "link": "https://go.dev", "isFavorite": false, "categoryId": null}],
			"pagination": {"page": 2, "limit": 12, "total": 13, "totalPages": 2}
		}`)
	})

	f := domain.DefaultFilters(12).With(domain.FilterPatch{Search: domain.Set("go")}).WithPage(2)
	page, err := client.ListBookmarks(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, "limit=12&page=2&search=go&sortBy=newest", gotQuery)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(7), page.Data[0].ID)
	assert.Nil(t, page.Data[0].CategoryID)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 12, Total: 13, TotalPages: 2}, page.Pagination)
}

func TestBookmarkQuery(t *testing.T) {
	tests := []struct {
		name string
		f    domain.Filters
		want string
	}{
		{
			name: "empty filters send nothing",
			f:    domain.Filters{},
			want: "",
		},
		{
			name: "favorite false is still sent",
			f:    domain.Filters{IsFavorite: domain.Ptr(false)},
			want: "isFavorite=false",
		},
		{
			name: "ids and sort",
			f:    domain.Filters{CategoryID: domain.Ptr[int64](3), TagID: domain.Ptr[int64](4), SortBy: domain.SortTitle},
			want: "categoryId=3&sortBy=title&tagId=4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BookmarkQuery(tt.f).Encode())
		})
	}
}

func TestClient_UpdateBookmarkCategoryWireForm(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/bookmark/5", r.URL.Path)
		body = map[string]any{}
		require.NoError(t, json.UnmarshalRead(r.Body, &body))
		writeJSON(t, w, http.StatusOK, `{"id":5,"title":"x","link":"https://x.dev"}`)
	})

	_, err := client.UpdateBookmark(context.Background(), 5, domain.UpdateBookmarkInput{CategoryID: domain.Clear[int64]()})
	require.NoError(t, err)
	v, ok := body["categoryId"]
	assert.True(t, ok)
	assert.Nil(t, v)

	_, err = client.UpdateBookmark(context.Background(), 5, domain.UpdateBookmarkInput{Title: domain.Ptr("y")})
	require.NoError(t, err)
	_, ok = body["categoryId"]
	assert.False(t, ok)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.Code
		wantMsg  string
	}{
		{
			name:     "string message",
			status:   http.StatusConflict,
			body:     `{"message":"Email already exists","statusCode":409,"error":"Conflict"}`,
			wantCode: errors.CodeConflict,
			wantMsg:  "Email already exists",
		},
		{
			name:     "message list",
			status:   http.StatusBadRequest,
			body:     `{"message":["title should not be empty","link must be a URL address"],"statusCode":400,"error":"Bad Request"}`,
			wantCode: errors.CodeValidation,
			wantMsg:  "title should not be empty; link must be a URL address",
		},
		{
			name:     "empty body falls back",
			status:   http.StatusNotFound,
			body:     ``,
			wantCode: errors.CodeNotFound,
			wantMsg:  "fallback",
		},
		{
			name:     "non json body falls back",
			status:   http.StatusUnauthorized,
			body:     `<html>nope</html>`,
			wantCode: errors.CodeUnauthorized,
			wantMsg:  "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, tt.body)
			})

			_, err := client.GetBookmark(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			assert.Equal(t, tt.wantMsg, errors.UserMessage(err, "fallback"))
		})
	}
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusInternalServerError, `{"message":"boom","statusCode":500}`)
	})

	for range 3 {
		_, err := client.ListTags(context.Background())
		require.Error(t, err)
	}
	require.Equal(t, int32(3), hits.Load())

	_, err := client.ListTags(context.Background())
	assert.True(t, errors.Is(err, errors.ErrUnavailable))
	assert.Equal(t, int32(3), hits.Load(), "open breaker must not reach the server")
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusNotFound, `{"message":"Bookmark not found","statusCode":404}`)
	})

	for range 5 {
		_, err := client.GetBookmark(context.Background(), 9)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	}
	assert.Equal(t, int32(5), hits.Load())
}

func TestClient_DeleteIgnoresEmptyBody(t *testing.T) {
	client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteBookmark(context.Background(), 3))
}

func TestClient_TransportErrorIsNotDisplayable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Options{BaseURL: url}, nil, nil)
	defer client.Close()

	_, err := client.ListCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeTransport, errors.CodeOf(err))
	assert.Equal(t, "Không thể tải categories", errors.UserMessage(err, "Không thể tải categories"))
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "bookmark", resourceOf("/bookmark/5/favorite"))
	assert.Equal(t, "tag", resourceOf("/tag"))
}
