package fakeapi

import (
	"bytes"
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkshelf/linkshelf/internal/domain"
)

type testServer struct {
	t     *testing.T
	srv   *Server
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	srv, err := NewServer(NewDB(), Options{}, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

func (ts *testServer) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(ts.t, json.MarshalWrite(&buf, body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signup(email string) {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/auth/signup", domain.Credentials{Email: email, Password: "secret123"})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out domain.AuthResponse
	require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(ts.t, out.AccessToken)
	ts.token = out.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_SignupSigninAndMe(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	rec := ts.do(http.MethodGet, "/user/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[domain.User](t, rec)
	assert.Equal(t, "ana@example.com", me.Email)

	ts.token = ""
	rec = ts.do(http.MethodPost, "/auth/signin", domain.Credentials{Email: "ANA@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[domain.AuthResponse](t, rec).AccessToken)

	rec = ts.do(http.MethodPost, "/auth/signin", domain.Credentials{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/auth/signup", domain.Credentials{Email: "ana@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuth_RejectsMissingOrBadToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/user/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts.token = "not-a-jwt"
	rec = ts.do(http.MethodGet, "/bookmark", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Unauthorized", body["message"])
	assert.EqualValues(t, 401, body["statusCode"])
}

func TestSignup_ValidationListsFields(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, "/auth/signup", map[string]string{"email": "nope", "password": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[map[string]any](t, rec)
	msgs, ok := body["message"].([]any)
	require.True(t, ok, "message should be a list: %v", body["message"])
	assert.Len(t, msgs, 2)
}

func TestBookmarks_CreateListAndPaginate(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	for _, title := range []string{"alpha", "beta", "gamma"} {
		rec := ts.do(http.MethodPost, "/bookmark/create", domain.CreateBookmarkInput{
			Title: title,
			Link:  "https://example.com/" + title,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := ts.do(http.MethodGet, "/bookmark?limit=2&page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[domain.Page[domain.Bookmark]](t, rec)
	assert.Equal(t, domain.Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, page.Pagination)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "gamma", page.Data[0].Title, "default sort is newest first")

	rec = ts.do(http.MethodGet, "/bookmark?limit=2&page=2", nil)
	page = decode[domain.Page[domain.Bookmark]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alpha", page.Data[0].Title)

	rec = ts.do(http.MethodGet, "/bookmark?search=BET", nil)
	page = decode[domain.Page[domain.Bookmark]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "beta", page.Data[0].Title)
}

func TestBookmarks_ListRejectsBadQuery(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	tests := []struct {
		name  string
		query string
	}{
		{"bad sort", "sortBy=random"},
		{"zero page", "page=0"},
		{"huge limit", "limit=1000"},
		{"bad favorite", "isFavorite=maybe"},
		{"bad category", "categoryId=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodGet, "/bookmark?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBookmarks_UpdateCategoryClearVersusOmit(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	cat := decode[domain.Category](t, ts.do(http.MethodPost, "/category", domain.CategoryInput{Name: "Reading"}))
	b := decode[domain.Bookmark](t, ts.do(http.MethodPost, "/bookmark/create", domain.CreateBookmarkInput{
		Title:      "Go docs",
		Link:       "https://go.dev/doc",
		CategoryID: &cat.ID,
	}))
	require.NotNil(t, b.CategoryID)

	path := "/bookmark/" + itoa(b.ID)

	rec := ts.do(http.MethodPatch, path, `{"title":"Go documentation"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[domain.Bookmark](t, rec)
	assert.Equal(t, "Go documentation", got.Title)
	require.NotNil(t, got.CategoryID, "absent categoryId leaves the category")
	assert.Equal(t, cat.ID, *got.CategoryID)

	rec = ts.do(http.MethodPatch, path, `{"categoryId":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[domain.Bookmark](t, rec)
	assert.Nil(t, got.CategoryID, "null categoryId clears the category")

	rec = ts.do(http.MethodPatch, path, `{"categoryId":"seven"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookmarks_ToggleFavoriteAndDelete(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	b := decode[domain.Bookmark](t, ts.do(http.MethodPost, "/bookmark/create", domain.CreateBookmarkInput{
		Title: "Go docs",
		Link:  "https://go.dev/doc",
	}))
	path := "/bookmark/" + itoa(b.ID)

	got := decode[domain.Bookmark](t, ts.do(http.MethodPatch, path+"/favorite", nil))
	assert.True(t, got.IsFavorite)
	got = decode[domain.Bookmark](t, ts.do(http.MethodPatch, path+"/favorite", nil))
	assert.False(t, got.IsFavorite)

	rec := ts.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookmarks_OwnedPerUser(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")
	b := decode[domain.Bookmark](t, ts.do(http.MethodPost, "/bookmark/create", domain.CreateBookmarkInput{
		Title: "private",
		Link:  "https://example.com",
	}))

	ts.signup("bo@example.com")
	rec := ts.do(http.MethodGet, "/bookmark/"+itoa(b.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	page := decode[domain.Page[domain.Bookmark]](t, ts.do(http.MethodGet, "/bookmark", nil))
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestTags_CreateIsCaseInsensitive(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	rec := ts.do(http.MethodPost, "/tag", domain.TagInput{Name: "  Golang "})
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[domain.Tag](t, rec)
	assert.Equal(t, "golang", first.Name)

	rec = ts.do(http.MethodPost, "/tag", domain.TagInput{Name: "GOLANG"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decode[domain.Tag](t, rec).ID)

	tags := decode[[]domain.Tag](t, ts.do(http.MethodGet, "/tag", nil))
	assert.Len(t, tags, 1)
}

func TestCategories_DeleteUncategorizesBookmarks(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	cat := decode[domain.Category](t, ts.do(http.MethodPost, "/category", domain.CategoryInput{Name: "Reading"}))
	b := decode[domain.Bookmark](t, ts.do(http.MethodPost, "/bookmark/create", domain.CreateBookmarkInput{
		Title:      "Go docs",
		Link:       "https://go.dev/doc",
		CategoryID: &cat.ID,
	}))

	rec := ts.do(http.MethodDelete, "/category/"+itoa(cat.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got := decode[domain.Bookmark](t, ts.do(http.MethodGet, "/bookmark/"+itoa(b.ID), nil))
	assert.Nil(t, got.CategoryID)
}

func TestIdempotencyKey_ReplaysCreate(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("ana@example.com")

	in := domain.CreateBookmarkInput{Title: "once", Link: "https://example.com"}
	first := ts.do(http.MethodPost, "/bookmark/create", in, "Idempotency-Key", "key-1")
	second := ts.do(http.MethodPost, "/bookmark/create", in, "Idempotency-Key", "key-1")

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, decode[domain.Bookmark](t, first).ID, decode[domain.Bookmark](t, second).ID)

	page := decode[domain.Page[domain.Bookmark]](t, ts.do(http.MethodGet, "/bookmark", nil))
	assert.Len(t, page.Data, 1)
}

func TestRateLimit(t *testing.T) {
	srv, err := NewServer(NewDB(), Options{RequestsPerSecond: 0.001, Burst: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	codes := make([]int, 0, 2)
	for range 2 {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
