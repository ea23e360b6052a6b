package store_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkshelf/linkshelf/internal/api"
	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/fakeapi"
	"github.com/linkshelf/linkshelf/internal/store"
	"github.com/linkshelf/linkshelf/internal/tokens"
	"github.com/linkshelf/linkshelf/internal/validation"
)

type harness struct {
	client     *api.Client
	auth       *store.AuthStore
	bookmarks  *store.BookmarkStore
	categories *store.CategoryStore
	tags       *store.TagStore
}

// newHarness wires the stores to a fake API over real HTTP.
func newHarness(t *testing.T) *harness {
	t.Helper()
	srv, err := fakeapi.NewServer(fakeapi.NewDB(), fakeapi.Options{}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)

	slot, err := tokens.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = slot.Close() })

	h := &harness{}
	h.client = api.New(api.Options{BaseURL: ts.URL, RequestsPerSecond: 1000, Burst: 1000},
		func() string { return h.auth.Token() }, nil)
	t.Cleanup(h.client.Close)

	validate := validation.New()
	h.auth, err = store.NewAuthStore(h.client, slot, validate, nil, nil)
	require.NoError(t, err)
	h.bookmarks = store.NewBookmarkStore(h.client, validate, domain.DefaultPageSize, nil, nil)
	h.categories = store.NewCategoryStore(h.client, validate, nil, nil)
	h.tags = store.NewTagStore(h.client, validate, nil, nil)
	return h
}

func (h *harness) signup(t *testing.T) {
	t.Helper()
	err := h.auth.Signup(context.Background(), domain.SignupInput{
		Email:           "ana@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
}

func TestIntegration_SignupFetchesUser(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	assert.True(t, h.auth.IsAuthenticated())
	u := h.auth.User()
	require.NotNil(t, u)
	assert.Equal(t, "ana@example.com", u.Email)
}

func TestIntegration_FetchUserWithBadTokenLeavesUserNil(t *testing.T) {
	h := newHarness(t)
	slot, err := tokens.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = slot.Close() })
	require.NoError(t, slot.Set("not-a-valid-token"))

	h.auth, err = store.NewAuthStore(h.client, slot, nil, nil, nil)
	require.NoError(t, err)

	h.auth.FetchUser(context.Background())

	st := h.auth.Snapshot()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Error)
	assert.Equal(t, "not-a-valid-token", st.Token)
}

func TestIntegration_CreateBookmarkAppearsInList(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	ctx := context.Background()

	h.bookmarks.List(ctx, nil)
	require.Empty(t, h.bookmarks.Snapshot().Bookmarks)

	_, err := h.bookmarks.Create(ctx, domain.CreateBookmarkInput{Title: "Go docs", Link: "https://go.dev/doc"})
	require.NoError(t, err)

	st := h.bookmarks.Snapshot()
	require.Len(t, st.Bookmarks, 1)
	b := st.Bookmarks[0]
	assert.Equal(t, "Go docs", b.Title)
	assert.False(t, b.IsFavorite)
	assert.Nil(t, b.CategoryID)
	assert.Equal(t, 1, st.Pagination.Total)
}

func TestIntegration_ToggleFavoriteTwiceRestores(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	ctx := context.Background()

	created, err := h.bookmarks.Create(ctx, domain.CreateBookmarkInput{Title: "Go docs", Link: "https://go.dev/doc"})
	require.NoError(t, err)

	first, err := h.bookmarks.ToggleFavorite(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.IsFavorite)
	assert.True(t, h.bookmarks.Snapshot().Bookmarks[0].IsFavorite)

	second, err := h.bookmarks.ToggleFavorite(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, second.IsFavorite)
	assert.False(t, h.bookmarks.Snapshot().Bookmarks[0].IsFavorite)
}

func TestIntegration_UpdateCategoryClearVersusOmit(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	ctx := context.Background()

	cat, err := h.categories.Create(ctx, domain.CategoryInput{Name: "Reading"})
	require.NoError(t, err)
	created, err := h.bookmarks.Create(ctx, domain.CreateBookmarkInput{
		Title:      "Go docs",
		Link:       "https://go.dev/doc",
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	renamed, err := h.bookmarks.Update(ctx, created.ID, domain.UpdateBookmarkInput{Title: domain.Ptr("Go documentation")})
	require.NoError(t, err)
	require.NotNil(t, renamed.CategoryID)
	assert.Equal(t, cat.ID, *renamed.CategoryID)

	cleared, err := h.bookmarks.Update(ctx, created.ID, domain.UpdateBookmarkInput{CategoryID: domain.Clear[int64]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.CategoryID)
	assert.Equal(t, "Go documentation", cleared.Title)
}

func TestIntegration_FiltersResetPageAndPaginate(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	ctx := context.Background()

	for i := range 15 {
		title := "other"
		if i%3 == 0 {
			title = "golang tips"
		}
		_, err := h.bookmarks.Create(ctx, domain.CreateBookmarkInput{Title: title, Link: "https://example.com"})
		require.NoError(t, err)
	}

	h.bookmarks.SetPage(ctx, 2)
	st := h.bookmarks.Snapshot()
	assert.Equal(t, 2, st.Pagination.Page)
	assert.Len(t, st.Bookmarks, 3)

	h.bookmarks.SetFilters(ctx, domain.FilterPatch{Search: domain.Set("GOLANG")})
	st = h.bookmarks.Snapshot()
	assert.Equal(t, 1, st.Filters.Page)
	assert.Equal(t, 5, st.Pagination.Total)
	assert.Len(t, st.Bookmarks, 5)
}

func TestIntegration_TagsDeduplicate(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	ctx := context.Background()

	a, err := h.tags.Create(ctx, domain.TagInput{Name: "Golang"})
	require.NoError(t, err)
	b, err := h.tags.Create(ctx, domain.TagInput{Name: " golang "})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, h.tags.Tags(), 1)

	h.tags.Fetch(ctx)
	assert.Len(t, h.tags.Tags(), 1)
}

func TestIntegration_SignedOutRequestsShowServerMessage(t *testing.T) {
	h := newHarness(t)

	h.bookmarks.List(context.Background(), nil)

	st := h.bookmarks.Snapshot()
	assert.Equal(t, "Unauthorized", st.Error)
	assert.Empty(t, st.Bookmarks)
}
