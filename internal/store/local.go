package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/events"
)

// maxLoadPages bounds Load against a server that never reports a last page.
const maxLoadPages = 1000

// ViewBuilder derives a filtered, sorted list from the full bookmark list.
type ViewBuilder interface {
	Apply(base []domain.Bookmark, f domain.Filters) []domain.Bookmark
}

// LocalState is a consistent copy of the local bookmark store.
type LocalState struct {
	// View is derived from the full list with Filters.
	View    []domain.Bookmark
	Total   int
	Filters domain.Filters
	Loading bool
	Error   string
}

// LocalBookmarkStore fetches the complete bookmark list once and filters and
// sorts it in memory. The base list is only replaced by Load; views are
// always computed on a copy.
type LocalBookmarkStore struct {
	base
	api      BookmarkAPI
	views    ViewBuilder
	pageSize int

	mu      sync.Mutex
	all     []domain.Bookmark
	filters domain.Filters
	loading bool
	err     string
}

// NewLocalBookmarkStore creates an empty local store. pageSize is the size of
// the pages Load requests.
func NewLocalBookmarkStore(api BookmarkAPI, views ViewBuilder, pageSize int, emitter EventEmitter, logger *slog.Logger) *LocalBookmarkStore {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &LocalBookmarkStore{
		base:     newBase("local-bookmarks", emitter, logger),
		api:      api,
		views:    views,
		pageSize: pageSize,
		all:      []domain.Bookmark{},
		filters:  domain.DefaultFilters(pageSize),
	}
}

// Load replaces the base list with every bookmark on the server, walking the
// pages until the reported last one. On failure the previous list is kept.
func (s *LocalBookmarkStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.emit(events.LoadingChanged, true)

	all, err := s.fetchAll(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = errors.UserMessage(err, MsgListBookmarks)
		s.mu.Unlock()
		s.logger.Warn("load bookmarks failed", "error", err)
		s.emit(events.ErrorChanged, nil)
		return
	}
	s.all = all
	s.mu.Unlock()

	s.logger.Debug("bookmarks loaded", "count", len(all))
	s.emit(events.BookmarksChanged, nil)
}

func (s *LocalBookmarkStore) fetchAll(ctx context.Context) ([]domain.Bookmark, error) {
	f := domain.Filters{SortBy: domain.SortNewest, Page: 1, Limit: s.pageSize}
	all := []domain.Bookmark{}
	for f.Page <= maxLoadPages {
		page, err := s.api.ListBookmarks(ctx, f)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if len(page.Data) == 0 || f.Page >= page.Pagination.TotalPages {
			return all, nil
		}
		f.Page++
	}
	s.logger.Warn("stopped loading bookmarks at page limit", "pages", maxLoadPages)
	return all, nil
}

// View returns the bookmarks matching f. It does not change the store.
func (s *LocalBookmarkStore) View(f domain.Filters) []domain.Bookmark {
	s.mu.Lock()
	all := s.all
	s.mu.Unlock()
	return s.views.Apply(all, f)
}

// SetFilters merges patch into the current filters. Nothing is fetched;
// the next Snapshot derives its view from the new filters.
func (s *LocalBookmarkStore) SetFilters(patch domain.FilterPatch) {
	s.mu.Lock()
	s.filters = s.filters.With(patch)
	s.mu.Unlock()
	s.emit(events.BookmarksChanged, nil)
}

// Snapshot returns the view for the current filters and the store status.
func (s *LocalBookmarkStore) Snapshot() LocalState {
	s.mu.Lock()
	all := s.all
	st := LocalState{
		Total:   len(s.all),
		Filters: s.filters.Clone(),
		Loading: s.loading,
		Error:   s.err,
	}
	s.mu.Unlock()

	st.View = s.views.Apply(all, st.Filters)
	return st
}

// All returns a copy of the base list.
func (s *LocalBookmarkStore) All() []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.all)
}

// ClearError drops the recorded error.
func (s *LocalBookmarkStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}
