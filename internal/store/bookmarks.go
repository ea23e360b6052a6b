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

// BookmarkState is a consistent copy of the bookmark store.
type BookmarkState struct {
	Bookmarks  []domain.Bookmark
	Pagination domain.Pagination
	// Filters produced Bookmarks and Pagination.
	Filters domain.Filters
	// Requested is the latest filter state a list was issued for.
	Requested domain.Filters
	Selected  *domain.Bookmark
	Loading   bool
	Error     string
}

// BookmarkStore owns the current page of bookmarks, the active filters and
// the pagination of the last committed response. Filtering, sorting and
// paging happen on the server.
type BookmarkStore struct {
	base
	api      BookmarkAPI
	validate Validator

	mu         sync.Mutex
	bookmarks  []domain.Bookmark
	pagination domain.Pagination
	filters    domain.Filters
	requested  domain.Filters
	selected   *domain.Bookmark
	err        string

	// seq is the sequence number of the latest issued list request.
	seq     uint64
	listing bool
	pending int
}

// NewBookmarkStore creates a bookmark store with default filters.
func NewBookmarkStore(api BookmarkAPI, validate Validator, pageSize int, emitter EventEmitter, logger *slog.Logger) *BookmarkStore {
	f := domain.DefaultFilters(pageSize)
	return &BookmarkStore{
		base:      newBase("bookmarks", emitter, logger),
		api:       api,
		validate:  validate,
		bookmarks: []domain.Bookmark{},
		filters:   f,
		requested: f,
	}
}

// Snapshot returns a copy of the current state.
func (s *BookmarkStore) Snapshot() BookmarkState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := BookmarkState{
		Bookmarks:  slices.Clone(s.bookmarks),
		Pagination: s.pagination,
		Filters:    s.filters.Clone(),
		Requested:  s.requested.Clone(),
		Loading:    s.listing || s.pending > 0,
		Error:      s.err,
	}
	if s.selected != nil {
		sel := *s.selected
		st.Selected = &sel
	}
	return st
}

// List requests one page for filters, or for the latest requested filters
// when filters is nil. Failures are recorded in the store, not returned.
//
// Only the most recently issued request may commit: a response that arrives
// after a newer List was issued is discarded.
func (s *BookmarkStore) List(ctx context.Context, filters *domain.Filters) {
	s.mu.Lock()
	f := s.requested.Clone()
	if filters != nil {
		f = s.normalize(*filters)
	}
	s.seq++
	seq := s.seq
	s.requested = f
	s.listing = true
	s.err = ""
	s.mu.Unlock()
	s.emit(events.LoadingChanged, true)

	page, err := s.api.ListBookmarks(ctx, f)

	s.mu.Lock()
	if seq != s.seq {
		latest := s.seq
		s.mu.Unlock()
		s.logger.Debug("discarding stale bookmark list response",
			slog.Uint64("seq", seq),
			slog.Uint64("latest", latest))
		return
	}
	s.listing = false
	if err != nil {
		s.err = errors.UserMessage(err, MsgListBookmarks)
		s.mu.Unlock()
		s.logger.Warn("list bookmarks failed", "error", err)
		s.emit(events.ErrorChanged, nil)
		return
	}
	s.bookmarks = page.Data
	s.pagination = page.Pagination
	s.filters = f
	s.mu.Unlock()

	s.emit(events.BookmarksChanged, nil)
}

// normalize fills defaults for fields a caller left empty.
func (s *BookmarkStore) normalize(f domain.Filters) domain.Filters {
	f = f.Clone()
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.requested.Limit
	}
	if f.SortBy == "" {
		f.SortBy = domain.SortNewest
	}
	return f
}

// SetFilters merges patch into the latest requested filters, returns to
// page 1, and lists.
func (s *BookmarkStore) SetFilters(ctx context.Context, patch domain.FilterPatch) {
	s.mu.Lock()
	f := s.requested.With(patch)
	s.mu.Unlock()

	s.List(ctx, &f)
}

// SetPage lists another page with the current filters.
func (s *BookmarkStore) SetPage(ctx context.Context, page int) {
	s.mu.Lock()
	f := s.requested.WithPage(page)
	s.mu.Unlock()

	s.List(ctx, &f)
}

// Get fetches a bookmark into the selected slot. On failure the previous
// selection is kept and the error recorded.
func (s *BookmarkStore) Get(ctx context.Context, id int64) {
	s.begin()

	b, err := s.api.GetBookmark(ctx, id)

	s.mu.Lock()
	s.pending--
	if err != nil {
		s.err = errors.UserMessage(err, MsgGetBookmark)
		s.mu.Unlock()
		s.logger.Warn("get bookmark failed", "bookmark_id", id, "error", err)
		s.emit(events.ErrorChanged, nil)
		return
	}
	s.selected = b
	s.mu.Unlock()

	s.emit(events.BookmarkSelected, id)
}

// Create validates and submits a new bookmark, then relists with the current
// filters so the new entry appears where the server sorts it.
func (s *BookmarkStore) Create(ctx context.Context, in domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	in = in.Normalized()
	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.fail(err, MsgCreateBookmark)
			return nil, err
		}
	}

	s.begin()
	b, err := s.api.CreateBookmark(ctx, in)
	s.end()
	if err != nil {
		s.fail(err, MsgCreateBookmark)
		s.logger.Warn("create bookmark failed", "error", err)
		return nil, err
	}

	s.logger.Info("bookmark created", "bookmark_id", b.ID)
	s.List(ctx, nil)
	return b, nil
}

// Update applies a partial update and patches the entry in place.
// The list is not re-sorted; the next List fixes the order.
func (s *BookmarkStore) Update(ctx context.Context, id int64, in domain.UpdateBookmarkInput) (*domain.Bookmark, error) {
	in = in.Normalized()
	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.fail(err, MsgUpdateBookmark)
			return nil, err
		}
	}

	s.begin()
	b, err := s.api.UpdateBookmark(ctx, id, in)
	if err != nil {
		s.end()
		s.fail(err, MsgUpdateBookmark)
		s.logger.Warn("update bookmark failed", "bookmark_id", id, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.pending--
	s.bookmarks, _ = replaceByID(s.bookmarks, id, bookmarkID, *b)
	if s.selected != nil && s.selected.ID == id {
		sel := *b
		s.selected = &sel
	}
	s.mu.Unlock()

	s.emit(events.BookmarksChanged, id)
	return b, nil
}

// Delete removes a bookmark remotely, then locally.
func (s *BookmarkStore) Delete(ctx context.Context, id int64) error {
	s.begin()
	err := s.api.DeleteBookmark(ctx, id)
	if err != nil {
		s.end()
		s.fail(err, MsgDeleteBookmark)
		s.logger.Warn("delete bookmark failed", "bookmark_id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.pending--
	s.bookmarks = removeByID(s.bookmarks, id, bookmarkID)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	s.emit(events.BookmarksChanged, id)
	return nil
}

// ToggleFavorite flips the favorite flag remotely and patches only that flag
// locally, using the value the server returned.
func (s *BookmarkStore) ToggleFavorite(ctx context.Context, id int64) (*domain.Bookmark, error) {
	s.begin()
	b, err := s.api.ToggleFavorite(ctx, id)
	if err != nil {
		s.end()
		s.fail(err, MsgToggleFavorite)
		s.logger.Warn("toggle favorite failed", "bookmark_id", id, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.pending--
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			s.bookmarks = slices.Clone(s.bookmarks)
			s.bookmarks[i].IsFavorite = b.IsFavorite
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		sel := *s.selected
		sel.IsFavorite = b.IsFavorite
		s.selected = &sel
	}
	s.mu.Unlock()

	s.emit(events.BookmarksChanged, id)
	return b, nil
}

// ClearSelected drops the selected bookmark.
func (s *BookmarkStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
	s.emit(events.BookmarkSelected, nil)
}

// ClearError drops the recorded error.
func (s *BookmarkStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}

func (s *BookmarkStore) begin() {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()
	s.emit(events.LoadingChanged, true)
}

func (s *BookmarkStore) end() {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
}

func (s *BookmarkStore) fail(err error, fallback string) {
	s.mu.Lock()
	s.err = errors.UserMessage(err, fallback)
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}
