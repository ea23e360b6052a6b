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

// CategoryState is a consistent copy of the category store.
type CategoryState struct {
	Categories []domain.Category
	Loading    bool
	Error      string
}

// CategoryStore holds the user's full category list.
type CategoryStore struct {
	base
	api      CategoryAPI
	validate Validator

	mu         sync.Mutex
	categories []domain.Category
	pending    int
	err        string
}

// NewCategoryStore creates an empty category store.
func NewCategoryStore(api CategoryAPI, validate Validator, emitter EventEmitter, logger *slog.Logger) *CategoryStore {
	return &CategoryStore{
		base:       newBase("categories", emitter, logger),
		api:        api,
		validate:   validate,
		categories: []domain.Category{},
	}
}

// Snapshot returns a copy of the current state.
func (s *CategoryStore) Snapshot() CategoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CategoryState{
		Categories: slices.Clone(s.categories),
		Loading:    s.pending > 0,
		Error:      s.err,
	}
}

// Categories returns a copy of the category list.
func (s *CategoryStore) Categories() []domain.Category {
	return s.Snapshot().Categories
}

// Fetch replaces the list with the server's. Failures are recorded only.
func (s *CategoryStore) Fetch(ctx context.Context) {
	s.begin()
	list, err := s.api.ListCategories(ctx)
	if err != nil {
		s.fail(err, MsgListCategories)
		s.logger.Warn("list categories failed", "error", err)
		return
	}
	if list == nil {
		list = []domain.Category{}
	}

	s.mu.Lock()
	s.pending--
	s.categories = list
	s.mu.Unlock()
	s.emit(events.CategoriesChanged, nil)
}

// Create submits a category and appends it, returning the created record.
func (s *CategoryStore) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.record(err, MsgCreateCategory)
			return nil, err
		}
	}

	s.begin()
	c, err := s.api.CreateCategory(ctx, in)
	if err != nil {
		s.fail(err, MsgCreateCategory)
		s.logger.Warn("create category failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.pending--
	if !containsID(s.categories, c.ID, categoryID) {
		s.categories = append(slices.Clone(s.categories), *c)
	}
	s.mu.Unlock()
	s.emit(events.CategoriesChanged, c.ID)
	return c, nil
}

// Update applies a partial change and replaces the entry in place.
func (s *CategoryStore) Update(ctx context.Context, id int64, in domain.UpdateCategoryInput) (*domain.Category, error) {
	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.record(err, MsgUpdateCategory)
			return nil, err
		}
	}

	s.begin()
	c, err := s.api.UpdateCategory(ctx, id, in)
	if err != nil {
		s.fail(err, MsgUpdateCategory)
		s.logger.Warn("update category failed", "category_id", id, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.pending--
	s.categories, _ = replaceByID(s.categories, id, categoryID, *c)
	s.mu.Unlock()
	s.emit(events.CategoriesChanged, id)
	return c, nil
}

// Delete removes a category remotely, then locally.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	s.begin()
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		s.fail(err, MsgDeleteCategory)
		s.logger.Warn("delete category failed", "category_id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.pending--
	s.categories = removeByID(s.categories, id, categoryID)
	s.mu.Unlock()
	s.emit(events.CategoriesChanged, id)
	return nil
}

// ClearError drops the recorded error.
func (s *CategoryStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}

func (s *CategoryStore) begin() {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()
	s.emit(events.LoadingChanged, true)
}

// fail ends a request started with begin and records err.
func (s *CategoryStore) fail(err error, fallback string) {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	s.record(err, fallback)
}

func (s *CategoryStore) record(err error, fallback string) {
	s.mu.Lock()
	s.err = errors.UserMessage(err, fallback)
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}
