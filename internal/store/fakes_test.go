package store

import (
	"context"
	"sync"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
)

// fakeBookmarkAPI answers from func fields; unset methods fail.
type fakeBookmarkAPI struct {
	mu    sync.Mutex
	calls []domain.Filters

	list   func(ctx context.Context, f domain.Filters) (*domain.Page[domain.Bookmark], error)
	get    func(id int64) (*domain.Bookmark, error)
	create func(in domain.CreateBookmarkInput) (*domain.Bookmark, error)
	update func(id int64, in domain.UpdateBookmarkInput) (*domain.Bookmark, error)
	del    func(id int64) error
	toggle func(id int64) (*domain.Bookmark, error)
}

var errNotStubbed = &errors.Error{Code: errors.CodeInternal, Message: "not stubbed"}

func (f *fakeBookmarkAPI) listCalls() []domain.Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Filters(nil), f.calls...)
}

func (f *fakeBookmarkAPI) ListBookmarks(ctx context.Context, fl domain.Filters) (*domain.Page[domain.Bookmark], error) {
	f.mu.Lock()
	f.calls = append(f.calls, fl.Clone())
	f.mu.Unlock()
	if f.list == nil {
		return nil, errNotStubbed
	}
	return f.list(ctx, fl)
}

func (f *fakeBookmarkAPI) GetBookmark(_ context.Context, id int64) (*domain.Bookmark, error) {
	if f.get == nil {
		return nil, errNotStubbed
	}
	return f.get(id)
}

func (f *fakeBookmarkAPI) CreateBookmark(_ context.Context, in domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	if f.create == nil {
		return nil, errNotStubbed
	}
	return f.create(in)
}

func (f *fakeBookmarkAPI) UpdateBookmark(_ context.Context, id int64, in domain.UpdateBookmarkInput) (*domain.Bookmark, error) {
	if f.update == nil {
		return nil, errNotStubbed
	}
	return f.update(id, in)
}

func (f *fakeBookmarkAPI) DeleteBookmark(_ context.Context, id int64) error {
	if f.del == nil {
		return errNotStubbed
	}
	return f.del(id)
}

func (f *fakeBookmarkAPI) ToggleFavorite(_ context.Context, id int64) (*domain.Bookmark, error) {
	if f.toggle == nil {
		return nil, errNotStubbed
	}
	return f.toggle(id)
}

type fakeTagAPI struct {
	tags    []domain.Tag
	nextID  int64
	failAll error
}

func (f *fakeTagAPI) ListTags(context.Context) ([]domain.Tag, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	return append([]domain.Tag(nil), f.tags...), nil
}

// CreateTag resolves an existing name to the existing tag.
func (f *fakeTagAPI) CreateTag(_ context.Context, in domain.TagInput) (*domain.Tag, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	for _, t := range f.tags {
		if t.Name == in.Name {
			return &t, nil
		}
	}
	f.nextID++
	t := domain.Tag{ID: f.nextID, Name: in.Name}
	f.tags = append(f.tags, t)
	return &t, nil
}

func (f *fakeTagAPI) DeleteTag(_ context.Context, id int64) error {
	if f.failAll != nil {
		return f.failAll
	}
	for i, t := range f.tags {
		if t.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return &errors.Error{Code: errors.CodeNotFound, Message: "Tag not found"}
}

type fakeCategoryAPI struct {
	categories []domain.Category
	nextID     int64
	failAll    error
}

func (f *fakeCategoryAPI) ListCategories(context.Context) ([]domain.Category, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	return append([]domain.Category(nil), f.categories...), nil
}

func (f *fakeCategoryAPI) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	f.nextID++
	c := domain.Category{ID: f.nextID, Name: in.Name, Color: in.Color, Icon: in.Icon}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeCategoryAPI) UpdateCategory(_ context.Context, id int64, in domain.UpdateCategoryInput) (*domain.Category, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			if in.Name != nil {
				f.categories[i].Name = *in.Name
			}
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, &errors.Error{Code: errors.CodeNotFound, Message: "Category not found"}
}

func (f *fakeCategoryAPI) DeleteCategory(_ context.Context, id int64) error {
	if f.failAll != nil {
		return f.failAll
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return &errors.Error{Code: errors.CodeNotFound, Message: "Category not found"}
}

// memorySlot is a TokenSlot kept in memory.
type memorySlot struct {
	mu    sync.Mutex
	token string
}

func (m *memorySlot) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memorySlot) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memorySlot) Delete() error {
	return m.Set("")
}

// recorder is an EventEmitter that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *recorder) Emit(e any) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
