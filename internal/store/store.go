// Package store holds the client-side state for bookmarks, categories, tags,
// the session and notifications. Each store owns one slice of state, talks to
// the remote API through an injected client, and emits a change event after
// every state transition.
package store

import (
	"context"
	"log/slog"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/events"
)

// EventEmitter is the interface for broadcasting store changes.
// Stores use this to notify views without depending on how they render.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// BookmarkAPI is the part of the remote client the bookmark stores use.
type BookmarkAPI interface {
	ListBookmarks(ctx context.Context, f domain.Filters) (*domain.Page[domain.Bookmark], error)
	GetBookmark(ctx context.Context, id int64) (*domain.Bookmark, error)
	CreateBookmark(ctx context.Context, in domain.CreateBookmarkInput) (*domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, id int64, in domain.UpdateBookmarkInput) (*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) (*domain.Bookmark, error)
}

// CategoryAPI is the part of the remote client the category store uses.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.UpdateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// TagAPI is the part of the remote client the tag store uses.
type TagAPI interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, in domain.TagInput) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// AuthAPI is the part of the remote client the auth store uses.
type AuthAPI interface {
	SignIn(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	SignUp(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateMe(ctx context.Context, in domain.UpdateUserInput) (*domain.User, error)
}

// TokenSlot is the durable cell holding the access token.
type TokenSlot interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// Validator checks input structs before they are submitted.
type Validator interface {
	Validate(s any) error
}

// Fallback messages shown when the server gives no usable message.
const (
	MsgListBookmarks  = "Không thể tải bookmarks"
	MsgGetBookmark    = "Không thể tải bookmark"
	MsgCreateBookmark = "Không thể tạo bookmark"
	MsgUpdateBookmark = "Không thể cập nhật bookmark"
	MsgDeleteBookmark = "Không thể xóa bookmark"
	MsgToggleFavorite = "Không thể cập nhật bookmark"

	MsgListCategories = "Không thể tải categories"
	MsgCreateCategory = "Không thể tạo category"
	MsgUpdateCategory = "Không thể cập nhật category"
	MsgDeleteCategory = "Không thể xóa category"

	MsgListTags  = "Không thể tải tags"
	MsgCreateTag = "Không thể tạo tag"
	MsgDeleteTag = "Không thể xóa tag"

	MsgLogin      = "Đăng nhập thất bại"
	MsgSignup     = "Đăng ký thất bại"
	MsgUpdateUser = "Cập nhật thất bại"
)

// base carries what every store needs to report changes.
type base struct {
	name    string
	emitter EventEmitter
	logger  *slog.Logger
}

func newBase(name string, emitter EventEmitter, logger *slog.Logger) base {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return base{name: name, emitter: emitter, logger: logger.With("store", name)}
}

func (b *base) emit(t events.Type, data any) {
	b.emitter.Emit(events.New(t, b.name, data))
}

// replaceByID returns a copy of list with the entry matching id swapped for v.
func replaceByID[T any](list []T, id int64, idOf func(*T) int64, v T) ([]T, bool) {
	out := make([]T, len(list))
	copy(out, list)
	for i := range out {
		if idOf(&out[i]) == id {
			out[i] = v
			return out, true
		}
	}
	return out, false
}

// removeByID returns a copy of list without the entry matching id.
func removeByID[T any](list []T, id int64, idOf func(*T) int64) []T {
	out := make([]T, 0, len(list))
	for i := range list {
		if idOf(&list[i]) != id {
			out = append(out, list[i])
		}
	}
	return out
}

func containsID[T any](list []T, id int64, idOf func(*T) int64) bool {
	for i := range list {
		if idOf(&list[i]) == id {
			return true
		}
	}
	return false
}

func bookmarkID(b *domain.Bookmark) int64 { return b.ID }
func categoryID(c *domain.Category) int64 { return c.ID }
func tagID(t *domain.Tag) int64           { return t.ID }
