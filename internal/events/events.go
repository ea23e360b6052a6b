// Package events broadcasts store state changes to whatever renders them.
package events

import "time"

// Type identifies what changed.
type Type string

const (
	// BookmarksChanged is emitted when the bookmark list, pagination, or filters change.
	BookmarksChanged Type = "bookmarks.changed"
	// BookmarkSelected is emitted when the selected bookmark changes.
	BookmarkSelected Type = "bookmarks.selected"
	// CategoriesChanged is emitted when the category list changes.
	CategoriesChanged Type = "categories.changed"
	// TagsChanged is emitted when the tag list changes.
	TagsChanged Type = "tags.changed"
	// AuthChanged is emitted on login, logout, and profile updates.
	AuthChanged Type = "auth.changed"
	// NotificationsChanged is emitted when a notification is added, dismissed, or expires.
	NotificationsChanged Type = "notifications.changed"
	// ErrorChanged is emitted when a store records or clears an error.
	ErrorChanged Type = "error.changed"
	// LoadingChanged is emitted when a store starts or finishes a request.
	LoadingChanged Type = "loading.changed"
)

// Event is a change notification. Data carries an optional payload,
// such as the affected entity id.
type Event struct {
	Type      Type      `json:"type"`
	Store     string    `json:"store"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(t Type, store string, data any) Event {
	return Event{Type: t, Store: store, Data: data, Timestamp: time.Now()}
}
