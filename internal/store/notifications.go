package store

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/events"
	"github.com/linkshelf/linkshelf/internal/id"
)

// DefaultNotificationTTL is how long a notification stays before expiring.
const DefaultNotificationTTL = 4 * time.Second

// NotificationStore is a queue of transient user-facing messages.
// Each entry expires after the TTL unless dismissed first; expiry removes
// the entry by id, so out-of-order dismissals never remove the wrong one.
type NotificationStore struct {
	base
	ttl time.Duration
	ids *id.Sequence

	mu      sync.Mutex
	entries []domain.Notification
	timers  map[string]*time.Timer
	closed  bool
}

// NewNotificationStore creates a notification store. A non-positive ttl
// uses DefaultNotificationTTL.
func NewNotificationStore(ttl time.Duration, emitter EventEmitter, logger *slog.Logger) *NotificationStore {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationStore{
		base:    newBase("notifications", emitter, logger),
		ttl:     ttl,
		ids:     id.NewSequence(),
		entries: []domain.Notification{},
		timers:  make(map[string]*time.Timer),
	}
}

// Add enqueues a message and schedules its expiry. It returns the entry id,
// or "" once the store is closed.
func (s *NotificationStore) Add(message string, kind domain.NotificationKind) string {
	if kind == "" {
		kind = domain.NotificationInfo
	}
	now := time.Now()
	n := domain.Notification{
		ID:        s.ids.Next(),
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}
	s.entries = append(slices.Clone(s.entries), n)
	s.timers[n.ID] = time.AfterFunc(s.ttl, func() { s.expire(n.ID) })
	s.mu.Unlock()

	s.emit(events.NotificationsChanged, n.ID)
	return n.ID
}

// Success adds a success message.
func (s *NotificationStore) Success(message string) string {
	return s.Add(message, domain.NotificationSuccess)
}

// Error adds an error message.
func (s *NotificationStore) Error(message string) string {
	return s.Add(message, domain.NotificationError)
}

// Warning adds a warning message.
func (s *NotificationStore) Warning(message string) string {
	return s.Add(message, domain.NotificationWarning)
}

// Info adds an informational message.
func (s *NotificationStore) Info(message string) string {
	return s.Add(message, domain.NotificationInfo)
}

// Dismiss removes the entry with id. Unknown ids are ignored.
func (s *NotificationStore) Dismiss(id string) {
	if s.remove(id) {
		s.emit(events.NotificationsChanged, id)
	}
}

// List returns the live entries, oldest first.
func (s *NotificationStore) List() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Close stops every pending expiry and drops the queue.
func (s *NotificationStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.entries = []domain.Notification{}
}

func (s *NotificationStore) expire(id string) {
	if s.remove(id) {
		s.logger.Debug("notification expired", "notification_id", id)
		s.emit(events.NotificationsChanged, id)
	}
}

func (s *NotificationStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	i := slices.IndexFunc(s.entries, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(slices.Clone(s.entries), i, i+1)
	return true
}
