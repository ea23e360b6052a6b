package events

import (
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/linkshelf/linkshelf/internal/id"
)

const defaultBuffer = 64

// Subscription receives events until it is cancelled or the broker closes.
type Subscription struct {
	ID        string
	Events    <-chan Event
	Done      <-chan struct{}
	CreatedAt time.Time

	events chan Event
	done   chan struct{}
	filter map[Type]bool
}

func (s *Subscription) wants(t Type) bool {
	return len(s.filter) == 0 || s.filter[t]
}

// Broker fans events out to subscribers. Emit never blocks: a subscriber
// whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool
	logger *slog.Logger
}

// NewBroker creates a broker.
func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broker{
		subs:   make(map[string]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a subscriber. With no types it receives everything.
func (b *Broker) Subscribe(buffer int, types ...Type) (*Subscription, error) {
	subID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	sub := &Subscription{
		ID:        subID,
		CreatedAt: time.Now(),
		events:    make(chan Event, buffer),
		done:      make(chan struct{}),
		filter:    make(map[Type]bool, len(types)),
	}
	sub.Events = sub.events
	sub.Done = sub.done
	for _, t := range types {
		sub.filter[t] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.done)
		close(sub.events)
		return sub, nil
	}
	b.subs[subID] = sub

	b.logger.Debug("subscriber added",
		slog.String("subscription_id", subID),
		slog.Int("total_subscribers", len(b.subs)))
	return sub, nil
}

// Unsubscribe removes a subscriber and closes its channels.
func (b *Broker) Unsubscribe(subID string) {
	b.mu.Lock()
	sub, ok := b.subs[subID]
	if ok {
		delete(b.subs, subID)
	}
	b.mu.Unlock()

	if !ok {
		return
	}
	close(sub.done)
	close(sub.events)
}

// Emit delivers event to every interested subscriber.
// Values that are not an Event are logged and dropped.
func (b *Broker) Emit(event any) {
	evt, ok := event.(Event)
	if !ok {
		b.logger.Error("invalid event type emitted")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	var delivered, dropped int
	for _, sub := range b.subs {
		if !sub.wants(evt.Type) {
			continue
		}
		select {
		case sub.events <- evt:
			delivered++
		default:
			dropped++
			b.logger.Warn("dropped event for slow subscriber",
				slog.String("subscription_id", sub.ID),
				slog.String("event_type", string(evt.Type)))
		}
	}

	b.logger.Debug("event emitted",
		slog.String("event_type", string(evt.Type)),
		slog.String("store", evt.Store),
		slog.Group("stats",
			slog.Int("delivered", delivered),
			slog.Int("dropped", dropped)))
}

// Subscriptions returns an iterator over the current subscribers.
func (b *Broker) Subscriptions() iter.Seq[*Subscription] {
	return func(yield func(*Subscription) bool) {
		b.mu.RLock()
		defer b.mu.RUnlock()

		for _, sub := range b.subs {
			if !yield(sub) {
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close disconnects every subscriber. Later emits are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.done)
		close(sub.events)
	}
	b.subs = make(map[string]*Subscription)
}
