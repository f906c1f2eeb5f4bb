// Package feed is the row-level change notification stream. Stores publish
// a typed event after every committed mutation; anything showing a list
// subscribes to receive the events for that list only.
package feed

import (
	"log/slog"
	"sync"

	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

// Table identifies which relation an event belongs to.
type Table string

const (
	TableItems      Table = "items"
	TableCategories Table = "categories"
)

// Action identifies the row-level mutation kind.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is one row-level change. For inserts and updates the payload holds
// the new row values; for deletes it holds the prior values, so consumers
// can mirror cascades (a deleted category's name is needed to reassign its
// items locally).
type Event struct {
	Table    Table           `json:"table"`
	Action   Action          `json:"action"`
	ListID   string          `json:"list_id"`
	Item     *model.Item     `json:"item,omitempty"`
	Category *model.Category `json:"category,omitempty"`
}

const subscriptionBuffer = 64

// Subscription is one listener's handle on a list's change stream.
// Close releases it; Close is idempotent and safe to call concurrently
// with Publish.
type Subscription struct {
	feed   *Feed
	listID string
	events chan Event

	once sync.Once
}

// Events returns the channel of incoming events. It is closed when the
// subscription is closed; no events are delivered after that.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close releases the subscription.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.unsubscribe(s)
	})
}

// Feed maintains the set of active subscriptions, keyed by list.
type Feed struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger *slog.Logger
}

// New creates an empty Feed.
func New(logger *slog.Logger) *Feed {
	return &Feed{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new subscription for the given list.
func (f *Feed) Subscribe(listID string) *Subscription {
	sub := &Subscription{
		feed:   f,
		listID: listID,
		events: make(chan Event, subscriptionBuffer),
	}

	f.mu.Lock()
	if f.subs[listID] == nil {
		f.subs[listID] = make(map[*Subscription]struct{})
	}
	f.subs[listID][sub] = struct{}{}
	f.mu.Unlock()

	return sub
}

func (f *Feed) unsubscribe(sub *Subscription) {
	f.mu.Lock()
	if set, ok := f.subs[sub.listID]; ok {
		if _, ok := set[sub]; ok {
			delete(set, sub)
			close(sub.events)
		}
		if len(set) == 0 {
			delete(f.subs, sub.listID)
		}
	}
	f.mu.Unlock()
}

// Publish delivers an event to every subscription of its list.
func (f *Feed) Publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.subs[ev.ListID] {
		select {
		case sub.events <- ev:
		default:
			// Drop rather than block publishers on a full buffer
			f.logger.Warn("dropping change event", "list_id", ev.ListID, "table", ev.Table, "action", ev.Action)
		}
	}
}

// SubscriberCount returns the number of active subscriptions for a list.
func (f *Feed) SubscriberCount(listID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[listID])
}
