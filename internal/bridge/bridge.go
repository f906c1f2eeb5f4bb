// Package bridge keeps a local mirror of one list in sync with the change
// feed. A Bridge holds the items and categories a viewer currently sees,
// and merges incoming row-level events into them: optimistic updates the
// viewer already applied are deduplicated by identifier, and a deleted
// category's items are reassigned locally the same way the store
// reassigns them, so every viewer converges to the stored state.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alessandronardi/lista-spesa-app/internal/feed"
	"github.com/alessandronardi/lista-spesa-app/internal/model"
	"github.com/alessandronardi/lista-spesa-app/internal/view"
)

// State is the subscription lifecycle state of a Bridge.
type State int

const (
	StateUnsubscribed State = iota
	StateSubscribing
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "unsubscribed"
	case StateSubscribing:
		return "subscribing"
	case StateSubscribed:
		return "subscribed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrAlreadySubscribed is returned when Subscribe is called on a bridge
// that has not been torn down first.
var ErrAlreadySubscribed = errors.New("bridge: already subscribed")

// Source is a live change-event stream for one list. Events must be
// closed when the source is closed; feed.Subscription satisfies this.
type Source interface {
	Events() <-chan feed.Event
	Close()
}

// SnapshotFunc loads the current stored state of the list. It is called
// after the subscription is open, so any mutation racing the load is also
// delivered as an event and deduplicated on merge.
type SnapshotFunc func() (items []model.Item, categories []model.Category, err error)

// Bridge mirrors one list.
type Bridge struct {
	listID string
	logger *slog.Logger

	mu         sync.RWMutex
	state      State
	items      []model.Item
	categories []model.Category
}

// New creates an unsubscribed Bridge for the given list.
func New(listID string, logger *slog.Logger) *Bridge {
	return &Bridge{listID: listID, logger: logger}
}

// ListID returns the list this bridge mirrors.
func (b *Bridge) ListID() string { return b.listID }

// State returns the current subscription state.
func (b *Bridge) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Items returns a copy of the mirrored items.
func (b *Bridge) Items() []model.Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Item, len(b.items))
	copy(out, b.items)
	return out
}

// Categories returns a copy of the mirrored categories.
func (b *Bridge) Categories() []model.Category {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Category, len(b.categories))
	copy(out, b.categories)
	return out
}

// Groups returns the display view of the mirrored state. It works on
// copies: Apply mutates the internal slices in place, so handing them out
// directly would race with a live subscription.
func (b *Bridge) Groups() []view.Group {
	return view.GroupItems(b.Items(), b.Categories())
}

// Subscribe runs the full subscription lifecycle against src, blocking
// until ctx is canceled or the source closes. The subscription is
// released on every exit path.
func (b *Bridge) Subscribe(ctx context.Context, src Source, snapshot SnapshotFunc) error {
	if err := b.beginSubscribe(); err != nil {
		src.Close()
		return err
	}
	defer b.teardown(src)

	items, categories, err := snapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	b.confirmSubscribed(items, categories)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-src.Events():
			if !ok {
				return nil
			}
			b.Apply(ev)
		}
	}
}

func (b *Bridge) beginSubscribe() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateUnsubscribed {
		return ErrAlreadySubscribed
	}
	b.state = StateSubscribing
	return nil
}

// resubscribing marks a live bridge as reconnecting. Its state survives;
// only new events are missed until the snapshot resyncs it.
func (b *Bridge) resubscribing() {
	b.mu.Lock()
	if b.state == StateSubscribed {
		b.state = StateSubscribing
	}
	b.mu.Unlock()
}

// confirmSubscribed loads the stored snapshot and marks both streams live.
func (b *Bridge) confirmSubscribed(items []model.Item, categories []model.Category) {
	b.mu.Lock()
	b.items = make([]model.Item, len(items))
	copy(b.items, items)
	b.categories = make([]model.Category, len(categories))
	copy(b.categories, categories)
	b.state = StateSubscribed
	b.mu.Unlock()
}

// teardown releases the subscription and returns to Unsubscribed. Events
// buffered in the source are not replayed.
func (b *Bridge) teardown(src Source) {
	src.Close()
	b.mu.Lock()
	b.state = StateUnsubscribed
	b.mu.Unlock()
}

// Apply merges one change event into the mirrored state. Events for other
// lists, and any event arriving while not subscribed, are dropped.
//
// The originating client applies its own mutation optimistically through
// the same rules: when the feed echoes it back, insert-if-absent and
// replace-if-present make the redelivery a no-op.
func (b *Bridge) Apply(ev feed.Event) {
	if ev.ListID != b.listID {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateSubscribed {
		return
	}

	switch ev.Table {
	case feed.TableItems:
		if ev.Item == nil {
			b.logger.Warn("item event without payload", "action", ev.Action)
			return
		}
		b.applyItem(ev.Action, ev.Item)
	case feed.TableCategories:
		if ev.Category == nil {
			b.logger.Warn("category event without payload", "action", ev.Action)
			return
		}
		b.applyCategory(ev.Action, ev.Category)
	default:
		b.logger.Warn("event for unknown table", "table", string(ev.Table))
	}
}

func (b *Bridge) applyItem(action feed.Action, item *model.Item) {
	idx := -1
	for i := range b.items {
		if b.items[i].ID == item.ID {
			idx = i
			break
		}
	}

	switch action {
	case feed.ActionInsert:
		if idx < 0 {
			b.items = append(b.items, *item)
		}
	case feed.ActionUpdate:
		// No synthetic insert-on-update: an update for an unknown id is
		// dropped and the row arrives with the next snapshot.
		if idx >= 0 {
			b.items[idx] = *item
		}
	case feed.ActionDelete:
		if idx >= 0 {
			b.items = append(b.items[:idx], b.items[idx+1:]...)
		}
	}
}

func (b *Bridge) applyCategory(action feed.Action, category *model.Category) {
	idx := -1
	for i := range b.categories {
		if b.categories[i].ID == category.ID {
			idx = i
			break
		}
	}

	switch action {
	case feed.ActionInsert:
		if idx < 0 {
			b.categories = append(b.categories, *category)
		}
	case feed.ActionUpdate:
		if idx >= 0 {
			b.categories[idx] = *category
		}
	case feed.ActionDelete:
		if idx >= 0 {
			b.categories = append(b.categories[:idx], b.categories[idx+1:]...)
		}
		// Mirror the store's cascading reassignment so a viewer who did
		// not initiate the delete sees consistent grouping immediately.
		for i := range b.items {
			if b.items[i].Category == category.Name {
				b.items[i].Category = model.FallbackCategory
			}
		}
	}
}
