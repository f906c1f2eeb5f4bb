package websocket

import (
	"github.com/alessandronardi/lista-spesa-app/internal/feed"
	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

// MessageType discriminates wire messages.
type MessageType string

const (
	// MessageSnapshot carries the full stored state of the list. It is
	// sent once per connection, before any change messages, and doubles
	// as the confirmation that the subscription is live.
	MessageSnapshot MessageType = "snapshot"

	// MessageChange carries one row-level change event.
	MessageChange MessageType = "change"
)

// Message is the wire format sent to feed subscribers.
type Message struct {
	Type       MessageType      `json:"type"`
	Items      []model.Item     `json:"items,omitempty"`
	Categories []model.Category `json:"categories,omitempty"`
	Event      *feed.Event      `json:"event,omitempty"`
}
