package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/alessandronardi/lista-spesa-app/internal/websocket"
)

const (
	reconnectBase = 500 * time.Millisecond
	reconnectCap  = 30 * time.Second
)

// SocketClient keeps a Bridge in sync over a websocket feed connection.
// The server sends a snapshot on connect, which both confirms the
// subscription and resyncs any state missed while disconnected.
type SocketClient struct {
	bridge *Bridge
	url    string
	logger *slog.Logger
}

// NewSocketClient creates a client that will dial url (the /ws endpoint
// including the ?code= parameter) on behalf of b.
func NewSocketClient(b *Bridge, url string, logger *slog.Logger) *SocketClient {
	return &SocketClient{bridge: b, url: url, logger: logger}
}

// Run maintains the subscription until ctx is canceled, reconnecting with
// capped backoff whenever the connection drops. Cancellation releases the
// subscription synchronously.
func (c *SocketClient) Run(ctx context.Context) error {
	if err := c.bridge.beginSubscribe(); err != nil {
		return err
	}
	defer func() {
		c.bridge.mu.Lock()
		c.bridge.state = StateUnsubscribed
		c.bridge.mu.Unlock()
	}()

	backoff := retry.WithCappedDuration(reconnectCap, retry.NewFibonacci(reconnectBase))
	for {
		synced, err := c.connectOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.bridge.resubscribing()
		if synced {
			// The connection was live; start the backoff over.
			backoff = retry.WithCappedDuration(reconnectCap, retry.NewFibonacci(reconnectBase))
		}
		delay, _ := backoff.Next()
		c.logger.Warn("feed connection lost, reconnecting", "error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// connectOnce dials, consumes messages until the connection fails, and
// reports whether a snapshot was received.
func (c *SocketClient) connectOnce(ctx context.Context) (bool, error) {
	conn, _, err := ws.Dial(ctx, c.url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	synced := false
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return synced, err
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("malformed feed message", "error", err)
			continue
		}

		switch msg.Type {
		case websocket.MessageSnapshot:
			c.bridge.confirmSubscribed(msg.Items, msg.Categories)
			synced = true
		case websocket.MessageChange:
			if msg.Event != nil {
				c.bridge.Apply(*msg.Event)
			}
		default:
			c.logger.Warn("unknown feed message type", "type", string(msg.Type))
		}
	}
}
