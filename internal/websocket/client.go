package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"

	"github.com/alessandronardi/lista-spesa-app/internal/feed"
)

const pingInterval = 30 * time.Second

// Client is one connected viewer of a list, holding its feed
// subscription.
type Client struct {
	conn   *ws.Conn
	sub    *feed.Subscription
	logger *slog.Logger
}

// NewClient ties a connection to a feed subscription.
func NewClient(conn *ws.Conn, sub *feed.Subscription, logger *slog.Logger) *Client {
	return &Client{conn: conn, sub: sub, logger: logger}
}

// Run sends the initial snapshot, then pumps change events to the
// connection until it closes or ctx is canceled. The feed subscription is
// released on every exit path.
func (c *Client) Run(ctx context.Context, snapshot Message) {
	defer c.sub.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.write(ctx, snapshot); err != nil {
		return
	}

	go func() {
		c.readPump(ctx)
		cancel()
	}()
	c.writePump(ctx)
}

// readPump reads and discards incoming messages; the stream is one-way.
// It returns on error, which means the peer went away.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
	}
}

// writePump forwards feed events as change messages and sends periodic
// pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.sub.Events():
			if !ok {
				return
			}
			if err := c.write(ctx, Message{Type: MessageChange, Event: &ev}); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "error", err)
		return err
	}
	return c.conn.Write(ctx, ws.MessageText, data)
}
