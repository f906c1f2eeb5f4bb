package websocket

import (
	"errors"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/alessandronardi/lista-spesa-app/internal/feed"
	"github.com/alessandronardi/lista-spesa-app/internal/store"
)

// HandleFeed returns an HTTP handler that upgrades the connection and
// streams the change feed for the list named by the ?code= query
// parameter. The subscription is opened before the snapshot is read, so a
// mutation racing the snapshot is also delivered as an event; clients
// deduplicate by identifier.
func HandleFeed(f *feed.Feed, lists *store.ListStore, categories *store.CategoryStore, items *store.ItemStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := lists.GetByCode(r.URL.Query().Get("code"))
		if err != nil {
			if errors.Is(err, store.ErrInvalidInput) {
				http.Error(w, "malformed code", http.StatusBadRequest)
				return
			}
			logger.Error("resolve list", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if list == nil {
			http.Error(w, "list not found", http.StatusNotFound)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Clients are identified by code possession, not origin
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		sub := f.Subscribe(list.ID)

		snapshot, err := buildSnapshot(list.ID, categories, items)
		if err != nil {
			logger.Error("build snapshot", "list_id", list.ID, "error", err)
			sub.Close()
			conn.Close(ws.StatusInternalError, "snapshot failed")
			return
		}

		client := NewClient(conn, sub, logger)
		client.Run(r.Context(), snapshot)
	}
}

func buildSnapshot(listID string, categories *store.CategoryStore, items *store.ItemStore) (Message, error) {
	cats, err := categories.ListByList(listID)
	if err != nil {
		return Message{}, err
	}
	its, err := items.ListByList(listID)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: MessageSnapshot, Items: its, Categories: cats}, nil
}
