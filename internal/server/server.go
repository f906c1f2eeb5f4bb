package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alessandronardi/lista-spesa-app/internal/feed"
	"github.com/alessandronardi/lista-spesa-app/internal/handler"
	"github.com/alessandronardi/lista-spesa-app/internal/middleware"
	"github.com/alessandronardi/lista-spesa-app/internal/store"
	ws "github.com/alessandronardi/lista-spesa-app/internal/websocket"
)

type Server struct {
	db            *sql.DB
	feed          *feed.Feed
	listStore     *store.ListStore
	categoryStore *store.CategoryStore
	itemStore     *store.ItemStore
	listH         *handler.ListHandler
	categoryH     *handler.CategoryHandler
	itemH         *handler.ItemHandler
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	changeFeed := feed.New(logger.With("component", "feed"))

	listStore := store.NewListStore(db)
	categoryStore := store.NewCategoryStore(db, changeFeed)
	itemStore := store.NewItemStore(db, changeFeed)

	listH := handler.NewListHandler(listStore, categoryStore, itemStore, logger.With("component", "list"))

	return &Server{
		db:            db,
		feed:          changeFeed,
		listStore:     listStore,
		categoryStore: categoryStore,
		itemStore:     itemStore,
		listH:         listH,
		categoryH:     handler.NewCategoryHandler(listH, categoryStore, logger.With("component", "category")),
		itemH:         handler.NewItemHandler(listH, itemStore, logger.With("component", "item")),
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// Feed returns the change feed, for in-process subscribers.
func (s *Server) Feed() *feed.Feed {
	return s.feed
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// List creation is the only endpoint anyone can hit without knowing a
	// code, so it is the one that gets rate limited.
	mux.HandleFunc("POST /api/lists", s.rateLimitedHandler(s.listH.Create))
	mux.HandleFunc("GET /api/lists/{code}", s.listH.Get)
	mux.HandleFunc("DELETE /api/lists/{code}", s.listH.Delete)
	mux.HandleFunc("GET /api/lists/{code}/view", s.listH.View)

	mux.HandleFunc("GET /api/lists/{code}/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/lists/{code}/categories", s.categoryH.Create)
	mux.HandleFunc("DELETE /api/lists/{code}/categories/{id}", s.categoryH.Delete)

	mux.HandleFunc("GET /api/lists/{code}/items", s.itemH.List)
	mux.HandleFunc("POST /api/lists/{code}/items", s.itemH.Create)
	mux.HandleFunc("PUT /api/items/{id}/bought", s.itemH.SetBought)
	mux.HandleFunc("PUT /api/items/{id}/category", s.itemH.SetCategory)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// Change feed
	mux.HandleFunc("GET /ws", ws.HandleFeed(s.feed, s.listStore, s.categoryStore, s.itemStore, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
