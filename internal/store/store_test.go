package store

import (
	"log/slog"
	"testing"

	"github.com/alessandronardi/lista-spesa-app/internal/database"
	"github.com/alessandronardi/lista-spesa-app/internal/feed"
)

func setupTestStores(t *testing.T) (*ListStore, *CategoryStore, *ItemStore, *feed.Feed) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := feed.New(slog.Default())
	return NewListStore(db), NewCategoryStore(db, f), NewItemStore(db, f), f
}
