package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alessandronardi/lista-spesa-app/internal/feed"
	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

type ItemStore struct {
	db   *sql.DB
	feed *feed.Feed
}

func NewItemStore(db *sql.DB, f *feed.Feed) *ItemStore {
	return &ItemStore{db: db, feed: f}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var bought int
	err := scanner.Scan(&item.ID, &item.ListID, &item.Name, &item.Category, &bought, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Bought = bought != 0
	return &item, nil
}

const itemCols = `id, list_id, name, category, bought, created_at`

// ListByList returns all items of a list in insertion order.
func (s *ItemStore) ListByList(listID string) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM items WHERE list_id = ? ORDER BY created_at ASC, rowid ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) GetByID(id string) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Add creates an unbought item. The category is any non-empty string; it
// is not checked against the categories table, since items reference
// categories by name and may legitimately point at one mid-reassignment.
func (s *ItemStore) Add(listID, name, category string) (*model.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is empty", ErrInvalidInput)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: item category is empty", ErrInvalidInput)
	}

	item := &model.Item{
		ID:        uuid.NewString(),
		ListID:    listID,
		Name:      name,
		Category:  category,
		Bought:    false,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO items (id, list_id, name, category, bought, created_at) VALUES (?, ?, ?, ?, 0, ?)`,
		item.ID, item.ListID, item.Name, item.Category, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	s.feed.Publish(feed.Event{
		Table:  feed.TableItems,
		Action: feed.ActionInsert,
		ListID: item.ListID,
		Item:   item,
	})
	return item, nil
}

// SetBought sets the bought flag to an absolute value. It is idempotent;
// there is no read-modify-write race because the value is not relative to
// the current one. Returns (nil, nil) when the item does not exist.
func (s *ItemStore) SetBought(id string, bought bool) (*model.Item, error) {
	b := 0
	if bought {
		b = 1
	}
	res, err := s.db.Exec(`UPDATE items SET bought = ? WHERE id = ?`, b, id)
	if err != nil {
		return nil, fmt.Errorf("set bought: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}

	item, err := s.GetByID(id)
	if err != nil || item == nil {
		return item, err
	}

	s.feed.Publish(feed.Event{
		Table:  feed.TableItems,
		Action: feed.ActionUpdate,
		ListID: item.ListID,
		Item:   item,
	})
	return item, nil
}

// UpdateCategory moves an item to another category by name.
// Returns (nil, nil) when the item does not exist.
func (s *ItemStore) UpdateCategory(id, category string) (*model.Item, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: item category is empty", ErrInvalidInput)
	}

	res, err := s.db.Exec(`UPDATE items SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return nil, fmt.Errorf("update item category: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}

	item, err := s.GetByID(id)
	if err != nil || item == nil {
		return item, err
	}

	s.feed.Publish(feed.Event{
		Table:  feed.TableItems,
		Action: feed.ActionUpdate,
		ListID: item.ListID,
		Item:   item,
	})
	return item, nil
}

// Delete removes an item. Deleting an id that does not exist is a no-op
// success; nothing is published for it.
func (s *ItemStore) Delete(id string) error {
	item, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.feed.Publish(feed.Event{
		Table:  feed.TableItems,
		Action: feed.ActionDelete,
		ListID: item.ListID,
		Item:   item,
	})
	return nil
}
