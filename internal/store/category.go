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

// Custom categories get display orders starting here, so they always sort
// after the six defaults (orders 1-6) without a separate sort key.
const customOrderBase = 100

type CategoryStore struct {
	db   *sql.DB
	feed *feed.Feed
}

func NewCategoryStore(db *sql.DB, f *feed.Feed) *CategoryStore {
	return &CategoryStore{db: db, feed: f}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var isDefault int
	err := scanner.Scan(&c.ID, &c.ListID, &c.Name, &isDefault, &c.DisplayOrder, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.IsDefault = isDefault != 0
	return &c, nil
}

const categoryCols = `id, list_id, name, is_default, display_order, created_at`

// ListByList returns all categories of a list ordered by display order,
// which puts the defaults first. Alphabetizing the custom tail is the
// view layer's job, not the store's.
func (s *CategoryStore) ListByList(listID string) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryCols+` FROM categories WHERE list_id = ? ORDER BY display_order ASC, rowid ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) GetByID(id string) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// NameExists reports whether the list already has a category with the
// given name, compared case-insensitively on the trimmed input. This is
// an advisory check; the UNIQUE(list_id, name COLLATE NOCASE) constraint
// is the real guard against the check/insert race.
func (s *CategoryStore) NameExists(listID, name string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM categories WHERE list_id = ? AND name = ?`,
		listID, strings.TrimSpace(name),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("category name exists: %w", err)
	}
	return count > 0, nil
}

// Create adds a custom category. The display order is one past the
// highest existing custom order, seeded at customOrderBase.
func (s *CategoryStore) Create(listID, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is empty", ErrInvalidInput)
	}

	exists, err := s.NameExists(listID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}

	var order int
	err = s.db.QueryRow(
		`SELECT COALESCE(MAX(display_order), ?) + 1 FROM categories WHERE list_id = ? AND is_default = 0`,
		customOrderBase-1, listID,
	).Scan(&order)
	if err != nil {
		return nil, fmt.Errorf("next display order: %w", err)
	}

	c := &model.Category{
		ID:           uuid.NewString(),
		ListID:       listID,
		Name:         name,
		IsDefault:    false,
		DisplayOrder: order,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.Exec(
		`INSERT INTO categories (id, list_id, name, is_default, display_order, created_at) VALUES (?, ?, ?, 0, ?, ?)`,
		c.ID, c.ListID, c.Name, c.DisplayOrder, c.CreatedAt,
	)
	if err != nil {
		// Lost the check/insert race against a concurrent creator
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}

	s.feed.Publish(feed.Event{
		Table:    feed.TableCategories,
		Action:   feed.ActionInsert,
		ListID:   c.ListID,
		Category: c,
	})
	return c, nil
}

// Delete removes a custom category after reassigning its items to the
// fallback category, both inside one transaction so no observer can see
// an item pointing at a gone category. Default categories are permanent.
// Deleting a category that does not exist is a no-op.
func (s *CategoryStore) Delete(categoryID, listID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+categoryCols+` FROM categories WHERE id = ? AND list_id = ?`,
		categoryID, listID,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if c.IsDefault {
		return fmt.Errorf("%w: %q", ErrDefaultCategory, c.Name)
	}

	if _, err := tx.Exec(
		`UPDATE items SET category = ? WHERE list_id = ? AND category = ?`,
		model.FallbackCategory, listID, c.Name,
	); err != nil {
		return fmt.Errorf("reassign items: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	// Prior values: subscribers use the name to mirror the reassignment.
	s.feed.Publish(feed.Event{
		Table:    feed.TableCategories,
		Action:   feed.ActionDelete,
		ListID:   listID,
		Category: c,
	})
	return nil
}
