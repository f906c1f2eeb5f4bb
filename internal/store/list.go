package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/alessandronardi/lista-spesa-app/internal/code"
	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

// createAttempts bounds the share-code collision retry loop. A collision
// needs two codes out of 36^7 to match, so more than one attempt is
// already overkill, but exhaustion is still handled explicitly.
const createAttempts = 5

type ListStore struct {
	db *sql.DB

	// generate draws a candidate share code; swappable so tests can force
	// collisions.
	generate func() string
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db, generate: code.Generate}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.List, error) {
	var l model.List
	err := scanner.Scan(&l.ID, &l.Code, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const listCols = `id, code, created_at`

// Create inserts a new list with a fresh share code and seeds the six
// default categories, all in one transaction. On a code collision the
// whole transaction is retried with a new code, up to createAttempts.
func (s *ListStore) Create(ctx context.Context) (*model.List, error) {
	var list *model.List

	backoff := retry.WithMaxRetries(createAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		l, err := s.tryCreate()
		if err != nil {
			if isUniqueViolation(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		list = l
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w after %d attempts", ErrCodeExhausted, createAttempts)
		}
		return nil, err
	}
	return list, nil
}

func (s *ListStore) tryCreate() (*model.List, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	list := &model.List{
		ID:        uuid.NewString(),
		Code:      s.generate(),
		CreatedAt: now,
	}

	if _, err := tx.Exec(
		`INSERT INTO lists (id, code, created_at) VALUES (?, ?, ?)`,
		list.ID, list.Code, list.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}

	for i, name := range model.DefaultCategories {
		if _, err := tx.Exec(
			`INSERT INTO categories (id, list_id, name, is_default, display_order, created_at) VALUES (?, ?, ?, 1, ?, ?)`,
			uuid.NewString(), list.ID, name, i+1, now,
		); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return list, nil
}

// GetByCode looks a list up by its share code. Malformed codes are
// rejected without touching the database; an unknown code returns
// (nil, nil).
func (s *ListStore) GetByCode(rawCode string) (*model.List, error) {
	normalized := code.Normalize(rawCode)
	if !code.IsValid(normalized) {
		return nil, fmt.Errorf("%w: malformed code %q", ErrInvalidInput, rawCode)
	}

	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE code = ?`, normalized)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list by code: %w", err)
	}
	return l, nil
}

// GetByID returns (nil, nil) when no list has the given id.
func (s *ListStore) GetByID(id string) (*model.List, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// Delete removes a list; categories and items go with it via cascade.
// Deleting a nonexistent list is a no-op.
func (s *ListStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}
