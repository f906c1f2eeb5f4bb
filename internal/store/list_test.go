package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alessandronardi/lista-spesa-app/internal/code"
	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

func TestCreateList(t *testing.T) {
	ls, cs, _, _ := setupTestStores(t)

	list, err := ls.Create(context.Background())
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if list.ID == "" {
		t.Error("expected non-empty id")
	}
	if !code.IsValid(list.Code) {
		t.Errorf("code %q is not valid", list.Code)
	}
	if list.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}

	categories, err := cs.ListByList(list.ID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != len(model.DefaultCategories) {
		t.Fatalf("expected %d default categories, got %d", len(model.DefaultCategories), len(categories))
	}
	for i, c := range categories {
		if c.Name != model.DefaultCategories[i] {
			t.Errorf("category[%d].Name = %q, want %q", i, c.Name, model.DefaultCategories[i])
		}
		if !c.IsDefault {
			t.Errorf("category %q should be default", c.Name)
		}
		if c.DisplayOrder != i+1 {
			t.Errorf("category %q display_order = %d, want %d", c.Name, c.DisplayOrder, i+1)
		}
	}
	if categories[len(categories)-1].Name != model.FallbackCategory {
		t.Errorf("last default = %q, want %q", categories[len(categories)-1].Name, model.FallbackCategory)
	}
}

func TestCreateListsGetDistinctCodes(t *testing.T) {
	ls, _, _, _ := setupTestStores(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		list, err := ls.Create(context.Background())
		if err != nil {
			t.Fatalf("create list %d: %v", i, err)
		}
		if seen[list.Code] {
			t.Fatalf("duplicate code %q", list.Code)
		}
		seen[list.Code] = true
	}
}

func TestCreateListCodeExhausted(t *testing.T) {
	ls, cs, _, _ := setupTestStores(t)

	taken, err := ls.Create(context.Background())
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	// Every draw collides with the existing list
	ls.generate = func() string { return taken.Code }

	_, err = ls.Create(context.Background())
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("error = %v, want ErrCodeExhausted", err)
	}

	// The failed attempts must not leave partial rows behind
	got, err := ls.GetByCode(taken.Code)
	if err != nil || got == nil || got.ID != taken.ID {
		t.Fatalf("existing list damaged: got %+v, err %v", got, err)
	}
	categories, err := cs.ListByList(taken.ID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != len(model.DefaultCategories) {
		t.Errorf("category count = %d, want %d", len(categories), len(model.DefaultCategories))
	}
}

func TestGetByCode(t *testing.T) {
	ls, _, _, _ := setupTestStores(t)

	list, err := ls.Create(context.Background())
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	got, err := ls.GetByCode(list.Code)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got == nil || got.ID != list.ID {
		t.Fatalf("got %+v, want list %s", got, list.ID)
	}
}

func TestGetByCodeNormalizesCase(t *testing.T) {
	ls, _, _, _ := setupTestStores(t)

	list, err := ls.Create(context.Background())
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	got, err := ls.GetByCode("  " + string([]byte(list.Code)) + " ")
	if err != nil {
		t.Fatalf("get by padded code: %v", err)
	}
	if got == nil {
		t.Fatal("padded code should resolve")
	}

	lower := make([]byte, len(list.Code))
	for i := 0; i < len(list.Code); i++ {
		c := list.Code[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	got, err = ls.GetByCode(string(lower))
	if err != nil {
		t.Fatalf("get by lowercase code: %v", err)
	}
	if got == nil || got.ID != list.ID {
		t.Fatal("lowercase code should resolve to the same list")
	}
}

func TestGetByCodeMalformed(t *testing.T) {
	ls, _, _, _ := setupTestStores(t)

	for _, c := range []string{"", "nonsense", "LISTA-", "LISTA-TOOLONGG42"} {
		_, err := ls.GetByCode(c)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("GetByCode(%q) error = %v, want ErrInvalidInput", c, err)
		}
	}
}

func TestGetByCodeNotFound(t *testing.T) {
	ls, _, _, _ := setupTestStores(t)

	got, err := ls.GetByCode("LISTA-ZZZZZZ9")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown code, got %+v", got)
	}
}

func TestDeleteListCascades(t *testing.T) {
	ls, cs, is, _ := setupTestStores(t)

	list, err := ls.Create(context.Background())
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := is.Add(list.ID, "latte", model.DefaultCategories[1]); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if err := ls.Delete(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	got, err := ls.GetByID(list.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got != nil {
		t.Error("list should be gone")
	}

	categories, _ := cs.ListByList(list.ID)
	if len(categories) != 0 {
		t.Errorf("expected 0 categories after cascade, got %d", len(categories))
	}
	items, _ := is.ListByList(list.ID)
	if len(items) != 0 {
		t.Errorf("expected 0 items after cascade, got %d", len(items))
	}
}

func TestDeleteListNonexistent(t *testing.T) {
	ls, _, _, _ := setupTestStores(t)

	if err := ls.Delete("no-such-id"); err != nil {
		t.Fatalf("deleting a nonexistent list should be a no-op, got %v", err)
	}
}
