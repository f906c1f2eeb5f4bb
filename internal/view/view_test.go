package view

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func item(id, name, category string, bought bool, minute int) model.Item {
	return model.Item{
		ID:        id,
		ListID:    "l1",
		Name:      name,
		Category:  category,
		Bought:    bought,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

func category(id, name string, isDefault bool, order int) model.Category {
	return model.Category{
		ID:           id,
		ListID:       "l1",
		Name:         name,
		IsDefault:    isDefault,
		DisplayOrder: order,
		CreatedAt:    base,
	}
}

func TestSortItemsUnboughtFirst(t *testing.T) {
	items := []model.Item{
		item("1", "pane", "Altro", true, 0),
		item("2", "latte", "Altro", false, 3),
		item("3", "uova", "Altro", true, 1),
		item("4", "mele", "Altro", false, 2),
	}

	got := SortItems(items)

	want := []model.Item{
		item("4", "mele", "Altro", false, 2),
		item("2", "latte", "Altro", false, 3),
		item("1", "pane", "Altro", true, 0),
		item("3", "uova", "Altro", true, 1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sorted items mismatch (-want +got):\n%s", diff)
	}
}

func TestSortItemsDoesNotMutateInput(t *testing.T) {
	items := []model.Item{
		item("1", "pane", "Altro", true, 0),
		item("2", "latte", "Altro", false, 1),
	}
	original := make([]model.Item, len(items))
	copy(original, items)

	SortItems(items)

	if diff := cmp.Diff(original, items); diff != "" {
		t.Errorf("input was mutated (-orig +after):\n%s", diff)
	}
}

func TestSortItemsStableOnEqualTimestamps(t *testing.T) {
	items := []model.Item{
		item("1", "pane", "Altro", false, 0),
		item("2", "latte", "Altro", false, 0),
		item("3", "uova", "Altro", false, 0),
	}

	got := SortItems(items)

	for i, id := range []string{"1", "2", "3"} {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %s, want %s (stable order)", i, got[i].ID, id)
		}
	}
}

func TestSortCategories(t *testing.T) {
	categories := []model.Category{
		category("c1", "Zucchero e dolci", false, 101),
		category("c2", "Altro", true, 6),
		category("c3", "Bibite", false, 102),
		category("c4", "Frutta e Verdura", true, 1),
		category("c5", "aperitivi", false, 100),
	}

	got := SortCategories(categories)

	wantNames := []string{"Frutta e Verdura", "Altro", "aperitivi", "Bibite", "Zucchero e dolci"}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d categories, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestGroupItems(t *testing.T) {
	categories := []model.Category{
		category("c1", "Frutta e Verdura", true, 1),
		category("c2", "Latticini", true, 2),
		category("c3", "Altro", true, 6),
		category("c4", "Snack", false, 100),
	}
	items := []model.Item{
		item("1", "patatine", "Snack", false, 0),
		item("2", "latte", "Latticini", true, 1),
		item("3", "mele", "Frutta e Verdura", false, 2),
		item("4", "yogurt", "Latticini", false, 3),
	}

	got := GroupItems(items, categories)

	// "Altro" has no items and must not appear
	wantNames := []string{"Frutta e Verdura", "Latticini", "Snack"}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d groups, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Category.Name != name {
			t.Errorf("group[%d] = %q, want %q", i, got[i].Category.Name, name)
		}
	}

	// Latticini: unbought yogurt before bought latte
	latticini := got[1].Items
	if len(latticini) != 2 || latticini[0].Name != "yogurt" || latticini[1].Name != "latte" {
		t.Errorf("Latticini items = %+v, want [yogurt latte]", latticini)
	}
}

func TestGroupItemsPreservesEveryItem(t *testing.T) {
	categories := []model.Category{
		category("c1", "Latticini", true, 2),
		category("c2", "Altro", true, 6),
	}
	items := []model.Item{
		item("1", "latte", "Latticini", false, 0),
		item("2", "vite", "Ferramenta", false, 1), // no matching category
		item("3", "pane", "Altro", true, 2),
		item("4", "bulloni", "Ferramenta", true, 3),
	}

	got := GroupItems(items, categories)

	seen := make(map[string]int)
	total := 0
	for _, g := range got {
		for _, it := range g.Items {
			seen[it.ID]++
			total++
		}
	}
	if total != len(items) {
		t.Fatalf("grouped %d items, want %d", total, len(items))
	}
	for _, it := range items {
		if seen[it.ID] != 1 {
			t.Errorf("item %s appears %d times, want exactly once", it.ID, seen[it.ID])
		}
	}

	// The unknown category is synthesized, not dropped
	found := false
	for _, g := range got {
		if g.Category.Name == "Ferramenta" {
			found = true
			if g.Category.IsDefault {
				t.Error("synthesized category must not be default")
			}
		}
	}
	if !found {
		t.Error("expected a synthesized Ferramenta group")
	}
}

func TestGroupItemsEmpty(t *testing.T) {
	if got := GroupItems(nil, nil); len(got) != 0 {
		t.Errorf("expected no groups, got %d", len(got))
	}

	categories := []model.Category{category("c1", "Altro", true, 6)}
	if got := GroupItems(nil, categories); len(got) != 0 {
		t.Errorf("categories without items should yield no groups, got %d", len(got))
	}
}
