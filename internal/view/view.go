// Package view derives the user-facing grouping and ordering of a list
// from the raw item and category collections. Everything here is pure:
// inputs are never mutated and no I/O happens.
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/alessandronardi/lista-spesa-app/internal/model"
)

// Group is one displayed category together with its items, already in
// display order.
type Group struct {
	Category model.Category `json:"category"`
	Items    []model.Item   `json:"items"`
}

// SortItems orders items for display within a category: unbought before
// bought, and within each partition by creation time. The sort is stable
// and the input slice is left untouched.
func SortItems(items []model.Item) []model.Item {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Bought != b.Bought {
			return !a.Bought
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return sorted
}

// SortCategories orders categories for display: defaults first by their
// display order, then custom categories alphabetized with locale-aware
// collation. The input slice is left untouched.
func SortCategories(categories []model.Category) []model.Category {
	sorted := make([]model.Category, len(categories))
	copy(sorted, categories)

	// Collators keep internal buffers, so build one per call rather than
	// sharing across goroutines.
	c := collate.New(language.Italian, collate.IgnoreCase)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsDefault != b.IsDefault {
			return a.IsDefault
		}
		if a.IsDefault {
			return a.DisplayOrder < b.DisplayOrder
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
	return sorted
}

// GroupItems partitions items by category name and orders the result for
// display. Categories with no items are dropped. Every input item lands
// in exactly one group: an item whose category name matches none of the
// known categories gets a synthesized group so it cannot vanish from the
// view.
func GroupItems(items []model.Item, categories []model.Category) []Group {
	byCategory := make(map[string][]model.Item)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	known := make(map[string]bool, len(categories))
	display := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		known[c.Name] = true
		if len(byCategory[c.Name]) > 0 {
			display = append(display, c)
		}
	}

	// Items referencing a category name that no longer (or never) existed
	// still have to show up somewhere. Walk items, not the map, to keep
	// the synthesized order deterministic.
	seen := make(map[string]bool)
	for _, item := range items {
		if !known[item.Category] && !seen[item.Category] {
			seen[item.Category] = true
			display = append(display, model.Category{Name: item.Category})
		}
	}

	groups := make([]Group, 0, len(display))
	for _, c := range SortCategories(display) {
		groups = append(groups, Group{
			Category: c,
			Items:    SortItems(byCategory[c.Name]),
		})
	}
	return groups
}
