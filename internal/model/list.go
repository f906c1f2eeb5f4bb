package model

import "time"

// List is a shareable grocery list, identified by its code.
type List struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a grouping bucket for items within one list. The six default
// categories are seeded at list creation and cannot be deleted; custom
// categories are user-created.
type Category struct {
	ID           string    `json:"id"`
	ListID       string    `json:"list_id"`
	Name         string    `json:"name"`
	IsDefault    bool      `json:"is_default"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Item is a single grocery entry. It references its category by name, not
// by id: deleting a category reassigns its items with a bulk rename.
type Item struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Bought    bool      `json:"bought"`
	CreatedAt time.Time `json:"created_at"`
}

// FallbackCategory absorbs items whose category is deleted.
const FallbackCategory = "Altro"

// DefaultCategories are seeded with every new list, in display order.
// FallbackCategory is always last and always present.
var DefaultCategories = []string{
	"Frutta e Verdura",
	"Latticini",
	"Carne e Pesce",
	"Dispensa",
	"Bevande",
	FallbackCategory,
}
