package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestItemJSONRoundTrip(t *testing.T) {
	items := []Item{
		{
			ID:        uuid.NewString(),
			ListID:    uuid.NewString(),
			Name:      "latte parzialmente scremato",
			Category:  "Latticini",
			Bought:    true,
			CreatedAt: time.Date(2025, 3, 1, 12, 30, 45, 123456789, time.UTC),
		},
		{
			ID:        uuid.NewString(),
			ListID:    uuid.NewString(),
			Name:      `pasta "speciale" & più`,
			Category:  "Dispensa",
			Bought:    false,
			CreatedAt: time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got Item
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if diff := cmp.Diff(item, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCategoryJSONRoundTrip(t *testing.T) {
	c := Category{
		ID:           uuid.NewString(),
		ListID:       uuid.NewString(),
		Name:         "Frutta e Verdura",
		IsDefault:    true,
		DisplayOrder: 1,
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Category
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultCategoriesShape(t *testing.T) {
	if len(DefaultCategories) != 6 {
		t.Fatalf("expected 6 default categories, got %d", len(DefaultCategories))
	}
	if DefaultCategories[len(DefaultCategories)-1] != FallbackCategory {
		t.Errorf("last default = %q, want %q", DefaultCategories[len(DefaultCategories)-1], FallbackCategory)
	}
	seen := make(map[string]bool)
	for _, name := range DefaultCategories {
		if seen[name] {
			t.Errorf("duplicate default category %q", name)
		}
		seen[name] = true
	}
}
