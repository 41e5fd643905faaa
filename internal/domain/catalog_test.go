package domain

import (
	"strings"
	"testing"
)

func TestCatalogItem_SearchableText(t *testing.T) {
	item := CatalogItem{
		ID:          7,
		Name:        "Silk Saree",
		Description: "Handwoven silk saree with gold border",
		Category:    "Sarees",
		Brand:       "Kandyan",
		Color:       "Red",
		Occasion:    "Wedding",
		Gender:      "Women",
		Price:       12500,
	}

	text := item.SearchableText()

	wantFragments := []string{
		"Product: Silk Saree",
		"Category: Sarees",
		"Description: Handwoven silk saree with gold border",
		"Brand: Kandyan",
		"Color: Red",
		"Occasion: Wedding",
		"Gender: Women",
		"Price: Rs. 12500",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(text, frag) {
			t.Errorf("SearchableText missing %q:\n%s", frag, text)
		}
	}
	if strings.Contains(text, "Size:") {
		t.Errorf("SearchableText should skip empty size:\n%s", text)
	}
}

func TestCatalogItem_SearchableTextDefaults(t *testing.T) {
	item := CatalogItem{ID: 1, Name: "Plain Tee"}
	text := item.SearchableText()

	if !strings.Contains(text, "Category: Unknown") {
		t.Errorf("expected Unknown category fallback:\n%s", text)
	}
	if !strings.Contains(text, "Description: No description available") {
		t.Errorf("expected description fallback:\n%s", text)
	}
	if strings.Contains(text, "Price:") {
		t.Errorf("zero price must not be rendered:\n%s", text)
	}
}

func TestCatalogItem_SearchableTextDeterministic(t *testing.T) {
	item := CatalogItem{ID: 3, Name: "Denim Jacket", Color: "Blue", Price: 4990}
	if item.SearchableText() != item.SearchableText() {
		t.Fatal("SearchableText must be deterministic")
	}
}

func TestCatalogItem_EffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 1000, 0, 1000},
		{"discount overrides", 1000, 750, 750},
		{"discount only", 0, 500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := CatalogItem{Price: tt.price, DiscountPrice: tt.discount}
			if got := item.EffectivePrice(); got != tt.want {
				t.Errorf("EffectivePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}
