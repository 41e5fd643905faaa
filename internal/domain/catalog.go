package domain

import (
	"fmt"
	"strings"
)

// CatalogItem is one product as seen by the search pipeline. Items are
// immutable for the lifetime of an index snapshot; a rebuild replaces the
// whole set.
type CatalogItem struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Brand       string
	Color       string
	Size        string
	Occasion    string
	Gender      string
	Price       float64
	// DiscountPrice overrides Price when > 0.
	DiscountPrice float64
}

// EffectivePrice returns the discounted price when present, the list price
// otherwise.
func (c CatalogItem) EffectivePrice() float64 {
	if c.DiscountPrice > 0 {
		return c.DiscountPrice
	}
	return c.Price
}

// SearchableText renders the item as a natural-language string optimized for
// semantic matching. The rendering is deterministic: optional attributes are
// appended in a fixed order and skipped when empty.
func (c CatalogItem) SearchableText() string {
	parts := []string{
		"Product: " + c.Name,
		"Category: " + orUnknown(c.Category),
		"Description: " + orDefault(c.Description, "No description available"),
	}
	if c.Brand != "" {
		parts = append(parts, "Brand: "+c.Brand)
	}
	if c.Color != "" {
		parts = append(parts, "Color: "+c.Color)
	}
	if c.Size != "" {
		parts = append(parts, "Size: "+c.Size)
	}
	if c.Occasion != "" {
		parts = append(parts, "Occasion: "+c.Occasion)
	}
	if c.Gender != "" {
		parts = append(parts, "Gender: "+c.Gender)
	}
	if price := c.EffectivePrice(); price > 0 {
		parts = append(parts, fmt.Sprintf("Price: Rs. %v", price))
	}
	return strings.Join(parts, ". ")
}

func orUnknown(s string) string {
	return orDefault(s, "Unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
