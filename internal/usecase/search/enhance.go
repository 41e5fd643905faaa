package search

import (
	"fmt"
	"strings"

	"github.com/styleme-cloud/stylesearch/internal/domain"
)

// BuildEnhancedQuery merges the raw query with pipe-separated fragments for
// each expressed preference dimension. The field order is fixed (query,
// style, colors, budget, occasion, season) so the retrieval input is
// reproducible for a given request.
func BuildEnhancedQuery(query string, prefs domain.Preferences) string {
	parts := []string{query}

	if prefs.HasStyles() {
		parts = append(parts, "style: "+strings.Join(prefs.Styles, ", "))
	}
	if prefs.HasColors() {
		parts = append(parts, "colors: "+strings.Join(prefs.Colors, ", "))
	}
	if prefs.HasBudget() {
		parts = append(parts, fmt.Sprintf("budget: Rs.%v-%v", prefs.BudgetMin, prefs.BudgetMax))
	}
	if prefs.HasOccasion() {
		parts = append(parts, "occasion: "+prefs.Occasion)
	}
	if prefs.Season != "" {
		parts = append(parts, "season: "+prefs.Season)
	}

	return strings.Join(parts, " | ")
}
