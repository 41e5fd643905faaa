package domain

// Preferences holds the structured shopper preferences attached to an
// enhanced search. The zero value means "no preference expressed" for every
// dimension: empty tag slices, zero budget, empty strings.
type Preferences struct {
	Styles    []string
	Colors    []string
	BudgetMin float64
	BudgetMax float64
	Occasion  string
	Season    string
}

// HasStyles reports whether any style preference was expressed.
func (p Preferences) HasStyles() bool { return len(p.Styles) > 0 }

// HasColors reports whether any color preference was expressed.
func (p Preferences) HasColors() bool { return len(p.Colors) > 0 }

// HasBudget reports whether a positive budget ceiling was expressed.
func (p Preferences) HasBudget() bool { return p.BudgetMax > 0 }

// HasOccasion reports whether an occasion was expressed.
func (p Preferences) HasOccasion() bool { return p.Occasion != "" }

// IsEmpty reports whether no preference dimension is set at all.
func (p Preferences) IsEmpty() bool {
	return !p.HasStyles() && !p.HasColors() && !p.HasBudget() &&
		!p.HasOccasion() && p.Season == ""
}
