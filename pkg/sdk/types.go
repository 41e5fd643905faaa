package sdk

// Preferences mirror the storefront's preference payload.
type Preferences struct {
	StylePreferences []string `json:"style_preferences,omitempty"`
	ColorPreferences []string `json:"color_preferences,omitempty"`
	BudgetMin        float64  `json:"budget_min,omitempty"`
	BudgetMax        float64  `json:"budget_max,omitempty"`
	Occasion         string   `json:"occasion,omitempty"`
}

// SearchContext carries request-scoped context like the current season.
type SearchContext struct {
	Season string `json:"season,omitempty"`
}

// SearchResult is the plain search response.
type SearchResult struct {
	Success           bool    `json:"success"`
	ProductIDs        []int64 `json:"product_ids"`
	Query             string  `json:"query"`
	ResultsCount      int     `json:"results_count"`
	ProcessingTime    float64 `json:"processing_time"`
	HistoryConsidered bool    `json:"history_considered"`
}

// PreferenceSearchResult is the preference-aware search response.
type PreferenceSearchResult struct {
	Success           bool        `json:"success"`
	ProductIDs        []int64     `json:"product_ids"`
	MatchingScores    []float64   `json:"matching_scores"`
	Query             string      `json:"query"`
	EnhancedQuery     string      `json:"enhanced_query"`
	ResultsCount      int         `json:"results_count"`
	ProcessingTime    float64     `json:"processing_time"`
	HistoryConsidered bool        `json:"history_considered"`
	Preferences       Preferences `json:"preferences_applied"`
}

// IndexStats describes the vector store.
type IndexStats struct {
	TotalVectors int    `json:"total_vectors"`
	Dimensions   int    `json:"dimensions"`
	Ready        bool   `json:"ready"`
	BuiltAt      string `json:"built_at,omitempty"`
}

// HealthReport is the aggregated health response.
type HealthReport struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
