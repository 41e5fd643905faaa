package chi

import "github.com/styleme-cloud/stylesearch/internal/domain"

// Wire types for the storefront-facing JSON API. Field names match the
// payloads the storefront already sends and parses.

type searchRequest struct {
	Query  string `json:"query"`
	UserID int64  `json:"user_id"`
}

type preferencesPayload struct {
	StylePreferences []string `json:"style_preferences"`
	ColorPreferences []string `json:"color_preferences"`
	BudgetMin        float64  `json:"budget_min"`
	BudgetMax        float64  `json:"budget_max"`
	Occasion         string   `json:"occasion"`
}

type contextPayload struct {
	Season string `json:"season"`
}

type preferenceSearchRequest struct {
	Query       string             `json:"query"`
	UserID      int64              `json:"user_id"`
	Preferences preferencesPayload `json:"preferences"`
	Context     contextPayload     `json:"context"`
}

type searchResponse struct {
	Success           bool    `json:"success"`
	ProductIDs        []int64 `json:"product_ids"`
	Query             string  `json:"query"`
	ResultsCount      int     `json:"results_count"`
	ProcessingTime    float64 `json:"processing_time"`
	HistoryConsidered bool    `json:"history_considered"`
}

type preferenceSearchResponse struct {
	Success            bool               `json:"success"`
	ProductIDs         []int64            `json:"product_ids"`
	MatchingScores     []float64          `json:"matching_scores"`
	Query              string             `json:"query"`
	EnhancedQuery      string             `json:"enhanced_query"`
	PreferencesApplied preferencesPayload `json:"preferences_applied"`
	ResultsCount       int                `json:"results_count"`
	ProcessingTime     float64            `json:"processing_time"`
	HistoryConsidered  bool               `json:"history_considered"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorType string `json:"error_type"`
}

type statsResponse struct {
	TotalVectors int    `json:"total_vectors"`
	Dimensions   int    `json:"dimensions"`
	Ready        bool   `json:"ready"`
	BuiltAt      string `json:"built_at,omitempty"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

func (p preferencesPayload) toDomain(season string) domain.Preferences {
	return domain.Preferences{
		Styles:    p.StylePreferences,
		Colors:    p.ColorPreferences,
		BudgetMin: p.BudgetMin,
		BudgetMax: p.BudgetMax,
		Occasion:  p.Occasion,
		Season:    season,
	}
}
