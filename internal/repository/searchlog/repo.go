// Package searchlog persists search analytics rows to MySQL.
package searchlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/usecase/search"
)

// Repo writes append-only analytics records via GORM.
type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

type searchLogRow struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64     `gorm:"column:user_id"`
	Query          string    `gorm:"column:query"`
	ResultsCount   int       `gorm:"column:results_count"`
	EnhancedQuery  string    `gorm:"column:enhanced_query"`
	ProcessingTime float64   `gorm:"column:processing_time"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (searchLogRow) TableName() string { return "search_logs" }

type preferenceLogRow struct {
	ID                  int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID              int64     `gorm:"column:user_id"`
	Query               string    `gorm:"column:query"`
	Preferences         string    `gorm:"column:preferences"`
	RecommendedProducts string    `gorm:"column:recommended_products"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (preferenceLogRow) TableName() string { return "search_preferences_log" }

// preferencesJSON is the persisted shape of preferences. Key names match the
// storefront's request payload so analytics queries line up with client logs.
type preferencesJSON struct {
	StylePreferences []string `json:"style_preferences"`
	ColorPreferences []string `json:"color_preferences"`
	BudgetMin        float64  `json:"budget_min"`
	BudgetMax        float64  `json:"budget_max"`
	Occasion         string   `json:"occasion"`
	Season           string   `json:"season,omitempty"`
}

// LogSearch appends one request-level record. Guest users are stored with
// user_id 0.
func (r *Repo) LogSearch(ctx context.Context, entry search.LogEntry) error {
	userID := entry.UserID
	if userID < 0 {
		userID = 0
	}

	row := searchLogRow{
		UserID:         userID,
		Query:          entry.Query,
		ResultsCount:   entry.ResultsCount,
		EnhancedQuery:  entry.EnhancedQuery,
		ProcessingTime: entry.ProcessingTime,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

// LogPreferences appends one preference-learning record for a signed-in user.
func (r *Repo) LogPreferences(
	ctx context.Context,
	userID int64,
	query string,
	prefs domain.Preferences,
	productIDs []int64,
) error {
	prefsData, err := json.Marshal(preferencesJSON{
		StylePreferences: prefs.Styles,
		ColorPreferences: prefs.Colors,
		BudgetMin:        prefs.BudgetMin,
		BudgetMax:        prefs.BudgetMax,
		Occasion:         prefs.Occasion,
		Season:           prefs.Season,
	})
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	if productIDs == nil {
		productIDs = []int64{}
	}
	idsData, err := json.Marshal(productIDs)
	if err != nil {
		return fmt.Errorf("marshal product ids: %w", err)
	}

	row := preferenceLogRow{
		UserID:              userID,
		Query:               query,
		Preferences:         string(prefsData),
		RecommendedProducts: string(idsData),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert preference log: %w", err)
	}
	return nil
}
