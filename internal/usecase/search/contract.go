package search

import (
	"context"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/index"
)

// IndexProvider yields the current catalog index snapshot.
type IndexProvider interface {
	Current() (*index.Index, error)
}

// Embedder vectorizes the enhanced query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces the relevance-filter reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistoryStore reads and appends per-user search history. Both operations
// are best-effort from the orchestrator's point of view.
type HistoryStore interface {
	Recent(ctx context.Context, userID int64, limit int) ([]string, error)
	Append(ctx context.Context, userID int64, query string) error
}

// Logger appends search analytics rows. Implementations must tolerate being
// called after the client response was already written.
type Logger interface {
	LogSearch(ctx context.Context, entry LogEntry) error
	LogPreferences(ctx context.Context, userID int64, query string, prefs domain.Preferences, productIDs []int64) error
}

// LogEntry is one append-only search analytics record.
type LogEntry struct {
	UserID         int64
	Query          string
	EnhancedQuery  string
	ResultsCount   int
	ProcessingTime float64
}
