// Package search implements the retrieval-and-ranking pipeline: embedding
// retrieval over the catalog index, a generation-based relevance filter, and
// preference-aware scoring.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/metrics"
)

// Options bound the pipeline. Zero fields fall back to defaults.
type Options struct {
	// TopK is the retrieval depth, independent of the final result cap.
	TopK int
	// MaxResults caps the ranked ID list returned to clients.
	MaxResults int
	// HistoryLimit bounds the prompt's recent-query window.
	HistoryLimit int
	// ExcerptLen caps per-item context excerpts.
	ExcerptLen int
	// GenerationTimeout bounds the single generation call.
	GenerationTimeout time.Duration
}

func (o *Options) applyDefaults() {
	if o.TopK <= 0 {
		o.TopK = 20
	}
	if o.MaxResults <= 0 {
		o.MaxResults = 10
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 5
	}
	if o.ExcerptLen <= 0 {
		o.ExcerptLen = defaultExcerptLen
	}
	if o.GenerationTimeout <= 0 {
		o.GenerationTimeout = 20 * time.Second
	}
}

// Result is the ranked outcome of one search request.
type Result struct {
	ProductIDs []int64
	// Scores is parallel to ProductIDs; nil in plain (non-preference) mode.
	Scores            []float64
	EnhancedQuery     string
	ProcessingTime    float64
	HistoryConsidered bool
}

// Service orchestrates the pipeline per request. It is stateless across
// requests; the index snapshot is the only shared state and is read-only.
type Service struct {
	idx     IndexProvider
	embed   Embedder
	gen     Generator
	history HistoryStore
	logs    Logger
	logger  *zap.Logger
	opts    Options
}

// New creates the search orchestrator. history and logs may be nil when the
// corresponding collaborator is not wired (e.g. in the CLI harness).
func New(idx IndexProvider, embed Embedder, gen Generator, history HistoryStore, logs Logger, logger *zap.Logger, opts Options) *Service {
	opts.applyDefaults()
	return &Service{
		idx:     idx,
		embed:   embed,
		gen:     gen,
		history: history,
		logs:    logs,
		logger:  logger,
		opts:    opts,
	}
}

// Search runs the plain pipeline: no preference fragments, no scores.
func (s *Service) Search(ctx context.Context, query string, userID int64) (Result, error) {
	return s.run(ctx, query, userID, domain.Preferences{}, false)
}

// SearchWithPreferences runs the full pipeline: the enhanced query feeds
// retrieval and every returned ID gets a preference match score.
func (s *Service) SearchWithPreferences(ctx context.Context, query string, userID int64, prefs domain.Preferences) (Result, error) {
	return s.run(ctx, query, userID, prefs, true)
}

func (s *Service) run(ctx context.Context, query string, userID int64, prefs domain.Preferences, scored bool) (Result, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		// Invalid input is rejected before any side effect: no history
		// write, no index query, no log row.
		return Result{}, domain.ErrEmptyQuery
	}

	history := s.recentHistory(ctx, userID)

	enhanced := query
	if scored {
		enhanced = BuildEnhancedQuery(query, prefs)
	}

	ids, err := s.rank(ctx, enhanced, history)
	if err != nil {
		elapsed := time.Since(start)
		metrics.ObserveSearch(mode(scored), "error", elapsed)
		s.logFailedAttempt(ctx, userID, query, round3(elapsed.Seconds()))
		return Result{ProcessingTime: round3(elapsed.Seconds())}, err
	}

	res := Result{
		ProductIDs:        ids,
		EnhancedQuery:     enhanced,
		ProcessingTime:    round3(time.Since(start).Seconds()),
		HistoryConsidered: len(history) > 0,
	}
	if scored {
		res.Scores = ScorePreferences(ids, prefs)
	}

	metrics.ObserveSearch(mode(scored), "success", time.Since(start))
	s.recordSideEffects(ctx, userID, query, prefs, res, scored)
	return res, nil
}

// rank runs retrieval, context formatting, the relevance filter, and the
// catalog cross-check.
func (s *Service) rank(ctx context.Context, enhanced string, history []string) ([]int64, error) {
	ix, err := s.idx.Current()
	if err != nil {
		return nil, err
	}

	embRes, err := s.embed.Embed(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := ix.Query(domain.Normalize(embRes.Embedding), s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	prompt := BuildPrompt(FormatContext(hits, s.opts.ExcerptLen), history, enhanced, s.opts.MaxResults)

	genCtx, cancel := context.WithTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	reply, err := s.gen.Generate(genCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationTimeout, err)
		}
		return nil, fmt.Errorf("generate: %w", err)
	}

	// A garbled reply parses to an empty list; that is a valid empty result.
	ids := ParseProductIDs(reply)

	// The prompt instructs the model to draw IDs from the context only, but
	// replies are not trusted: drop anything outside the catalog snapshot.
	kept := ids[:0]
	for _, id := range ids {
		if ix.Contains(id) {
			kept = append(kept, id)
		}
	}
	ids = kept

	if len(ids) > s.opts.MaxResults {
		ids = ids[:s.opts.MaxResults]
	}
	return ids, nil
}

// recentHistory reads the bounded history window. Failures degrade to "no
// history" instead of failing the request.
func (s *Service) recentHistory(ctx context.Context, userID int64) []string {
	if s.history == nil || userID <= 0 {
		return nil
	}
	history, err := s.history.Recent(ctx, userID, s.opts.HistoryLimit)
	if err != nil {
		s.logger.Warn("failed to read search history",
			zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	return history
}

// recordSideEffects appends history and analytics rows after the result is
// final. Writes are fire-and-forget: detached from request cancellation,
// bounded by their own deadline, errors logged and swallowed.
func (s *Service) recordSideEffects(ctx context.Context, userID int64, query string, prefs domain.Preferences, res Result, scored bool) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	go func() {
		defer cancel()

		if s.history != nil && userID > 0 {
			if err := s.history.Append(bg, userID, query); err != nil {
				s.logger.Warn("failed to append search history",
					zap.Int64("user_id", userID), zap.Error(err))
			}
		}

		if s.logs == nil {
			return
		}
		entry := LogEntry{
			UserID:         userID,
			Query:          query,
			ResultsCount:   len(res.ProductIDs),
			ProcessingTime: res.ProcessingTime,
		}
		if scored {
			entry.EnhancedQuery = res.EnhancedQuery
		}
		if err := s.logs.LogSearch(bg, entry); err != nil {
			s.logger.Warn("failed to write search log", zap.Error(err))
		}
		// The preference log feeds recommendation learning; guests are
		// skipped there but still counted in search_logs.
		if scored && userID > 0 {
			if err := s.logs.LogPreferences(bg, userID, query, prefs, res.ProductIDs); err != nil {
				s.logger.Warn("failed to write preference log", zap.Error(err))
			}
		}
	}()
}

// logFailedAttempt records an upstream failure in the analytics log. Best
// effort only: nothing is allowed to raise past this point.
func (s *Service) logFailedAttempt(ctx context.Context, userID int64, query string, elapsed float64) {
	if s.logs == nil {
		return
	}
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	go func() {
		defer cancel()
		entry := LogEntry{UserID: userID, Query: query, ProcessingTime: elapsed}
		if err := s.logs.LogSearch(bg, entry); err != nil {
			s.logger.Warn("failed to log failed search attempt", zap.Error(err))
		}
	}()
}

func mode(scored bool) string {
	if scored {
		return "preferences"
	}
	return "plain"
}
