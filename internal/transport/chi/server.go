// Package chi exposes the search pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	healthuc "github.com/styleme-cloud/stylesearch/internal/usecase/health"
	indexeruc "github.com/styleme-cloud/stylesearch/internal/usecase/indexer"
	searchuc "github.com/styleme-cloud/stylesearch/internal/usecase/search"
	"github.com/styleme-cloud/stylesearch/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the search API.
type Server struct {
	search        *searchuc.Service
	indexer       *indexeruc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	indexer *indexeruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		indexer: indexer,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "invalid_input"),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, "index_not_ready"),
		sentinelHandler(domain.ErrCatalogEmpty, http.StatusServiceUnavailable, "index_not_ready"),
		sentinelHandler(domain.ErrGenerationTimeout, http.StatusGatewayTimeout, "timeout"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "upstream_unavailable"),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, "upstream_unavailable"),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Post("/search_with_preferences", s.handleSearchWithPreferences)
	r.Get("/vector-store/stats", s.handleStats)
	r.Post("/index/rebuild", s.handleRebuild)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}

	result, err := s.search.Search(r.Context(), req.Query, req.UserID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:           true,
		ProductIDs:        idsOrEmpty(result.ProductIDs),
		Query:             req.Query,
		ResultsCount:      len(result.ProductIDs),
		ProcessingTime:    result.ProcessingTime,
		HistoryConsidered: result.HistoryConsidered,
	})
}

// handleSearchWithPreferences handles POST /search_with_preferences.
func (s *Server) handleSearchWithPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferenceSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}

	prefs := req.Preferences.toDomain(req.Context.Season)

	result, err := s.search.SearchWithPreferences(r.Context(), req.Query, req.UserID, prefs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	scores := result.Scores
	if scores == nil {
		scores = []float64{}
	}

	writeJSON(w, http.StatusOK, preferenceSearchResponse{
		Success:            true,
		ProductIDs:         idsOrEmpty(result.ProductIDs),
		MatchingScores:     scores,
		Query:              req.Query,
		EnhancedQuery:      result.EnhancedQuery,
		PreferencesApplied: req.Preferences,
		ResultsCount:       len(result.ProductIDs),
		ProcessingTime:     result.ProcessingTime,
		HistoryConsidered:  result.HistoryConsidered,
	})
}

// handleStats handles GET /vector-store/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.indexer.Stats()

	resp := statsResponse{
		TotalVectors: stats.TotalVectors,
		Dimensions:   stats.Dimensions,
		Ready:        stats.Ready,
	}
	if !stats.BuiltAt.IsZero() {
		resp.BuiltAt = stats.BuiltAt.UTC().Format(time.RFC3339)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRebuild handles POST /index/rebuild. The rebuild runs synchronously;
// concurrent requests are serialized by the indexer.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	stats, err := s.indexer.Rebuild(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalVectors: stats.TotalVectors,
		Dimensions:   stats.Dimensions,
		Ready:        stats.Ready,
		BuiltAt:      stats.BuiltAt.UTC().Format(time.RFC3339),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Service: "stylesearch",
		Version: version.Version,
		Checks:  checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrCatalogEmpty,
		domain.ErrIndexNotReady,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
		domain.ErrGenerationTimeout,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, errorType string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, errorType, msg)
		return true
	}
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errorType, message string) {
	writeJSON(w, status, errorResponse{
		Success:   false,
		Message:   message,
		ErrorType: errorType,
	})
}
