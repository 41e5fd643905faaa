package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/styleme-cloud/stylesearch/internal/config"
	dbRedis "github.com/styleme-cloud/stylesearch/internal/db/redis"
	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/index"
	logpkg "github.com/styleme-cloud/stylesearch/internal/logger"
	"github.com/styleme-cloud/stylesearch/internal/metrics"
	catalogrepo "github.com/styleme-cloud/stylesearch/internal/repository/catalog"
	"github.com/styleme-cloud/stylesearch/internal/repository/embcache"
	historyrepo "github.com/styleme-cloud/stylesearch/internal/repository/history"
	searchlogrepo "github.com/styleme-cloud/stylesearch/internal/repository/searchlog"
	chiTransport "github.com/styleme-cloud/stylesearch/internal/transport/chi"
	openaiTransport "github.com/styleme-cloud/stylesearch/internal/transport/openai"
	healthuc "github.com/styleme-cloud/stylesearch/internal/usecase/health"
	indexeruc "github.com/styleme-cloud/stylesearch/internal/usecase/indexer"
	searchuc "github.com/styleme-cloud/stylesearch/internal/usecase/search"
	"github.com/styleme-cloud/stylesearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting stylesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	// Redis: history + embedding cache
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create redis store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to redis")

	// MySQL: catalog + analytics logs
	gdb, err := gorm.Open(gormmysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to mysql", zap.Error(err))
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MySQL.ConnMaxLifeMin) * time.Minute)
	defer func() { _ = sqlDB.Close() }()
	logger.Info("Connected to mysql")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Embedder chain: OpenAI -> Cached
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(baseEmbedder, store, metrics.EmbeddingCacheTotal, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Provider:    cfg.Generation.Provider,
		Logger:      logger,
	})

	// Repositories
	catalogRepo := catalogrepo.New(gdb)
	searchlogRepo := searchlogrepo.New(gdb)
	historyRepo := historyrepo.New(store, cfg.Search.HistoryLimit)

	// Index snapshot and indexer
	snap := index.NewSnapshot()
	indexerSvc := indexeruc.New(catalogRepo, embedder, snap, logger)

	// The first build is mandatory: serving searches against an empty
	// catalog helps nobody.
	if _, err := indexerSvc.Rebuild(ctx); err != nil {
		logger.Fatal("Initial index build failed", zap.Error(err))
	}
	stats := indexerSvc.Stats()
	logger.Info("Index built",
		zap.Int("total_vectors", stats.TotalVectors),
		zap.Int("dimensions", stats.Dimensions),
	)

	// Use case services
	searchSvc := searchuc.New(snap, embedder, generator, historyRepo, searchlogRepo, logger, searchuc.Options{
		TopK:              cfg.Search.TopK,
		MaxResults:        cfg.Search.MaxResults,
		HistoryLimit:      cfg.Search.HistoryLimit,
		ExcerptLen:        cfg.Search.ExcerptLen,
		GenerationTimeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
	})

	healthSvc := healthuc.New(store, sqlPinger{db: sqlDB}, baseEmbedder, snap)

	// HTTP server
	server := chiTransport.NewServer(searchSvc, indexerSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// sqlPinger adapts *sql.DB to the health Pinger interface.
type sqlPinger struct {
	db interface {
		PingContext(ctx context.Context) error
	}
}

func (p sqlPinger) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql ping: %w", err)
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success":    false,
						"message":    "internal error",
						"error_type": "internal_error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
