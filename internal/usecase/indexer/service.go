// Package indexer builds embedding index snapshots from the product catalog
// and publishes them atomically.
package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/styleme-cloud/stylesearch/internal/domain"
	"github.com/styleme-cloud/stylesearch/internal/index"
	"github.com/styleme-cloud/stylesearch/internal/metrics"
)

// Stats describes the active index for the stats endpoint.
type Stats struct {
	TotalVectors int
	Dimensions   int
	Ready        bool
	BuiltAt      time.Time
}

// Service builds and publishes index snapshots. Rebuilds are serialized; a
// build never disturbs readers of the current snapshot until the final swap.
type Service struct {
	catalog CatalogReader
	embed   Embedder
	snap    *index.Snapshot
	logger  *zap.Logger

	mu      sync.Mutex // guards rebuild + builtAt
	builtAt time.Time
}

// New creates an indexer service publishing into snap.
func New(catalog CatalogReader, embed Embedder, snap *index.Snapshot, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, embed: embed, snap: snap, logger: logger}
}

// Rebuild loads the catalog, embeds every item's searchable text, and swaps
// the freshly built index into the shared snapshot. In-flight queries keep
// reading the previous snapshot until the swap.
func (s *Service) Rebuild(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	items, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load catalog: %w", err)
	}
	if len(items) == 0 {
		return Stats{}, domain.ErrCatalogEmpty
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.SearchableText()
	}

	vectors, err := domain.EmbedBatch(ctx, s.embed, texts)
	if err != nil {
		return Stats{}, fmt.Errorf("embed catalog: %w", err)
	}

	ix, err := index.New(items, vectors)
	if err != nil {
		return Stats{}, fmt.Errorf("build index: %w", err)
	}

	s.snap.Swap(ix)
	s.builtAt = time.Now()
	metrics.IndexSize.Set(float64(ix.Size()))

	s.logger.Info("index rebuilt",
		zap.Int("items", ix.Size()),
		zap.Int("dimensions", ix.Dimensions()),
		zap.Duration("took", time.Since(start)),
	)

	return statsFor(ix, s.builtAt), nil
}

// Stats reports the active index. Ready is false before the first build.
func (s *Service) Stats() Stats {
	ix, err := s.snap.Current()
	if err != nil {
		return Stats{}
	}
	s.mu.Lock()
	builtAt := s.builtAt
	s.mu.Unlock()
	return statsFor(ix, builtAt)
}

func statsFor(ix *index.Index, builtAt time.Time) Stats {
	return Stats{
		TotalVectors: ix.Size(),
		Dimensions:   ix.Dimensions(),
		Ready:        true,
		BuiltAt:      builtAt,
	}
}
