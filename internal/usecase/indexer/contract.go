package indexer

import (
	"context"

	"github.com/styleme-cloud/stylesearch/internal/domain"
)

// CatalogReader loads the authoritative product set for one index build.
type CatalogReader interface {
	LoadCatalog(ctx context.Context) ([]domain.CatalogItem, error)
}

// Embedder vectorizes the searchable text of catalog items.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
