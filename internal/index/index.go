// Package index holds the in-memory embedding index over the product
// catalog. An Index is immutable after construction; rebuilds create a new
// Index and swap it into the Snapshot holder atomically.
package index

import (
	"fmt"
	"sort"

	"github.com/styleme-cloud/stylesearch/internal/domain"
)

// Hit is one nearest-neighbor match.
type Hit struct {
	Item       domain.CatalogItem
	Similarity float32
}

// Index is a read-only flat vector index: one L2-normalized vector per
// catalog item, queried by exhaustive inner product.
type Index struct {
	items   []domain.CatalogItem
	vectors [][]float32
	byID    map[int64]int
	dim     int
}

// New builds an index from parallel item and vector slices. Vectors are
// normalized in place so that queries can rank by inner product. The catalog
// must be non-empty and every vector must share one dimension.
func New(items []domain.CatalogItem, vectors [][]float32) (*Index, error) {
	if len(items) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	if len(items) != len(vectors) {
		return nil, fmt.Errorf("items/vectors length mismatch: %d != %d", len(items), len(vectors))
	}

	dim := len(vectors[0])
	byID := make(map[int64]int, len(items))
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d has dim %d, want %d: %w",
				i, len(vec), dim, domain.ErrVectorDimMismatch)
		}
		domain.Normalize(vec)
		byID[items[i].ID] = i
	}

	return &Index{items: items, vectors: vectors, byID: byID, dim: dim}, nil
}

// Query returns the k items with the highest inner product against vec,
// sorted descending by similarity with ties broken by ascending product ID.
// The tie-break keeps result order reproducible across rebuilds.
func (ix *Index) Query(vec []float32, k int) ([]Hit, error) {
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("query dim %d, index dim %d: %w",
			len(vec), ix.dim, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, len(ix.items))
	for i, v := range ix.vectors {
		hits[i] = Hit{Item: ix.items[i], Similarity: dot(vec, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Item.ID < hits[j].Item.ID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Contains reports whether the catalog snapshot holds the given product ID.
func (ix *Index) Contains(id int64) bool {
	_, ok := ix.byID[id]
	return ok
}

// Size returns the number of indexed items.
func (ix *Index) Size() int { return len(ix.items) }

// Dimensions returns the vector dimension of the index.
func (ix *Index) Dimensions() int { return ix.dim }

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
