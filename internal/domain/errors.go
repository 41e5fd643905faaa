package domain

import "errors"

var (
	// ErrEmptyQuery signals an empty or whitespace-only search query.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrCatalogEmpty signals an attempt to build an index from an empty catalog.
	ErrCatalogEmpty = errors.New("catalog is empty")
	// ErrIndexNotReady signals that no index snapshot has been built yet.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a text-generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrGenerationTimeout signals that the generation call exceeded its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")
)
