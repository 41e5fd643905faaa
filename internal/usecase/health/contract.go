package health

import "context"

// Pinger checks availability of a storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexChecker reports whether a catalog index snapshot is published.
type IndexChecker interface {
	Ready() bool
}
