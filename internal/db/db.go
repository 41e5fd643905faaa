// Package db defines the key-value store contract backing the search
// history and the embedding cache. Consumers depend on the narrow
// sub-interfaces, not on Store itself.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// ListStore provides bounded-list operations for per-user history.
type ListStore interface {
	// PushTrim prepends value to the list at key and trims it to maxLen
	// entries, newest first.
	PushTrim(ctx context.Context, key, value string, maxLen int) error
	// Range returns up to count entries from the head of the list.
	Range(ctx context.Context, key string, count int) ([]string, error)
}
