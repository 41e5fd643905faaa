// Package history persists the bounded per-user search history used to
// personalize the relevance filter prompt.
package history

import (
	"context"
	"fmt"
	"strconv"
)

const keyPrefix = "stylesearch:history:"

// store is the consumer interface for the history repository (ISP).
type store interface {
	PushTrim(ctx context.Context, key, value string, maxLen int) error
	Range(ctx context.Context, key string, count int) ([]string, error)
}

// Repo stores recent queries per user, newest first.
type Repo struct {
	store  store
	maxLen int
}

// New creates a history repository keeping at most maxLen queries per user.
func New(s store, maxLen int) *Repo {
	if maxLen <= 0 {
		maxLen = 5
	}
	return &Repo{store: s, maxLen: maxLen}
}

// Append records one query for the user, evicting the oldest entries beyond
// the retention bound.
func (r *Repo) Append(ctx context.Context, userID int64, query string) error {
	if err := r.store.PushTrim(ctx, key(userID), query, r.maxLen); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit recent queries, most recent first.
func (r *Repo) Recent(ctx context.Context, userID int64, limit int) ([]string, error) {
	if limit <= 0 || limit > r.maxLen {
		limit = r.maxLen
	}
	entries, err := r.store.Range(ctx, key(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}
