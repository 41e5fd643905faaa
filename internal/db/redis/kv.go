package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/styleme-cloud/stylesearch/internal/db"
)

// Get returns the value at key, or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.client.B().Get().Key(key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value at key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// PushTrim prepends value and trims the list to maxLen entries.
func (s *Store) PushTrim(ctx context.Context, key, value string, maxLen int) error {
	push := s.client.B().Lpush().Key(key).Element(value).Build()
	trim := s.client.B().Ltrim().Key(key).Start(0).Stop(int64(maxLen - 1)).Build()
	for _, resp := range s.client.DoMulti(ctx, push, trim) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("push trim %s: %w", key, err)
		}
	}
	return nil
}

// Range returns up to count entries from the head of the list, newest first.
func (s *Store) Range(ctx context.Context, key string, count int) ([]string, error) {
	cmd := s.client.B().Lrange().Key(key).Start(0).Stop(int64(count - 1)).Build()
	entries, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("range %s: %w", key, err)
	}
	return entries, nil
}
