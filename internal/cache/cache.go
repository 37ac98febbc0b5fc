package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Source reports where a read was served from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceDatabase Source = "database"
)

// Store implements the cache-aside protocol over a KV: reads check the
// cache first and repopulate it from the loader on a miss; writers call
// Invalidate after the durable store has been mutated.
//
// KV failures on the read path are deliberately non-fatal. A cache outage
// degrades every read to SourceDatabase instead of failing requests the
// durable store could still serve.
type Store struct {
	kv  KV
	log *slog.Logger
}

func New(kv KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Get returns the serialized value for key, loading and caching it on a
// miss. The loader runs against the durable store and its error is the
// only one that fails the call.
func (s *Store) Get(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) ([]byte, error)) ([]byte, Source, error) {
	v, err := s.kv.Get(ctx, key)
	if err == nil {
		return []byte(v), SourceCache, nil
	}
	if !errors.Is(err, ErrMiss) {
		s.log.Warn("cache get failed, falling through to database", "key", key, "err", err)
	}

	b, err := load(ctx)
	if err != nil {
		return nil, SourceDatabase, err
	}
	if err := s.kv.SetEx(ctx, key, ttl, string(b)); err != nil {
		s.log.Warn("cache set failed", "key", key, "err", err)
	}
	return b, SourceDatabase, nil
}

// Invalidate deletes the given keys. Deleting an absent key is not an
// error, and a KV failure here is logged rather than surfaced: the write
// that triggered the invalidation has already committed, and the TTL
// bounds any staleness left behind.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if err := s.kv.Del(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", "keys", keys, "err", err)
	}
}

// GetJSON is the typed convenience over Store.Get for query-result
// snapshots: the loader's result is stored as JSON and decoded back on
// cache hits.
func GetJSON[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, Source, error) {
	var zero T
	b, src, err := s.Get(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, src, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, src, err
	}
	return out, src, nil
}
