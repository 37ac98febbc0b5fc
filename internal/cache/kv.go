package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by KV.Get when the key holds no live entry.
var ErrMiss = errors.New("cache: miss")

// KV is the minimal key/value surface the cache-aside store needs.
// Entries are derived, disposable copies: losing every one of them must
// never lose information, only performance.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key string, ttl time.Duration, value string) error
	Del(ctx context.Context, keys ...string) error
}

// RedisKV adapts a go-redis client to the KV interface.
type RedisKV struct {
	Client *redis.Client
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (r *RedisKV) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

// MemoryKV is an in-process KV with expiry. Used by tests and usable as a
// standalone fallback when no Redis is configured.
type MemoryKV struct {
	mu    sync.RWMutex
	store map[string]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{store: make(map[string]memEntry)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.store[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *MemoryKV) SetEx(_ context.Context, key string, ttl time.Duration, value string) error {
	m.mu.Lock()
	m.store[key] = memEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.store, k)
	}
	m.mu.Unlock()
	return nil
}
