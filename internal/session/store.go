// internal/session/store.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"elite-customer/internal/common/database"
)

// Store is the key-value persistence behind the session service: the
// serialized user, the bearer token and the dark mode preference.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = redis.Nil

// redisStore persists entries in Redis with an optional TTL.
type redisStore struct {
	client *database.RedisClient
	ttl    time.Duration
}

// NewRedisStore wraps a Redis client as a session store. A zero TTL means
// entries never expire.
func NewRedisStore(client *database.RedisClient, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key)
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, s.ttl)
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...)
}

// memoryStore is the in-process fallback when no Redis is configured.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]string)}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
