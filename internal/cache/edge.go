package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/rs/zerolog/log"
)

// PageStore is the edge tier: whole rendered documents keyed by the
// normalized request identity, with short-to-long TTLs chosen by the
// producing handler.
type PageStore interface {
	Get(ctx context.Context, key string) (*Page, error)
	Set(ctx context.Context, key string, page *Page, ttl time.Duration) error
	Close() error
}

// Page is a cached rendered response
type Page struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// RedisPageStore implements PageStore on Redis
type RedisPageStore struct {
	client *redis.Client
}

// NewRedisPageStore connects to Redis and verifies the connection
func NewRedisPageStore(addr, password string, db int) (*RedisPageStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	log.Info().Str("addr", addr).Msg("Redis connection established")
	return &RedisPageStore{client: client}, nil
}

func (r *RedisPageStore) Get(ctx context.Context, key string) (*Page, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("getting key %s: %w", key, err)
	}

	var page Page
	if err := json.Unmarshal(val, &page); err != nil {
		return nil, fmt.Errorf("unmarshaling cached page: %w", err)
	}
	return &page, nil
}

func (r *RedisPageStore) Set(ctx context.Context, key string, page *Page, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshaling page: %w", err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisPageStore) Close() error {
	return r.client.Close()
}

// MemoryPageStore implements PageStore in memory, for local runs and tests
type MemoryPageStore struct {
	entries map[string]memoryPage
	mutex   sync.RWMutex
}

type memoryPage struct {
	page      Page
	expiresAt time.Time
}

// NewMemoryPageStore creates an in-memory page store
func NewMemoryPageStore() *MemoryPageStore {
	return &MemoryPageStore{entries: make(map[string]memoryPage)}
}

func (m *MemoryPageStore) Get(ctx context.Context, key string) (*Page, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, exists := m.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	page := entry.page
	return &page, nil
}

func (m *MemoryPageStore) Set(ctx context.Context, key string, page *Page, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries[key] = memoryPage{page: *page, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryPageStore) Close() error {
	return nil
}

// NewPageStore selects an edge backend by configured type
func NewPageStore(addr, password string, db int, storeType string) (PageStore, error) {
	switch storeType {
	case "memory":
		return NewMemoryPageStore(), nil
	case "redis":
		return NewRedisPageStore(addr, password, db)
	default:
		return nil, fmt.Errorf("unsupported edge cache type: %s", storeType)
	}
}
