package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/redis/go-redis/v9"
)

const catalogCacheKey = "menu:catalog"

// MenuCache holds the last fetched catalog between menu source round trips.
type MenuCache interface {
	GetCatalog(ctx context.Context) (*structs.Catalog, error)
	SetCatalog(ctx context.Context, catalog *structs.Catalog, ttl time.Duration) error
	InvalidateCatalog(ctx context.Context) error
	Ping(ctx context.Context) error
}

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger     *gecho.Logger
	config     *structs.CacheConfig
	client     *redis.Client
	maxRetries int
}

func NewCacheService(logger *gecho.Logger, cfg *structs.CacheConfig) *CacheService {
	return &CacheService{
		logger:     logger,
		config:     cfg,
		client:     newRedisClient(cfg),
		maxRetries: 3,
	}
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	return cs.client.Close()
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (cs *CacheService) withRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cs.maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == cs.maxRetries || !isRetryableError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff(attempt)):
		}
	}

	if !isRetryableError(lastErr) {
		return lastErr
	}
	return fmt.Errorf("redis operation failed after %d retries: %w", cs.maxRetries, lastErr)
}

// retryBackoff is 100ms doubled per attempt, capped at 2s, with the upper half jittered.
func retryBackoff(attempt int) time.Duration {
	backoff := min(100*(1<<attempt), 2000)
	jitter := rand.IntN(backoff/2 + 1)
	return time.Duration(backoff/2+jitter) * time.Millisecond
}

// isRetryableError determines if an error is worth retrying
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}
	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}
	return false
}

func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	})
}

// Get returns "" without an error when the key does not exist.
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	})
	return result, err
}

func (cs *CacheService) Delete(ctx context.Context, key string) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, key).Err()
	})
}

func (cs *CacheService) Ping(ctx context.Context) error {
	return cs.withRetry(ctx, func() error {
		return cs.client.Ping(ctx).Err()
	})
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

func (cs *CacheService) GetCatalog(ctx context.Context) (*structs.Catalog, error) {
	return getJSON[structs.Catalog](ctx, cs, catalogCacheKey)
}

func (cs *CacheService) SetCatalog(ctx context.Context, catalog *structs.Catalog, ttl time.Duration) error {
	if catalog == nil {
		return nil
	}
	return setJSON(ctx, cs, catalogCacheKey, catalog, ttl)
}

func (cs *CacheService) InvalidateCatalog(ctx context.Context) error {
	if err := cs.Delete(ctx, catalogCacheKey); err != nil {
		cs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
		return err
	}
	return nil
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// memoryMenuCache stands in for Redis when the cache is disabled.
type memoryMenuCache struct {
	mu      sync.RWMutex
	catalog *structs.Catalog
	expires time.Time
	now     func() time.Time
}

func NewMemoryMenuCache() MenuCache {
	return &memoryMenuCache{now: time.Now}
}

func (m *memoryMenuCache) GetCatalog(_ context.Context) (*structs.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil || (!m.expires.IsZero() && m.now().After(m.expires)) {
		return nil, nil
	}
	return m.catalog, nil
}

func (m *memoryMenuCache) SetCatalog(_ context.Context, catalog *structs.Catalog, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = catalog
	m.expires = time.Time{}
	if ttl > 0 {
		m.expires = m.now().Add(ttl)
	}
	return nil
}

func (m *memoryMenuCache) InvalidateCatalog(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = nil
	return nil
}

func (m *memoryMenuCache) Ping(_ context.Context) error {
	return nil
}
