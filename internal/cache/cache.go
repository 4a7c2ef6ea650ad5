// Package cache provides the short-lived cache in front of the advertiser
// reporting queries. Session state is never cached; only derived stats are.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/config"
)

// Cache is a byte-value cache with per-entry TTL.
type Cache interface {
	// Get retrieves a value. Returns nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// New builds the cache backend selected by the configuration.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return NewMemoryCache(cfg.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
