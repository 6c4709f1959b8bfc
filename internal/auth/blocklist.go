// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"fmt"
	"time"

	"carsouq_backend/internal/config"
	"carsouq_backend/internal/shared"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InMemoryBlocklist keeps revoked token IDs in a local cache. Entries
// evict themselves once the token they belong to has expired anyway.
type InMemoryBlocklist struct {
	cache *cache.Cache
}

// NewInMemoryBlocklist creates an in-memory blocklist.
func NewInMemoryBlocklist(cleanupInterval time.Duration) *InMemoryBlocklist {
	return &InMemoryBlocklist{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (b *InMemoryBlocklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	if duration <= 0 {
		return nil
	}
	b.cache.Set(jti, true, duration)
	return nil
}

func (b *InMemoryBlocklist) IsBlocked(ctx context.Context, jti string) bool {
	_, found := b.cache.Get(jti)
	return found
}

// RedisBlocklist stores revoked token IDs in Redis so revocation survives
// restarts and is shared across instances.
type RedisBlocklist struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisBlocklist creates a Redis-backed blocklist and verifies connectivity.
func NewRedisBlocklist(cfg *config.Config, logger *zap.Logger) (*RedisBlocklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisBlocklistDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis blocklist ping failed: %w", err)
	}
	return &RedisBlocklist{client: client, logger: logger}, nil
}

func (b *RedisBlocklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	if duration <= 0 {
		return nil
	}
	return b.client.Set(ctx, blocklistKey(jti), "1", duration).Err()
}

func (b *RedisBlocklist) IsBlocked(ctx context.Context, jti string) bool {
	n, err := b.client.Exists(ctx, blocklistKey(jti)).Result()
	if err != nil {
		// Fail open on lookup errors so a Redis blip does not lock everyone out.
		b.logger.Warn("Blocklist lookup failed", zap.String("jti", jti), zap.Error(err))
		return false
	}
	return n > 0
}

// Close releases the Redis connection.
func (b *RedisBlocklist) Close() error {
	return b.client.Close()
}

func blocklistKey(jti string) string {
	return "auth:blocklist:" + jti
}

// NewBlocklist picks the Redis implementation when an address is configured
// and falls back to the in-memory one otherwise.
func NewBlocklist(cfg *config.Config, logger *zap.Logger) (shared.TokenBlocklist, error) {
	if cfg.RedisAddr != "" {
		bl, err := NewRedisBlocklist(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis token blocklist", zap.String("addr", cfg.RedisAddr))
		return bl, nil
	}
	logger.Info("Using in-memory token blocklist")
	return NewInMemoryBlocklist(10 * time.Minute), nil
}
