package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scamtrap-lab/internal/config"
	"scamtrap-lab/pkg/logger"
)

// RedisCache wraps the Redis client with typed operations
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.key(key)).Result()
}

// GetJSON retrieves and unmarshals a JSON value from cache
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value in cache with optional TTL
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

// SetJSON marshals and stores a value in cache
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, string(data), ttl)
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.key(k)
	}
	return c.client.Del(ctx, prefixedKeys...).Err()
}

// Exists checks if a key exists
func (c *RedisCache) Exists(ctx context.Context, keys ...string) (int64, error) {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.key(k)
	}
	return c.client.Exists(ctx, prefixedKeys...).Result()
}

// Expire sets a TTL on a key
func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, c.key(key), ttl).Err()
}

// Incr increments an integer value
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, c.key(key)).Result()
}

// Pipeline returns a Redis pipeline for batch operations
func (c *RedisCache) Pipeline() redis.Pipeliner {
	return c.client.Pipeline()
}

// Cache key constants
const (
	// Link analysis result cache
	KeyLinkReportPrefix = "cache:link:"

	// WHOIS age cache
	KeyDomainAgePrefix = "cache:whois:"

	// Rate limiting keys
	KeyRateLimitPrefix = "rate_limit:"
)

// CacheLinkReport caches a link analysis result keyed by URL
func (c *RedisCache) CacheLinkReport(ctx context.Context, url string, report any, ttl time.Duration) error {
	return c.SetJSON(ctx, KeyLinkReportPrefix+url, report, ttl)
}

// GetCachedLinkReport retrieves a cached link analysis result
func (c *RedisCache) GetCachedLinkReport(ctx context.Context, url string, dest any) error {
	return c.GetJSON(ctx, KeyLinkReportPrefix+url, dest)
}

// CacheDomainAge caches a domain age lookup keyed by registrable domain
func (c *RedisCache) CacheDomainAge(ctx context.Context, domain string, record any, ttl time.Duration) error {
	return c.SetJSON(ctx, KeyDomainAgePrefix+domain, record, ttl)
}

// GetCachedDomainAge retrieves a cached domain age lookup
func (c *RedisCache) GetCachedDomainAge(ctx context.Context, domain string, dest any) error {
	return c.GetJSON(ctx, KeyDomainAgePrefix+domain, dest)
}

// CheckRateLimit checks and increments the rate limit counter
// Returns (allowed, remaining, resetTime, error)
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey := fmt.Sprintf("%s%s:%d", KeyRateLimitPrefix, key, now.Unix()/int64(window.Seconds()))

	pipe := c.Pipeline()
	incr := pipe.Incr(ctx, c.key(windowKey))
	pipe.Expire(ctx, c.key(windowKey), window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := now.Add(window)

	return count <= limit, remaining, resetTime, nil
}
