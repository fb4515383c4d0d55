package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/agentlift/agentlift/internal/config"
	"github.com/agentlift/agentlift/internal/domain"
)

// Cache provides Redis caching functionality
type Cache struct {
	client    *redis.Client
	resultTTL time.Duration
}

// Key prefixes for different cache types
const (
	PrefixResult    = "result:"
	PrefixRun       = "run:"
	PrefixRateLimit = "ratelimit:"
)

// Default TTLs
const (
	DefaultTTL       = 15 * time.Minute
	DefaultResultTTL = 24 * time.Hour
	RateLimitWindow  = 1 * time.Minute
)

// New creates a new Redis cache client
func New(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	resultTTL := cfg.ResultTTL
	if resultTTL <= 0 {
		resultTTL = DefaultResultTTL
	}

	return &Cache{client: client, resultTTL: resultTTL}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health checks Redis connectivity
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client for advanced operations
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Analysis result caching, keyed by a content hash of the raw export so
// re-uploading the same file skips the pipeline.

// ContentHash returns the cache key material for a raw bot export
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// CachedAnalysis is the envelope stored per content hash. It carries enough
// to complete a run without re-running the pipeline.
type CachedAnalysis struct {
	Bot      *domain.NormalizedBot       `json:"bot"`
	Result   *domain.DeltaAnalysisResult `json:"result"`
	Warnings []string                    `json:"warnings,omitempty"`
}

// GetResult retrieves a cached analysis by content hash. A nil value with
// nil error means a cache miss.
func (c *Cache) GetResult(ctx context.Context, contentHash string) (*CachedAnalysis, error) {
	key := PrefixResult + contentHash
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedAnalysis
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

// SetResult caches an analysis by content hash
func (c *Cache) SetResult(ctx context.Context, contentHash string, cached *CachedAnalysis) error {
	key := PrefixResult + contentHash
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.resultTTL).Err()
}

// InvalidateResult removes a cached result
func (c *Cache) InvalidateResult(ctx context.Context, contentHash string) error {
	key := PrefixResult + contentHash
	return c.client.Del(ctx, key).Err()
}

// Run status caching

// GetRunStatus retrieves cached analysis run status
func (c *Cache) GetRunStatus(ctx context.Context, id uuid.UUID) (domain.RunStatus, error) {
	key := PrefixRun + id.String() + ":status"
	status, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return domain.RunStatus(status), nil
}

// SetRunStatus caches analysis run status
func (c *Cache) SetRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	key := PrefixRun + id.String() + ":status"
	return c.client.Set(ctx, key, string(status), DefaultTTL).Err()
}

// InvalidateRunStatus removes a cached run status
func (c *Cache) InvalidateRunStatus(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, PrefixRun+id.String()+":status").Err()
}

// Rate limiting

// CheckRateLimit checks and increments rate limit counter
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error) {
	fullKey := PrefixRateLimit + key

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, RateLimitWindow)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

// GetRateLimitRemaining returns remaining rate limit
func (c *Cache) GetRateLimitRemaining(ctx context.Context, key string, limit int) (int, error) {
	fullKey := PrefixRateLimit + key
	count, err := c.client.Get(ctx, fullKey).Int()
	if err != nil {
		if err == redis.Nil {
			return limit, nil
		}
		return 0, err
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

// Generic caching methods

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value in cache
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a value from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching a pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}

	return nil
}
