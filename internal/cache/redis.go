package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// RedisCache implements the Cache interface using Redis
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	config    *Config
}

// NewRedisCache creates a new Redis cache instance and verifies the
// connection before returning
func NewRedisCache(config *Config) (*RedisCache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if config.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opts := &redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.Database,
	}

	if config.Timeout > 0 {
		opts.DialTimeout = config.Timeout
		opts.ReadTimeout = config.Timeout
		opts.WriteTimeout = config.Timeout
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client:    client,
		keyPrefix: config.KeyPrefix,
		config:    config,
	}, nil
}

// getKey returns the full key with prefix
func (rc *RedisCache) getKey(key string) string {
	if rc.keyPrefix == "" {
		return key
	}
	return rc.keyPrefix + ":" + key
}

// Get retrieves a value by key
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := rc.client.Get(ctx, rc.getKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return []byte(result), nil
}

// Set stores a value by key with optional TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	if err := rc.client.Set(ctx, rc.getKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

// Delete removes a key
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.client.Del(ctx, rc.getKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

// Health returns the health status of the cache
func (rc *RedisCache) Health(ctx context.Context) showcase.HealthStatus {
	health := showcase.HealthStatus{
		Status:    "healthy",
		Message:   "redis cache is operational",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"type":     "redis",
			"address":  rc.config.Address,
			"database": rc.config.Database,
		},
	}

	if err := rc.client.Ping(ctx).Err(); err != nil {
		health.Status = "unhealthy"
		health.Message = fmt.Sprintf("redis connection failed: %v", err)
		health.Details["error"] = err.Error()
	}

	return health
}

// Close closes the cache connection
func (rc *RedisCache) Close() error {
	if rc.client != nil {
		return rc.client.Close()
	}
	return nil
}
