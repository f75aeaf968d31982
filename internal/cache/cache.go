// Package cache provides a pluggable byte cache used to serve hot portfolio
// listings without hitting the repository on every request.
package cache

import (
	"context"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// Cache is the minimal key/value contract the showcase service needs.
// A nil result from Get with a nil error means the key is absent.
type Cache interface {
	// Get retrieves a value by key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value by key with optional TTL (0 means no expiration)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Health returns the health status of the cache
	Health(ctx context.Context) showcase.HealthStatus

	// Close releases resources held by the cache
	Close() error
}

// Config holds driver-independent cache configuration
type Config struct {
	// Address is the backend address (redis only)
	Address string

	// Password is the backend password (redis only)
	Password string

	// Database is the backend database number (redis only)
	Database int

	// KeyPrefix is prepended to every key to namespace the cache
	KeyPrefix string

	// Timeout applies to dial, read and write operations (redis only)
	Timeout time.Duration
}

// DefaultConfig returns a Config suitable for local development
func DefaultConfig() *Config {
	return &Config{
		Address:   "localhost:6379",
		KeyPrefix: "pmhelper",
		Timeout:   5 * time.Second,
	}
}
