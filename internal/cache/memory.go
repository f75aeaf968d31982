package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Vighnesh-M-S/PM-Helper/pkg/showcase"
)

// entry represents a single entry in the memory cache
type entry struct {
	value     []byte
	expiresAt time.Time
	hasExpiry bool
}

// isExpired checks if the entry has expired
func (e *entry) isExpired() bool {
	return e.hasExpiry && time.Now().After(e.expiresAt)
}

// MemoryCache implements the Cache interface using in-process storage.
// It is the default driver when no Redis backend is configured.
type MemoryCache struct {
	data      map[string]*entry
	mu        sync.RWMutex
	stopCh    chan struct{}
	wg        sync.WaitGroup
	keyPrefix string
	started   bool
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache(config *Config) *MemoryCache {
	if config == nil {
		config = DefaultConfig()
	}

	mc := &MemoryCache{
		data:      make(map[string]*entry),
		stopCh:    make(chan struct{}),
		keyPrefix: config.KeyPrefix,
		started:   true,
	}

	mc.wg.Add(1)
	go mc.cleanupExpired()

	return mc
}

// getKey returns the full key with prefix
func (mc *MemoryCache) getKey(key string) string {
	if mc.keyPrefix == "" {
		return key
	}
	return mc.keyPrefix + ":" + key
}

// Get retrieves a value by key
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	existing, exists := mc.data[mc.getKey(key)]
	if !exists || existing.isExpired() {
		return nil, nil
	}

	// Return a copy so callers cannot mutate the cached value
	result := make([]byte, len(existing.value))
	copy(result, existing.value)
	return result, nil
}

// Set stores a value by key with optional TTL
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e := &entry{
		value:     make([]byte, len(value)),
		hasExpiry: ttl > 0,
	}
	copy(e.value, value)

	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	mc.data[mc.getKey(key)] = e
	return nil
}

// Delete removes a key
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.data, mc.getKey(key))
	return nil
}

// Health returns the health status of the cache
func (mc *MemoryCache) Health(ctx context.Context) showcase.HealthStatus {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return showcase.HealthStatus{
		Status:    "healthy",
		Message:   "memory cache is operational",
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"type":       "memory",
			"keys_count": len(mc.data),
		},
	}
}

// Close stops the cleanup goroutine and clears all data
func (mc *MemoryCache) Close() error {
	mc.mu.Lock()
	if !mc.started {
		mc.mu.Unlock()
		return nil
	}
	mc.started = false
	close(mc.stopCh)
	mc.mu.Unlock()

	mc.wg.Wait()

	mc.mu.Lock()
	mc.data = make(map[string]*entry)
	mc.mu.Unlock()

	return nil
}

// cleanupExpired removes expired entries periodically
func (mc *MemoryCache) cleanupExpired() {
	defer mc.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.performCleanup()
		case <-mc.stopCh:
			return
		}
	}
}

// performCleanup removes expired entries
func (mc *MemoryCache) performCleanup() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	for key, e := range mc.data {
		if e.hasExpiry && now.After(e.expiresAt) {
			delete(mc.data, key)
		}
	}
}
