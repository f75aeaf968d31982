package cache

import (
	"context"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(&Config{KeyPrefix: "test"})
	t.Cleanup(func() {
		mc.Close()
	})
	return mc
}

func TestMemoryCache_SetGet(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	if err := mc.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := mc.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value1" {
		t.Errorf("expected value1, got %q", got)
	}
}

func TestMemoryCache_GetMissing(t *testing.T) {
	mc := newTestCache(t)

	got, err := mc.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing key, got %q", got)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	mc.Set(ctx, "key1", []byte("value1"), 0)
	if err := mc.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, _ := mc.Get(ctx, "key1")
	if got != nil {
		t.Errorf("expected nil after delete, got %q", got)
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	mc.Set(ctx, "key1", []byte("value1"), 10*time.Millisecond)

	got, _ := mc.Get(ctx, "key1")
	if got == nil {
		t.Fatal("expected value before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	got, _ = mc.Get(ctx, "key1")
	if got != nil {
		t.Errorf("expected nil after expiry, got %q", got)
	}
}

func TestMemoryCache_ValueIsolation(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	original := []byte("value1")
	mc.Set(ctx, "key1", original, 0)
	original[0] = 'X'

	got, _ := mc.Get(ctx, "key1")
	if string(got) != "value1" {
		t.Errorf("cached value must be isolated from the caller, got %q", got)
	}

	got[0] = 'Y'
	again, _ := mc.Get(ctx, "key1")
	if string(again) != "value1" {
		t.Errorf("returned value must be a copy, got %q", again)
	}
}

func TestMemoryCache_Health(t *testing.T) {
	mc := newTestCache(t)

	health := mc.Health(context.Background())
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %q", health.Status)
	}
}
