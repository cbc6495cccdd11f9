package cache

import (
	"testing"
	"time"
)

func TestSetGetDelete(t *testing.T) {
	c := NewMemory(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit on empty cache")
	}

	c.Set("k", 42, time.Minute)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Errorf("expected 42, got %v (hit=%v)", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("value survived delete")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewMemory(time.Minute, time.Minute)
	c.Set("k", "v", 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("value survived its TTL")
	}
}
