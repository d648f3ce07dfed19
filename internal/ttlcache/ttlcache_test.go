package ttlcache

import (
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New[[]string]()
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	c.Set("k", []string{"a", "b"}, time.Minute)
	got, ok := c.Get("k")
	if !ok || len(got) != 2 {
		t.Fatalf("expected hit with 2 items, got %v hit=%v", got, ok)
	}
}

func TestExpiryIsLazyAndDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := NewWithClock[string](clock, 0)

	c.Set("k", "v", time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	// Expired entry must be evicted on read, not merely hidden.
	if _, ok := c.items["k"]; ok {
		t.Fatalf("expired entry should have been removed from the map")
	}
}

func TestMaxEntriesEvictsLRU(t *testing.T) {
	c := NewWithClock[int](time.Now, 2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected 'a' to be evicted once a 3rd entry arrives")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("expected 'b' to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected 'c' to remain")
	}
}
