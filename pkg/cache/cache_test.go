package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c := New[string]()
	c.now = func() time.Time { return now }

	c.SetWithTTL("a", "alpha", time.Minute)
	c.SetWithTTL("b", "beta", time.Hour)

	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) returned an expired entry")
	}
	if v, ok := c.Get("b"); !ok || v != "beta" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
}

func TestCacheUpdate(t *testing.T) {
	c := New[int]()
	if _, err := c.Update("n", time.Minute, func(v int) (int, error) { return v + 1, nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update on missing key error = %v, want ErrNotFound", err)
	}

	c.SetWithTTL("n", 1, time.Minute)
	got, err := c.Update("n", time.Minute, func(v int) (int, error) { return v + 1, nil })
	if err != nil || got != 2 {
		t.Fatalf("Update() = %d, %v", got, err)
	}

	boom := errors.New("boom")
	if _, err := c.Update("n", time.Minute, func(int) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("Update() error = %v, want boom", err)
	}
	if v, _ := c.Get("n"); v != 2 {
		t.Errorf("failed update changed value to %d", v)
	}
}

func TestCacheSweep(t *testing.T) {
	now := time.Now()
	c := New[int]()
	c.now = func() time.Time { return now }

	c.SetWithTTL("short", 1, time.Second)
	c.SetWithTTL("long", 2, time.Hour)
	now = now.Add(time.Minute)

	if removed := c.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
