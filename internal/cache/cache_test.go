package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetOrComputeWithinTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return now }, nil)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "result", nil
	}

	for i := 0; i < 2; i++ {
		got, err := c.GetOrCompute("k", 15*time.Minute, compute)
		if err != nil {
			t.Fatalf("GetOrCompute() error = %v", err)
		}
		if got != "result" {
			t.Errorf("GetOrCompute() = %v, want result", got)
		}
	}

	if calls != 1 {
		t.Errorf("computeFn called %d times within TTL, want 1", calls)
	}
}

func TestGetOrComputeAfterExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return now }, nil)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrCompute("k", 15*time.Minute, compute); err != nil {
		t.Fatal(err)
	}

	now = now.Add(16 * time.Minute)

	got, err := c.GetOrCompute("k", 15*time.Minute, compute)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("computeFn called %d times across expiry, want 2", calls)
	}
	if got != 2 {
		t.Errorf("GetOrCompute() after expiry = %v, want recomputed value 2", got)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return now }, nil)

	wantErr := errors.New("storage down")
	_, err := c.GetOrCompute("k", time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("GetOrCompute() error = %v, want %v", err, wantErr)
	}

	// A failed compute must not poison the cache
	got, err := c.GetOrCompute("k", time.Minute, func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Errorf("GetOrCompute() after failure = %v, %v; want ok, nil", got, err)
	}
}

func TestCleanupRemovesExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(func() time.Time { return now }, nil)

	c.GetOrCompute("a", time.Minute, func() (interface{}, error) { return 1, nil })
	c.GetOrCompute("b", time.Hour, func() (interface{}, error) { return 2, nil })

	now = now.Add(30 * time.Minute)
	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", c.Len())
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("adhoc", "conversations", `{"groupBy":"country"}`)
	b := Key("adhoc", "conversations", `{"groupBy":"country"}`)
	if a != b {
		t.Errorf("Key() not stable: %s != %s", a, b)
	}
	if a == Key("adhoc", "customers", `{"groupBy":"country"}`) {
		t.Error("Key() collides across different report types")
	}
}
