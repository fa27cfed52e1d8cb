package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	data      interface{}
	expiresAt time.Time
}

// TTLCache is a process-local fixed-TTL map keyed by request signature.
// Entries are never invalidated explicitly; they expire or get
// overwritten by a recompute. Concurrent writes on the same key are
// last-write-wins, which is fine because cached values are idempotent
// recomputations.
type TTLCache struct {
	mu     sync.RWMutex
	data   map[string]entry
	now    func() time.Time
	log    *zap.Logger
	stopCh chan struct{}
}

// New creates a cache with the real clock and a background cleanup loop.
func New(cleanupInterval time.Duration, log *zap.Logger) *TTLCache {
	c := NewWithClock(time.Now, log)
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	go c.cleanupLoop(cleanupInterval)
	return c
}

// NewWithClock creates a cache with an injectable clock and no cleanup
// loop. Used by tests to drive expiry deterministically.
func NewWithClock(now func() time.Time, log *zap.Logger) *TTLCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &TTLCache{
		data:   make(map[string]entry),
		now:    now,
		log:    log,
		stopCh: make(chan struct{}),
	}
}

// GetOrCompute returns the cached value for key if it is still fresh,
// otherwise calls computeFn, stores the result with the given TTL and
// returns it. A miss is the normal path, not an error.
func (c *TTLCache) GetOrCompute(key string, ttl time.Duration, computeFn func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expiresAt) {
		return e.data, nil
	}

	data, err := computeFn()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data[key] = entry{data: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()

	return data, nil
}

// Len reports the number of entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *TTLCache) Close() {
	close(c.stopCh)
}

func (c *TTLCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *TTLCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for key, e := range c.data {
		if e.expiresAt.Before(now) {
			delete(c.data, key)
			expired++
		}
	}

	if expired > 0 {
		c.log.Debug("Cache cleanup completed", zap.Int("expired_entries", expired))
	}
}

// Key builds a stable cache key from the request signature parts
// (reportID or "adhoc", report type, serialized config).
func Key(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}
