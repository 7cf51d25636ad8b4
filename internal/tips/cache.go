package tips

import (
	"sync"
	"time"
)

// Clock supplies the current time to the cache.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

type cacheEntry struct {
	tips      []string
	expiresAt time.Time
}

// Cache holds generated tips per user. Expired entries are ignored on read
// and replaced by the next Set.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	entries map[int]cacheEntry
}

func NewCache(ttl time.Duration, clock Clock) *Cache {
	if clock == nil {
		clock = SystemClock
	}
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[int]cacheEntry),
	}
}

func (c *Cache) Get(userID int) ([]string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		return nil, false
	}
	return append([]string(nil), entry.tips...), true
}

func (c *Cache) Set(userID int, tips []string) {
	entry := cacheEntry{
		tips:      append([]string(nil), tips...),
		expiresAt: c.clock.Now().Add(c.ttl),
	}

	c.mu.Lock()
	c.entries[userID] = entry
	c.mu.Unlock()
}
