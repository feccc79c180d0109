package agenda

import (
	"sync"
	"time"
)

// ttlCache holds the last fetched event list behind a TTL. The upstream
// backend is slow and rate-limited, so reads inside the TTL never hit it.
type ttlCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	events    []Event
	fetchedAt time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{ttl: ttl}
}

// get returns the cached events and whether they are still fresh.
func (c *ttlCache) get(now time.Time) ([]Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fetchedAt.IsZero() || now.Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.events, true
}

// put stores a freshly fetched event list.
func (c *ttlCache) put(events []Event, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
	c.fetchedAt = now
}

// invalidate drops the cached list.
func (c *ttlCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
	c.fetchedAt = time.Time{}
}
