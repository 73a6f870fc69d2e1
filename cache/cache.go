package cache

import (
	"sync"
	"time"

	"pricescout/models"
)

// Cache is an in-memory TTL cache for scrape results. Entries are stored and
// returned by value, so a caller mutating a returned result cannot corrupt
// the stored record. Stale entries are dropped on read; a periodic Sweep
// handles keys that are never read again.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
}

type entry struct {
	result   models.ScrapeResult
	storedAt time.Time
}

// New creates an empty cache whose entries expire after ttl
func New(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]entry),
		ttl:   ttl,
	}
}

// Get returns a copy of the stored result if present and fresh. Reading an
// entry does not extend its lifetime.
func (c *Cache) Get(key string) (models.ScrapeResult, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return models.ScrapeResult{}, false
	}
	if time.Since(e.storedAt) > c.ttl {
		c.evictIfExpired(key)
		return models.ScrapeResult{}, false
	}
	return e.result.Clone(), true
}

// Set stores a result under key, replacing any previous entry and restarting
// its TTL from now. The value is cloned on the way in, so the caller keeps
// no reference into the stored record.
func (c *Cache) Set(key string, result models.ScrapeResult) {
	c.mu.Lock()
	c.items[key] = entry{result: result.Clone(), storedAt: time.Now()}
	c.mu.Unlock()
}

// evictIfExpired deletes key only if its entry is still expired. A fresh Set
// can land between a stale read and this lock; re-checking under the write
// lock keeps the new entry.
func (c *Cache) evictIfExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok && time.Since(e.storedAt) > c.ttl {
		delete(c.items, key)
	}
}

// Sweep removes all expired entries and returns how many were evicted
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.items {
		if time.Since(e.storedAt) > c.ttl {
			delete(c.items, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of entries currently held, including any that have
// expired but not yet been swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
