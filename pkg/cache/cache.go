// Package cache is a process-wide read cache with explicit invalidation.
// Every mutating operation names the keys (or key prefixes) it invalidates,
// so staleness is observable instead of being an implicit property of the
// cache library.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL-bounded key/value cache safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// InvalidatePrefix drops every key starting with prefix. Used to clear all
// cached balance views of one group without knowing which members were read.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// GroupBalanceKey is the cache key for one member's balance view of a group.
func GroupBalanceKey(groupID, userID int64) string {
	return fmt.Sprintf("balance:group:%d:user:%d", groupID, userID)
}

// GroupBalancePrefix covers every member's balance view of a group.
func GroupBalancePrefix(groupID int64) string {
	return fmt.Sprintf("balance:group:%d:", groupID)
}

// UserBalanceKey is the cache key for a user's global balance view.
func UserBalanceKey(userID int64) string {
	return fmt.Sprintf("balance:global:user:%d", userID)
}
