package caching

import (
	"crypto/sha256"
	"fmt"
	"sync"
)

// Cache is an in-memory, write-once store keyed by the SHA256 of a URL.
// The first value stored for a URL wins; later writes are ignored.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
}

type entry[V any] struct {
	url   string
	value V
}

// NewCache creates an empty Cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]entry[V])}
}

// Key generates a SHA256 hash of the URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", hash)
}

// Set stores value for url unless one is already present.
// It reports whether the value was stored.
func (c *Cache[V]) Set(url string, value V) bool {
	k := Key(url)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; ok {
		return false
	}
	c.entries[k] = entry[V]{url: url, value: value}
	return true
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot copies the cache into a map keyed by URL.
func (c *Cache[V]) Snapshot() map[string]V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]V, len(c.entries))
	for _, e := range c.entries {
		out[e.url] = e.value
	}
	return out
}
