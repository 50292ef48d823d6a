// Package cache provides caching utilities for the MCP server.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a thread-safe, string-keyed LRU cache.
type LRU[V any] struct {
	cache *lru.Cache[string, V]
}

// New creates an LRU cache with the specified maximum number of items.
func New[V any](maxItems int) (*LRU[V], error) {
	c, err := lru.New[string, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &LRU[V]{cache: c}, nil
}

// Get retrieves a value from the cache by key.
func (c *LRU[V]) Get(key string) (V, bool) {
	return c.cache.Get(key)
}

// Put adds or updates a value in the cache.
func (c *LRU[V]) Put(key string, value V) {
	c.cache.Add(key, value)
}

// Len returns the current number of items in the cache.
func (c *LRU[V]) Len() int {
	return c.cache.Len()
}
