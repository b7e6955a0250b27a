// Package cache is a small in-process key/value store with TTL and tags.
// Instances are owned by their user; there is no shared global cache.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type Cache struct {
	mu       sync.RWMutex
	items    map[interface{}]cacheItem
	tagIndex map[string]map[interface{}]struct{}
	now      func() time.Time
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt int64 // unix nanoseconds; 0 means no expiration
}

func NewCache() *Cache {
	return &Cache{
		items:    make(map[interface{}]cacheItem),
		tagIndex: make(map[string]map[interface{}]struct{}),
		now:      time.Now,
	}
}

// Set stores value under key. ttl is in seconds, 0 means no expiration.
func (c *Cache) Set(key, value interface{}, ttl int64, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(time.Duration(ttl) * time.Second).UnixNano()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{Value: value, ExpiresAt: expiresAt}
	for _, tag := range tags {
		keys, ok := c.tagIndex[tag]
		if !ok {
			keys = make(map[interface{}]struct{})
			c.tagIndex[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// Get returns (value, true) if key is present and not expired.
func (c *Cache) Get(key interface{}) (interface{}, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if item.ExpiresAt > 0 && c.now().UnixNano() > item.ExpiresAt {
		c.Delete(key)
		return nil, false
	}
	return item.Value, true
}

func (c *Cache) GetOrDefault(key, defaultValue interface{}) interface{} {
	if v, ok := c.Get(key); ok {
		return v
	}
	return defaultValue
}

// Delete removes key and drops it from every tag.
func (c *Cache) Delete(key interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(key)
}

func (c *Cache) deleteLocked(key interface{}) {
	delete(c.items, key)
	for tag, keys := range c.tagIndex {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.tagIndex, tag)
		}
	}
}

func makeCompositeKey(keys ...interface{}) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "|")
}

// SetN stores value under a composite key.
func (c *Cache) SetN(keys []interface{}, value interface{}, ttl int64, tags []string) {
	c.Set(makeCompositeKey(keys...), value, ttl, tags)
}

func (c *Cache) GetN(keys ...interface{}) (interface{}, bool) {
	return c.Get(makeCompositeKey(keys...))
}

func (c *Cache) GetKeysByTag(tag string) []interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var keys []interface{}
	for k := range c.tagIndex[tag] {
		keys = append(keys, k)
	}
	return keys
}

// DeleteByTag removes every entry carrying tag.
func (c *Cache) DeleteByTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.tagIndex[tag] {
		c.deleteLocked(k)
	}
	delete(c.tagIndex, tag)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
