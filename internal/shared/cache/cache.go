// Package cache memoizes function results for a fixed time window.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-memory TTL store. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the storage key for a call: the function name followed by an
// md5 digest of its arguments. Keeping the name readable lets Clear drop
// every entry of one function.
func Key(name string, args ...any) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%v", args)))
	return name + ":" + hex.EncodeToString(sum[:])
}

// InstanceID returns a fresh id for MemoizeMethod receivers.
func InstanceID() string {
	return uuid.NewString()
}

// Get returns the stored value when it has not expired yet.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value for ttl and drops every entry that has already expired.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}
}

// Clear removes entries whose key starts with prefix. An empty prefix
// empties the cache.
func (c *Cache) Clear(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		c.entries = make(map[string]entry)
		return
	}
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Memoize wraps fn so that results are reused for ttl after the first call
// with the same argument. Errors are returned but never stored.
func Memoize[K comparable, V any](c *Cache, name string, ttl time.Duration, fn func(context.Context, K) (V, error)) func(context.Context, K) (V, error) {
	return func(ctx context.Context, arg K) (V, error) {
		key := Key(name, arg)
		if v, ok := c.Get(key); ok {
			return v.(V), nil
		}

		v, err := fn(ctx, arg)
		if err != nil {
			return v, err
		}
		c.Set(key, v, ttl)
		return v, nil
	}
}

// MemoizeMethod is Memoize for a method: instance keeps results of two
// receivers apart.
func MemoizeMethod[K comparable, V any](c *Cache, instance, name string, ttl time.Duration, fn func(context.Context, K) (V, error)) func(context.Context, K) (V, error) {
	return Memoize(c, name+"@"+instance, ttl, fn)
}
