// Package cache stores JSON payloads in a kvstore.Store with an absolute expiry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/arcash/kvstore"
	"github.com/rs/zerolog/log"
)

// DefaultPrefix namespaces cache keys under the client's storage prefix.
const DefaultPrefix = "arcash_cache_"

// Entry is the stored form of a cached payload.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Expiry    time.Time       `json:"expiry"`
}

// Valid reports whether the entry may be served at now. The boundary is inclusive.
func (e Entry) Valid(now time.Time) bool {
	return !now.After(e.Expiry)
}

// Cache is a TTL cache. Last write wins; there is no size bound.
type Cache struct {
	store   kvstore.Store
	prefix  string
	nowTime func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Cache) {
		c.nowTime = nowFunc
	}
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a cache over store.
func New(store kvstore.Store, options ...Option) *Cache {
	c := &Cache{
		store:   store,
		prefix:  DefaultPrefix,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Key returns the storage key for name.
func (c *Cache) Key(name string) string {
	return c.prefix + name
}

// Set stores value under name until now+ttl.
func (c *Cache) Set(ctx context.Context, name string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("[Cache Set] marshal %s: %w", name, err)
	}
	now := c.nowTime()
	data, err := json.Marshal(Entry{
		Payload:   payload,
		Timestamp: now,
		Expiry:    now.Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("[Cache Set] marshal entry %s: %w", name, err)
	}
	if err := c.store.Set(ctx, c.Key(name), data); err != nil {
		return fmt.Errorf("[Cache Set] store %s: %w", name, err)
	}
	return nil
}

// Get decodes the payload stored under name into dst and reports whether it was a hit.
// Expired entries are evicted. Read and decode failures count as a miss.
func (c *Cache) Get(ctx context.Context, name string, dst any) bool {
	key := c.Key(name)
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if !ok {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache entry corrupt")
		_ = c.store.Delete(ctx, key)
		return false
	}

	if !entry.Valid(c.nowTime()) {
		if err := c.store.Delete(ctx, key); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache evict failed")
		}
		return false
	}

	if err := json.Unmarshal(entry.Payload, dst); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache payload decode failed")
		return false
	}
	return true
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, c.Key(name)); err != nil {
		return fmt.Errorf("[Cache Invalidate] %s: %w", name, err)
	}
	return nil
}

// ClearPrefix removes every entry whose name starts with namePrefix.
// An empty namePrefix clears the whole cache namespace.
func (c *Cache) ClearPrefix(ctx context.Context, namePrefix string) (int, error) {
	n, err := c.store.DeletePrefix(ctx, c.prefix+namePrefix)
	if err != nil {
		return 0, fmt.Errorf("[Cache ClearPrefix] %s: %w", namePrefix, err)
	}
	return n, nil
}

// Fetch returns the cached value for name or calls load, caching its result.
// force skips the cached value.
func Fetch[T any](ctx context.Context, c *Cache, name string, ttl time.Duration, force bool, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if !force && c.Get(ctx, name, &cached) {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := c.Set(ctx, name, value, ttl); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("cache write failed")
	}
	return value, nil
}
