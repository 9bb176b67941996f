package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"k8s.io/utils/lru"

	"wstok/internal/driver"
	"wstok/internal/lexer"
	"wstok/internal/source"
	"wstok/internal/token"
)

// ResultCache stores tokenization results by request key.
type ResultCache interface {
	Get(ctx context.Context, key string) (token.List, bool, error)
	Set(ctx context.Context, key string, list token.List) error
}

// Pinger is implemented by caches backed by a remote store; /readyz uses it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheKey identifies a result by input and every option that shapes it.
func CacheKey(text string, unit lexer.OffsetUnit, norm source.Normalization) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s/%s/", unit, norm)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache is a bounded in-process LRU with optional expiry.
type MemoryCache struct {
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time
}

type memoryEntry struct {
	list    token.List
	expires time.Time // zero: never
}

// NewMemoryCache keeps at most size results; ttl <= 0 disables expiry.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: lru.New(max(size, 1)), ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (token.List, bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	entry := v.(memoryEntry)
	if !entry.expires.IsZero() && c.now().After(entry.expires) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return entry.list, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, list token.List) error {
	entry := memoryEntry{list: list}
	if c.ttl > 0 {
		entry.expires = c.now().Add(c.ttl)
	}
	c.lru.Add(key, entry)
	return nil
}

// Len returns the number of cached results.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// RedisCache keeps msgpack-encoded results in Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps client; keys are prefixed with "wstok:tokens:".
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "wstok:tokens:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (token.List, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	list, err := decodeCached(data)
	if err != nil {
		return nil, false, err
	}
	return list, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, list token.List) error {
	data, err := msgpack.Marshal(driver.NewDiskPayload(list))
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func decodeCached(data []byte) (token.List, error) {
	var payload driver.DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode cached tokens: %w", err)
	}
	if len(payload.Texts) != len(payload.Offsets) {
		return nil, fmt.Errorf("decode cached tokens: %d texts, %d offsets", len(payload.Texts), len(payload.Offsets))
	}
	return payload.List(), nil
}
