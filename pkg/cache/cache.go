// Package cache memoizes encoded stats responses, in process or in Redis.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/hazyhaar/vaxatlas/pkg/metrics"
)

// Cache stores opaque encoded values by key. Misses and backend errors look
// the same to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Key builds a stable key from a level, a target and an indicator set.
// Indicator order does not matter.
func Key(level, target string, indicators []string) string {
	ind := append([]string(nil), indicators...)
	sort.Strings(ind)
	return "stats:" + level + ":" + target + ":" + strings.Join(ind, ",")
}

// LRU is an in-process cache with per-entry expiry.
type LRU struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRU returns a cache holding at most size entries for ttl each.
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = 1024
	}
	return &LRU{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.lru.Get(key)
	count(ok)
	return v, ok
}

func (c *LRU) Set(_ context.Context, key string, value []byte) {
	c.lru.Add(key, value)
}

// Len returns the number of live entries.
func (c *LRU) Len() int { return c.lru.Len() }

// Redis shares cached values between replicas.
type Redis struct {
	rc     *redis.Client
	ttl    time.Duration
	prefix string
}

// OpenRedis returns nil when addr is empty.
func OpenRedis(addr, password string, db int, ttl time.Duration) *Redis {
	if addr == "" {
		return nil
	}
	rc := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Redis{rc: rc, ttl: ttl, prefix: "vaxatlas:"}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rc.Get(ctx, c.prefix+key).Bytes()
	ok := err == nil
	count(ok)
	return b, ok
}

func (c *Redis) Set(ctx context.Context, key string, value []byte) {
	_ = c.rc.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

// Ping checks connectivity.
func (c *Redis) Ping(ctx context.Context) error {
	return c.rc.Ping(ctx).Err()
}

// Close releases the client connections.
func (c *Redis) Close() error {
	return c.rc.Close()
}

func count(hit bool) {
	if hit {
		metrics.CacheHitsTotal.Inc()
	} else {
		metrics.CacheMissesTotal.Inc()
	}
}
