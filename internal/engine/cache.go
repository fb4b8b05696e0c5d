package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache metrics — atomic counters for thread-safe access.
var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

// PhraseCache provides 2-tier caching of provider results keyed by exact phrase:
// L1 in-memory + optional L2 Redis. L1 is fast but lost on restart. L2 survives restarts.
type PhraseCache struct {
	l1              sync.Map      // key → *cacheEntry
	rdb             *redis.Client // nil if Redis unavailable
	ttl             time.Duration // <= 0 means no expiry
	maxEntries      int
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

type cacheEntry struct {
	data      []byte
	storedAt  time.Time
	expiresAt time.Time // zero = never
}

func (e *cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// CacheOptions configures NewPhraseCache.
type CacheOptions struct {
	RedisURL        string // empty disables L2
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// NewPhraseCache sets up the 2-tier cache. An unreachable Redis disables L2
// instead of failing.
func NewPhraseCache(ctx context.Context, opts CacheOptions) *PhraseCache {
	c := &PhraseCache{
		ttl:             opts.TTL,
		maxEntries:      opts.MaxEntries,
		cleanupInterval: opts.CleanupInterval,
		stop:            make(chan struct{}),
	}

	if opts.RedisURL != "" {
		ropts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(ropts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", ropts.Addr))
			}
		}
	}

	slog.Info("cache: initialized",
		slog.Duration("ttl", c.ttl),
		slog.Bool("redis", c.rdb != nil),
		slog.Int("max_entries", c.maxEntries))

	if c.ttl > 0 {
		go c.cleanupLoop()
	}
	return c
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("yp:%x", hash[:12]) // 24-char hex prefix
}

func phraseKey(phrase string) string {
	return CacheKey("yt_search", phrase)
}

// Get tries L1, then L2. On L2 hit, populates L1.
// Every call returns a freshly decoded slice, so callers may not alias cached state.
func (c *PhraseCache) Get(ctx context.Context, phrase string) ([]RawResult, bool) {
	key := phraseKey(phrase)

	if val, ok := c.l1.Load(key); ok {
		entry := val.(*cacheEntry)
		if !entry.expired(time.Now()) {
			var out []RawResult
			if json.Unmarshal(entry.data, &out) == nil {
				slog.Debug("cache: L1 hit", slog.String("phrase", phrase))
				cacheHits.Add(1)
				return out, true
			}
		}
		c.l1.Delete(key) // expired or corrupt
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var out []RawResult
			if json.Unmarshal(data, &out) == nil {
				slog.Debug("cache: L2 hit", slog.String("phrase", phrase))
				cacheHits.Add(1)
				c.storeL1(key, data)
				return out, true
			}
		}
	}

	cacheMisses.Add(1)
	return nil, false
}

// Put stores results in both L1 and L2.
func (c *PhraseCache) Put(ctx context.Context, phrase string, results []RawResult) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	key := phraseKey(phrase)

	c.evictIfNeeded()
	c.storeL1(key, data)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, max(c.ttl, 0)).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

func (c *PhraseCache) storeL1(key string, data []byte) {
	now := time.Now()
	entry := &cacheEntry{data: data, storedAt: now}
	if c.ttl > 0 {
		entry.expiresAt = now.Add(c.ttl)
	}
	c.l1.Store(key, entry)
}

// Len reports the number of L1 entries.
func (c *PhraseCache) Len() int {
	n := 0
	c.l1.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the cleanup goroutine and releases the Redis client.
func (c *PhraseCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// CacheStats returns current cache hit/miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// evictIfNeeded removes entries when L1 reaches maxEntries.
// Removes expired entries first, then oldest entries if still over limit.
func (c *PhraseCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := c.Len()
	if count < c.maxEntries {
		return
	}

	// Phase 1: remove expired
	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && entry.expired(now) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	// Phase 2: remove oldest entries until under limit
	for count >= c.maxEntries {
		var oldestKey any
		var oldestAt time.Time
		c.l1.Range(func(key, val any) bool {
			if entry, ok := val.(*cacheEntry); ok {
				if oldestKey == nil || entry.storedAt.Before(oldestAt) {
					oldestKey = key
					oldestAt = entry.storedAt
				}
			}
			return true
		})
		if oldestKey == nil {
			break
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

// cleanupLoop periodically removes expired L1 entries.
func (c *PhraseCache) cleanupLoop() {
	interval := c.cleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.l1.Range(func(key, val any) bool {
				if entry, ok := val.(*cacheEntry); ok && entry.expired(now) {
					c.l1.Delete(key)
				}
				return true
			})
		}
	}
}
