package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CacheKey uniquely identifies a cached transcript.
type CacheKey struct {
	Ref      VideoRef
	Language string
}

func (k CacheKey) String() string { return string(k.Ref) + ":" + k.Language }

type cacheEntry struct {
	transcript *Transcript
	err        error // negative entry when set; transcript is nil
	insertedAt time.Time
}

// Cache provides 2-tier transcript caching: L1 in-memory LRU + optional L2
// Redis. L1 is bounded by maxSize and evicts least-recently-used; TTL is
// resolved lazily on access, never by a background refresher. A singleflight
// group guarantees at most one concurrent fetch per key: concurrent callers
// for the same uncached key share one in-flight fetch and one result.
type Cache struct {
	l1     *lru.Cache[CacheKey, *cacheEntry]
	rdb    *redis.Client // nil if L2 disabled
	ttl    time.Duration
	negTTL time.Duration // 0 disables negative caching
	group  singleflight.Group

	now func() time.Time
}

// NewCache builds the cache. redisURL can be empty to run L1-only; an
// unreachable Redis downgrades to L1-only with a warning rather than failing.
func NewCache(maxSize int, ttl, negTTL time.Duration, redisURL string) (*Cache, error) {
	l1, err := lru.New[CacheKey, *cacheEntry](maxSize)
	if err != nil {
		return nil, err
	}
	c := &Cache{l1: l1, ttl: ttl, negTTL: negTTL, now: time.Now}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}
	return c, nil
}

// FetchFunc produces a transcript for a key on cache miss. The cache invokes
// it at most once per key at a time.
type FetchFunc func(ctx context.Context) (*Transcript, error)

// GetOrFetch returns the cached transcript for key, or runs fetch to produce
// it. On a fresh hit it returns immediately without invoking fetch, so hits
// never consume rate-limit budget. Failures are not cached, except NotFound
// and LanguageUnavailable when negative caching is enabled.
func (c *Cache) GetOrFetch(ctx context.Context, key CacheKey, fetch FetchFunc) (*Transcript, error) {
	if entry, ok := c.lookup(key); ok {
		metrics.CacheHits.Add(1)
		return entry.transcript, entry.err
	}
	metrics.CacheMisses.Add(1)

	// The in-flight fetch belongs to the cache, not to any one caller:
	// a caller that cancels stops waiting, but the fetch keeps running for
	// everyone else, hence WithoutCancel. Source timeouts still bound it.
	ch := c.group.DoChan(key.String(), func() (any, error) {
		tr, err := c.fill(context.WithoutCancel(ctx), key, fetch)
		if err != nil {
			return nil, err
		}
		return tr, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Transcript), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup checks L1 for a non-expired entry. A hit may itself be a negatively
// cached error.
func (c *Cache) lookup(key CacheKey) (*cacheEntry, bool) {
	entry, ok := c.l1.Get(key)
	if !ok {
		return nil, false
	}
	ttl := c.ttl
	if entry.err != nil {
		ttl = c.negTTL
	}
	if c.now().Sub(entry.insertedAt) > ttl {
		c.l1.Remove(key)
		return nil, false
	}
	return entry, true
}

// fill runs inside singleflight: re-check L1 (a sibling may have just filled
// it), then L2, then the source fetch.
func (c *Cache) fill(ctx context.Context, key CacheKey, fetch FetchFunc) (*Transcript, error) {
	if entry, ok := c.lookup(key); ok {
		if entry.err != nil {
			return nil, entry.err
		}
		return entry.transcript, nil
	}

	if tr, ok := c.l2Get(ctx, key); ok {
		c.l1.Add(key, &cacheEntry{transcript: tr, insertedAt: c.now()})
		return tr, nil
	}

	tr, err := fetch(ctx)
	if err != nil {
		if c.negTTL > 0 && (errors.Is(err, ErrNotFound) || errors.Is(err, ErrLanguageUnavailable)) {
			c.l1.Add(key, &cacheEntry{err: err, insertedAt: c.now()})
		}
		return nil, err
	}

	c.l1.Add(key, &cacheEntry{transcript: tr, insertedAt: c.now()})
	c.l2Set(ctx, key, tr)
	return tr, nil
}

func (c *Cache) l2Get(ctx context.Context, key CacheKey) (*Transcript, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, "yt:"+key.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var tr Transcript
	if json.Unmarshal(data, &tr) != nil {
		return nil, false
	}
	slog.Debug("cache: L2 hit", slog.String("key", key.String()))
	return &tr, true
}

func (c *Cache) l2Set(ctx context.Context, key CacheKey, tr *Transcript) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, "yt:"+key.String(), data, c.ttl).Err(); err != nil {
		slog.Debug("cache: L2 set failed", slog.Any("error", err))
	}
}

// Len reports the current L1 entry count.
func (c *Cache) Len() int { return c.l1.Len() }

// CacheStats returns the process-wide hit/miss counters.
func CacheStats() (hits, misses int64) {
	return metrics.CacheHits.Load(), metrics.CacheMisses.Load()
}
