package fimcp

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/fiadvisor"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a fetched profile stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// Cache is a read-through Fetcher keyed by phone.
//
// Concurrent misses on the same phone share a single fetch, bounded by the
// fetcher's own timeout. Failures are not cached. Callers get their own copy
// of the profile.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	profile *fiadvisor.Profile
	expires time.Time
}

// NewCache wraps f. A non positive ttl means DefaultCacheTTL.
func NewCache(f Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		fetcher: f,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// FetchProfile returns the cached profile for phone, fetching it when missing or stale.
//
// The shared fetch does not inherit the cancellation of the caller that started
// it, each caller only stops waiting when its own ctx is done.
func (c *Cache) FetchProfile(ctx context.Context, phone string) (*fiadvisor.Profile, error) {
	if p, ok := c.lookup(phone); ok {
		return p.Clone(), nil
	}
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(phone, func() (any, error) {
		// another call may have filled the entry while we were waiting for the group.
		if p, ok := c.lookup(phone); ok {
			return p, nil
		}
		p, err := c.fetcher.FetchProfile(fetchCtx, phone)
		if err != nil {
			return nil, err
		}
		c.store(phone, p)
		return p, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*fiadvisor.Profile).Clone(), nil
	}
}

// Invalidate drops the entry for phone.
func (c *Cache) Invalidate(phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, phone)
}

func (c *Cache) lookup(phone string) (*fiadvisor.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[phone]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, phone)
		return nil, false
	}
	return e.profile, true
}

func (c *Cache) store(phone string, p *fiadvisor.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[phone] = cacheEntry{profile: p, expires: c.now().Add(c.ttl)}
}
