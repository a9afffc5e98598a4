package fetcher

import (
	"context"
	"log/slog"
	"time"
)

// Store persists fetched bodies by URL.
type Store interface {
	// Get returns the body stored for rawURL and when it was stored.
	// found is false when nothing is stored.
	Get(ctx context.Context, rawURL string) (body []byte, fetchedAt time.Time, found bool, err error)

	// Put stores body for rawURL.
	Put(ctx context.Context, rawURL string, body []byte) error
}

// CachingFetcher serves bodies from a Store while they are younger than the
// TTL and falls back to the wrapped Fetcher otherwise.
// Store failures are logged and never fail the fetch.
type CachingFetcher struct {
	next   Fetcher
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// CacheOption configures a CachingFetcher.
type CacheOption func(*CachingFetcher)

// WithCacheLogger sets the logger for cache diagnostics.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachingFetcher) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces the clock used for TTL checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachingFetcher) {
		c.now = now
	}
}

// NewCachingFetcher wraps next with store. A ttl of zero or less means
// stored bodies never expire.
func NewCachingFetcher(next Fetcher, store Store, ttl time.Duration, opts ...CacheOption) *CachingFetcher {
	c := &CachingFetcher{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher.
func (c *CachingFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	body, fetchedAt, found, err := c.store.Get(ctx, rawURL)
	switch {
	case err != nil:
		c.logger.Warn("cache lookup failed", "url", rawURL, "error", err)
	case found && c.fresh(fetchedAt):
		c.logger.Debug("cache hit", "url", rawURL, "fetched_at", fetchedAt)
		return body, nil
	}

	body, err = c.next.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, rawURL, body); err != nil {
		c.logger.Warn("cache store failed", "url", rawURL, "error", err)
	}
	return body, nil
}

// fresh reports whether a body stored at fetchedAt is still within the TTL.
func (c *CachingFetcher) fresh(fetchedAt time.Time) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(fetchedAt) < c.ttl
}
