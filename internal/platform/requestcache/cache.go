// Package requestcache de-duplicates outbound requests. Identical requests,
// compared by Fingerprint, share one Future; failures classified as retryable
// drop out of the cache so the next caller issues a fresh request.
package requestcache

import (
	"context"
	"fmt"
	"sync"

	"maps-extended-service/internal/platform/lru"
	"maps-extended-service/internal/platform/metrics"
)

// Cache maps request fingerprints to pending or completed futures, bounded by
// an LRU. It never retries on its own.
//
// Cache is safe for concurrent use.
type Cache[Res any] struct {
	name        string
	isRetryable func(error) bool

	mu      sync.Mutex
	entries *lru.Cache[string, *Future[Res]]
}

// New creates a cache holding at most capacity requests. isRetryable may be
// nil, in which case every failure stays cached.
func New[Res any](name string, capacity int, isRetryable func(error) bool) *Cache[Res] {
	if isRetryable == nil {
		isRetryable = func(error) bool { return false }
	}

	entries := lru.New[string, *Future[Res]](capacity)
	entries.OnEvict(func(string, *Future[Res]) {
		metrics.CacheCapacityEvictions.WithLabelValues(name).Inc()
	})

	return &Cache[Res]{
		name:        name,
		isRetryable: isRetryable,
		entries:     entries,
	}
}

// Get returns the future cached for req, pending or settled. A request that
// cannot be fingerprinted is reported as a miss.
func (c *Cache[Res]) Get(req any) (*Future[Res], bool) {
	key, err := Fingerprint(req)
	if err != nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.entries.Get(key)
	c.recordLookup(ok)
	return f, ok
}

// Set stores f as the result for req, replacing any earlier entry.
func (c *Cache[Res]) Set(req any, f *Future[Res]) error {
	key, err := Fingerprint(req)
	if err != nil {
		return fmt.Errorf("request cache %s: %w", c.name, err)
	}

	c.mu.Lock()
	c.entries.Set(key, f)
	c.mu.Unlock()

	c.observe(key, f)
	return nil
}

// Do returns the cached result for req, or runs fn once and caches its future.
// Concurrent callers with equivalent requests share a single call to fn.
//
// fn runs without the caller's cancellation since other callers may be waiting
// on it; ctx only bounds how long this caller waits.
func (c *Cache[Res]) Do(
	ctx context.Context,
	req any,
	fn func(ctx context.Context) (Res, error),
) (Res, error) {
	key, err := Fingerprint(req)
	if err != nil {
		var zero Res
		return zero, fmt.Errorf("request cache %s: %w", c.name, err)
	}

	c.mu.Lock()
	f, ok := c.entries.Get(key)
	c.recordLookup(ok)
	if !ok {
		f = Go(context.WithoutCancel(ctx), fn)
		c.entries.Set(key, f)
	}
	c.mu.Unlock()

	if !ok {
		c.observe(key, f)
	}

	return f.Await(ctx)
}

// Len returns the number of cached requests.
func (c *Cache[Res]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Reset drops every cached request.
func (c *Cache[Res]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Clear()
}

// observe evicts key once f fails with a retryable error, unless a newer
// future has replaced f in the meantime.
func (c *Cache[Res]) observe(key string, f *Future[Res]) {
	go func() {
		<-f.Done()
		err := f.Err()
		if err == nil || !c.isRetryable(err) {
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.entries.Peek(key); ok && cur == f {
			c.entries.Delete(key)
			metrics.CacheRetryableEvictions.WithLabelValues(c.name).Inc()
		}
	}()
}

func (c *Cache[Res]) recordLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(c.name, result).Inc()
}
