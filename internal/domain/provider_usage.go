package domain

import (
	"context"
	"sync/atomic"
)

type providerUsageKey struct{}

// ProviderUsage counts provider calls made on behalf of a single HTTP request.
// The handler puts a pointer into the context; the provider chain increments it;
// the handler reads it back for response headers. Category searches run
// concurrently, so counters are atomic.
type ProviderUsage struct {
	calls     atomic.Int64
	cacheHits atomic.Int64
}

// NewContextWithProviderUsage returns a context with a usage collector attached.
func NewContextWithProviderUsage(ctx context.Context) (context.Context, *ProviderUsage) {
	u := &ProviderUsage{}
	return context.WithValue(ctx, providerUsageKey{}, u), u
}

// ProviderUsageFromContext extracts the usage collector. Returns nil if not set.
func ProviderUsageFromContext(ctx context.Context) *ProviderUsage {
	u, _ := ctx.Value(providerUsageKey{}).(*ProviderUsage)
	return u
}

// AddCall records one upstream request.
func (u *ProviderUsage) AddCall() {
	if u != nil {
		u.calls.Add(1)
	}
}

// AddCacheHit records one request served from cache.
func (u *ProviderUsage) AddCacheHit() {
	if u != nil {
		u.cacheHits.Add(1)
	}
}

// Calls returns the number of upstream requests.
func (u *ProviderUsage) Calls() int64 {
	if u == nil {
		return 0
	}
	return u.calls.Load()
}

// CacheHits returns the number of cache hits.
func (u *ProviderUsage) CacheHits() int64 {
	if u == nil {
		return 0
	}
	return u.cacheHits.Load()
}
