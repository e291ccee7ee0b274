// Package templates loads template configurations through a read-through
// in-memory cache. Cached entries never expire; staleness is handled by
// explicit invalidation only.
package templates

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/repoforge/pkg/domain/config"
)

// Repository fetches template configurations from their backing store.
type Repository interface {
	LoadTemplateConfig(ctx context.Context, org, template string) (*config.TemplateConfig, error)
	TemplateExists(ctx context.Context, org, template string) (bool, error)
}

type cacheKey struct {
	org      string
	template string
}

// Loader is a concurrency-safe read-through cache over a Repository.
// Cached configurations are shared; callers must treat them as immutable.
type Loader struct {
	repo Repository

	mu    sync.RWMutex
	cache map[cacheKey]*config.TemplateConfig

	requests atomic.Uint64
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// NewLoader returns a Loader over the given repository.
func NewLoader(repo Repository) *Loader {
	return &Loader{
		repo:  repo,
		cache: make(map[cacheKey]*config.TemplateConfig),
	}
}

// Load returns the template configuration for (org, template), fetching it
// on a miss. The fetch happens outside any lock, so concurrent misses for
// the same key may fetch more than once; the cache stays consistent either
// way. Fetch failures are not cached.
func (l *Loader) Load(ctx context.Context, org, template string) (*config.TemplateConfig, error) {
	key := cacheKey{org: org, template: template}

	l.requests.Add(1)
	l.mu.RLock()
	cached, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		l.hits.Add(1)
		return cached, nil
	}
	l.misses.Add(1)

	cfg, err := l.repo.LoadTemplateConfig(ctx, org, template)
	if err != nil {
		return nil, fmt.Errorf("loading template %s/%s: %w", org, template, err)
	}

	l.mu.Lock()
	l.cache[key] = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Exists reports whether the template exists, bypassing the cache.
func (l *Loader) Exists(ctx context.Context, org, template string) (bool, error) {
	return l.repo.TemplateExists(ctx, org, template)
}

// Invalidate drops one cached entry and reports whether it was present.
func (l *Loader) Invalidate(org, template string) bool {
	key := cacheKey{org: org, template: template}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[key]; !ok {
		return false
	}
	delete(l.cache, key)
	return true
}

// Clear drops every cached entry. Counters are unaffected.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[cacheKey]*config.TemplateConfig)
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	TotalRequests uint64
	Hits          uint64
	Misses        uint64
	Entries       int
}

// HitRatio returns hits over total requests, or 0 before any request.
func (s Stats) HitRatio() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests)
}

// Stats returns a snapshot of the counters and current entry count.
func (l *Loader) Stats() Stats {
	l.mu.RLock()
	entries := len(l.cache)
	l.mu.RUnlock()
	return Stats{
		TotalRequests: l.requests.Load(),
		Hits:          l.hits.Load(),
		Misses:        l.misses.Load(),
		Entries:       entries,
	}
}
