// Package tracker counts external-service usage per provider: cache
// hits/misses and API call outcomes. The snapshot feeds /api/stats.
package tracker

import (
	"sync"
)

// ProviderStats holds metrics for a specific provider.
type ProviderStats struct {
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	APISuccess    int64 `json:"api_success"`
	APIFailures   int64 `json:"api_failures"`
	APIZeroResult int64 `json:"api_zero_result"`
}

// Tracker tracks usage statistics per provider.
type Tracker struct {
	mu    sync.Mutex
	stats map[string]*ProviderStats
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*ProviderStats),
	}
}

func (t *Tracker) bump(provider string, f func(*ProviderStats)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.stats[provider]
	if !ok {
		s = &ProviderStats{}
		t.stats[provider] = s
	}
	f(s)
}

// TrackCacheHit increments the cache hit counter.
func (t *Tracker) TrackCacheHit(provider string) {
	t.bump(provider, func(s *ProviderStats) { s.CacheHits++ })
}

// TrackCacheMiss increments the cache miss counter.
func (t *Tracker) TrackCacheMiss(provider string) {
	t.bump(provider, func(s *ProviderStats) { s.CacheMisses++ })
}

// TrackAPISuccess increments the successful call counter.
func (t *Tracker) TrackAPISuccess(provider string) {
	t.bump(provider, func(s *ProviderStats) { s.APISuccess++ })
}

// TrackAPIFailure increments the failed call counter.
func (t *Tracker) TrackAPIFailure(provider string) {
	t.bump(provider, func(s *ProviderStats) { s.APIFailures++ })
}

// TrackAPIZero increments the empty-result counter (e.g. zero routes).
func (t *Tracker) TrackAPIZero(provider string) {
	t.bump(provider, func(s *ProviderStats) { s.APIZeroResult++ })
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]ProviderStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[string]ProviderStats, len(t.stats))
	for k, v := range t.stats {
		result[k] = *v
	}
	return result
}
