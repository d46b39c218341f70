package api

import (
	"net/http"

	"questmap/pkg/tracker"
)

// StatsHandler reports per-provider cache and API counters.
type StatsHandler struct {
	tracker *tracker.Tracker
}

func NewStatsHandler(t *tracker.Tracker) *StatsHandler {
	return &StatsHandler{tracker: t}
}

type ProviderStatsDTO struct {
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	APISuccess    int64 `json:"api_success"`
	APIZeroResult int64 `json:"api_zero"`
	APIFailures   int64 `json:"api_errors"`
	HitRate       int64 `json:"hit_rate"`
}

type StatsResponse struct {
	Providers map[string]ProviderStatsDTO `json:"providers"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := StatsResponse{Providers: make(map[string]ProviderStatsDTO, len(snapshot))}
	for provider, s := range snapshot {
		dto := ProviderStatsDTO{
			CacheHits:     s.CacheHits,
			CacheMisses:   s.CacheMisses,
			APISuccess:    s.APISuccess,
			APIZeroResult: s.APIZeroResult,
			APIFailures:   s.APIFailures,
		}
		if total := s.CacheHits + s.CacheMisses; total > 0 {
			dto.HitRate = s.CacheHits * 100 / total
		}
		resp.Providers[provider] = dto
	}

	writeJSON(w, resp)
}
