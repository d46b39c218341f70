package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"questmap/pkg/model"
	"questmap/pkg/request"
)

// Resolver reverse-geocodes coordinates through the external service.
// Failures are returned as errors, never cached, so a later call can retry.
type Resolver struct {
	client   *request.Client
	cache    *Cache
	Endpoint string // Base URL of the Nominatim-shaped service
}

// NewResolver creates a resolver over the shared request client.
func NewResolver(c *request.Client, cache *Cache, endpoint string) *Resolver {
	return &Resolver{client: c, cache: cache, Endpoint: endpoint}
}

// reverseResponse is the slice of the geocoder payload we consume.
// Fields missing from the response stay empty; they are never defaulted to
// placeholder text at this layer.
type reverseResponse struct {
	Address struct {
		Village  string `json:"village"`
		Town     string `json:"town"`
		City     string `json:"city"`
		State    string `json:"state"`
		Province string `json:"province"`
		Region   string `json:"region"`
		Country  string `json:"country"`
	} `json:"address"`
}

// Resolve returns the place descriptor for the coordinate pair.
// Cache hits return immediately; misses cost exactly one external call.
// A non-nil error is the "unresolved" outcome: nothing is cached and the
// caller renders its fallback. Concurrent resolutions of the same pair are
// tolerated; the duplicate write is an idempotent overwrite.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (*model.LocationDescriptor, error) {
	if desc, ok := r.cache.Lookup(ctx, lat, lon); ok {
		return desc, nil
	}

	u := fmt.Sprintf("%s/reverse?%s", r.Endpoint, url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format": {"json"},
	}.Encode())

	body, err := r.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode (%f, %f): %w", lat, lon, err)
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("reverse geocode decode: %w", err)
	}

	desc := &model.LocationDescriptor{
		Village:  resp.Address.Village,
		Town:     resp.Address.Town,
		City:     resp.Address.City,
		State:    resp.Address.State,
		Province: resp.Address.Province,
		Region:   resp.Address.Region,
		Country:  resp.Address.Country,
	}

	if err := r.cache.Store(ctx, lat, lon, desc); err != nil {
		// The descriptor is still good; only durability suffered.
		slog.Warn("Failed to cache location", "lat", lat, "lon", lon, "error", err)
	}

	return desc, nil
}
