// Package geocode resolves coordinates into place descriptors through the
// reverse-geocoding service, with a durable time-bounded cache in front.
package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"questmap/pkg/geo"
	"questmap/pkg/model"
	"questmap/pkg/store"
	"questmap/pkg/tracker"
)

// DefaultTTL is how long a resolved descriptor stays valid.
const DefaultTTL = 4 * time.Hour

// Cache maps rounded coordinate pairs to place descriptors.
// Entries older than the TTL are treated as absent; lookups fall through to
// a fresh resolution which overwrites the entry. Writes are idempotent
// overwrites keyed by coordinate, so concurrent writers converge.
type Cache struct {
	store   store.LocationStore
	tracker *tracker.Tracker
	ttl     time.Duration

	// now is swappable for TTL tests.
	now func() time.Time
}

// NewCache creates a cache over the given durable store.
func NewCache(st store.LocationStore, tr *tracker.Tracker, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:   st,
		tracker: tr,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Lookup returns the cached descriptor for the coordinate pair, or ok=false
// if no entry exists or the entry's age exceeds the TTL.
func (c *Cache) Lookup(ctx context.Context, lat, lon float64) (*model.LocationDescriptor, bool) {
	key := geo.Key(lat, lon)

	val, resolvedAt, ok := c.store.GetLocation(ctx, key)
	if !ok {
		c.tracker.TrackCacheMiss("nominatim")
		return nil, false
	}

	if c.now().Sub(resolvedAt) >= c.ttl {
		// Expired entries are absent; the fresh resolution overwrites them.
		c.tracker.TrackCacheMiss("nominatim")
		return nil, false
	}

	var desc model.LocationDescriptor
	if err := json.Unmarshal(val, &desc); err != nil {
		slog.Warn("Corrupt cache entry, treating as miss", "key", key, "error", err)
		c.tracker.TrackCacheMiss("nominatim")
		return nil, false
	}

	c.tracker.TrackCacheHit("nominatim")
	return &desc, true
}

// Store persists the descriptor with a fresh timestamp, overwriting any
// previous entry for the same rounded coordinate pair.
func (c *Cache) Store(ctx context.Context, lat, lon float64, desc *model.LocationDescriptor) error {
	val, err := json.Marshal(desc)
	if err != nil {
		return err
	}
	return c.store.SetLocation(ctx, geo.Key(lat, lon), val, c.now())
}
