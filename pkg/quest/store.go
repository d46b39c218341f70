package quest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"questmap/pkg/geo"
	"questmap/pkg/geocode"
	"questmap/pkg/model"
)

// Store holds the local view of the user's quest collections. Load
// replaces the whole view atomically; a slow Load that finishes after a
// newer one started is discarded so the view never moves backwards.
type Store struct {
	client      *Client
	resolver    *geocode.Resolver
	concurrency int

	mu         sync.Mutex
	generation uint64
	created    []model.Quest
	applied    []model.Quest
	locations  map[string]*model.LocationDescriptor
	filter     FilterState
}

// NewStore creates a quest store. concurrency bounds how many geocode
// lookups a single Load runs in parallel.
func NewStore(client *Client, resolver *geocode.Resolver, concurrency int) *Store {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Store{
		client:      client,
		resolver:    resolver,
		concurrency: concurrency,
		locations:   make(map[string]*model.LocationDescriptor),
		filter:      DefaultFilterState(),
	}
}

// Load fetches the user's collections from the backend and resolves a
// location name for every distinct quest position. The filter state is
// left untouched.
func (s *Store) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	user, err := s.client.FetchUser(ctx, userID)
	if err != nil {
		return err
	}

	locations := s.resolveLocations(ctx, append(user.CreatedQuests, user.AppliedQuests...))

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		slog.Debug("Discarding stale quest load", "generation", gen, "current", s.generation)
		return nil
	}
	s.created = user.CreatedQuests
	s.applied = user.AppliedQuests
	s.locations = locations
	return nil
}

// resolveLocations geocodes each distinct quest position once. Lookup
// failures are logged and skipped so one dead coordinate never blocks
// the rest of the collection.
func (s *Store) resolveLocations(ctx context.Context, quests []model.Quest) map[string]*model.LocationDescriptor {
	type coord struct{ lat, lon float64 }

	seen := make(map[string]coord)
	for _, q := range quests {
		key := geo.Key(q.Lat, q.Lon)
		if _, ok := seen[key]; !ok {
			seen[key] = coord{q.Lat, q.Lon}
		}
	}

	var mu sync.Mutex
	locations := make(map[string]*model.LocationDescriptor, len(seen))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for key, c := range seen {
		g.Go(func() error {
			desc, err := s.resolver.Resolve(gctx, c.lat, c.lon)
			if err != nil {
				slog.Warn("Location lookup failed", "key", key, "error", err)
				return nil
			}
			mu.Lock()
			locations[key] = desc
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return locations
}

// Created returns a copy of the quests the user created.
func (s *Store) Created() []model.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Quest(nil), s.created...)
}

// Applied returns a copy of the quests the user applied to.
func (s *Store) Applied() []model.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Quest(nil), s.applied...)
}

// CreatedFiltered returns the created quests passing the current filter.
func (s *Store) CreatedFiltered() []model.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Apply(s.created)
}

// AppliedFiltered returns the applied quests passing the current filter.
func (s *Store) AppliedFiltered() []model.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Apply(s.applied)
}

// Location returns the resolved location for a quest position, or nil if
// the lookup failed or has not happened yet.
func (s *Store) Location(lat, lon float64) *model.LocationDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locations[geo.Key(lat, lon)]
}

// Locations returns a copy of the resolved location map, keyed by the
// rounded coordinate key.
func (s *Store) Locations() map[string]*model.LocationDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*model.LocationDescriptor, len(s.locations))
	for k, v := range s.locations {
		out[k] = v
	}
	return out
}

// Topics returns the sorted, deduplicated union of topics across both
// collections. Changing the filter never changes the vocabulary.
func (s *Store) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{})
	for _, q := range s.created {
		for _, t := range q.Topics {
			set[t] = struct{}{}
		}
	}
	for _, q := range s.applied {
		for _, t := range q.Topics {
			set[t] = struct{}{}
		}
	}

	topics := make([]string, 0, len(set))
	for t := range set {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// SetFilter updates the filter state. Unknown status values are rejected;
// topic values are taken as-is since the vocabulary is server-defined.
func (s *Store) SetFilter(status, topic string) error {
	switch status {
	case FilterAll, string(model.StatusOpen), string(model.StatusClosed):
	default:
		return fmt.Errorf("unknown status filter %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Status = status
	s.filter.Topic = topic
	return nil
}

// ResetFilter returns the filter to the wildcard state.
func (s *Store) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Reset()
}

// Filter returns the current filter state.
func (s *Store) Filter() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}
