package store

import (
	"context"
	"time"
)

// LocationStore handles durable persistence of resolved place descriptors.
// Values are JSON-serialized LocationDescriptors; the resolution timestamp
// is stored alongside so the cache layer can apply its TTL on lookup.
type LocationStore interface {
	GetLocation(ctx context.Context, key string) (val []byte, resolvedAt time.Time, ok bool)
	SetLocation(ctx context.Context, key string, val []byte, resolvedAt time.Time) error
	ListLocationKeys(ctx context.Context, prefix string) ([]string, error)
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// Store composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	LocationStore
	StateStore

	// Close closes the store connection.
	Close() error
}
