package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"questmap/pkg/db"
)

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Locations ---

func (s *SQLiteStore) GetLocation(ctx context.Context, key string) ([]byte, time.Time, bool) {
	var val []byte
	var resolvedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT value, resolved_at FROM location_cache WHERE key = ?", key).Scan(&val, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false
	}
	if err != nil {
		// Treat read errors as a miss; the resolver will fetch fresh data.
		return nil, time.Time{}, false
	}
	return val, time.UnixMilli(resolvedAt), true
}

func (s *SQLiteStore) SetLocation(ctx context.Context, key string, val []byte, resolvedAt time.Time) error {
	query := `INSERT OR REPLACE INTO location_cache (key, value, resolved_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, resolvedAt.UnixMilli())
	return err
}

func (s *SQLiteStore) ListLocationKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM location_cache WHERE key LIKE ?", prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// --- Persistent State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
