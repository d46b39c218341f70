package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"questmap/pkg/db"
)

func TestDB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "db_test.db")

	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if d == nil {
		t.Fatal("Init() returned nil DB")
	}
	d.Close()
}

func TestPruneLocations(t *testing.T) {
	tempDir := t.TempDir()
	d, err := db.Init(filepath.Join(tempDir, "prune_test.db"))
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer d.Close()

	stale := time.Now().Add(-8 * time.Hour).UnixMilli()
	fresh := time.Now().UnixMilli()
	if _, err := d.Exec("INSERT INTO location_cache (key, value, resolved_at) VALUES (?, ?, ?)", "location_1.0_2.0", []byte("{}"), stale); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := d.Exec("INSERT INTO location_cache (key, value, resolved_at) VALUES (?, ?, ?)", "location_3.0_4.0", []byte("{}"), fresh); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := d.PruneLocations(4 * time.Hour); err != nil {
		t.Fatalf("PruneLocations failed: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT count(*) FROM location_cache").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry after prune, got %d", count)
	}
}
