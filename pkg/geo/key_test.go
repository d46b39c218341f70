package geo

import (
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"Simple", 51.5, -0.09, "location_51.5_-0.09"},
		{"Rounded", 51.50004, -0.09004, "location_51.5_-0.09"},
		{"NoFragmentation", 51.500049999, -0.090000001, "location_51.5_-0.09"},
		{"Integerish", 20.0, 10.0, "location_20.0_10.0"},
		{"FullPrecision", 48.8566, 2.3522, "location_48.8566_2.3522"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.lat, tt.lon); got != tt.want {
				t.Errorf("Key(%f, %f) = %q, want %q", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestKeyStability(t *testing.T) {
	// Float noise below the precision threshold must map to the same key,
	// otherwise the cache fragments and every lookup misses.
	base := Key(51.5074, -0.1278)
	noisy := Key(51.5074+1e-9, -0.1278-1e-9)
	if base != noisy {
		t.Errorf("Keys differ under float noise: %q vs %q", base, noisy)
	}
}

func TestParseKey(t *testing.T) {
	lat, lon, err := ParseKey("location_51.5_-0.09")
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if lat != 51.5 || lon != -0.09 {
		t.Errorf("ParseKey = (%f, %f), want (51.5, -0.09)", lat, lon)
	}

	if _, _, err := ParseKey("route_1_2"); err == nil {
		t.Error("Expected error for non-location key")
	}
	if _, _, err := ParseKey("location_abc_def"); err == nil {
		t.Error("Expected error for malformed coordinates")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	lat, lon, err := ParseKey(Key(51.50004, -0.09004))
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if Key(lat, lon) != Key(51.50004, -0.09004) {
		t.Error("Key is not stable through ParseKey")
	}
}
