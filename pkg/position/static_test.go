package position

import (
	"context"
	"testing"

	"questmap/pkg/geo"
)

func TestStaticSource(t *testing.T) {
	want := geo.Point{Lat: 51.505, Lon: -0.09}
	s := NewStaticSource(want)

	got, err := s.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("CurrentPosition failed: %v", err)
	}
	if got != want {
		t.Errorf("CurrentPosition = %v, want %v", got, want)
	}
}
