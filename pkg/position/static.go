// Package position provides device position sources for the map
// coordinator: a GeoClue2 reader on Linux and a static source for
// machines without location hardware.
package position

import (
	"context"

	"questmap/pkg/geo"
)

// StaticSource always reports the same position. Used when no location
// service is available or the user pinned their position in the config.
type StaticSource struct {
	Point geo.Point
}

// NewStaticSource creates a source fixed at the given point.
func NewStaticSource(p geo.Point) *StaticSource {
	return &StaticSource{Point: p}
}

func (s *StaticSource) CurrentPosition(ctx context.Context) (geo.Point, error) {
	return s.Point, nil
}
