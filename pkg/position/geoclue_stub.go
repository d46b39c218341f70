//go:build !linux

package position

import (
	"context"
	"errors"

	"questmap/pkg/geo"
)

// GeoClueSource is only available on Linux. Elsewhere every read fails
// and the coordinator falls back to the configured position.
type GeoClueSource struct {
	DesktopID string
}

func NewGeoClueSource(desktopID string) *GeoClueSource {
	return &GeoClueSource{DesktopID: desktopID}
}

func (s *GeoClueSource) CurrentPosition(ctx context.Context) (geo.Point, error) {
	return geo.Point{}, errors.New("geoclue is not available on this platform")
}
