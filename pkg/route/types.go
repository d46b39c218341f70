// Package route computes travel routes between the user and quest locations
// through the external routing service. Results carry most-recent-result
// semantics: there is no per-destination cache, a new request supersedes the
// previous one for display purposes.
package route

import (
	"errors"
	"fmt"

	"questmap/pkg/geo"
)

// Mode is the transport mode for a route request.
type Mode string

const (
	ModeDriving Mode = "driving"
	ModeWalking Mode = "walking"
	ModeCycling Mode = "cycling"
)

// ParseMode validates a transport mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDriving, ModeWalking, ModeCycling:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

// ErrNoRoute indicates the routing service returned zero routes.
// Callers keep whatever RouteResult they were displaying before.
var ErrNoRoute = errors.New("no route found")

// Step is one turn-by-turn instruction of the first leg.
type Step struct {
	Modifier string  `json:"modifier"` // Raw maneuver modifier ("sharp right", ...)
	Name     string  `json:"name"`     // Street name, may be empty
	Distance float64 `json:"distance"` // Meters
	Duration float64 `json:"duration"` // Seconds
}

// RouteResult is a computed route between two coordinates.
// Points follow the consumer-facing (lat, lon) convention, already flipped
// from the routing service's (lon, lat) order.
type RouteResult struct {
	Distance float64     `json:"distance"` // Total meters
	Duration float64     `json:"duration"` // Total seconds
	Summary  string      `json:"summary"`  // First leg's street summary
	Points   []geo.Point `json:"points"`   // Path polyline
	Steps    []Step      `json:"steps"`
}

// DistanceKm returns the total distance in kilometers for display.
func (r *RouteResult) DistanceKm() float64 {
	return r.Distance / 1000
}

// DurationMin returns the total duration in minutes for display.
func (r *RouteResult) DurationMin() float64 {
	return r.Duration / 60
}
