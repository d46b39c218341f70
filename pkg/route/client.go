package route

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"questmap/pkg/geo"
	"questmap/pkg/request"
	"questmap/pkg/tracker"
)

// Client calls the OSRM-shaped routing service.
type Client struct {
	client   *request.Client
	tracker  *tracker.Tracker
	Endpoint string // Base URL of the routing service
}

// NewClient creates a routing client over the shared request client.
func NewClient(c *request.Client, tr *tracker.Tracker, endpoint string) *Client {
	return &Client{client: c, tracker: tr, Endpoint: endpoint}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64          `json:"distance"`
		Duration float64          `json:"duration"`
		Geometry geojson.Geometry `json:"geometry"`
		Legs     []struct {
			Summary  string  `json:"summary"`
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Steps    []struct {
				Name     string  `json:"name"`
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Modifier string `json:"modifier"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// ComputeRoute requests a route from origin to destination for the given
// mode and returns the first route the service offers. The service speaks
// longitude-first; the returned polyline is flipped to (lat, lon).
// Failures (network, empty route list) come back as errors and must leave
// any previously displayed RouteResult untouched at the caller.
func (c *Client) ComputeRoute(ctx context.Context, origin, dest geo.Point, mode Mode) (*RouteResult, error) {
	u := fmt.Sprintf("%s/route/v1/%s/%s,%s;%s,%s?overview=full&geometries=geojson&steps=true",
		c.Endpoint, mode,
		fmtCoord(origin.Lon), fmtCoord(origin.Lat),
		fmtCoord(dest.Lon), fmtCoord(dest.Lat))

	body, err := c.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("route request: %w", err)
	}

	var resp osrmResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("route decode: %w", err)
	}

	if len(resp.Routes) == 0 {
		c.tracker.TrackAPIZero("osrm")
		return nil, ErrNoRoute
	}

	best := resp.Routes[0]

	line, ok := best.Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("route geometry: expected LineString, got %T", best.Geometry.Geometry())
	}

	result := &RouteResult{
		Distance: best.Distance,
		Duration: best.Duration,
		Points:   make([]geo.Point, 0, len(line)),
	}

	// (lon, lat) -> (lat, lon)
	for _, p := range line {
		result.Points = append(result.Points, geo.Point{Lat: p.Lat(), Lon: p.Lon()})
	}

	if len(best.Legs) > 0 {
		leg := best.Legs[0]
		result.Summary = leg.Summary
		result.Steps = make([]Step, 0, len(leg.Steps))
		for _, s := range leg.Steps {
			result.Steps = append(result.Steps, Step{
				Modifier: s.Maneuver.Modifier,
				Name:     s.Name,
				Distance: s.Distance,
				Duration: s.Duration,
			})
		}
	}

	return result, nil
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
