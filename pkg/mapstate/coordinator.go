// Package mapstate coordinates the map view: the user's position and its
// resolved place name, the selected quest marker, and the route between
// them. It owns two small state machines, one for the position lookup and
// one for the route, and pushes a snapshot to registered listeners after
// every change.
package mapstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"questmap/pkg/geo"
	"questmap/pkg/model"
	"questmap/pkg/route"
	"questmap/pkg/store"
)

// LocationState tracks whether the user's position has a resolved name.
type LocationState string

const (
	LocationUnresolved LocationState = "locationUnresolved"
	LocationResolved   LocationState = "locationResolved"
)

// RouteState tracks the route computation lifecycle.
type RouteState string

const (
	RouteIdle      RouteState = "routeIdle"
	RouteComputing RouteState = "routeComputing"
	RouteReady     RouteState = "routeReady"
	RouteFailed    RouteState = "routeFailed"
)

// transportKey is where the chosen transport mode persists across runs.
const transportKey = "map.transport"

// PositionSource reads the device position. Implementations may block on
// hardware or a platform service; a failed read is not fatal, the
// coordinator falls back to a configured default position.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (geo.Point, error)
}

// RouteResolver computes a route between two points.
type RouteResolver interface {
	ComputeRoute(ctx context.Context, origin, dest geo.Point, mode route.Mode) (*route.RouteResult, error)
}

// LocationResolver turns a coordinate pair into a place descriptor.
type LocationResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (*model.LocationDescriptor, error)
}

// Snapshot is a consistent copy of the coordinator state.
type Snapshot struct {
	Position      model.UserPosition        `json:"position"`
	LocationState LocationState             `json:"location_state"`
	LocationName  string                    `json:"location_name"`
	Location      *model.LocationDescriptor `json:"location,omitempty"`
	Selected      *geo.Point                `json:"selected,omitempty"`
	// Straight-line distance and bearing from the position to the
	// selected marker. Zero when nothing is selected.
	SelectedDistance float64 `json:"selected_distance_m"`
	SelectedBearing  float64 `json:"selected_bearing"`

	RouteState  RouteState         `json:"route_state"`
	Route       *route.RouteResult `json:"route,omitempty"`
	Transport   route.Mode         `json:"transport"`
	ShowDetails bool               `json:"show_details"`
}

// Coordinator holds the map view state. All methods are safe for
// concurrent use.
type Coordinator struct {
	positions PositionSource
	geocoder  LocationResolver
	router    RouteResolver
	state     store.StateStore

	mu            sync.Mutex
	position      model.UserPosition
	location      *model.LocationDescriptor
	locationState LocationState
	selected      *geo.Point
	routeState    RouteState
	routeGen      uint64
	lastRoute     *route.RouteResult
	transport     route.Mode
	showDetails   bool
	listeners     []func(Snapshot)
}

// New creates a coordinator. st may be nil; then the transport choice is
// not persisted. The initial transport comes from the state store when
// present, otherwise from defaultTransport. fallback seeds the position
// until the first successful device read.
func New(positions PositionSource, geocoder LocationResolver, router RouteResolver, st store.StateStore, fallback geo.Point, defaultTransport route.Mode) *Coordinator {
	c := &Coordinator{
		positions:     positions,
		geocoder:      geocoder,
		router:        router,
		state:         st,
		position:      model.UserPosition{Lat: fallback.Lat, Lon: fallback.Lon},
		locationState: LocationUnresolved,
		routeState:    RouteIdle,
		transport:     defaultTransport,
	}

	if st != nil {
		if v, ok := st.GetState(context.Background(), transportKey); ok {
			if mode, err := route.ParseMode(v); err == nil {
				c.transport = mode
			}
		}
	}

	return c
}

// OnChange registers a listener called with a snapshot after every state
// change. Listeners run outside the coordinator lock.
func (c *Coordinator) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Start performs the initial position read and name lookup.
func (c *Coordinator) Start(ctx context.Context) {
	c.Locate(ctx)
}

// Locate reads the device position and resolves its place name. The
// position only ever moves on a successful read: a failed read keeps the
// previous position (initially the configured fallback) and drops the
// coordinator to locationUnresolved until a later retry succeeds. The
// resolved state follows the position read alone; a failed name lookup
// just leaves the name blank.
func (c *Coordinator) Locate(ctx context.Context) {
	pos, err := c.positions.CurrentPosition(ctx)
	if err != nil {
		slog.Warn("Position read failed", "error", err)
		c.mu.Lock()
		c.location = nil
		c.locationState = LocationUnresolved
		c.mu.Unlock()
		c.notify()
		return
	}

	c.mu.Lock()
	c.position = model.UserPosition{Lat: pos.Lat, Lon: pos.Lon, FromSensor: true}
	c.location = nil
	c.locationState = LocationResolved
	c.mu.Unlock()
	c.notify()

	desc, err := c.geocoder.Resolve(ctx, pos.Lat, pos.Lon)
	if err != nil {
		slog.Warn("Location name lookup failed", "lat", pos.Lat, "lon", pos.Lon, "error", err)
		return
	}

	c.mu.Lock()
	c.location = desc
	c.mu.Unlock()
	c.notify()
}

// SelectMarker marks a quest position as the route destination and
// computes a route to it from the current position. A newer selection
// made while this one is still computing wins; the older completion is
// discarded. Success opens the details overlay; on failure the previous
// route result stays visible.
func (c *Coordinator) SelectMarker(ctx context.Context, dest geo.Point) error {
	c.mu.Lock()
	c.routeGen++
	gen := c.routeGen
	d := dest
	c.selected = &d
	c.routeState = RouteComputing
	origin := geo.Point{Lat: c.position.Lat, Lon: c.position.Lon}
	mode := c.transport
	c.mu.Unlock()
	c.notify()

	result, err := c.router.ComputeRoute(ctx, origin, dest, mode)

	c.mu.Lock()
	if gen != c.routeGen {
		c.mu.Unlock()
		slog.Debug("Discarding stale route result", "generation", gen)
		return nil
	}
	if err != nil {
		c.routeState = RouteFailed
		c.mu.Unlock()
		c.notify()
		if errors.Is(err, route.ErrNoRoute) {
			slog.Info("No route to selected marker", "lat", dest.Lat, "lon", dest.Lon)
		} else {
			slog.Warn("Route computation failed", "error", err)
		}
		return err
	}
	c.lastRoute = result
	c.routeState = RouteReady
	// A fresh route opens the step overlay; the user closes it via the
	// details toggle.
	c.showDetails = true
	c.mu.Unlock()
	c.notify()
	return nil
}

// ClearSelection drops the selected marker and returns the route machine
// to idle. The last route result is cleared with it.
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	c.routeGen++
	c.selected = nil
	c.lastRoute = nil
	c.routeState = RouteIdle
	c.mu.Unlock()
	c.notify()
}

// SetTransport switches the transport mode. The displayed route is not
// recomputed; the new mode applies to the next selection.
func (c *Coordinator) SetTransport(ctx context.Context, mode route.Mode) {
	c.mu.Lock()
	c.transport = mode
	c.mu.Unlock()
	c.notify()

	if c.state != nil {
		if err := c.state.SetState(ctx, transportKey, string(mode)); err != nil {
			slog.Warn("Failed to persist transport mode", "error", err)
		}
	}
}

// SetShowDetails toggles the step list panel.
func (c *Coordinator) SetShowDetails(show bool) {
	c.mu.Lock()
	c.showDetails = show
	c.mu.Unlock()
	c.notify()
}

// Snapshot returns a consistent copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	s := Snapshot{
		Position:      c.position,
		LocationState: c.locationState,
		Location:      c.location,
		Selected:      c.selected,
		RouteState:    c.routeState,
		Route:         c.lastRoute,
		Transport:     c.transport,
		ShowDetails:   c.showDetails,
	}
	if c.location != nil {
		s.LocationName = c.location.DisplayName()
	}
	if c.selected != nil {
		origin := geo.Point{Lat: c.position.Lat, Lon: c.position.Lon}
		s.SelectedDistance = geo.Distance(origin, *c.selected)
		s.SelectedBearing = geo.Bearing(origin, *c.selected)
	}
	return s
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	listeners := make([]func(Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
