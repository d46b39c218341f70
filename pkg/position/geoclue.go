//go:build linux

package position

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"questmap/pkg/geo"
)

const (
	geoService    = "org.freedesktop.GeoClue2"
	managerPath   = dbus.ObjectPath("/org/freedesktop/GeoClue2/Manager")
	managerIface  = "org.freedesktop.GeoClue2.Manager"
	clientIface   = "org.freedesktop.GeoClue2.Client"
	locationIface = "org.freedesktop.GeoClue2.Location"
	propsIface    = "org.freedesktop.DBus.Properties"

	// "exact" accuracy
	requestedAccuracy = uint32(5)
	pollInterval      = 200 * time.Millisecond
)

// GeoClueSource reads the device position from GeoClue2 over D-Bus.
// Each CurrentPosition call is a one-shot fix: create a client, start it,
// wait for the first location, stop. GeoClue requires DesktopID to match
// a .desktop file carrying X-Geoclue-2-Client=true.
type GeoClueSource struct {
	DesktopID string
}

// NewGeoClueSource creates a GeoClue-backed position source.
func NewGeoClueSource(desktopID string) *GeoClueSource {
	return &GeoClueSource{DesktopID: desktopID}
}

// CurrentPosition blocks until GeoClue delivers a fix or ctx expires.
func (s *GeoClueSource) CurrentPosition(ctx context.Context) (geo.Point, error) {
	bus, err := dbus.ConnectSystemBus()
	if err != nil {
		return geo.Point{}, fmt.Errorf("connect system bus: %w", err)
	}
	defer bus.Close()

	var clientPath dbus.ObjectPath
	call := bus.Object(geoService, managerPath).CallWithContext(ctx, managerIface+".CreateClient", 0)
	if call.Err != nil {
		return geo.Point{}, fmt.Errorf("create geoclue client: %w", call.Err)
	}
	if err := call.Store(&clientPath); err != nil {
		return geo.Point{}, err
	}

	client := bus.Object(geoService, clientPath)
	defer client.Call(clientIface+".Stop", 0)

	setProp := func(name string, val any) error {
		return client.CallWithContext(ctx, propsIface+".Set", 0, clientIface, name, dbus.MakeVariant(val)).Err
	}
	if err := setProp("DesktopId", s.DesktopID); err != nil {
		return geo.Point{}, fmt.Errorf("set DesktopId: %w", err)
	}
	if err := setProp("RequestedAccuracyLevel", requestedAccuracy); err != nil {
		return geo.Point{}, fmt.Errorf("set accuracy: %w", err)
	}

	if call := client.CallWithContext(ctx, clientIface+".Start", 0); call.Err != nil {
		return geo.Point{}, fmt.Errorf("start geoclue client: %w", call.Err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		point, ok, err := s.readLocation(ctx, bus, client)
		if err != nil {
			return geo.Point{}, err
		}
		if ok {
			return point, nil
		}
		select {
		case <-ctx.Done():
			return geo.Point{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *GeoClueSource) readLocation(ctx context.Context, bus *dbus.Conn, client dbus.BusObject) (geo.Point, bool, error) {
	var variant dbus.Variant
	call := client.CallWithContext(ctx, propsIface+".Get", 0, clientIface, "Location")
	if call.Err != nil {
		return geo.Point{}, false, fmt.Errorf("get location path: %w", call.Err)
	}
	if err := call.Store(&variant); err != nil {
		return geo.Point{}, false, err
	}
	locPath, _ := variant.Value().(dbus.ObjectPath)
	if locPath == "" || locPath == "/" {
		return geo.Point{}, false, nil
	}

	var props map[string]dbus.Variant
	call = bus.Object(geoService, locPath).CallWithContext(ctx, propsIface+".GetAll", 0, locationIface)
	if call.Err != nil {
		return geo.Point{}, false, fmt.Errorf("read location: %w", call.Err)
	}
	if err := call.Store(&props); err != nil {
		return geo.Point{}, false, err
	}

	lat, _ := props["Latitude"].Value().(float64)
	lon, _ := props["Longitude"].Value().(float64)
	if lat == 0 && lon == 0 {
		// GeoClue reports (0, 0) before the first real fix.
		return geo.Point{}, false, nil
	}
	return geo.Point{Lat: lat, Lon: lon}, true, nil
}
