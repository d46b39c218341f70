package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questmap/pkg/geo"
	"questmap/pkg/mapstate"
	"questmap/pkg/model"
	"questmap/pkg/route"
)

func TestEventsPushSnapshotOnChange(t *testing.T) {
	coord := mapstate.New(
		&stubPositions{point: geo.Point{Lat: 51.505, Lon: -0.09}},
		&stubGeocoder{desc: &model.LocationDescriptor{Town: "London"}},
		&stubRouter{result: &route.RouteResult{Distance: 4200}},
		nil,
		geo.Point{Lat: 51.505, Lon: -0.09},
		route.ModeDriving,
	)
	events := NewEventsHandler(coord)

	srv := httptest.NewServer(http.HandlerFunc(events.HandleEvents))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the handler a moment to register the subscriber.
	require.Eventually(t, func() bool {
		events.mu.Lock()
		defer events.mu.Unlock()
		return len(events.clients) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, coord.SelectMarker(context.Background(), geo.Point{Lat: 51.51, Lon: -0.1}))

	// SelectMarker notifies twice; the last snapshot carries the route.
	var snap mapstate.Snapshot
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, mapstate.RouteComputing, snap.RouteState)

	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, mapstate.RouteReady, snap.RouteState)
	require.NotNil(t, snap.Route)
	assert.InDelta(t, 4200.0, snap.Route.Distance, 0.001)
}

func TestEventsUnregisterOnDisconnect(t *testing.T) {
	coord := mapstate.New(
		&stubPositions{}, &stubGeocoder{}, &stubRouter{}, nil,
		geo.Point{Lat: 51.505, Lon: -0.09}, route.ModeDriving,
	)
	events := NewEventsHandler(coord)

	srv := httptest.NewServer(http.HandlerFunc(events.HandleEvents))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn.Close()

	require.Eventually(t, func() bool {
		events.mu.Lock()
		defer events.mu.Unlock()
		return len(events.clients) == 0
	}, time.Second, time.Millisecond)
}
