package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questmap/pkg/geo"
	"questmap/pkg/mapstate"
	"questmap/pkg/model"
	"questmap/pkg/route"
)

type stubPositions struct{ point geo.Point }

func (s *stubPositions) CurrentPosition(ctx context.Context) (geo.Point, error) {
	return s.point, nil
}

type stubGeocoder struct{ desc *model.LocationDescriptor }

func (s *stubGeocoder) Resolve(ctx context.Context, lat, lon float64) (*model.LocationDescriptor, error) {
	return s.desc, nil
}

type stubRouter struct {
	result *route.RouteResult
	err    error
}

func (s *stubRouter) ComputeRoute(ctx context.Context, origin, dest geo.Point, mode route.Mode) (*route.RouteResult, error) {
	return s.result, s.err
}

func newMapHandler(router *stubRouter) *MapHandler {
	coord := mapstate.New(
		&stubPositions{point: geo.Point{Lat: 51.505, Lon: -0.09}},
		&stubGeocoder{desc: &model.LocationDescriptor{Town: "London"}},
		router, nil,
		geo.Point{Lat: 51.505, Lon: -0.09},
		route.ModeDriving,
	)
	coord.Start(context.Background())
	return NewMapHandler(coord)
}

func TestHandleState(t *testing.T) {
	h := newMapHandler(&stubRouter{})

	rec := httptest.NewRecorder()
	h.HandleState(rec, httptest.NewRequest(http.MethodGet, "/api/map/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap mapstate.Snapshot
	require.NoError(t, decodeBody(rec, &snap))
	assert.Equal(t, mapstate.LocationResolved, snap.LocationState)
	assert.Equal(t, "London", snap.LocationName)
	assert.Equal(t, mapstate.RouteIdle, snap.RouteState)
	assert.Equal(t, route.ModeDriving, snap.Transport)
}

func TestHandleSelect(t *testing.T) {
	h := newMapHandler(&stubRouter{result: &route.RouteResult{Distance: 4200}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/map/select", strings.NewReader(`{"lat": 51.51, "lon": -0.1}`))
	h.HandleSelect(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap mapstate.Snapshot
	require.NoError(t, decodeBody(rec, &snap))
	assert.Equal(t, mapstate.RouteReady, snap.RouteState)
	require.NotNil(t, snap.Route)
	assert.InDelta(t, 4200.0, snap.Route.Distance, 0.001)
}

func TestHandleSelectNoRoute(t *testing.T) {
	h := newMapHandler(&stubRouter{err: route.ErrNoRoute})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/map/select", strings.NewReader(`{"lat": 1, "lon": 1}`))
	h.HandleSelect(rec, req)

	// No route is a domain outcome, not a transport error.
	require.Equal(t, http.StatusOK, rec.Code)
	var snap mapstate.Snapshot
	require.NoError(t, decodeBody(rec, &snap))
	assert.Equal(t, mapstate.RouteFailed, snap.RouteState)
}

func TestHandleSelectBadBody(t *testing.T) {
	h := newMapHandler(&stubRouter{})

	rec := httptest.NewRecorder()
	h.HandleSelect(rec, httptest.NewRequest(http.MethodPost, "/api/map/select", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTransport(t *testing.T) {
	h := newMapHandler(&stubRouter{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/map/transport", strings.NewReader(`{"mode": "cycling"}`))
	h.HandleTransport(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap mapstate.Snapshot
	require.NoError(t, decodeBody(rec, &snap))
	assert.Equal(t, route.ModeCycling, snap.Transport)
}

func TestHandleTransportBadMode(t *testing.T) {
	h := newMapHandler(&stubRouter{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/map/transport", strings.NewReader(`{"mode": "teleport"}`))
	h.HandleTransport(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDetails(t *testing.T) {
	h := newMapHandler(&stubRouter{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/map/details", strings.NewReader(`{"show": true}`))
	h.HandleDetails(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap mapstate.Snapshot
	require.NoError(t, decodeBody(rec, &snap))
	assert.True(t, snap.ShowDetails)
}

func TestHandleClear(t *testing.T) {
	h := newMapHandler(&stubRouter{result: &route.RouteResult{Distance: 4200}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/map/select", strings.NewReader(`{"lat": 1, "lon": 1}`))
	h.HandleSelect(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleClear(rec, httptest.NewRequest(http.MethodPost, "/api/map/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap mapstate.Snapshot
	require.NoError(t, decodeBody(rec, &snap))
	assert.Equal(t, mapstate.RouteIdle, snap.RouteState)
	assert.Nil(t, snap.Route)
}
