package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"questmap/pkg/geo"
	"questmap/pkg/mapstate"
	"questmap/pkg/route"
)

// MapHandler exposes the map coordinator over HTTP.
type MapHandler struct {
	coord *mapstate.Coordinator
}

func NewMapHandler(c *mapstate.Coordinator) *MapHandler {
	return &MapHandler{coord: c}
}

// HandleState returns the current map snapshot.
func (h *MapHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.coord.Snapshot())
}

type selectRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HandleSelect picks a quest marker and computes a route to it. A route
// failure is reported but the snapshot still carries the previous route.
func (h *MapHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.coord.SelectMarker(r.Context(), geo.Point{Lat: req.Lat, Lon: req.Lon})
	if err != nil && !errors.Is(err, route.ErrNoRoute) {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, h.coord.Snapshot())
}

// HandleClear drops the selected marker and the displayed route.
func (h *MapHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.coord.ClearSelection()
	writeJSON(w, h.coord.Snapshot())
}

type transportRequest struct {
	Mode string `json:"mode"`
}

// HandleTransport switches the transport mode for future routes.
func (h *MapHandler) HandleTransport(w http.ResponseWriter, r *http.Request) {
	var req transportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	mode, err := route.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.coord.SetTransport(r.Context(), mode)
	writeJSON(w, h.coord.Snapshot())
}

// HandleLocate re-reads the device position and resolves its name.
func (h *MapHandler) HandleLocate(w http.ResponseWriter, r *http.Request) {
	h.coord.Locate(r.Context())
	writeJSON(w, h.coord.Snapshot())
}

type detailsRequest struct {
	Show bool `json:"show"`
}

// HandleDetails toggles the route step list panel.
func (h *MapHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.coord.SetShowDetails(req.Show)
	writeJSON(w, h.coord.Snapshot())
}
