package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"questmap/pkg/mapstate"
)

const (
	eventBuffer   = 8
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// EventsHandler pushes map snapshots to websocket subscribers whenever
// the coordinator state changes. A slow subscriber drops intermediate
// snapshots rather than blocking the coordinator.
type EventsHandler struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]chan mapstate.Snapshot
}

func NewEventsHandler(coord *mapstate.Coordinator) *EventsHandler {
	h := &EventsHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local single-user service; the UI connects from file:// or
			// a dev server, so origin checks only get in the way.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]chan mapstate.Snapshot),
	}
	coord.OnChange(h.broadcast)
	return h
}

func (h *EventsHandler) broadcast(snap mapstate.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		select {
		case ch <- snap:
		default:
			slog.Debug("Dropping snapshot for slow subscriber", "client", id)
		}
	}
}

func (h *EventsHandler) register() (string, chan mapstate.Snapshot) {
	id := uuid.NewString()
	ch := make(chan mapstate.Snapshot, eventBuffer)
	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()
	return id, ch
}

func (h *EventsHandler) unregister(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// HandleEvents upgrades the connection and streams snapshots until the
// client disconnects.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, ch := h.register()
	defer h.unregister(id)
	slog.Debug("Event subscriber connected", "client", id)

	// Reader goroutine only watches for the close frame.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case snap := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(snap); err != nil {
				slog.Debug("Event subscriber write failed", "client", id, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			slog.Debug("Event subscriber disconnected", "client", id)
			return
		}
	}
}
