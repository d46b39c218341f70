package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"questmap/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, quests *QuestHandler, mapH *MapHandler, stats *StatsHandler, events *EventsHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 1b. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Quest Endpoints
	mux.HandleFunc("GET /api/quests", quests.HandleList)
	mux.HandleFunc("GET /api/quests/browse", quests.HandleBrowse)
	mux.HandleFunc("GET /api/topics", quests.HandleTopics)
	mux.HandleFunc("POST /api/quests/refresh", quests.HandleRefresh)
	mux.HandleFunc("POST /api/filter", quests.HandleSetFilter)
	mux.HandleFunc("POST /api/filter/reset", quests.HandleResetFilter)
	mux.HandleFunc("POST /api/quests/{id}/apply", quests.HandleApply)
	mux.HandleFunc("POST /api/quests/{id}/close", quests.HandleClose)
	mux.HandleFunc("DELETE /api/quests/{id}", quests.HandleDelete)

	// 3. Map Endpoints
	mux.HandleFunc("GET /api/map/state", mapH.HandleState)
	mux.HandleFunc("POST /api/map/select", mapH.HandleSelect)
	mux.HandleFunc("POST /api/map/clear", mapH.HandleClear)
	mux.HandleFunc("POST /api/map/transport", mapH.HandleTransport)
	mux.HandleFunc("POST /api/map/locate", mapH.HandleLocate)
	mux.HandleFunc("POST /api/map/details", mapH.HandleDetails)

	// 4. Events Endpoint (websocket push)
	if events != nil {
		mux.HandleFunc("GET /api/map/events", events.HandleEvents)
	}

	// 5. Stats Endpoint
	mux.Handle("GET /api/stats", stats)

	// 6. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
