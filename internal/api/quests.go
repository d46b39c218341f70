package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"questmap/pkg/model"
	"questmap/pkg/quest"
)

// QuestHandler serves the user's quest collections and proxies quest
// mutations to the marketplace backend.
type QuestHandler struct {
	store  *quest.Store
	client *quest.Client
	userID string
}

func NewQuestHandler(store *quest.Store, client *quest.Client, userID string) *QuestHandler {
	return &QuestHandler{store: store, client: client, userID: userID}
}

type QuestListResponse struct {
	Created   []model.Quest                        `json:"created"`
	Applied   []model.Quest                        `json:"applied"`
	Locations map[string]*model.LocationDescriptor `json:"locations"`
	Filter    quest.FilterState                    `json:"filter"`
}

// HandleList returns both collections under the current filter. Explicit
// status/topic query parameters override the stored filter for this
// request only.
func (h *QuestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := h.store.Filter()
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		filter.Status = v
	}
	if v := q.Get("topic"); v != "" {
		filter.Topic = v
	}

	switch filter.Status {
	case quest.FilterAll, string(model.StatusOpen), string(model.StatusClosed):
	default:
		http.Error(w, "unknown status filter", http.StatusBadRequest)
		return
	}

	resp := QuestListResponse{
		Created:   filter.Apply(h.store.Created()),
		Applied:   filter.Apply(h.store.Applied()),
		Locations: h.store.Locations(),
		Filter:    filter,
	}
	writeJSON(w, resp)
}

// HandleBrowse returns every quest on the marketplace, freshly fetched,
// optionally narrowed by the same status/topic query parameters as the
// list endpoint. This feeds the discovery map, not the profile view.
func (h *QuestHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	quests, err := h.client.FetchAll(r.Context())
	if err != nil {
		slog.Error("Quest browse failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	q := r.URL.Query()
	status, topic := q.Get("status"), q.Get("topic")
	if status == "" {
		status = quest.FilterAll
	}
	if topic == "" {
		topic = quest.FilterAll
	}
	writeJSON(w, map[string][]model.Quest{"quests": quest.Filter(quests, status, topic)})
}

// HandleTopics returns the topic vocabulary across both collections.
func (h *QuestHandler) HandleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"topics": h.store.Topics()})
}

// HandleRefresh reloads the collections from the backend.
func (h *QuestHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context(), h.userID); err != nil {
		slog.Error("Quest refresh failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type filterRequest struct {
	Status string `json:"status"`
	Topic  string `json:"topic"`
}

func (h *QuestHandler) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = quest.FilterAll
	}
	if req.Topic == "" {
		req.Topic = quest.FilterAll
	}
	if err := h.store.SetFilter(req.Status, req.Topic); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.store.Filter())
}

func (h *QuestHandler) HandleResetFilter(w http.ResponseWriter, r *http.Request) {
	h.store.ResetFilter()
	writeJSON(w, h.store.Filter())
}

// HandleApply registers the user on a quest, then reloads the view.
func (h *QuestHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() error {
		return h.client.Apply(r.Context(), r.PathValue("id"), h.userID)
	})
}

// HandleClose closes a quest, then reloads the view.
func (h *QuestHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() error {
		return h.client.CloseQuest(r.Context(), r.PathValue("id"))
	})
}

// HandleDelete deletes a quest, then reloads the view.
func (h *QuestHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() error {
		return h.client.Delete(r.Context(), r.PathValue("id"))
	})
}

func (h *QuestHandler) mutate(w http.ResponseWriter, r *http.Request, op func() error) {
	if err := op(); err != nil {
		slog.Error("Quest mutation failed", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if err := h.store.Load(r.Context(), h.userID); err != nil {
		slog.Warn("Reload after mutation failed", "error", err)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
