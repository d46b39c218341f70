package quest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questmap/pkg/request"
	"questmap/pkg/tracker"
)

func newAPIClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rc := request.New(tracker.New(), request.ClientConfig{Retries: 1, Timeout: 2 * time.Second})
	return NewClient(rc, srv.URL, "tok")
}

func TestFetchAll(t *testing.T) {
	c := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quests", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"quests": [{"_id": "q1", "title": "Walk my dog", "status": "open"}]}`))
	})

	quests, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "q1", quests[0].ID)
}

func TestFetchUserEnvelope(t *testing.T) {
	c := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/u1", r.URL.Path)
		w.Write([]byte(`{"user": {"_id": "u1", "username": "alice",
			"created_quests": [{"_id": "q1", "status": "open"}],
			"applied_quests": []}}`))
	})

	user, err := c.FetchUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	require.Len(t, user.CreatedQuests, 1)
	assert.Equal(t, "q1", user.CreatedQuests[0].ID)
}

func TestFetchAllServerError(t *testing.T) {
	c := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	quests, err := c.FetchAll(context.Background())
	assert.Error(t, err)
	assert.Empty(t, quests)
}

func TestApply(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Apply(context.Background(), "q1", "u1"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/quests/q1/apply", gotPath)
	assert.JSONEq(t, `{"user_id": "u1"}`, gotBody)
}

func TestCloseAndDelete(t *testing.T) {
	var calls []string
	c := newAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.CloseQuest(context.Background(), "q2"))
	require.NoError(t, c.Delete(context.Background(), "q3"))
	assert.Equal(t, []string{"POST /api/quests/q2/close", "DELETE /api/quests/q3"}, calls)
}
