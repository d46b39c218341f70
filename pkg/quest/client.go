// Package quest talks to the marketplace backend and maintains the local
// view of the user's quests: the fetched collections, the derived topic
// vocabulary, filter state, and resolved location names for quest markers.
package quest

import (
	"context"
	"encoding/json"
	"fmt"

	"questmap/pkg/model"
	"questmap/pkg/request"
)

// Client is a thin wrapper around the marketplace HTTP API. All calls
// carry the session token; server-side failures surface as errors with
// empty results, never as partial data.
type Client struct {
	client       *request.Client
	Endpoint     string
	sessionToken string
}

// NewClient creates a marketplace API client.
func NewClient(c *request.Client, endpoint, sessionToken string) *Client {
	return &Client{client: c, Endpoint: endpoint, sessionToken: sessionToken}
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	if c.sessionToken != "" {
		h["Authorization"] = "Bearer " + c.sessionToken
	}
	return h
}

// The backend wraps every response payload in a named envelope.
type questsEnvelope struct {
	Quests []model.Quest `json:"quests"`
}

type userEnvelope struct {
	User model.User `json:"user"`
}

// FetchAll returns every quest the backend knows about.
func (c *Client) FetchAll(ctx context.Context) ([]model.Quest, error) {
	body, err := c.client.GetWithHeaders(ctx, c.Endpoint+"/api/quests", c.headers())
	if err != nil {
		return nil, fmt.Errorf("fetch quests: %w", err)
	}

	var env questsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode quests: %w", err)
	}
	return env.Quests, nil
}

// FetchUser returns the user record with their created and applied quest
// collections embedded.
func (c *Client) FetchUser(ctx context.Context, userID string) (*model.User, error) {
	body, err := c.client.GetWithHeaders(ctx, c.Endpoint+"/api/users/"+userID, c.headers())
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}

	var env userEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &env.User, nil
}

// Apply registers the user as an applicant on a quest.
func (c *Client) Apply(ctx context.Context, questID, userID string) error {
	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return err
	}
	if _, err := c.client.Post(ctx, c.Endpoint+"/api/quests/"+questID+"/apply", payload, c.headers()); err != nil {
		return fmt.Errorf("apply to quest %s: %w", questID, err)
	}
	return nil
}

// CloseQuest marks a quest as closed.
func (c *Client) CloseQuest(ctx context.Context, questID string) error {
	if _, err := c.client.Post(ctx, c.Endpoint+"/api/quests/"+questID+"/close", nil, c.headers()); err != nil {
		return fmt.Errorf("close quest %s: %w", questID, err)
	}
	return nil
}

// Delete removes a quest.
func (c *Client) Delete(ctx context.Context, questID string) error {
	if _, err := c.client.Delete(ctx, c.Endpoint+"/api/quests/"+questID, c.headers()); err != nil {
		return fmt.Errorf("delete quest %s: %w", questID, err)
	}
	return nil
}
