// Package request is the shared HTTP client for all external collaborators.
// Requests to the same provider are serialized through a per-provider queue
// so unreliable, rate-limited services (the geocoder in particular) are never
// hammered, with exponential backoff on retryable failures.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"questmap/pkg/tracker"
	"questmap/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("QuestMap/%s (local quest marketplace client)", version.Version)

// ClientConfig holds retry and timeout settings.
type ClientConfig struct {
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Timeout   time.Duration
}

// Client handles HTTP requests with per-provider queuing, backoff and tracking.
type Client struct {
	httpClient *http.Client
	tracker    *tracker.Tracker
	backoff    *ProviderBackoff
	cfg        ClientConfig

	// Queues per provider (domain)
	queues map[string]chan job
	mu     sync.Mutex // Protects queues map
}

// job represents a queued request.
type job struct {
	req      *http.Request
	headers  map[string]string
	respChan chan jobResult
}

type jobResult struct {
	body []byte
	err  error
}

// New creates a new Client.
func New(t *tracker.Tracker, cfg ClientConfig) *Client {
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracker:    t,
		backoff:    NewProviderBackoff(cfg.BaseDelay, cfg.MaxDelay),
		cfg:        cfg,
		queues:     make(map[string]chan job),
	}
}

// Get performs a GET request through the provider queue.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil)
}

// GetWithHeaders performs a GET request with custom headers.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
	req, provider, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.enqueue(ctx, provider, job{req: req, headers: headers})
}

// Post performs a POST request through the provider queue.
func (c *Client) Post(ctx context.Context, u string, body []byte, headers map[string]string) ([]byte, error) {
	req, provider, err := c.newRequest(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, err
	}
	return c.enqueue(ctx, provider, job{req: req, headers: headers})
}

// Delete performs a DELETE request through the provider queue.
func (c *Client) Delete(ctx context.Context, u string, headers map[string]string) ([]byte, error) {
	req, provider, err := c.newRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return nil, err
	}
	return c.enqueue(ctx, provider, job{req: req, headers: headers})
}

func (c *Client) newRequest(ctx context.Context, method, u string, body []byte) (*http.Request, string, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, "", fmt.Errorf("invalid url: %w", err)
	}
	provider := normalizeProvider(parsedURL.Host)

	var rdr io.Reader = http.NoBody
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	return req, provider, nil
}

func (c *Client) enqueue(ctx context.Context, provider string, j job) ([]byte, error) {
	j.respChan = make(chan jobResult, 1)
	c.dispatch(provider, j)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-j.respChan:
		return res.body, res.err
	}
}

// normalizeProvider groups related hosts into one provider for serialization.
func normalizeProvider(host string) string {
	if strings.HasSuffix(host, ".openstreetmap.org") || host == "openstreetmap.org" {
		return "nominatim"
	}
	if strings.HasSuffix(host, ".project-osrm.org") || host == "project-osrm.org" {
		return "osrm"
	}
	return host
}

// dispatch sends the job to the provider's queue, creating the queue/worker if needed.
func (c *Client) dispatch(provider string, j job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, ok := c.queues[provider]
	if !ok {
		q = make(chan job, 100)
		c.queues[provider] = q
		go c.worker(provider, q)
	}

	// We block here if the queue is full, effectively throttling the caller
	select {
	case q <- j:
	case <-j.req.Context().Done():
		// Caller gave up before we could even enqueue
		j.respChan <- jobResult{err: j.req.Context().Err()}
	}
}

// worker processes requests for a specific provider sequentially.
func (c *Client) worker(provider string, q <-chan job) {
	for j := range q {
		if j.req.Context().Err() != nil {
			slog.Warn("Job dropped from queue (context expired)", "provider", provider, "error", j.req.Context().Err())
			j.respChan <- jobResult{err: j.req.Context().Err()}
			continue
		}

		// Honor any provider-wide cool-down from previous failures
		c.backoff.Wait(provider)

		// Apply User-Agent (default if not provided)
		uaMatch := false
		for k, v := range j.headers {
			j.req.Header.Set(k, v)
			if http.CanonicalHeaderKey(k) == "User-Agent" {
				uaMatch = true
			}
		}
		if !uaMatch {
			j.req.Header.Set("User-Agent", defaultUserAgent)
		}

		body, err := c.executeWithRetries(j.req)

		if err == nil {
			c.tracker.TrackAPISuccess(provider)
			c.backoff.RecordSuccess(provider)
		} else {
			c.tracker.TrackAPIFailure(provider)
			c.backoff.RecordFailure(provider)
		}

		j.respChan <- jobResult{body: body, err: err}

		// Hardcoded safety gap to prevent hitting rate limits
		time.Sleep(100 * time.Millisecond)
	}
}

// executeWithRetries attempts the request with exponential backoff on retryable errors.
func (c *Client) executeWithRetries(req *http.Request) ([]byte, error) {
	for attempt := 0; attempt < c.cfg.Retries; attempt++ {
		// Verify context is still alive before dialing
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		// The previous attempt consumed the body; rewind it or the retry
		// goes out with ContentLength set and nothing to send.
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewind request body: %w", err)
			}
			req.Body = body
		}

		slog.Debug("Network Request", "host", req.URL.Host, "path", req.URL.Path, "attempt", attempt+1)
		resp, err := c.httpClient.Do(req)

		if err != nil {
			// Check if the error is a context cancellation from OUR side
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}

			slog.Warn("Request failed, retrying", "url", req.URL, "attempt", attempt+1, "error", err)
			if werr := c.sleepBackoff(req, attempt); werr != nil {
				return nil, werr
			}
			continue
		}

		// Retryable status codes
		if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode < 600) {
			resp.Body.Close()
			slog.Warn("API Backoff", "status", resp.StatusCode, "url", req.URL, "attempt", attempt+1)
			if werr := c.sleepBackoff(req, attempt); werr != nil {
				return nil, werr
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("api error: status %d", resp.StatusCode)
		}

		// Success
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded")
}

func (c *Client) sleepBackoff(req *http.Request, attempt int) error {
	sleepDur := time.Duration(math.Pow(2, float64(attempt))) * c.cfg.BaseDelay
	if sleepDur > c.cfg.MaxDelay {
		sleepDur = c.cfg.MaxDelay
	}
	select {
	case <-time.After(sleepDur):
		return nil
	case <-req.Context().Done():
		return req.Context().Err()
	}
}
