// Package nodeapi is a small client for the REST api DPOS nodes expose.
package nodeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/vietddude/nodewatch/internal/core/domain"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
)

var (
	// ErrUnreachable wraps transport failures: refused, timed out, dns.
	ErrUnreachable = errors.New("node unreachable")
	// ErrForbidden is returned on HTTP 403, usually a missing api whitelist entry.
	ErrForbidden = errors.New("node api access denied (403)")
	// ErrNotSuccessful is returned when the node answers with success=false.
	ErrNotSuccessful = errors.New("node api returned success=false")
)

// HTTPError is a non-2xx response other than 403.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// StatusOf maps a Get error to the observation status it stands for.
func StatusOf(err error) domain.Status {
	switch {
	case err == nil:
		return domain.StatusOK
	case errors.Is(err, ErrUnreachable):
		return domain.StatusUnreachable
	case errors.Is(err, ErrForbidden):
		return domain.StatusForbidden
	default:
		return domain.StatusServerError
	}
}

// HealthStatus summarises how the node api has been answering.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
}

// Client performs GET requests against node apis.
type Client struct {
	httpClient *http.Client

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int
}

// NewClient creates a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		health: HealthStatus{Available: true},
	}
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Get fetches baseURL+path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, baseURL, path string, query url.Values, out any) error {
	start := time.Now()

	endpoint := baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.recordFailure(domain.StatusServerError)
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(domain.StatusUnreachable)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.recordFailure(domain.StatusForbidden)
		return ErrForbidden
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(domain.StatusServerError)
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordFailure(domain.StatusServerError)
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.recordFailure(domain.StatusServerError)
		return fmt.Errorf("parse response: %w", err)
	}
	if env.Success != nil && !*env.Success {
		c.recordFailure(domain.StatusServerError)
		return fmt.Errorf("%w: %s", ErrNotSuccessful, env.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.recordFailure(domain.StatusServerError)
		return fmt.Errorf("parse response: %w", err)
	}

	c.recordSuccess(time.Since(start))
	return nil
}

// GetHealth returns the client's health status.
func (c *Client) GetHealth() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) recordSuccess(latency time.Duration) {
	metrics.ProbeLatency.WithLabelValues("nodeapi").Observe(latency.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()

	c.successCount++
	c.requestCount++
	c.totalLatency += latency
	c.health.LastSuccessAt = time.Now()
	c.health.Available = true
	c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	c.health.Latency = c.totalLatency / time.Duration(c.successCount)
}

func (c *Client) recordFailure(status domain.Status) {
	metrics.ProbeErrorsTotal.WithLabelValues("nodeapi", status.String()).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount++
	c.requestCount++
	c.health.LastFailureAt = time.Now()
	c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)

	if c.health.ErrorRate > 0.5 {
		c.health.Available = false
	}
}
