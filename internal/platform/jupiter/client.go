// Package jupiter is the REST client for the jup.ag swap, token, price,
// recurring and trigger APIs.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

const (
	// DefaultBaseURL is the public jup.ag API root.
	DefaultBaseURL = "https://quote-api.jup.ag/v6"

	// DefaultTimeout bounds one upstream call, retries included.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryDelay is the first backoff delay between GET retries.
	DefaultRetryDelay = time.Second
)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string

	// Timeout bounds a whole call. A GET and all of its retries share it.
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	HTTPClient *http.Client

	// Observe, when set, is called once per HTTP exchange with the request
	// method and response status (zero when no response was received).
	Observe func(method string, status int)
}

// Client is the jup.ag API client. It is safe for concurrent use; the only
// shared state is the underlying HTTP connection pool.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	retry      retryPolicy
	observe    func(method string, status int)
}

// NewClient creates a Client from cfg, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		timeout:    timeout,
		retry:      retryPolicy{retries: retries, base: delay},
		observe:    cfg.Observe,
	}
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends a GET request, retrying transient failures according to the
// client's retry policy. All attempts and backoff waits share one deadline.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; ; attempt++ {
		body, status, err := c.do(ctx, http.MethodGet, path, nil)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt >= c.retry.retries || !retryable(status, err) {
			return nil, lastErr
		}
		if werr := c.retry.wait(ctx, attempt); werr != nil {
			return nil, lastErr
		}
	}
}

// doJSON sends a non-idempotent request with an optional JSON body. It is
// never retried.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var payload []byte
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}
	body, _, err := c.do(ctx, method, path, payload)
	return body, err
}

// do performs a single HTTP exchange. The returned status is zero when no
// response was received.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, 0, domain.Service("Failed to build upstream request", http.StatusInternalServerError, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(method, 0)
		return nil, 0, domain.Service(transportMessage(err), http.StatusInternalServerError, err)
	}
	defer resp.Body.Close()
	c.record(method, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, domain.Service("Failed to read upstream response", http.StatusInternalServerError, err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) record(method string, status int) {
	if c.observe != nil {
		c.observe(method, status)
	}
}

// checkHTTPStatus maps non-2xx status codes to domain errors. 404 becomes
// domain.ErrNotFound; everything else becomes a service error carrying the
// upstream status and message.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, strings.TrimSpace(string(body)))
	}
	return domain.Service(upstreamMessage(statusCode, body), statusCode, fmt.Errorf("HTTP %d", statusCode))
}

// upstreamMessage extracts the error or message field from an upstream error
// body, falling back to the raw body text.
func upstreamMessage(statusCode int, body []byte) string {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil {
		if ae.Error != "" {
			return ae.Error
		}
		if ae.Message != "" {
			return ae.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("Upstream request failed with status %d", statusCode)
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Upstream request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "Upstream request cancelled"
	}
	return "Upstream request failed: " + err.Error()
}

func decode[T any](body []byte, what string) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, domain.Service("Unexpected upstream response", http.StatusInternalServerError,
			fmt.Errorf("decode %s: %w", what, err))
	}
	return v, nil
}
