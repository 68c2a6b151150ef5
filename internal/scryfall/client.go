// Package scryfall is a small client for the card search endpoint.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultUserAgent = "prefire/dev"

	// Scryfall asks for 50-100ms between requests.
	defaultRateInterval = 100 * time.Millisecond
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 3
	initialBackoff      = 1 * time.Second
	maxBackoff          = 16 * time.Second

	// SearchOrder is the only sort prefire uses; ranking is Scryfall's job.
	SearchOrder = "name"
)

// Outcome labels one finished request for observers.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeHTTPError   Outcome = "http_error"
	OutcomeTransport   Outcome = "transport_error"
	OutcomeMalformed   Outcome = "malformed"
	OutcomeRateLimited Outcome = "rate_limited"
)

// Observer is notified once per HTTP attempt.
type Observer interface {
	ObserveRequest(outcome Outcome, elapsed time.Duration)
}

// Client talks to Scryfall with client-side rate limiting and retries.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	maxRetries  int
	observer    Observer
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// WithRateLimit spaces requests by at least interval. Zero disables limiting.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

func WithObserver(o Observer) Option { return func(c *Client) { c.observer = o } }

// NewClient creates a client with Scryfall's recommended pacing.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(defaultRateInterval), 1),
		userAgent:   DefaultUserAgent,
		maxRetries:  defaultMaxRetries,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchURL builds the request URL for one page of a search.
func (c *Client) SearchURL(q string, page int) string {
	if page < 1 {
		page = 1
	}
	v := url.Values{}
	v.Set("q", q)
	v.Set("order", SearchOrder)
	v.Set("page", strconv.Itoa(page))
	return c.baseURL + "/cards/search?" + v.Encode()
}

// SearchPage fetches one 175-card page of results ordered by name.
// A query with no match returns an error matching ErrNotFound.
func (c *Client) SearchPage(ctx context.Context, q string, page int) (*SearchResult, error) {
	var result SearchResult
	if err := c.doRequest(ctx, c.SearchURL(q, page), &result); err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	if result.Data == nil {
		result.Data = []Card{}
	}
	return &result, nil
}

// doRequest performs a GET with rate limiting and retry on transport errors
// and HTTP 429. Other statuses are final.
func (c *Client) doRequest(ctx context.Context, u string, out interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		wait, err := c.attempt(ctx, u, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if wait < 0 || attempt == c.maxRetries {
			return err
		}
		if wait == 0 {
			wait = backoff
			backoff = min(backoff*2, maxBackoff)
		}
		if err := c.sleep(ctx, wait); err != nil {
			return fmt.Errorf("%w (gave up: %v)", lastErr, err)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt runs one request. The returned wait is negative for final
// errors, zero to use the default backoff, or the server's Retry-After.
func (c *Client) attempt(ctx context.Context, u string, out interface{}) (time.Duration, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return -1, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(OutcomeTransport, start)
		if ctx.Err() != nil {
			return -1, fmt.Errorf("http request: %w", err)
		}
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(OutcomeTransport, start)
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(body, out); err != nil {
			c.observe(OutcomeMalformed, start)
			return -1, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		c.observe(OutcomeOK, start)
		return 0, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		c.observe(OutcomeRateLimited, start)
		return retryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("%w: 429 rate limited", ErrHTTPStatus)

	default:
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Object == "error" {
			if apiErr.Status == 0 {
				apiErr.Status = resp.StatusCode
			}
			if errors.Is(&apiErr, ErrNotFound) {
				c.observe(OutcomeNotFound, start)
			} else {
				c.observe(OutcomeHTTPError, start)
			}
			return -1, &apiErr
		}
		c.observe(OutcomeHTTPError, start)
		if resp.StatusCode == http.StatusNotFound {
			return -1, ErrNotFound
		}
		return -1, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}
}

func (c *Client) observe(o Outcome, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(o, time.Since(start))
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	secs, err := strconv.Atoi(h)
	if err != nil || secs < 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxBackoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
