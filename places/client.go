package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"localscope/app"
)

// maxBodyBytes bounds how much of a places response is read.
const maxBodyBytes = 4 << 20

// Searcher runs one places search.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

// Client queries the places endpoint. It never caches or retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	metrics    *Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithMetrics records upstream calls against m.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns a Client for the given endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured places URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// searchURL appends longitude, latitude and radius, in that order.
func (c *Client) searchURL(q SearchQuery) string {
	params := "longitude=" + url.QueryEscape(formatCoord(q.Longitude)) +
		"&latitude=" + url.QueryEscape(formatCoord(q.Latitude)) +
		"&radius=" + strconv.Itoa(q.Radius)

	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + params
}

// Search issues a single GET and normalizes the response.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	apiURL := c.searchURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		app.RecordAPICall("places", http.MethodGet, apiURL, 0, time.Since(start), err)
		c.metrics.upstream("error", time.Since(start))
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.upstream(strconv.Itoa(resp.StatusCode), elapsed)
	if err != nil {
		app.RecordAPICall("places", http.MethodGet, apiURL, resp.StatusCode, elapsed, err)
		return nil, fmt.Errorf("places response read failed: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		rlErr := &RateLimitError{Message: rateLimitMessage(body)}
		app.RecordAPICall("places", http.MethodGet, apiURL, resp.StatusCode, elapsed, rlErr)
		return nil, rlErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		app.RecordAPICall("places", http.MethodGet, apiURL, resp.StatusCode, elapsed, httpErr)
		return nil, httpErr
	}

	result, shape, err := decodeResult(body)
	app.RecordAPICall("places", http.MethodGet, apiURL, resp.StatusCode, elapsed, err)
	if errors.Is(err, ErrUnrecognizedShape) {
		app.Log("places", "Unexpected response format from %s: %.200s", c.endpoint, body)
		return &SearchResult{Places: []*Place{}}, nil
	}
	if err != nil {
		return nil, err
	}

	if result.RateLimitInfo != nil {
		app.Log("places", "Rate limit info: ip=%s global=%s", countString(result.RateLimitInfo.RemainingIPRequests), countString(result.RateLimitInfo.RemainingGlobalRequests))
	}
	app.Log("places", "Search %.6f,%.6f r=%d returned %d places (%s)", q.Latitude, q.Longitude, q.Radius, len(result.Places), shape)

	return result, nil
}

func countString(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
