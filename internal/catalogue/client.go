// Package catalogue talks to the RAWG games API, the external source of
// truth for game metadata.
package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.rawg.io/api"

var (
	// ErrMissingAPIKey means the client was constructed without a
	// credential; the catalogue rejects anonymous requests.
	ErrMissingAPIKey = errors.New("catalogue API key is not configured")

	// ErrLookupFailed means the catalogue was unreachable or answered
	// with a non-success status. Callers may retry.
	ErrLookupFailed = errors.New("external catalogue lookup failed")
)

// Game is one search result as the catalogue reports it. Released is an
// ISO date string ("2013-09-17") and may be empty for unreleased titles.
type Game struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Released        string `json:"released"`
	BackgroundImage string `json:"background_image"`
}

type searchResponse struct {
	Results []Game `json:"results"`
}

// Client queries the catalogue over HTTP with a bounded timeout and a rate
// limiter, since the free tier caps requests per key.
type Client struct {
	key     string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option applies a configuration to the Client.
type Option func(*Client)

// WithBaseURL overrides the catalogue endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter overrides the request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient constructs a catalogue client. It fails when no API key is
// supplied so a misconfigured deployment dies at startup, not on the first
// user search.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		key:     apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 8 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search asks the catalogue for games matching the free-text term, returning
// at most pageSize results.
func (c *Client) Search(ctx context.Context, term string, pageSize int) ([]Game, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	q := url.Values{}
	q.Set("key", c.key)
	q.Set("search", term)
	q.Set("page_size", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/games?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building catalogue request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrLookupFailed, err)
	}

	return body.Results, nil
}
