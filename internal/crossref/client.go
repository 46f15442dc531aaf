// Package crossref provides a rate-limited client for the Crossref works API,
// used as a secondary metadata source during reconciliation.
package crossref

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielcoblentz/academic-language-analysis/internal/payload"
)

const (
	// DefaultBaseURL is the Crossref works endpoint.
	DefaultBaseURL = "https://api.crossref.org/works"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit keeps requests within Crossref's public pool guidance.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for Crossref DOI lookups.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a new Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup fetches Crossref metadata for a normalized DOI and returns the
// message payload. Any failure (network error, not-found, malformed
// response) collapses to an empty payload: enrichment is best-effort and
// must never fail the record being reconciled.
func (c *Client) Lookup(ctx context.Context, doi string) payload.Payload {
	if doi == "" {
		return payload.Payload{}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return payload.Payload{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+url.PathEscape(doi), nil)
	if err != nil {
		return payload.Payload{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return payload.Payload{}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return payload.Payload{}
	}

	var body payload.Payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return payload.Payload{}
	}

	msg := body.Map("message")
	if msg == nil {
		return payload.Payload{}
	}
	return msg
}
