// Package unpaywall provides a rate-limited client for the Unpaywall API,
// used as a secondary open-access source during reconciliation.
package unpaywall

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
	// DefaultBaseURL is the Unpaywall v2 endpoint.
	DefaultBaseURL = "https://api.unpaywall.org/v2"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit keeps requests well under Unpaywall's daily allowance.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for Unpaywall DOI lookups.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	email      string
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

// WithEmail sets the contact email Unpaywall requires on requests.
// Lookups are still attempted without one.
func WithEmail(email string) ClientOption {
	return func(c *Client) {
		c.email = email
	}
}

// NewClient creates a new Unpaywall client.
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

// Lookup fetches the Unpaywall record for a normalized DOI. Any failure
// collapses to an empty payload, the uniform not-available signal.
func (c *Client) Lookup(ctx context.Context, doi string) payload.Payload {
	if doi == "" {
		return payload.Payload{}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return payload.Payload{}
	}

	u := c.baseURL + "/" + url.PathEscape(doi)
	if c.email != "" {
		u += "?email=" + url.QueryEscape(c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
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
	return body
}
