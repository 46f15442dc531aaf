// Package openalex provides a rate-limited client for the OpenAlex works API.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielcoblentz/academic-language-analysis/internal/payload"
)

const (
	// DefaultBaseURL is the OpenAlex works endpoint.
	DefaultBaseURL = "https://api.openalex.org/works"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// RateLimit is 10 requests per second, the polite-pool ceiling.
	RateLimit = 10.0

	// DefaultPerPage is the page size requested by default.
	DefaultPerPage = 50
)

// Client is a rate-limited HTTP client for the OpenAlex works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
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

// WithMailto adds a contact email to every request, which routes calls to
// the OpenAlex polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// NewClient creates a new OpenAlex works client.
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

// Query selects which works to list.
type Query struct {
	TopicID  string // required concept/topic filter
	FromYear int    // inclusive publication year lower bound
	ToYear   int    // inclusive publication year upper bound
	PerPage  int    // page size; DefaultPerPage if zero
}

// filter renders the OpenAlex filter expression: open-access works with
// abstracts under the given topic, within the year range.
func (q Query) filter() string {
	return fmt.Sprintf("concepts.id:%s,publication_year:%d-%d,is_oa:true,has_abstract:true",
		q.TopicID, q.FromYear, q.ToYear)
}

// WorksPage is one page of catalog results.
type WorksPage struct {
	// Count is the total number of works matching the query.
	Count int
	// Results holds the raw work payloads in catalog order
	// (most cited first).
	Results []payload.Payload
}

// ListWorks fetches one page of works matching the query, sorted by
// citation count descending. Unlike the enrichment sources, a failure here
// is an error: with no primary payloads there is nothing to process.
func (c *Client) ListWorks(ctx context.Context, q Query) (*WorksPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	params := url.Values{}
	params.Set("filter", q.filter())
	params.Set("sort", "cited_by_count:desc")
	params.Set("per-page", strconv.Itoa(perPage))
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying works: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("querying works: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
		Results []payload.Payload `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing works response: %w", err)
	}

	return &WorksPage{Count: body.Meta.Count, Results: body.Results}, nil
}
