// Package cmr provides a client for the NASA Common Metadata Repository
// collections search API.
package cmr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Collection is one dataset metadata record as returned by the CMR
// collections endpoint. Spatial descriptors arrive as raw strings: boxes as
// "south west north east", polygon rings as flat "lat lon lat lon ..."
// sequences, points as "lat lon".
type Collection struct {
	ID             string     `json:"id"`
	ShortName      string     `json:"short_name"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	OriginalFormat string     `json:"original_format"`
	Platforms      []string   `json:"platforms"`
	Links          []Link     `json:"links"`
	Boxes          []string   `json:"boxes"`
	Polygons       [][]string `json:"polygons"`
	Points         []string   `json:"points"`
	TimeStart      string     `json:"time_start"`
	TimeEnd        string     `json:"time_end"`
}

// Link is a related-resource link attached to a collection.
type Link struct {
	Rel      string `json:"rel"`
	Hreflang string `json:"hreflang,omitempty"`
	Href     string `json:"href"`
}

// searchResponse is the Atom-style envelope around collection entries.
type searchResponse struct {
	Feed struct {
		Entry []Collection `json:"entry"`
	} `json:"feed"`
}

// Client defines the CMR collection search operations.
type Client interface {
	// SearchPage fetches a single page of collection records (1-based).
	SearchPage(ctx context.Context, page int, opts ...SearchOption) ([]Collection, error)
	// SearchAll pages through the catalog until a short page or the
	// configured page cap and returns all records fetched.
	SearchAll(ctx context.Context, opts ...SearchOption) ([]Collection, error)
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	keyword  string
	platform string
}

// WithKeyword restricts results to collections matching a free-text keyword.
func WithKeyword(keyword string) SearchOption {
	return func(o *searchOpts) {
		o.keyword = keyword
	}
}

// WithPlatform restricts results to collections observed by a platform.
func WithPlatform(platform string) SearchOption {
	return func(o *searchOpts) {
		o.platform = platform
	}
}

// Option configures the CMR client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPageSize sets the number of records requested per page.
func WithPageSize(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxPages caps how many pages SearchAll will fetch.
func WithMaxPages(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithRateLimit overrides the default request rate toward the API.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	baseURL  string
	pageSize int
	maxPages int
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a new CMR collections client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:  "https://cmr.earthdata.nasa.gov/search",
		pageSize: 100,
		maxPages: 10,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes an HTTP request with exponential backoff retries on
// transient failures (429, 500, 502, 503). Each attempt passes through the
// client rate limiter. Returns the response body and status code on success,
// or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, eris.Wrap(err, "cmr: rate limit wait")
		}

		// Clone request for retry (body is nil for GET requests).
		retryReq := req.Clone(ctx)

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "cmr: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("cmr: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) SearchPage(ctx context.Context, page int, opts ...SearchOption) ([]Collection, error) {
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	q := url.Values{}
	q.Set("page_size", strconv.Itoa(c.pageSize))
	q.Set("page_num", strconv.Itoa(page))
	if so.keyword != "" {
		q.Set("keyword", so.keyword)
	}
	if so.platform != "" {
		q.Set("platform", so.platform)
	}
	reqURL := fmt.Sprintf("%s/collections.json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "cmr: create request")
	}
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "cmr: fetch page %d", page)
	}

	if statusCode != http.StatusOK {
		return nil, eris.Errorf("cmr: page %d unexpected status %d: %s", page, statusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "cmr: unmarshal page %d", page)
	}

	return result.Feed.Entry, nil
}

func (c *httpClient) SearchAll(ctx context.Context, opts ...SearchOption) ([]Collection, error) {
	var all []Collection
	for page := 1; page <= c.maxPages; page++ {
		entries, err := c.SearchPage(ctx, page, opts...)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)

		// A short page means the catalog is exhausted.
		if len(entries) < c.pageSize {
			break
		}
	}
	return all, nil
}
