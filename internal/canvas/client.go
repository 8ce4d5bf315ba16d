package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBodySize limits how much of an error response body is included
// in error messages. Canvas error bodies are small JSON documents; the
// cap guards against HTML error pages from intermediaries.
const maxErrorBodySize = 2048

// Client is a read-only Canvas LMS API client.
//
// All requests carry the API key as a bearer token and accept a
// context for cancellation. The client performs no retries: a failed
// request surfaces immediately so the caller can log and skip.
type Client struct {
	// baseURL is the root of the Canvas instance, without the /api/v1
	// suffix (e.g. "https://canvas.example.edu").
	baseURL *url.URL

	// apiKey is the Canvas access token sent as a bearer credential.
	apiKey string

	// httpClient performs the requests. Its timeout is the only
	// time bound applied to individual calls.
	httpClient *http.Client

	// perPage is the page size requested from list endpoints.
	perPage int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
// Used by tests to point the client at an httptest server transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPerPage overrides the page size requested from list endpoints.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// NewClient creates a Canvas client for the given instance URL and API key.
//
// The URL is validated here so a malformed --api-url fails at startup
// rather than on the first request. The key is not verified; call
// CurrentUser to probe credentials.
func NewClient(rawURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	u, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, rawURL)
	}

	c := &Client{
		baseURL: u,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		perPage: 100,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// apiURL builds an absolute API URL for the given /api/v1 path and query.
func (c *Client) apiURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1" + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("canvas: decode response from %s: %w", rawURL, err)
	}
	return nil
}

// do performs an authenticated GET and maps non-2xx statuses to the
// package's error taxonomy. The caller owns the response body.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: request %s: %w", rawURL, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // Body is only for the error message
	_ = resp.Body.Close()                                              //nolint:errcheck // Already failed

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, rawURL)
	case http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrForbidden, rawURL)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	default:
		return nil, fmt.Errorf("canvas: %s returned status %d: %s",
			rawURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// CurrentUser fetches the authenticated user. This is the startup
// credential probe: an ErrUnauthorized here means the API key or URL is
// wrong and the run should abort.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, c.apiURL("/users/self", nil), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
