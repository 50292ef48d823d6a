package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Defaults matching a stock ZenTao install.
const (
	DefaultBaseURL    = "http://localhost/zentao"
	DefaultUsername   = "admin"
	DefaultPassword   = "admin"
	DefaultAPIVersion = "v1"
	DefaultTokenTTL   = 5 * time.Minute
)

// Client is a ZenTao REST API client.
type Client struct {
	baseURL    string
	username   string
	password   string
	apiVersion string
	httpClient *http.Client

	tokens    *tokenCache
	authGroup singleflight.Group
}

// Option is a functional option for configuring the Client.
type Option func(*settings)

type settings struct {
	baseURL    string
	username   string
	password   string
	apiVersion string
	tokenTTL   time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// WithBaseURL sets the tracker base URL.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithCredentials sets the account used for token acquisition.
func WithCredentials(username, password string) Option {
	return func(s *settings) {
		s.username = username
		s.password = password
	}
}

// WithAPIVersion sets the API version path segment.
func WithAPIVersion(version string) Option {
	return func(s *settings) {
		s.apiVersion = version
	}
}

// WithTokenTTL sets how long an acquired token is reused before the next
// request re-authenticates.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.tokenTTL = ttl
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// withClock overrides the token cache clock. Tests use this to simulate
// expiry without waiting.
func withClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// New creates a new ZenTao API client.
func New(opts ...Option) *Client {
	s := &settings{
		baseURL:    DefaultBaseURL,
		username:   DefaultUsername,
		password:   DefaultPassword,
		apiVersion: DefaultAPIVersion,
		tokenTTL:   DefaultTokenTTL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return &Client{
		baseURL:    s.baseURL,
		username:   s.username,
		password:   s.password,
		apiVersion: s.apiVersion,
		httpClient: s.httpClient,
		tokens:     newTokenCache(s.tokenTTL, s.now),
	}
}

// apiURL builds an absolute URL for an API path like "/bugs/42".
func (c *Client) apiURL(path string) string {
	return c.baseURL + "/api.php/" + c.apiVersion + path
}

// do performs one authenticated request and decodes the JSON response into
// result. On a 401 or 403 it clears the token cache, re-authenticates, and
// retries the identical request exactly once; a second failure of any kind
// propagates. Other error classes are never retried.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	start := time.Now()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	u, err := url.Parse(c.apiURL(path))
	if err != nil {
		return fmt.Errorf("parsing URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	attempt := func() (*http.Response, error) {
		token, err := c.Token(ctx)
		if err != nil {
			return nil, err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Token", token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		return c.httpClient.Do(req)
	}

	resp, err := attempt()
	if err == nil && isAuthFailure(resp.StatusCode) {
		resp.Body.Close()
		c.tokens.clear()
		slog.Debug("token rejected, re-authenticating",
			slog.String("method", method),
			slog.String("path", path),
		)
		resp, err = attempt()
	}
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := c.parseError(resp)
		slog.Debug("HTTP request returned error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	slog.Debug("HTTP request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// parseError extracts an APIError from an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		if errResp.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
