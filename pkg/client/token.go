package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// SessionCookieName is the cookie the tracker accepts as an alternative to
// the Token header. Image endpoints are session-gated through this cookie.
const SessionCookieName = "zentaosid"

// tokenCache holds the current session token with its acquisition time.
// A token older than ttl is never returned; callers re-acquire instead.
type tokenCache struct {
	mu         sync.Mutex
	value      string
	acquiredAt time.Time
	ttl        time.Duration
	now        func() time.Time
}

func newTokenCache(ttl time.Duration, now func() time.Time) *tokenCache {
	if now == nil {
		now = time.Now
	}
	return &tokenCache{ttl: ttl, now: now}
}

// get returns the cached token and whether it is still usable.
func (tc *tokenCache) get() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.value == "" || tc.now().Sub(tc.acquiredAt) >= tc.ttl {
		return "", false
	}
	return tc.value, true
}

func (tc *tokenCache) set(token string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.value = token
	tc.acquiredAt = tc.now()
}

func (tc *tokenCache) clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.value = ""
	tc.acquiredAt = time.Time{}
}

// Token returns a valid session token, authenticating against the tracker
// when the cached one is missing or expired. Concurrent acquisitions are
// deduplicated through singleflight.
func (c *Client) Token(ctx context.Context) (string, error) {
	if token, ok := c.tokens.get(); ok {
		return token, nil
	}

	v, err, _ := c.authGroup.Do("token", func() (any, error) {
		// Another caller may have finished acquisition while this one
		// waited on the flight.
		if token, ok := c.tokens.get(); ok {
			return token, nil
		}
		return c.acquireToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// acquireToken performs the POST /tokens authentication call.
func (c *Client) acquireToken(ctx context.Context) (string, error) {
	start := time.Now()

	payload, err := json.Marshal(map[string]string{
		"account":  c.username,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/tokens"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("authenticating: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", c.parseError(resp)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding auth response: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("auth response missing token")
	}

	c.tokens.set(body.Token)

	slog.Debug("acquired session token",
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return body.Token, nil
}
