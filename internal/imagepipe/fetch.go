package imagepipe

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yinwusaya/zentao-mcp/internal/cache"
	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// DefaultFetchTimeout bounds one image retrieval.
const DefaultFetchTimeout = 10 * time.Second

// defaultContentType is assumed when the image endpoint omits the header.
const defaultContentType = "image/jpeg"

// FetchResult is the outcome of retrieving one image reference. Exactly one
// of DataURI and Err is populated.
type FetchResult struct {
	OK          bool   `json:"success"`
	URL         string `json:"url"`
	DataURI     string `json:"base64,omitempty"`
	Size        int    `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Err         string `json:"error,omitempty"`
}

// TokenSource provides the tracker session token carried as the auth
// cookie on image requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Fetcher retrieves images from session-gated tracker URLs and encodes
// them as base64 data URIs.
type Fetcher struct {
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	cache      *cache.LRU[FetchResult]
}

// NewFetcher creates a Fetcher. A nil httpClient falls back to
// http.DefaultClient; timeout <= 0 falls back to DefaultFetchTimeout;
// a nil cache disables caching.
func NewFetcher(tokens TokenSource, httpClient *http.Client, timeout time.Duration, imageCache *cache.LRU[FetchResult]) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		tokens:     tokens,
		httpClient: httpClient,
		timeout:    timeout,
		cache:      imageCache,
	}
}

// Fetch retrieves one image under session authentication. Failures of any
// kind (auth, transport, timeout, non-2xx status) come back as a failed
// FetchResult, never as an error, so a caller can process a mixed-outcome
// batch without an error boundary. Successful results are cached by URL.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) FetchResult {
	if f.cache != nil {
		if cached, ok := f.cache.Get(imageURL); ok {
			return cached
		}
	}

	result := f.fetch(ctx, imageURL)
	if result.OK && f.cache != nil {
		f.cache.Put(imageURL, result)
	}
	return result
}

func (f *Fetcher) fetch(ctx context.Context, imageURL string) FetchResult {
	fail := func(err error) FetchResult {
		slog.Debug("image fetch failed",
			slog.String("url", imageURL),
			slog.String("error", err.Error()),
		)
		return FetchResult{URL: imageURL, Err: err.Error()}
	}

	token, err := f.tokens.Token(ctx)
	if err != nil {
		return fail(err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fail(err)
	}
	req.AddCookie(&http.Cookie{Name: client.SessionCookieName, Value: token})

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return FetchResult{
		OK:          true,
		URL:         imageURL,
		DataURI:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Size:        len(data),
		ContentType: contentType,
	}
}
