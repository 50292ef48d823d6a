package imagepipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"
	"time"
)

// DefaultUploadTimeout bounds one rehost upload.
const DefaultUploadTimeout = 30 * time.Second

// dataURIPattern validates the encoded image input and captures the image
// subtype and the base64 payload.
var dataURIPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

// UploadResult is the outcome of rehosting one image.
type UploadResult struct {
	OK  bool   `json:"success"`
	URL string `json:"url,omitempty"`
	Err string `json:"error,omitempty"`
}

// Uploader re-uploads fetched images to a separate image-hosting service,
// producing public URLs independent of the tracker's session-gated image
// endpoint. A missing base URL is an expected condition: every upload then
// fails with a configuration error without a network call.
type Uploader struct {
	baseURL    string
	authCode   string
	folder     string
	httpClient *http.Client
	timeout    time.Duration
}

// NewUploader creates an Uploader for the image host at baseURL. An empty
// baseURL disables uploading.
func NewUploader(baseURL, authCode, folder string, httpClient *http.Client, timeout time.Duration) *Uploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	return &Uploader{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authCode:   authCode,
		folder:     folder,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Configured reports whether an image host base URL is set.
func (u *Uploader) Configured() bool {
	return u.baseURL != ""
}

// Upload rehosts one base64 data URI under the given name and returns the
// public URL. Failures are values: malformed input and missing
// configuration fail locally with zero network calls.
func (u *Uploader) Upload(ctx context.Context, dataURI, name string) UploadResult {
	fail := func(err error) UploadResult {
		slog.Debug("image upload failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return UploadResult{Err: err.Error()}
	}

	matches := dataURIPattern.FindStringSubmatch(dataURI)
	if matches == nil {
		return fail(fmt.Errorf("invalid base64 image data"))
	}
	subtype, payload := matches[1], matches[2]

	if !u.Configured() {
		return fail(fmt.Errorf("image host URL not configured, set IMAGE_BED_URL"))
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fail(fmt.Errorf("decoding image payload: %w", err))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := createImagePart(writer, name+"."+subtype, "image/"+subtype)
	if err != nil {
		return fail(err)
	}
	if _, err := part.Write(raw); err != nil {
		return fail(err)
	}
	if err := writer.Close(); err != nil {
		return fail(err)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	uploadURL := u.baseURL + "/upload?uploadFolder=" + u.folder
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", u.authCode)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// Expected response shape: [{"src": "/file/abc123_image.jpg"}]
	var entries []struct {
		Src string `json:"src"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&entries); err != nil {
		return fail(fmt.Errorf("unexpected image host response format: %w", err))
	}
	if len(entries) == 0 || entries[0].Src == "" {
		return fail(fmt.Errorf("unexpected image host response format"))
	}

	return UploadResult{OK: true, URL: u.resolveURL(entries[0].Src)}
}

// resolveURL makes a stored path absolute against the host base URL unless
// it already is.
func (u *Uploader) resolveURL(src string) string {
	if strings.HasPrefix(src, "http") {
		return src
	}
	return u.baseURL + src
}

// createImagePart adds a multipart file field with an image content type;
// CreateFormFile would hardcode application/octet-stream.
func createImagePart(writer *multipart.Writer, filename, contentType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	return writer.CreatePart(header)
}
