package imagepipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Mode selects how aggressively embedded images are processed.
type Mode string

const (
	// ModeNone extracts references only; no network activity.
	ModeNone Mode = "none"
	// ModeURL fetches and rehosts images but strips encoded bytes from
	// the per-image outcomes.
	ModeURL Mode = "url"
	// ModeBase64 fetches and rehosts images and retains the encoded
	// bytes, size, and content type in the outcomes.
	ModeBase64 Mode = "base64"
)

// ImageOutcome reports the fetch/rehost outcome for one extracted image.
type ImageOutcome struct {
	URL         string `json:"url"`
	OriginalURL string `json:"originalUrl"`
	Success     bool   `json:"success"`
	DataURI     string `json:"base64,omitempty"`
	Size        int    `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	ImageBedURL string `json:"imageBedUrl,omitempty"`
	UploadOK    bool   `json:"uploadSuccess"`
	Err         string `json:"error,omitempty"`
	UploadErr   string `json:"uploadError,omitempty"`
}

// ProcessedSteps is the final artifact of steps processing: the original
// text unchanged, a rendered markdown list of image references, and
// mode-dependent per-image outcomes.
type ProcessedSteps struct {
	Content   string
	Images    string
	ImageData []ImageOutcome
}

// Processor orchestrates extraction, batched fetching, and rehosting of
// images embedded in a bug's steps HTML.
type Processor struct {
	fetcher     *Fetcher
	uploader    *Uploader
	concurrency int
}

// NewProcessor creates a Processor. concurrency <= 0 falls back to
// DefaultConcurrency.
func NewProcessor(fetcher *Fetcher, uploader *Uploader, concurrency int) *Processor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Processor{
		fetcher:     fetcher,
		uploader:    uploader,
		concurrency: concurrency,
	}
}

// Process runs the pipeline for one steps text under the given mode. An
// unknown mode behaves as ModeNone. Steps without embedded images come
// back unchanged with an empty image list in every mode; that is not an
// error.
func (p *Processor) Process(ctx context.Context, steps string, mode Mode) ProcessedSteps {
	urls := ExtractImageURLs(steps)
	if len(urls) == 0 {
		return ProcessedSteps{Content: steps}
	}

	switch mode {
	case ModeURL:
		outcomes := p.fetchAndRehost(ctx, urls)
		return ProcessedSteps{
			Content:   steps,
			Images:    renderURLList(outcomes),
			ImageData: stripEncoded(outcomes),
		}
	case ModeBase64:
		outcomes := p.fetchAndRehost(ctx, urls)
		return ProcessedSteps{
			Content:   steps,
			Images:    renderAnnotatedList(outcomes),
			ImageData: outcomes,
		}
	default:
		return ProcessedSteps{
			Content: steps,
			Images:  renderOriginalList(urls),
		}
	}
}

// fetchAndRehost fetches all references in bounded chunks, then attempts a
// rehost upload for every successful fetch. Upload failures leave the
// outcome pointing at the original URL.
func (p *Processor) fetchAndRehost(ctx context.Context, urls []string) []ImageOutcome {
	results := p.fetcher.FetchAll(ctx, urls, p.concurrency)

	outcomes := make([]ImageOutcome, len(results))
	g, gctx := errgroup.WithContext(ctx)
	for i, result := range results {
		outcomes[i] = ImageOutcome{
			URL:         result.URL,
			OriginalURL: result.URL,
			Success:     result.OK,
			DataURI:     result.DataURI,
			Size:        result.Size,
			ContentType: result.ContentType,
			Err:         result.Err,
		}
		if !result.OK {
			continue
		}

		g.Go(func() error {
			upload := p.uploader.Upload(gctx, result.DataURI, uploadName(result.URL))
			if upload.OK {
				outcomes[i].URL = upload.URL
				outcomes[i].ImageBedURL = upload.URL
				outcomes[i].UploadOK = true
			} else {
				outcomes[i].UploadErr = upload.Err
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// uploadName derives a rehost filename from the source URL basename.
func uploadName(imageURL string) string {
	base := imageURL
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if base == "" {
		base = uuid.NewString()
	}
	return "bug-image-" + base
}

// stripEncoded drops the encoded bytes from url-mode outcomes; the caller
// gets URLs and flags only.
func stripEncoded(outcomes []ImageOutcome) []ImageOutcome {
	stripped := make([]ImageOutcome, len(outcomes))
	for i, o := range outcomes {
		stripped[i] = ImageOutcome{
			URL:         o.URL,
			OriginalURL: o.OriginalURL,
			Success:     o.Success,
			ImageBedURL: o.ImageBedURL,
			UploadOK:    o.UploadOK,
		}
	}
	return stripped
}

// renderOriginalList renders a numbered markdown list of the original URLs.
func renderOriginalList(urls []string) string {
	lines := make([]string, len(urls))
	for i, u := range urls {
		lines[i] = fmt.Sprintf("![图片%d](%s)", i+1, u)
	}
	return strings.Join(lines, "\n")
}

// renderURLList renders each entry at its rehosted URL when upload
// succeeded, otherwise at the original URL.
func renderURLList(outcomes []ImageOutcome) string {
	lines := make([]string, len(outcomes))
	for i, o := range outcomes {
		lines[i] = fmt.Sprintf("![图片%d](%s)", i+1, o.URL)
	}
	return strings.Join(lines, "\n")
}

// renderAnnotatedList renders rehosted entries plainly and annotates
// failed ones inline with the failure reason.
func renderAnnotatedList(outcomes []ImageOutcome) string {
	lines := make([]string, len(outcomes))
	for i, o := range outcomes {
		switch {
		case o.Success && o.ImageBedURL != "":
			lines[i] = fmt.Sprintf("![图片%d](%s)", i+1, o.ImageBedURL)
		case !o.Success:
			lines[i] = fmt.Sprintf("![图片%d](%s) // 获取失败: %s", i+1, o.URL, o.Err)
		default:
			lines[i] = fmt.Sprintf("![图片%d](%s) // 上传失败: %s", i+1, o.URL, o.UploadErr)
		}
	}
	return strings.Join(lines, "\n")
}
