// Package imagepipe extracts, retrieves, and re-hosts images embedded in
// bug report HTML.
//
// The pipeline is extraction -> batched authenticated fetch -> optional
// rehost upload, selected by one of three modes (none, url, base64). Fetch
// and upload failures are values, not errors: a batch with mixed outcomes
// reports every image at its position rather than aborting.
package imagepipe
