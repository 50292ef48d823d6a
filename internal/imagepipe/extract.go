package imagepipe

import "regexp"

// imgSrcPattern matches <img> tags and captures the src attribute value,
// single- or double-quoted. Deliberately narrow: this is not an HTML
// parser. Attribute values containing the delimiting quote character
// (escaped or mixed quote styles within one tag) are not supported.
var imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']*)["'][^>]*>`)

// ExtractImageURLs scans an HTML fragment for <img> tags and returns the
// src attribute values in first-occurrence order. Duplicates are kept;
// URLs are not validated. Input without any <img> tag yields nil.
func ExtractImageURLs(html string) []string {
	if html == "" {
		return nil
	}

	matches := imgSrcPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return nil
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}
