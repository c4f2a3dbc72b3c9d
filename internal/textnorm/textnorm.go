// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm cleans free-text fields scraped from remote sources and
// detects abstracts that the source has shortened.
package textnorm

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Ellipsis markers that terminate a shortened abstract.
const (
	asciiEllipsis   = "..."
	unicodeEllipsis = "…"
)

// Clean strips markup tags, decodes HTML entities and trims surrounding
// whitespace. Empty input is returned unchanged.
func Clean(raw string) string {
	if raw == "" {
		return raw
	}
	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}
	// goquery decodes one level of entities; a second pass handles
	// double-escaped feeds such as "&amp;lt;".
	return strings.TrimSpace(html.UnescapeString(text))
}

// IsTruncated reports whether text, after trimming, ends with an ellipsis.
func IsTruncated(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	return strings.HasSuffix(t, asciiEllipsis) || strings.HasSuffix(t, unicodeEllipsis)
}
