// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/pdiddy/scholar-sync/internal/httputil"
	"github.com/pdiddy/scholar-sync/internal/textnorm"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const arxivHost = "arxiv.org"

// ArxivSource fetches abstracts from the arXiv API for arxiv.org links.
type ArxivSource struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// Matches reports whether link points at arxiv.org or one of its subdomains.
func (s *ArxivSource) Matches(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == arxivHost || strings.HasSuffix(host, "."+arxivHost)
}

// Lookup queries arXiv for the paper named by the last path segment of link
// and returns the cleaned summary of the first entry.
func (s *ArxivSource) Lookup(ctx context.Context, link string) (string, error) {
	id := ArxivID(link)
	if id == "" {
		return "", fmt.Errorf("no arXiv identifier in %q", link)
	}

	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(id))
	body, err := httputil.Get(ctx, s.Client, apiURL, s.UserAgent, "application/atom+xml")
	if err != nil {
		return "", fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&feed); err != nil {
		return "", fmt.Errorf("parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return "", fmt.Errorf("arXiv ID %s: %w", id, ErrNoAbstract)
	}

	summary := textnorm.Clean(feed.Entries[0].Summary)
	if summary == "" {
		return "", fmt.Errorf("arXiv ID %s: %w", id, ErrNoAbstract)
	}
	return summary, nil
}

// ArxivID extracts the identifier from the last path segment of an arXiv
// link ("https://arxiv.org/abs/2301.07041v2" -> "2301.07041v2"). A trailing
// ".pdf" is dropped. It returns "" when the link has no path.
func ArxivID(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	p := strings.TrimSuffix(u.Path, "/")
	if p == "" {
		return ""
	}
	return strings.TrimSuffix(path.Base(p), ".pdf")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}
