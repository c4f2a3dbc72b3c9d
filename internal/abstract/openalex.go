// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abstract

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/pdiddy/scholar-sync/internal/httputil"
	"github.com/pdiddy/scholar-sync/internal/textnorm"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so tests
// can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works/"

// doiPattern finds a DOI inside a publisher or doi.org link.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s?#]+`)

// OpenAlexSource fetches abstracts from OpenAlex for links carrying a DOI.
type OpenAlexSource struct {
	Client    *http.Client
	UserAgent string

	// Email is sent as the mailto parameter for polite pool access.
	Email string
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// Matches reports whether a DOI can be read from link.
func (s *OpenAlexSource) Matches(link string) bool {
	return DOI(link) != ""
}

// Lookup queries OpenAlex for the work with the DOI found in link and
// rebuilds its abstract from the inverted index.
func (s *OpenAlexSource) Lookup(ctx context.Context, link string) (string, error) {
	doi := DOI(link)
	if doi == "" {
		return "", fmt.Errorf("no DOI in %q", link)
	}

	apiURL := openAlexAPIBase + "https://doi.org/" + doi
	if s.Email != "" {
		apiURL += "?mailto=" + url.QueryEscape(s.Email)
	}
	body, err := httputil.Get(ctx, s.Client, apiURL, s.UserAgent, "application/json")
	if err != nil {
		return "", fmt.Errorf("OpenAlex API request: %w", err)
	}

	var work openAlexWork
	if err := json.Unmarshal(body, &work); err != nil {
		return "", fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	text := textnorm.Clean(reconstructAbstract(work.AbstractInvertedIndex))
	if text == "" {
		return "", fmt.Errorf("DOI %s: %w", doi, ErrNoAbstract)
	}
	return text, nil
}

// DOI returns the DOI contained in link, or "" when there is none.
// Percent-encoded links are decoded first.
func DOI(link string) string {
	link = strings.TrimSpace(link)
	if decoded, err := url.PathUnescape(link); err == nil {
		link = decoded
	}
	doi := doiPattern.FindString(link)
	return strings.TrimRight(doi, "./")
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index, which
// maps each word to the positions it occupies, back to plain text.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	slices.SortFunc(pairs, func(a, b posWord) int { return cmp.Compare(a.pos, b.pos) })

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

type openAlexWork struct {
	ID                    string           `json:"id"`
	DOI                   string           `json:"doi"`
	Title                 string           `json:"title"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}
