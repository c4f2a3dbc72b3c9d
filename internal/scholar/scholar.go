// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar reads publication listings and publication details from
// Google Scholar profile pages.
package scholar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-sync/internal/httputil"
	"github.com/pdiddy/scholar-sync/internal/textnorm"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

// scholarBase is the Google Scholar origin. Declared as a var so tests can
// substitute an httptest server.
var scholarBase = "https://scholar.google.com"

// maxPageSize is the largest listing page Scholar serves.
const maxPageSize = 100

// ErrNotFound is returned when the profile page has no profile.
var ErrNotFound = errors.New("profile not found")

// yearPattern finds the first four-digit year in a publication date.
var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// Client fetches profile listings and publication detail pages.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// ListPublications returns up to limit listing entries of the profile,
// newest first. Pages are requested until limit entries are collected or
// Scholar returns a short page.
func (c *Client) ListPublications(ctx context.Context, authorID string, limit int) ([]types.PublicationRef, error) {
	if limit <= 0 {
		return nil, nil
	}
	pageSize := min(limit, maxPageSize)

	var refs []types.PublicationRef
	for start := 0; len(refs) < limit; start += pageSize {
		pageURL := fmt.Sprintf("%s/citations?user=%s&hl=en&cstart=%d&pagesize=%d&sortby=pubdate",
			scholarBase, url.QueryEscape(authorID), start, pageSize)

		doc, err := c.fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching listing for %s: %w", authorID, err)
		}
		if start == 0 && doc.Find("#gsc_prf_in").Length() == 0 {
			return nil, fmt.Errorf("author %s: %w", authorID, ErrNotFound)
		}

		page := parseListing(doc)
		refs = append(refs, page...)
		if len(page) < pageSize {
			break
		}
	}

	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// FillPublication fetches the detail page of ref.
func (c *Client) FillPublication(ctx context.Context, ref types.PublicationRef) (types.PublicationDetail, error) {
	detailURL, err := resolveURL(ref.DetailURL)
	if err != nil {
		return types.PublicationDetail{}, err
	}
	doc, err := c.fetch(ctx, detailURL)
	if err != nil {
		return types.PublicationDetail{}, fmt.Errorf("fetching publication %q: %w", ref.Title, err)
	}
	if doc.Find("#gsc_oci_title").Length() == 0 {
		return types.PublicationDetail{}, fmt.Errorf("publication %q: detail page has no title", ref.Title)
	}
	return parseDetail(doc), nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := httputil.Get(ctx, c.HTTP, pageURL, c.UserAgent, "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// parseListing extracts the entries of one listing page.
func parseListing(doc *goquery.Document) []types.PublicationRef {
	var refs []types.PublicationRef
	doc.Find("tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("a.gsc_a_at").First()
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		refs = append(refs, types.PublicationRef{
			Title:     strings.TrimSpace(a.Text()),
			DetailURL: href,
		})
	})
	return refs
}

// parseDetail extracts the bibliographic fields of a detail page.
func parseDetail(doc *goquery.Document) types.PublicationDetail {
	var d types.PublicationDetail

	titleLink := doc.Find("#gsc_oci_title a.gsc_oci_title_link").First()
	if titleLink.Length() > 0 {
		d.Title = strings.TrimSpace(titleLink.Text())
		d.Link, _ = titleLink.Attr("href")
	} else {
		d.Title = strings.TrimSpace(doc.Find("#gsc_oci_title").First().Text())
	}

	doc.Find("#gsc_oci_table .gs_scl").Each(func(_ int, row *goquery.Selection) {
		field := strings.TrimSpace(row.Find(".gsc_oci_field").Text())
		value := row.Find(".gsc_oci_value")
		switch field {
		case "Publication date":
			if m := yearPattern.FindStringSubmatch(value.Text()); m != nil {
				d.PubYear = m[1]
			}
		case "Description":
			if h, err := value.Html(); err == nil {
				d.Abstract = textnorm.Clean(h)
			}
		}
	})
	return d
}

// resolveURL makes a listing href absolute against scholarBase.
func resolveURL(href string) (string, error) {
	base, err := url.Parse(scholarBase)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing detail URL %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
