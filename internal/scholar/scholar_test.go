// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

const sampleDetailHTML = `<html><body>
<div id="gsc_oci_title"><a class="gsc_oci_title_link" href="https://arxiv.org/abs/2301.07041">Graph Neural Networks at Scale</a></div>
<div id="gsc_oci_table">
  <div class="gs_scl"><div class="gsc_oci_field">Authors</div><div class="gsc_oci_value">A Lovelace, C Babbage</div></div>
  <div class="gs_scl"><div class="gsc_oci_field">Publication date</div><div class="gsc_oci_value">2023/1/17</div></div>
  <div class="gs_scl"><div class="gsc_oci_field">Description</div><div class="gsc_oci_value" id="gsc_oci_descr"><div class="gsh_csp">We scale &amp; study <i>graph</i> networks…</div></div></div>
</div>
</body></html>`

const detailNoLinkHTML = `<html><body>
<div id="gsc_oci_title">A Paper Without Link</div>
<div id="gsc_oci_table">
  <div class="gs_scl"><div class="gsc_oci_field">Publication date</div><div class="gsc_oci_value">n.d.</div></div>
</div>
</body></html>`

// listingPage renders a profile page with n rows numbered from first.
func listingPage(first, n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="gsc_prf_in">Ada Lovelace</div><table><tbody id="gsc_a_b">`)
	for i := first; i < first+n; i++ {
		fmt.Fprintf(&b, `<tr class="gsc_a_tr"><td class="gsc_a_t"><a href="/citations?view_op=view_citation&amp;hl=en&amp;user=AUTH&amp;citation_for_view=AUTH:%d" class="gsc_a_at">Paper %d</a></td></tr>`, i, i)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

// overrideBase points scholarBase at ts and returns a restore func.
func overrideBase(tsURL string) func() {
	orig := scholarBase
	scholarBase = tsURL
	return func() { scholarBase = orig }
}

// newListingServer serves a profile with total entries in pages.
func newListingServer(t *testing.T, total int, requests *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if requests != nil {
			*requests = append(*requests, r.URL.RawQuery)
		}
		if q.Get("user") != "AUTH" {
			fmt.Fprint(w, `<html><body><p>Nothing here</p></body></html>`)
			return
		}
		start, _ := strconv.Atoi(q.Get("cstart"))
		size, _ := strconv.Atoi(q.Get("pagesize"))
		n := min(size, total-start)
		if n < 0 {
			n = 0
		}
		fmt.Fprint(w, listingPage(start, n))
	}))
}

func TestListPublications_SinglePage(t *testing.T) {
	var requests []string
	ts := newListingServer(t, 50, &requests)
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	refs, err := c.ListPublications(context.Background(), "AUTH", 20)
	require.NoError(t, err)
	require.Len(t, refs, 20)
	assert.Equal(t, "Paper 0", refs[0].Title)
	assert.Equal(t, "/citations?view_op=view_citation&hl=en&user=AUTH&citation_for_view=AUTH:0", refs[0].DetailURL)

	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "pagesize=20")
	assert.Contains(t, requests[0], "sortby=pubdate")
}

func TestListPublications_Paginates(t *testing.T) {
	var requests []string
	ts := newListingServer(t, 150, &requests)
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	refs, err := c.ListPublications(context.Background(), "AUTH", 200)
	require.NoError(t, err)
	assert.Len(t, refs, 150)
	assert.Equal(t, "Paper 149", refs[149].Title)
	assert.Len(t, requests, 2)
}

func TestListPublications_StopsAtLimit(t *testing.T) {
	ts := newListingServer(t, 500, nil)
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	refs, err := c.ListPublications(context.Background(), "AUTH", 200)
	require.NoError(t, err)
	assert.Len(t, refs, 200)
}

func TestListPublications_NotFound(t *testing.T) {
	ts := newListingServer(t, 5, nil)
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	_, err := c.ListPublications(context.Background(), "NOBODY", 20)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublications_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	_, err := c.ListPublications(context.Background(), "AUTH", 20)
	assert.Error(t, err)
}

func TestFillPublication(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, sampleDetailHTML)
	}))
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client(), UserAgent: "scholar-sync/test"}
	ref := types.PublicationRef{Title: "Graph Neural Networks at Scale", DetailURL: "/citations?view_op=view_citation&user=AUTH"}
	d, err := c.FillPublication(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "/citations?view_op=view_citation&user=AUTH", gotPath)
	assert.Equal(t, "scholar-sync/test", gotUA)
	assert.Equal(t, types.PublicationDetail{
		Title:    "Graph Neural Networks at Scale",
		PubYear:  "2023",
		Abstract: "We scale & study graph networks…",
		Link:     "https://arxiv.org/abs/2301.07041",
	}, d)
}

func TestFillPublication_NoLinkNoYear(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailNoLinkHTML)
	}))
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	d, err := c.FillPublication(context.Background(), types.PublicationRef{DetailURL: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "A Paper Without Link", d.Title)
	assert.Empty(t, d.PubYear)
	assert.Empty(t, d.Link)
}

func TestFillPublication_MissingTitleIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>captcha</body></html>`)
	}))
	defer ts.Close()
	defer overrideBase(ts.URL)()

	c := &Client{HTTP: ts.Client()}
	_, err := c.FillPublication(context.Background(), types.PublicationRef{DetailURL: "/x"})
	assert.Error(t, err)
}
