// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format, consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Title    string   `yaml:"title"`
	Abstract string   `yaml:"abstract,omitempty"`
	Issued   *CSLDate `yaml:"issued,omitempty"`
	URL      string   `yaml:"URL,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(records []types.Publication, w io.Writer) error {
	items := make([]CSLItem, len(records))
	used := make(map[string]int, len(records))
	for i, p := range records {
		items[i] = toCSLItem(p)
		items[i].ID = uniqueID(items[i].ID, used)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(p types.Publication) CSLItem {
	item := CSLItem{
		ID:       citeKey(p),
		Type:     "article-journal",
		Title:    p.Title,
		Abstract: p.Abstract,
		URL:      p.Link,
	}
	if p.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{p.Year}}}
	}
	return item
}

// citeKey builds "<first title word><year>", lower-cased, letters and digits
// only.
func citeKey(p types.Publication) string {
	word := "untitled"
	for _, f := range strings.Fields(p.Title) {
		w := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, f)
		if w != "" {
			word = w
			break
		}
	}
	return fmt.Sprintf("%s%d", word, p.Year)
}

// uniqueID appends a, b, c, ... to repeated keys.
func uniqueID(id string, used map[string]int) string {
	n := used[id]
	used[id] = n + 1
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s%c", id, 'a'+rune(n-1)%26)
}
