// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns stored publication collections into Markdown tables
// and CSL-YAML bibliographies.
package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

const (
	combinedHeading = "# All Scholars Paper Collection\n\n"
	tableHeader     = "| Year | Title | Abstract | Link |\n"
	tableSeparator  = "|------|-------|----------|------|\n"
)

// cellReplacer flattens line breaks and escapes the column separator so a
// value always stays in its own cell.
var cellReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	"|", `\|`,
)

// Section is one author's part of the combined document.
type Section struct {
	Name    string
	Records []types.Publication
}

// Markdown renders one author's records as a table under a heading naming
// the author and the year range. Records are written in the given order.
func Markdown(name string, yearStart, yearEnd int, records []types.Publication) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s Papers (%d-%d)\n\n", name, yearStart, yearEnd)
	b.WriteString(tableHeader)
	b.WriteString(tableSeparator)
	for _, p := range records {
		fmt.Fprintf(&b, "| %d | %s | %s | [Link](%s) |\n",
			p.Year, cell(p.Title), cell(p.Abstract), p.Link)
	}
	b.WriteString("\n")
	return b.String()
}

// Combined renders every section in order under a single heading.
func Combined(yearStart, yearEnd int, sections []Section) string {
	var b strings.Builder
	b.WriteString(combinedHeading)
	for _, s := range sections {
		b.WriteString(Markdown(s.Name, yearStart, yearEnd, s.Records))
	}
	return b.String()
}

func cell(s string) string {
	return cellReplacer.Replace(s)
}
