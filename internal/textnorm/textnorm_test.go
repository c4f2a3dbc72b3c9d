// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty passthrough", "", ""},
		{"plain text trimmed", "  A plain abstract.  ", "A plain abstract."},
		{"tags removed", "<div class=\"gsh_csp\">We study <b>graphs</b>.</div>", "We study graphs."},
		{"entities decoded", "Cats &amp; dogs &lt;3", "Cats & dogs <3"},
		{"double escaped", "Tom &amp;amp; Jerry", "Tom & Jerry"},
		{"newlines kept inside", "line one\nline two", "line one\nline two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestIsTruncated(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"full sentence", "Full sentence.", false},
		{"ascii ellipsis", "Partial sentence...", true},
		{"unicode ellipsis", "Partial sentence…", true},
		{"trailing whitespace", "Partial sentence...   \n", true},
		{"empty", "", false},
		{"only spaces", "   ", false},
		{"two dots", "Not quite..", false},
		{"ellipsis in middle", "Wait... then done.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTruncated(tt.in))
		})
	}
}
