// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

var sampleRecords = []types.Publication{
	{
		Year:     2023,
		Title:    "Graph Neural | Networks",
		Abstract: "Line one\nline two\r\nthree",
		Link:     "https://arxiv.org/abs/2301.07041",
	},
	{
		Year:     2021,
		Title:    "Plain Title",
		Abstract: "Short abstract...",
		Link:     "https://example.com/p",
	},
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestMarkdown(t *testing.T) {
	doc := Markdown("Ada Lovelace", 2020, 2024, sampleRecords)
	newGoldie(t).Assert(t, "author", []byte(doc))
}

func TestMarkdown_DoesNotMutateInput(t *testing.T) {
	in := make([]types.Publication, len(sampleRecords))
	copy(in, sampleRecords)

	first := Markdown("Ada Lovelace", 2020, 2024, in)
	second := Markdown("Ada Lovelace", 2020, 2024, in)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleRecords, in)
}

func TestCombined(t *testing.T) {
	doc := Combined(2020, 2024, []Section{
		{Name: "Ada Lovelace", Records: sampleRecords},
		{Name: "Bob", Records: nil},
	})
	newGoldie(t).Assert(t, "combined", []byte(doc))
}

func TestFormatCSL(t *testing.T) {
	records := append([]types.Publication{}, sampleRecords...)
	records = append(records, types.Publication{Year: 2023, Title: "Graph Theory Revisited", Link: "https://example.com/g"})

	var buf bytes.Buffer
	require.NoError(t, FormatCSL(records, &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "graph2023", items[0].ID)
	assert.Equal(t, "plain2021", items[1].ID)
	assert.Equal(t, "graph2023a", items[2].ID)
	assert.Equal(t, "article-journal", items[0].Type)
	assert.Equal(t, "https://arxiv.org/abs/2301.07041", items[0].URL)
	require.NotNil(t, items[0].Issued)
	assert.Equal(t, [][]int{{2023}}, items[0].Issued.DateParts)
	assert.Empty(t, items[2].Abstract)

	assert.Contains(t, buf.String(), "URL: https://arxiv.org/abs/2301.07041")
	assert.NotContains(t, buf.String(), "abstract: \"\"")
}

func TestCiteKey(t *testing.T) {
	assert.Equal(t, "untitled2020", citeKey(types.Publication{Year: 2020}))
	assert.Equal(t, "über2022", citeKey(types.Publication{Year: 2022, Title: "— Über alles"}))
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Config: types.OutputConfig{
		AuthorDir: filepath.Join(dir, "authors"),
		AllFile:   filepath.Join(dir, "out", "all_papers.md"),
	}}
	author := types.Author{ID: "ADA", Name: "Ada Lovelace"}

	path, err := w.WriteAuthor(author, "doc")
	require.NoError(t, err)
	assert.Equal(t, w.AuthorPath(author), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "doc", string(data))

	path, err = w.WriteCombined("all")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "all", string(data))
}

func TestWriter_OverwritesWithoutTempFiles(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Config: types.OutputConfig{AuthorDir: dir, AllFile: filepath.Join(dir, "all.md")}}
	author := types.Author{ID: "ADA", Name: "Ada Lovelace"}

	_, err := w.WriteAuthor(author, "first")
	require.NoError(t, err)
	path, err := w.WriteAuthor(author, "second")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}
