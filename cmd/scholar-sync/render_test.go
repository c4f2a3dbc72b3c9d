// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-sync/internal/render"
	"github.com/pdiddy/scholar-sync/internal/store"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

func testConfig(dir string, authors ...types.Author) types.SyncConfig {
	return types.SyncConfig{
		YearStart: 2020,
		YearEnd:   2024,
		Authors:   authors,
		Output: types.OutputConfig{
			AuthorDir: filepath.Join(dir, "authors"),
			AllFile:   filepath.Join(dir, "all_papers.md"),
		},
	}
}

func TestVisible(t *testing.T) {
	cfg := types.SyncConfig{YearStart: 2020, YearEnd: 2022}
	records := []types.Publication{
		{Year: 2019, Title: "old"},
		{Year: 2021, Title: "b"},
		{Year: 2022, Title: "c"},
		{Year: 2025, Title: "future"},
	}

	got := visible(cfg, records)

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Title)
	assert.Equal(t, "b", got[1].Title)
	assert.Equal(t, "old", records[0].Title, "input must not be modified")
}

func TestRenderCollection(t *testing.T) {
	dir := t.TempDir()
	ada := types.Author{ID: "ADA", Name: "Ada Lovelace"}
	alan := types.Author{ID: "ALAN", Name: "Alan Turing"}
	cfg := testConfig(dir, ada, alan)

	st := store.NewJSONStore(filepath.Join(dir, "json"))
	require.NoError(t, st.Save(context.Background(), alan, []types.Publication{
		{Year: 2018, Title: "Out of range", Link: "l0"},
		{Year: 2021, Title: "Stored", Link: "l1"},
	}))
	synced := map[types.Author][]types.Publication{
		ada: {{Year: 2023, Title: "Fresh", Link: "l2"}},
	}

	require.NoError(t, renderCollection(context.Background(), cfg, st, synced, zerolog.Nop()))

	w := render.Writer{Config: cfg.Output}
	adaDoc, err := os.ReadFile(w.AuthorPath(ada))
	require.NoError(t, err)
	assert.Contains(t, string(adaDoc), "| 2023 | Fresh |")

	alanDoc, err := os.ReadFile(w.AuthorPath(alan))
	require.NoError(t, err)
	assert.Contains(t, string(alanDoc), "| 2021 | Stored |")
	assert.NotContains(t, string(alanDoc), "Out of range")

	all, err := os.ReadFile(cfg.Output.AllFile)
	require.NoError(t, err)
	doc := string(all)
	assert.True(t, strings.HasPrefix(doc, "# All Scholars Paper Collection\n\n"))
	assert.Less(t, strings.Index(doc, "## Ada Lovelace"), strings.Index(doc, "## Alan Turing"))
}

func TestRenderCollection_LoadFailureReported(t *testing.T) {
	dir := t.TempDir()
	ada := types.Author{ID: "ADA", Name: "Ada Lovelace"}
	alan := types.Author{ID: "ALAN", Name: "Alan Turing"}
	cfg := testConfig(dir, ada, alan)

	st := store.NewJSONStore(filepath.Join(dir, "json"))
	require.NoError(t, os.MkdirAll(st.Dir, 0o755))
	require.NoError(t, os.WriteFile(st.Path(ada), []byte("{not json"), 0o644))

	err := renderCollection(context.Background(), cfg, st, nil, zerolog.Nop())
	require.Error(t, err)

	all, err := os.ReadFile(cfg.Output.AllFile)
	require.NoError(t, err)
	assert.NotContains(t, string(all), "## Ada Lovelace")
	assert.Contains(t, string(all), "## Alan Turing")
}

func TestFindAuthor(t *testing.T) {
	authors := []types.Author{{ID: "A", Name: "Ada"}, {ID: "B", Name: "Bob"}}

	got, ok := findAuthor(authors, "B")
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Name)

	_, ok = findAuthor(authors, "C")
	assert.False(t, ok)
}
