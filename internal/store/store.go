// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists each author's publication collection. A collection
// is always read and written whole: Load returns everything stored for the
// author and Save replaces it.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

// Store is the durable record store. Load returns an empty slice, not an
// error, when nothing has been stored for the author yet.
type Store interface {
	Load(ctx context.Context, author types.Author) ([]types.Publication, error)
	Save(ctx context.Context, author types.Author, records []types.Publication) error
	Close() error
}

// Open returns the store selected by cfg.Backend. An empty backend selects
// the JSON store.
func Open(cfg types.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", types.StoreJSON:
		return NewJSONStore(cfg.Dir), nil
	case types.StoreSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Merge concatenates existing and incoming and drops every record whose
// title was already seen, so stored records win over new discoveries with
// the same title. Neither input is modified.
func Merge(existing, incoming []types.Publication) []types.Publication {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]types.Publication, 0, len(existing)+len(incoming))
	for _, list := range [][]types.Publication{existing, incoming} {
		for _, p := range list {
			if seen[p.Title] {
				continue
			}
			seen[p.Title] = true
			merged = append(merged, p)
		}
	}
	return merged
}

// SortByYear returns a copy of records ordered by year, newest first.
// Records with equal years keep their relative order.
func SortByYear(records []types.Publication) []types.Publication {
	sorted := make([]types.Publication, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year > sorted[j].Year
	})
	return sorted
}

// Titles returns the set of titles in records.
func Titles(records []types.Publication) map[string]bool {
	titles := make(map[string]bool, len(records))
	for _, p := range records {
		titles[p.Title] = true
	}
	return titles
}
