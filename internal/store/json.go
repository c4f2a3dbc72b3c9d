// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

// JSONStore keeps one indented JSON array per author in Dir.
type JSONStore struct {
	Dir string
}

// NewJSONStore returns a store rooted at dir. The directory is created on
// the first Save.
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{Dir: dir}
}

// Path returns the file holding the author's records.
func (s *JSONStore) Path(author types.Author) string {
	return filepath.Join(s.Dir, Key(author)+".json")
}

// Load reads the author's records. A missing file yields an empty slice.
func (s *JSONStore) Load(ctx context.Context, author types.Author) ([]types.Publication, error) {
	data, err := os.ReadFile(s.Path(author))
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Publication{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading records for %s: %w", author, err)
	}

	var records []types.Publication
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records for %s: %w", author, err)
	}
	if records == nil {
		records = []types.Publication{}
	}
	return records, nil
}

// Save sorts records by year, newest first, and replaces the author's file.
// The data is written to a temporary file and renamed into place.
func (s *JSONStore) Save(ctx context.Context, author types.Author, records []types.Publication) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(SortByYear(records)); err != nil {
		return fmt.Errorf("encoding records for %s: %w", author, err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", s.Dir, err)
	}
	return writeFileAtomic(s.Path(author), buf.Bytes())
}

// Close is a no-op; JSONStore holds no open resources.
func (s *JSONStore) Close() error { return nil }

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path.
func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
