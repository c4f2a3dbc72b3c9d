// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/scholar-sync/internal/store"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

// Writer saves rendered documents under the configured output locations.
type Writer struct {
	Config types.OutputConfig
}

// AuthorPath returns the Markdown file for author. It shares the author's
// storage key so distinct authors never share a file.
func (w Writer) AuthorPath(author types.Author) string {
	return filepath.Join(w.Config.AuthorDir, store.Key(author)+".md")
}

// WriteAuthor writes one author's document and returns its path.
func (w Writer) WriteAuthor(author types.Author, doc string) (string, error) {
	path := w.AuthorPath(author)
	if err := writeFile(path, doc); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WriteCombined writes the combined document and returns its path.
func (w Writer) WriteCombined(doc string) (string, error) {
	path := w.Config.AllFile
	if err := writeFile(path, doc); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// writeFile writes doc through a temporary file in the target directory so
// readers never see a partial document.
func writeFile(path, doc string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".render-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
