// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

// SQLiteStore keeps every author's records in one SQLite database. Rows are
// keyed by the author's storage key and their position in the saved order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store requires a database path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			author_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			year INTEGER NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			link TEXT NOT NULL,
			PRIMARY KEY (author_key, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_title ON publications(author_key, title)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Load returns the author's records in saved order, or an empty slice.
func (s *SQLiteStore) Load(ctx context.Context, author types.Author) ([]types.Publication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, title, abstract, link FROM publications
		 WHERE author_key = ? ORDER BY position`, Key(author))
	if err != nil {
		return nil, fmt.Errorf("querying records for %s: %w", author, err)
	}
	defer rows.Close()

	records := []types.Publication{}
	for rows.Next() {
		var p types.Publication
		if err := rows.Scan(&p.Year, &p.Title, &p.Abstract, &p.Link); err != nil {
			return nil, fmt.Errorf("scanning record for %s: %w", author, err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records for %s: %w", author, err)
	}
	return records, nil
}

// Save sorts records by year, newest first, and replaces all of the
// author's rows in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, author types.Author, records []types.Publication) error {
	key := Key(author)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM publications WHERE author_key = ?`, key); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO publications (author_key, position, year, title, abstract, link)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range SortByYear(records) {
		if _, err := stmt.ExecContext(ctx, key, i, p.Year, p.Title, p.Abstract, p.Link); err != nil {
			return fmt.Errorf("inserting record %q: %w", p.Title, err)
		}
	}

	return tx.Commit()
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
