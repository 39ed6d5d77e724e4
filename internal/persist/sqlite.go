/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adaryorg/clipvault/internal/history"
)

// SQLite is the file-backed Repository.
type SQLite struct {
	db *sql.DB
}

// DefaultPath returns the conventional database location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "clipvault", "history.db"), nil
}

// OpenSQLite opens (creating if needed) the history database at the given
// path.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return s, nil
}

func (s *SQLite) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS clip_items (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		pinned BOOLEAN NOT NULL DEFAULT FALSE,
		source_app TEXT,
		window_title TEXT,
		bundle_id TEXT,
		pid INTEGER,
		from_editor BOOLEAN NOT NULL DEFAULT FALSE,
		sensitive BOOLEAN NOT NULL DEFAULT FALSE,
		kind TEXT NOT NULL DEFAULT 'text'
	);

	CREATE INDEX IF NOT EXISTS idx_position ON clip_items(position);
	`

	_, err := s.db.Exec(query)
	return err
}

// Save replaces the persisted snapshot with the given one inside a single
// transaction. An empty snapshot is a no-op.
func (s *SQLite) Save(items []history.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM clip_items"); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO clip_items
			(id, position, content, timestamp, pinned, source_app, window_title, bundle_id, pid, from_editor, sensitive, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		_, err := stmt.Exec(
			it.ID, i, it.Content, it.Timestamp, it.Pinned,
			nullString(it.SourceApp), nullString(it.WindowTitle), nullString(it.BundleID), nullInt(it.PID),
			it.FromEditor, it.Sensitive, string(it.Kind),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// LoadAll returns the persisted snapshot in display order.
func (s *SQLite) LoadAll() ([]history.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, content, timestamp, pinned, source_app, window_title, bundle_id, pid, from_editor, sensitive, kind
		FROM clip_items ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []history.Item
	for rows.Next() {
		var it history.Item
		var sourceApp, windowTitle, bundleID sql.NullString
		var pid sql.NullInt64
		var kind string
		err := rows.Scan(
			&it.ID, &it.Content, &it.Timestamp, &it.Pinned,
			&sourceApp, &windowTitle, &bundleID, &pid,
			&it.FromEditor, &it.Sensitive, &kind,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		it.SourceApp = stringPtr(sourceApp)
		it.WindowTitle = stringPtr(windowTitle)
		it.BundleID = stringPtr(bundleID)
		it.PID = intPtr(pid)
		it.Kind = history.Kind(kind)
		items = append(items, it)
	}

	return items, rows.Err()
}

// Delete removes one item by id.
func (s *SQLite) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM clip_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// Clear removes all items, or all unpinned items when keepPinned is set.
func (s *SQLite) Clear(keepPinned bool) error {
	query := "DELETE FROM clip_items"
	if keepPinned {
		query += " WHERE NOT pinned"
	}
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
