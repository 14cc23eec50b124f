// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "notes.db"

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	device_id  TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    BLOB NOT NULL,
	canvas     BLOB,
	text       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_device_updated ON notes(device_id, updated_at DESC);
`

// SQLiteStore keeps notes in a single SQLite database shared by all devices
// on the machine; each store only sees its own device's rows.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	Device string

	// MaxNotes limits stored notes per device (0 = unlimited)
	MaxNotes int

	// Now returns the current time; tests replace it
	Now func() time.Time
}

// NewSQLiteStore opens (creating if needed) dir/notes.db.
func NewSQLiteStore(dir, deviceID string) (*SQLiteStore, error) {
	if deviceID == "" {
		return nil, errors.New("device id is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	path := filepath.Join(dir, DatabaseFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		path:     path,
		Device:   deviceID,
		MaxNotes: 100,
		Now:      time.Now,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Save upserts the note and returns its ID.
func (s *SQLiteStore) Save(ctx context.Context, n *Note) (string, error) {
	prepare(n, s.Device, s.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, device_id, title, content, canvas, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			canvas = excluded.canvas,
			text = excluded.text,
			updated_at = excluded.updated_at`,
		n.ID, n.DeviceID, n.Title, []byte(n.Content), nullableBytes(n.Canvas), n.Text,
		n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("save note %s: %w", n.ID, err)
	}

	if s.MaxNotes > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM notes WHERE device_id = ? AND id NOT IN (
				SELECT id FROM notes WHERE device_id = ?
				ORDER BY updated_at DESC LIMIT ?
			)`, s.Device, s.Device, s.MaxNotes)
		if err != nil {
			return "", fmt.Errorf("enforce note limit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return n.ID, nil
}

const selectNote = `SELECT id, device_id, title, content, canvas, text, created_at, updated_at FROM notes`

// Load retrieves a note by ID.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*Note, error) {
	row := s.db.QueryRowContext(ctx, selectNote+` WHERE id = ? AND device_id = ?`, id, s.Device)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load note %s: %w", id, err)
	}
	return n, nil
}

// List returns all notes, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]NoteMeta, error) {
	notes, err := s.query(ctx, selectNote+` WHERE device_id = ? ORDER BY updated_at DESC`, s.Device)
	if err != nil {
		return nil, err
	}
	metas := make([]NoteMeta, 0, len(notes))
	for _, n := range notes {
		metas = append(metas, n.Meta())
	}
	return metas, nil
}

// Latest returns the most recently updated note.
func (s *SQLiteStore) Latest(ctx context.Context) (*Note, error) {
	row := s.db.QueryRowContext(ctx, selectNote+` WHERE device_id = ? ORDER BY updated_at DESC LIMIT 1`, s.Device)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest note: %w", err)
	}
	return n, nil
}

// Search returns notes matching query. Folding happens in Go so accents
// and case behave as in FileStore.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]NoteMeta, error) {
	notes, err := s.query(ctx, selectNote+` WHERE device_id = ? ORDER BY updated_at DESC`, s.Device)
	if err != nil {
		return nil, err
	}
	var results []NoteMeta
	for _, n := range notes {
		if Matches(n.Title, n.Text, query) {
			results = append(results, n.Meta())
		}
	}
	return results, nil
}

// Delete removes a note by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND device_id = ?`, id, s.Device)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]*Note, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*Note, error) {
	var (
		n                Note
		content, canvas  []byte
		created, updated int64
	)
	if err := row.Scan(&n.ID, &n.DeviceID, &n.Title, &content, &canvas, &n.Text, &created, &updated); err != nil {
		return nil, err
	}
	n.Content = content
	if len(canvas) > 0 {
		n.Canvas = canvas
	}
	n.CreatedAt = time.Unix(0, created)
	n.UpdatedAt = time.Unix(0, updated)
	return &n, nil
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
