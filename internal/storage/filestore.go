// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps each note as a JSON file under BaseDir/<device>/.
type FileStore struct {
	// BaseDir is the root notes directory
	// Default: ~/.webnote/notes/
	BaseDir string

	// Device is the device whose notes this store reads and writes
	Device string

	// MaxNotes limits stored notes, evicting the least recently updated
	// (0 = unlimited)
	MaxNotes int

	// Now returns the current time; tests replace it
	Now func() time.Time

	mu sync.Mutex
}

// NewFileStore creates a store for deviceID under baseDir.
func NewFileStore(baseDir, deviceID string) (*FileStore, error) {
	if deviceID == "" {
		return nil, errors.New("device id is required")
	}
	s := &FileStore{
		BaseDir:  baseDir,
		Device:   deviceID,
		MaxNotes: 100,
		Now:      time.Now,
	}
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		return nil, fmt.Errorf("create notes directory: %w", err)
	}
	return s, nil
}

// Dir returns the directory holding this device's notes.
func (s *FileStore) Dir() string {
	return filepath.Join(s.BaseDir, s.Device)
}

// Save writes the note and returns its ID.
func (s *FileStore) Save(ctx context.Context, n *Note) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the creation time of an existing note.
	if n.CreatedAt.IsZero() && validID(n.ID) {
		if old, err := s.load(n.ID); err == nil {
			n.CreatedAt = old.CreatedAt
		}
	}
	prepare(n, s.Device, s.Now())

	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode note: %w", err)
	}
	if err := util.AtomicWriteFile(s.filePath(n.ID), data, 0644); err != nil {
		return "", fmt.Errorf("save note %s: %w", n.ID, err)
	}

	if s.MaxNotes > 0 {
		s.enforceLimit(n.ID)
	}
	return n.ID, nil
}

// enforceLimit removes the oldest notes over MaxNotes, never the one just
// saved.
func (s *FileStore) enforceLimit(keep string) {
	metas, err := s.list()
	if err != nil || len(metas) <= s.MaxNotes {
		return
	}

	// Oldest last after list's sort.
	excess := len(metas) - s.MaxNotes
	for i := len(metas) - 1; i >= 0 && excess > 0; i-- {
		if metas[i].ID == keep {
			continue
		}
		_ = os.Remove(s.filePath(metas[i].ID))
		excess--
	}
}

// Load retrieves a note by ID.
func (s *FileStore) Load(ctx context.Context, id string) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load(id)
}

func (s *FileStore) load(id string) (*Note, error) {
	if !validID(id) {
		return nil, ErrNoteNotFound
	}
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("read note %s: %w", id, err)
	}

	var n Note
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode note %s: %w", id, err)
	}
	return &n, nil
}

// List returns all notes, most recently updated first. Unreadable files are
// skipped.
func (s *FileStore) List(ctx context.Context) ([]NoteMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.list()
}

func (s *FileStore) list() ([]NoteMeta, error) {
	notes, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	metas := make([]NoteMeta, 0, len(notes))
	for _, n := range notes {
		metas = append(metas, n.Meta())
	}
	return metas, nil
}

// loadAll reads every note, most recently updated first.
func (s *FileStore) loadAll() ([]*Note, error) {
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list notes: %w", err)
	}

	var notes []*Note
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		n, err := s.load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		notes = append(notes, n)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

// Latest returns the most recently updated note.
func (s *FileStore) Latest(ctx context.Context) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	return notes[0], nil
}

// Search returns notes matching query in their title or text.
func (s *FileStore) Search(ctx context.Context, query string) ([]NoteMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := s.loadAll()
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
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validID(id) {
		return ErrNoteNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// Clear removes all notes of this device.
func (s *FileStore) Clear(ctx context.Context) error {
	metas, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, m := range metas {
		if err := s.Delete(ctx, m.ID); err != nil && !errors.Is(err, ErrNoteNotFound) {
			return err
		}
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) filePath(id string) string {
	return filepath.Join(s.Dir(), id+".json")
}

// validID rejects IDs that would escape the notes directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
