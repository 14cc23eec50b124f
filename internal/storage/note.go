// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// STORED NOTE TYPE
// =============================================================================

// Note is a persisted note.
type Note struct {
	// Identity
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Content is the encoded document, Canvas the encoded drawing
	Content json.RawMessage `json:"content"`
	Canvas  json.RawMessage `json:"canvas,omitempty"`

	// Text is the plain text of the document, kept for listing and search
	Text string `json:"text"`
}

// NoteMeta contains metadata for listing notes.
type NoteMeta struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Words      int       `json:"words"`
	HasDrawing bool      `json:"has_drawing"`
	Preview    string    `json:"preview"`
}

// Meta builds the listing metadata for a note.
func (n *Note) Meta() NoteMeta {
	return NoteMeta{
		ID:         n.ID,
		Title:      n.Title,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
		Words:      len(strings.Fields(n.Text)),
		HasDrawing: hasDrawing(n.Canvas),
		Preview:    preview(n.Text, 80),
	}
}

// DefaultTitle returns the title given to notes saved without one.
func DefaultTitle(t time.Time) string {
	return "Note " + t.Format("2006-01-02 15:04")
}

// hasDrawing reports whether an encoded canvas has any strokes.
func hasDrawing(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var c struct {
		Strokes []json.RawMessage `json:"strokes"`
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return false
	}
	return len(c.Strokes) > 0
}

func preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	return util.TruncateRunes(text, max)
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists notes for one device.
type Store interface {
	// Save inserts or updates a note and returns its ID.
	Save(ctx context.Context, n *Note) (string, error)

	// Load retrieves a note by ID.
	Load(ctx context.Context, id string) (*Note, error)

	// List returns all notes, most recently updated first.
	List(ctx context.Context) ([]NoteMeta, error)

	// Latest returns the most recently updated note.
	Latest(ctx context.Context) (*Note, error)

	// Search returns notes whose title or text contain query, ignoring case
	// and accents.
	Search(ctx context.Context, query string) ([]NoteMeta, error)

	// Delete removes a note.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options configures Open.
type Options struct {
	Backend  string
	Dir      string
	DeviceID string
	MaxNotes int
}

// Open creates the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		s, err := NewFileStore(opts.Dir, opts.DeviceID)
		if err != nil {
			return nil, err
		}
		s.MaxNotes = opts.MaxNotes
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(opts.Dir, opts.DeviceID)
		if err != nil {
			return nil, err
		}
		s.MaxNotes = opts.MaxNotes
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

// prepare fills the ID, title and timestamps of a note about to be saved.
func prepare(n *Note, deviceID string, now time.Time) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.DeviceID == "" {
		n.DeviceID = deviceID
	}
	n.UpdatedAt = now
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if strings.TrimSpace(n.Title) == "" {
		n.Title = DefaultTitle(n.CreatedAt)
	}
	if len(n.Content) == 0 {
		n.Content = json.RawMessage("null")
	}
}

// =============================================================================
// SEARCH
// =============================================================================

// Fold normalises s for matching: accents are stripped and case is folded,
// so "Café" and "cafe" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// Matches reports whether a note's title or text contain query after
// folding. An empty query matches everything.
func Matches(title, text, query string) bool {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(Fold(title), q) || strings.Contains(Fold(text), q)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNoteNotFound is returned when a note doesn't exist.
// Use errors.Is(err, ErrNoteNotFound) to check for this error.
var ErrNoteNotFound = &NoteError{Message: "note not found"}

// NoteError represents a note-related error.
type NoteError struct {
	Message string
}

// Error implements the error interface.
func (e *NoteError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing note errors.
func (e *NoteError) Is(target error) bool {
	t, ok := target.(*NoteError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// NOTE LIST FORMATTING
// =============================================================================

// FormatNoteList formats notes as a table for the terminal.
func FormatNoteList(notes []NoteMeta) string {
	if len(notes) == 0 {
		return "No notes found."
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("ID", 8) + " " + util.PadRight("Updated", 16) + " " +
		util.PadRight("Words", 5) + " Title\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for _, n := range notes {
		id := n.ID
		if len(id) > 8 {
			id = id[:8]
		}
		title := util.TruncateRunes(n.Title, 40)
		if n.HasDrawing {
			title += " [drawing]"
		}
		sb.WriteString(util.PadRight(id, 8) + " " +
			util.PadRight(n.UpdatedAt.Format("2006-01-02 15:04"), 16) + " " +
			util.PadRight(util.IntToStr(n.Words), 5) + " " +
			title + "\n")
	}
	return sb.String()
}
