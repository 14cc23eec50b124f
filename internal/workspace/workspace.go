// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace manages the open note tabs.
//
// Each tab owns its own document and canvas. A workspace always has at least
// one tab; closing the last tab replaces it with a fresh one.
package workspace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/document"
)

// ErrTabNotFound is returned when a tab ID does not exist.
var ErrTabNotFound = errors.New("tab not found")

// Mode is the input mode of a tab.
type Mode int

const (
	ModeText Mode = iota
	ModeDraw
)

// String returns "text" or "draw".
func (m Mode) String() string {
	if m == ModeDraw {
		return "draw"
	}
	return "text"
}

// Tab is one open note.
type Tab struct {
	ID     string
	Title  string
	NoteID string // ID of the stored note, empty until first save
	Mode   Mode

	Doc    *document.Document
	Canvas *canvas.Canvas
}

// Rev combines the document and canvas revisions. It changes whenever
// either changes.
func (t *Tab) Rev() uint64 {
	return t.Doc.Rev() + t.Canvas.Rev()
}

// DisplayTitle returns the tab title, falling back to the first line of the
// document.
func (t *Tab) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if title := t.Doc.Title(24); title != "" {
		return title
	}
	return "Untitled"
}

// Workspace is the ordered list of tabs and the active tab.
type Workspace struct {
	tabs   []*Tab
	active int

	canvasW, canvasH int
	counter          int
}

// New creates a workspace with one empty tab. The canvas size applies to new
// tabs.
func New(canvasW, canvasH int) *Workspace {
	w := &Workspace{canvasW: canvasW, canvasH: canvasH}
	w.NewTab()
	return w
}

// NewTab appends an empty tab and makes it active.
func (w *Workspace) NewTab() *Tab {
	w.counter++
	tab := &Tab{
		ID:     uuid.NewString(),
		Title:  fmt.Sprintf("Note %d", w.counter),
		Doc:    document.New(),
		Canvas: canvas.New(w.canvasW, w.canvasH),
	}
	w.tabs = append(w.tabs, tab)
	w.active = len(w.tabs) - 1
	return tab
}

// Open appends a tab for an existing document and canvas and makes it
// active.
func (w *Workspace) Open(title, noteID string, doc *document.Document, cv *canvas.Canvas) *Tab {
	if cv == nil {
		cv = canvas.New(w.canvasW, w.canvasH)
	}
	tab := &Tab{
		ID:     uuid.NewString(),
		Title:  title,
		NoteID: noteID,
		Doc:    doc,
		Canvas: cv,
	}
	w.tabs = append(w.tabs, tab)
	w.active = len(w.tabs) - 1
	return tab
}

// Close removes the tab with the given ID. Closing the last tab leaves a
// fresh empty one.
func (w *Workspace) Close(id string) error {
	i := w.index(id)
	if i < 0 {
		return fmt.Errorf("close %s: %w", id, ErrTabNotFound)
	}

	w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
	if len(w.tabs) == 0 {
		w.NewTab()
		return nil
	}
	if w.active > i || w.active >= len(w.tabs) {
		w.active--
	}
	return nil
}

// CloseActive closes the active tab.
func (w *Workspace) CloseActive() {
	_ = w.Close(w.Active().ID)
}

// Switch activates the tab with the given ID.
func (w *Workspace) Switch(id string) error {
	i := w.index(id)
	if i < 0 {
		return fmt.Errorf("switch to %s: %w", id, ErrTabNotFound)
	}
	w.active = i
	return nil
}

// SwitchIndex activates tab i. Out-of-range indexes are ignored.
func (w *Workspace) SwitchIndex(i int) bool {
	if i < 0 || i >= len(w.tabs) {
		return false
	}
	w.active = i
	return true
}

// Next activates the tab to the right, wrapping around.
func (w *Workspace) Next() {
	w.active = (w.active + 1) % len(w.tabs)
}

// Prev activates the tab to the left, wrapping around.
func (w *Workspace) Prev() {
	w.active = (w.active - 1 + len(w.tabs)) % len(w.tabs)
}

// Rename sets the title of a tab.
func (w *Workspace) Rename(id, title string) error {
	i := w.index(id)
	if i < 0 {
		return fmt.Errorf("rename %s: %w", id, ErrTabNotFound)
	}
	w.tabs[i].Title = strings.TrimSpace(title)
	return nil
}

// Active returns the active tab.
func (w *Workspace) Active() *Tab {
	return w.tabs[w.active]
}

// ActiveIndex returns the position of the active tab.
func (w *Workspace) ActiveIndex() int {
	return w.active
}

// Tabs returns the tabs in order.
func (w *Workspace) Tabs() []*Tab {
	return append([]*Tab(nil), w.tabs...)
}

// Len returns the number of tabs.
func (w *Workspace) Len() int {
	return len(w.tabs)
}

// Get returns the tab with the given ID.
func (w *Workspace) Get(id string) (*Tab, bool) {
	if i := w.index(id); i >= 0 {
		return w.tabs[i], true
	}
	return nil, false
}

// FindNote returns the tab bound to a stored note.
func (w *Workspace) FindNote(noteID string) (*Tab, bool) {
	for _, t := range w.tabs {
		if noteID != "" && t.NoteID == noteID {
			return t, true
		}
	}
	return nil, false
}

// ResizeCanvas resizes the canvas of every tab and of future tabs.
func (w *Workspace) ResizeCanvas(width, height int) {
	w.canvasW, w.canvasH = width, height
	for _, t := range w.tabs {
		t.Canvas.Resize(width, height)
	}
}

func (w *Workspace) index(id string) int {
	for i, t := range w.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
