// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jeranaias/webnote/internal/session"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/util"
)

// errNoStore is reported when the history is opened without a store.
var errNoStore = errors.New("notes are not being stored")

// =============================================================================
// HISTORY STATE
// =============================================================================

// historyState is the note history overlay: a searchable list of stored
// notes, most recent first.
type historyState struct {
	notes    []storage.NoteMeta
	selected int
	search   textinput.Model
	query    string // query the current list was loaded for
	loading  bool
	err      error

	// detail is the full note behind the selected row, once loaded
	detail *storage.Note

	// confirmDelete holds the ID awaiting a second delete key press
	confirmDelete string
}

func newHistoryState() historyState {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "title or text"
	ti.CharLimit = 80
	return historyState{search: ti}
}

// current returns the selected row.
func (h *historyState) current() (storage.NoteMeta, bool) {
	if h.selected < 0 || h.selected >= len(h.notes) {
		return storage.NoteMeta{}, false
	}
	return h.notes[h.selected], true
}

// historyRows is the number of list rows shown for a body height.
func historyRows(bodyHeight int) int {
	return max(bodyHeight-12, 3)
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) openHistory() (tea.Model, tea.Cmd) {
	m.blurActive()
	m.overlay = overlayHistory
	m.history.search.SetValue("")
	m.history.search.Focus()
	m.history.selected = 0
	m.history.detail = nil
	m.history.confirmDelete = ""
	m.history.loading = true
	return m, tea.Batch(m.loadHistoryCmd(), textinput.Blink)
}

// loadHistoryCmd lists the stored notes matching the search box.
func (m *Model) loadHistoryCmd() tea.Cmd {
	query := strings.TrimSpace(m.history.search.Value())
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return historyLoadedMsg{Query: query, Err: errNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		var (
			notes []storage.NoteMeta
			err   error
		)
		if query == "" {
			notes, err = store.List(ctx)
		} else {
			notes, err = store.Search(ctx, query)
		}
		return historyLoadedMsg{Query: query, Notes: notes, Err: err}
	}
}

// loadDetailCmd loads the selected note unless it is already loaded.
func (m *Model) loadDetailCmd() tea.Cmd {
	meta, ok := m.history.current()
	if !ok || m.store == nil {
		m.history.detail = nil
		return nil
	}
	if m.history.detail != nil && m.history.detail.ID == meta.ID {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := store.Load(ctx, meta.ID)
		return historyPreviewMsg{Note: n, Err: err}
	}
}

func deleteNoteCmd(store storage.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return noteDeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Query != strings.TrimSpace(m.history.search.Value()) {
		return m, nil // stale
	}
	m.history.loading = false
	m.history.err = msg.Err
	m.history.query = msg.Query
	if msg.Err != nil {
		m.logger.Error("list notes", "query", msg.Query, "err", msg.Err)
		m.history.notes = nil
		return m, nil
	}
	m.history.notes = msg.Notes
	m.history.selected = min(max(m.history.selected, 0), max(len(msg.Notes)-1, 0))
	return m, m.loadDetailCmd()
}

func (m Model) handleHistoryPreview(msg historyPreviewMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Debug("load history entry", "err", msg.Err)
		return m, nil
	}
	if meta, ok := m.history.current(); ok && meta.ID == msg.Note.ID {
		m.history.detail = msg.Note
	}
	return m, nil
}

func (m Model) handleNoteDeleted(msg noteDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error("delete note", "note", msg.ID, "err", msg.Err)
		m.status.SetMessage("Delete failed: "+msg.Err.Error(), true)
		return m, nil
	}
	m.logger.Info("note deleted", "note", msg.ID)
	m.status.SetMessage("Note deleted", false)

	// An open copy stays as an unsaved note.
	if tab, ok := m.ws.FindNote(msg.ID); ok {
		tab.NoteID = ""
		m.autosave.Forget(tab.ID)
		m.autosave.Track(tab.ID, tab.Rev())
	}
	m.history.detail = nil
	return m, m.loadHistoryCmd()
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.history
	switch {
	case msg.Type == tea.KeyEsc:
		if h.confirmDelete != "" {
			h.confirmDelete = ""
			return m, nil
		}
		m.overlay = overlayNone
		h.search.Blur()
		return m, nil

	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		if msg.Type == tea.KeyUp {
			return m.selectHistory(h.selected - 1)
		}
		return m.selectHistory(h.selected + 1)

	case msg.Type == tea.KeyEnter:
		meta, ok := h.current()
		if !ok || m.store == nil {
			return m, nil
		}
		return m, openNoteCmd(m.store, meta.ID)

	case key.Matches(msg, m.keys.Delete):
		meta, ok := h.current()
		if !ok || m.store == nil {
			return m, nil
		}
		if h.confirmDelete != meta.ID {
			h.confirmDelete = meta.ID
			return m, nil
		}
		h.confirmDelete = ""
		return m, deleteNoteCmd(m.store, meta.ID)
	}

	before := h.search.Value()
	var cmd tea.Cmd
	h.search, cmd = h.search.Update(msg)
	if h.search.Value() == before {
		return m, cmd
	}
	h.confirmDelete = ""
	h.selected = 0
	h.loading = true
	return m, tea.Batch(cmd, m.loadHistoryCmd())
}

// selectHistory moves the selection to row i, clamped.
func (m Model) selectHistory(i int) (tea.Model, tea.Cmd) {
	if len(m.history.notes) == 0 {
		return m, nil
	}
	i = min(max(i, 0), len(m.history.notes)-1)
	if i == m.history.selected {
		return m, nil
	}
	m.history.selected = i
	m.history.confirmDelete = ""
	return m, m.loadDetailCmd()
}

// handleHistoryClick selects a row, or opens it when already selected.
func (m Model) handleHistoryClick(i int) (tea.Model, tea.Cmd) {
	if i == m.history.selected && m.store != nil {
		if meta, ok := m.history.current(); ok {
			return m, openNoteCmd(m.store, meta.ID)
		}
	}
	return m.selectHistory(i)
}

// =============================================================================
// RENDERING
// =============================================================================

// Rows of the history modal above the list: top border, title, search box
// and a blank line.
const historyListTop = 4

// renderHistory renders the history modal content and returns it with the
// index of the first visible row.
func (m Model) renderHistory() (string, int) {
	h := m.history
	width := min(max(m.width-8, 40), 90)
	inner := width - 4
	rows := historyRows(m.bodyHeight())

	var lines []string
	title := "Note history"
	if len(h.notes) > 0 {
		title += fmt.Sprintf(" (%d)", len(h.notes))
	}
	lines = append(lines, m.theme.ModalTitle.Render(title))
	lines = append(lines, h.search.View())
	lines = append(lines, "")

	start := 0
	switch {
	case h.err != nil:
		lines = append(lines, m.theme.ErrorStyle.Render(util.TruncateWidth(h.err.Error(), inner)))
	case h.loading && len(h.notes) == 0:
		lines = append(lines, m.theme.Muted.Render("Loading..."))
	case len(h.notes) == 0 && h.query != "":
		lines = append(lines, m.theme.Muted.Render("No notes match \""+h.query+"\""))
	case len(h.notes) == 0:
		lines = append(lines, m.theme.Muted.Render("No saved notes yet"))
	default:
		if h.selected >= rows {
			start = h.selected - rows + 1
		}
		end := min(start+rows, len(h.notes))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderHistoryRow(h.notes[i], i == h.selected, inner))
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.renderHistoryDetail(inner)...)
	lines = append(lines, "")

	hint := "enter open · C-x delete · esc close"
	if h.confirmDelete != "" {
		hint = m.theme.WarningStyle.Render("Press C-x again to delete, esc to keep")
	} else {
		hint = m.theme.Muted.Render(hint)
	}
	lines = append(lines, hint)

	return m.theme.Modal.Width(width).Render(strings.Join(lines, "\n")), start
}

func (m Model) renderHistoryRow(n storage.NoteMeta, selected bool, width int) string {
	meta := ago(n.UpdatedAt) + " · " + util.IntToStr(n.Words) + " words"
	if n.HasDrawing {
		meta += " · drawing"
	}
	titleWidth := max(width-len([]rune(meta))-2, 8)
	title := util.PadRight(util.TruncateWidth(n.Title, titleWidth), titleWidth)
	if _, open := m.ws.FindNote(n.ID); open {
		title = util.PadRight(util.TruncateWidth("● "+n.Title, titleWidth), titleWidth)
	}

	if selected {
		return m.theme.ListSelected.Render(util.PadRight(title+"  "+meta, width))
	}
	return m.theme.ListItem.Render(title) + "  " + m.theme.ListMeta.Render(meta)
}

// renderHistoryDetail shows the preview text of the selected note and how
// it differs from the open tab.
func (m Model) renderHistoryDetail(width int) []string {
	meta, ok := m.history.current()
	if !ok {
		return nil
	}
	lines := []string{m.theme.ListMeta.Render(
		"Created " + meta.CreatedAt.Local().Format("2006-01-02 15:04") +
			" · updated " + meta.UpdatedAt.Local().Format("2006-01-02 15:04"))}
	if meta.Preview != "" {
		lines = append(lines, m.theme.Muted.Render(util.TruncateWidth(meta.Preview, width)))
	}

	detail := m.history.detail
	if detail == nil || detail.ID != meta.ID {
		return lines
	}
	if tab, open := m.ws.FindNote(meta.ID); open {
		ins, del := diffCounts(detail.Text, tab.Doc.PlainText())
		if ins == 0 && del == 0 {
			lines = append(lines, m.theme.Muted.Render("Open in a tab, no unsaved text changes"))
		} else {
			lines = append(lines, m.theme.WarningStyle.Render(
				fmt.Sprintf("Open in a tab with unsaved changes: +%d -%d chars", ins, del)))
		}
	} else if active := m.ws.Active(); active != nil && !active.Doc.IsEmpty() {
		ins, del := diffCounts(active.Doc.PlainText(), detail.Text)
		lines = append(lines, m.theme.Muted.Render(
			fmt.Sprintf("Compared with the current tab: +%d -%d chars", ins, del)))
	}
	return lines
}

// diffCounts returns how many characters were inserted and deleted going
// from a to b.
func diffCounts(a, b string) (ins, del int) {
	dmp := diffmatchpatch.New()
	for _, d := range dmp.DiffMain(a, b, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			ins += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			del += len([]rune(d.Text))
		}
	}
	return ins, del
}

// ago renders the age of t, e.g. "3m ago".
func ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return session.FormatDuration(time.Since(t).Truncate(time.Second)) + " ago"
}

// registerHistoryRows adds a region per visible row of the history modal
// placed at rect.
func (m Model) registerHistoryRows(rect components.Rect, start int) {
	rows := historyRows(m.bodyHeight())
	end := min(start+rows, len(m.history.notes))
	if m.history.err != nil {
		return
	}
	for i := start; i < end; i++ {
		m.hits.Add(regionHistoryRow, components.Rect{
			X: rect.X + 1,
			Y: rect.Y + historyListTop + i - start,
			W: rect.W - 2,
			H: 1,
		}, i)
	}
}
