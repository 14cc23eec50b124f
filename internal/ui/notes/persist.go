// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/config"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/export"
	"github.com/jeranaias/webnote/internal/session"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/workspace"
)

// storeTimeout bounds every store call made from the UI.
const storeTimeout = 10 * time.Second

// titleLength is the maximum length of a title derived from the text.
const titleLength = 60

// ExportOptions builds export options from the configuration.
func ExportOptions(cfg *config.Config) *export.Options {
	opts := export.DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.OutputDir = cfg.Export.Dir
	opts.OpenAfterExport = cfg.Export.OpenAfter
	opts.IncludeMetadata = cfg.Export.IncludeMetadata
	opts.Theme = cfg.Export.Theme
	opts.Scale = cfg.Export.PNGScale
	return opts
}

// autosaveConfig converts the editor settings to auto-save timing.
func autosaveConfig(cfg *config.Config) session.Config {
	return session.Config{
		Enabled:   cfg.Editor.AutoSave,
		Debounce:  time.Duration(cfg.Editor.AutoSaveDelayMs) * time.Millisecond,
		Interval:  time.Duration(cfg.Editor.SafetySaveSecs) * time.Second,
		Indicator: 2 * time.Second,
	}
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// snapshot encodes a tab as a note. The note ID is the tab's, which may still
// be empty.
func (m *Model) snapshot(tab *workspace.Tab) (*storage.Note, error) {
	content, err := tab.Doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	n := &storage.Note{
		ID:      tab.NoteID,
		Title:   m.noteTitle(tab),
		Content: content,
		Text:    tab.Doc.PlainText(),
	}
	if !tab.Canvas.IsEmpty() {
		if n.Canvas, err = tab.Canvas.MarshalJSON(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// noteTitle is the title a tab is stored under: the tab name once the user
// renamed it, otherwise the first line of text.
func (m *Model) noteTitle(tab *workspace.Tab) string {
	if m.renamed[tab.ID] {
		return tab.Title
	}
	if title := tab.Doc.Title(titleLength); title != "" {
		return title
	}
	return tab.Title
}

// contentKey identifies what a note stores, independent of JSON formatting,
// for change detection.
func contentKey(n *storage.Note) []byte {
	var buf bytes.Buffer
	buf.WriteString(n.Title)
	buf.WriteByte(0)
	compactInto(&buf, n.Content)
	buf.WriteByte(0)
	compactInto(&buf, n.Canvas)
	return buf.Bytes()
}

func compactInto(buf *bytes.Buffer, raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	if err := json.Compact(buf, raw); err != nil {
		buf.Write(raw)
	}
}

// isBlank reports whether a tab was never saved and holds nothing.
func isBlank(tab *workspace.Tab) bool {
	return tab.NoteID == "" && tab.Doc.IsEmpty() && tab.Canvas.IsEmpty()
}

// decodeNote rebuilds the document and drawing of a stored note. When the
// document cannot be decoded its plain text is used and the error returned.
func decodeNote(n *storage.Note, canvasW, canvasH int) (*document.Document, *canvas.Canvas, error) {
	var docErr error
	doc, err := document.FromJSON(n.Content)
	if err != nil {
		docErr = err
		doc = document.FromText(n.Text)
	}

	cv := canvas.New(canvasW, canvasH)
	if len(n.Canvas) > 0 {
		if c, err := canvas.FromJSON(n.Canvas); err == nil {
			cv = c
		} else if docErr == nil {
			docErr = err
		}
	}
	return doc, cv, docErr
}

// =============================================================================
// SAVING
// =============================================================================

// saveTab starts saving tab. Unless force is set nothing happens when the
// content matches the last save. A save requested while one is running for
// the same tab is queued.
func (m *Model) saveTab(tab *workspace.Tab, force bool) tea.Cmd {
	if m.store == nil || tab == nil || isBlank(tab) {
		return nil
	}
	if m.saving[tab.ID] {
		m.pending[tab.ID] = true
		return nil
	}

	note, err := m.snapshot(tab)
	if err != nil {
		m.logger.Error("encode note", "tab", tab.ID, "err", err)
		m.status.SetMessage("Save failed: "+err.Error(), true)
		return nil
	}
	key := contentKey(note)
	if !force && !m.autosave.NeedsSave(tab.ID, key) {
		return nil
	}

	if tab.NoteID == "" {
		tab.NoteID = uuid.NewString()
		note.ID = tab.NoteID
	}
	m.saving[tab.ID] = true

	store, tabID, rev := m.store, tab.ID, tab.Rev()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		id, err := store.Save(ctx, note)
		return noteSavedMsg{TabID: tabID, NoteID: id, Key: key, Rev: rev, Err: err}
	}
}

func (m Model) handleNoteSaved(msg noteSavedMsg) (tea.Model, tea.Cmd) {
	delete(m.saving, msg.TabID)
	var cmds []tea.Cmd

	tab, open := m.ws.Get(msg.TabID)
	if msg.Err != nil {
		m.logger.Error("save note", "note", msg.NoteID, "err", msg.Err)
		m.status.SetMessage("Save failed: "+msg.Err.Error(), true)
	} else {
		m.logger.Debug("note saved", "note", msg.NoteID, "tab", msg.TabID)
		cmds = append(cmds, m.autosave.MarkSaved(msg.TabID, msg.Key))
		if !open {
			m.autosave.Forget(msg.TabID)
		} else if tab.Rev() != msg.Rev {
			// Edited while saving: still dirty.
			m.autosave.Track(msg.TabID, msg.Rev)
			cmds = append(cmds, m.autosave.Observe(msg.TabID, tab.Rev()))
		}
	}

	if m.pending[msg.TabID] {
		delete(m.pending, msg.TabID)
		if open {
			cmds = append(cmds, m.saveTab(tab, false))
		}
	}

	if m.quitting && len(m.saving) == 0 {
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// LOADING
// =============================================================================

func loadLatestCmd(store storage.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := store.Latest(ctx)
		return latestLoadedMsg{Note: n, Err: err}
	}
}

func openNoteCmd(store storage.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := store.Load(ctx, id)
		return noteOpenedMsg{Note: n, Err: err}
	}
}

func reloadNoteCmd(store storage.Store, tabID, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := store.Load(ctx, id)
		return noteReloadedMsg{TabID: tabID, Note: n, Err: err}
	}
}

func (m Model) handleLatestLoaded(msg latestLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if !errors.Is(msg.Err, storage.ErrNoteNotFound) {
			m.logger.Error("load latest note", "err", msg.Err)
			m.status.SetMessage("Could not restore last note", true)
		}
		return m, nil
	}

	// Only replace the startup tab if the user has not started typing.
	tabs := m.ws.Tabs()
	if len(tabs) != 1 || !isBlank(tabs[0]) || tabs[0].Rev() != 0 {
		return m, nil
	}
	m.openNote(msg.Note)
	m.logger.Info("restored note", "note", msg.Note.ID)
	return m, nil
}

func (m Model) handleNoteOpened(msg noteOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error("open note", "err", msg.Err)
		m.status.SetMessage("Could not open note: "+msg.Err.Error(), true)
		return m, nil
	}
	m.openNote(msg.Note)
	m.overlay = overlayNone
	return m, nil
}

// openNote shows n in a tab: the tab already holding it, the active tab when
// that is blank, or a new one.
func (m *Model) openNote(n *storage.Note) {
	if tab, ok := m.ws.FindNote(n.ID); ok {
		m.blurActive()
		_ = m.ws.Switch(tab.ID)
		return
	}

	doc, cv, err := decodeNote(n, m.cfg.Editor.CanvasWidth, m.cfg.Editor.CanvasHeight)
	if err != nil {
		m.logger.Warn("note content damaged, using plain text", "note", n.ID, "err", err)
	}

	m.blurActive()
	prev := m.ws.Active()
	replace := prev != nil && isBlank(prev) && !m.autosave.IsDirty(prev.ID)

	tab := m.ws.Open(n.Title, n.ID, doc, cv)
	m.setupTab(tab)
	m.renamed[tab.ID] = n.Title != "" && n.Title != doc.Title(titleLength)

	if replace {
		_ = m.ws.Close(prev.ID)
		m.dropTab(prev.ID)
	}
	m.followCaret()
}

// =============================================================================
// EXTERNAL CHANGES
// =============================================================================

// waitForChange delivers the next change seen by the watcher.
func waitForChange(w *storage.Watcher) tea.Cmd {
	return func() tea.Msg {
		ch, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return storeChangedMsg{Change: ch}
	}
}

func (m Model) handleStoreChanged(msg storeChangedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForChange(m.watcher)}
	if m.overlay == overlayHistory {
		cmds = append(cmds, m.loadHistoryCmd())
	}
	if msg.Change.Removed || m.store == nil {
		return m, tea.Batch(cmds...)
	}

	for _, tab := range m.ws.Tabs() {
		if tab.NoteID == "" || m.saving[tab.ID] || m.autosave.IsDirty(tab.ID) {
			continue
		}
		if msg.Change.NoteID != "" && msg.Change.NoteID != tab.NoteID {
			continue
		}
		cmds = append(cmds, reloadNoteCmd(m.store, tab.ID, tab.NoteID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleNoteReloaded(msg noteReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Debug("reload note", "tab", msg.TabID, "err", msg.Err)
		return m, nil
	}
	tab, ok := m.ws.Get(msg.TabID)
	if !ok || tab.NoteID != msg.Note.ID || m.saving[tab.ID] || m.autosave.IsDirty(tab.ID) {
		return m, nil
	}

	current, err := m.snapshot(tab)
	if err != nil || bytes.Equal(contentKey(current), contentKey(msg.Note)) {
		return m, nil
	}

	doc, cv, err := decodeNote(msg.Note, m.cfg.Editor.CanvasWidth, m.cfg.Editor.CanvasHeight)
	if err != nil {
		m.logger.Warn("reloaded note damaged", "note", msg.Note.ID, "err", err)
	}
	if tab == m.ws.Active() {
		m.liftPen(tab)
	}
	tab.Doc, tab.Canvas = doc, cv
	if m.renamed[tab.ID] {
		tab.Title = msg.Note.Title
	}
	m.setupTab(tab)
	m.followCaret()

	m.logger.Info("note changed on disk, reloaded", "note", msg.Note.ID)
	m.status.SetMessage("Reloaded \""+msg.Note.Title+"\" (changed elsewhere)", false)
	return m, nil
}
