// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/webnote/internal/export"
	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/util"
)

// overlay is the modal shown above the editor, if any.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayHistory
	overlayExport
	overlayRename
	overlayPreview
)

// =============================================================================
// EXPORT
// =============================================================================

// exportFormatNames are the labels of export.Formats.
var exportFormatNames = map[string]string{
	"html":     "HTML page",
	"markdown": "Markdown",
	"json":     "JSON (document and drawing)",
	"text":     "Plain text",
	"png":      "PNG image of the drawing",
	"pdf":      "PDF document",
	"zip":      "Zip bundle (all formats)",
}

func (m Model) openExport() (tea.Model, tea.Cmd) {
	m.blurActive()
	m.overlay = overlayExport
	m.exportSel = 0
	for i, f := range export.Formats {
		if f == m.cfg.Export.Format {
			m.exportSel = i
		}
	}
	return m, nil
}

func (m Model) handleExportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.overlay = overlayNone
	case tea.KeyUp:
		m.exportSel = max(m.exportSel-1, 0)
	case tea.KeyDown:
		m.exportSel = min(m.exportSel+1, len(export.Formats)-1)
	case tea.KeyEnter:
		return m.runExport(m.exportSel)
	}
	return m, nil
}

// runExport exports the active tab in format i of export.Formats.
func (m Model) runExport(i int) (tea.Model, tea.Cmd) {
	m.overlay = overlayNone
	tab := m.ws.Active()
	if tab == nil || i < 0 || i >= len(export.Formats) {
		return m, nil
	}
	format := export.Formats[i]

	note, err := m.snapshot(tab)
	if err != nil {
		m.status.SetMessage("Export failed: "+err.Error(), true)
		return m, nil
	}
	if note.ID == "" {
		note.ID = tab.ID
	}
	now := time.Now().UTC()
	note.CreatedAt, note.UpdatedAt = now, now

	opts := m.exportOpts
	m.status.SetMessage("Exporting "+format+"...", false)
	return m, func() tea.Msg {
		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return exportDoneMsg{Format: format, Err: err}
		}
		path, err := export.ExportToFile(note, exporter, opts)
		return exportDoneMsg{Format: format, Path: path, Err: err}
	}
}

func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, export.ErrNothingToExport):
		m.status.SetMessage("Nothing to export as "+msg.Format, true)
	case msg.Err != nil:
		m.logger.Error("export", "format", msg.Format, "err", msg.Err)
		m.status.SetMessage("Export failed: "+msg.Err.Error(), true)
	default:
		m.logger.Info("exported", "format", msg.Format, "path", msg.Path)
		m.status.SetMessage("Exported to "+msg.Path, false)
	}
	return m, nil
}

func (m Model) renderExport() string {
	var lines []string
	lines = append(lines, m.theme.ModalTitle.Render("Export note"), "")
	for i, f := range export.Formats {
		label := util.PadRight(f, 10) + exportFormatNames[f]
		if i == m.exportSel {
			lines = append(lines, m.theme.ListSelected.Render("> "+label))
		} else {
			lines = append(lines, m.theme.ListItem.Render("  "+label))
		}
	}
	dir := m.exportOpts.OutputDir
	if dir == "" {
		dir = "."
	}
	lines = append(lines, "",
		m.theme.ListMeta.Render("Folder: "+dir),
		m.theme.Muted.Render("enter export · esc cancel"))
	return m.theme.Modal.Render(strings.Join(lines, "\n"))
}

// Rows above the first format in the export modal: border, title, blank.
const exportListTop = 3

func (m Model) registerExportRows(rect components.Rect) {
	for i := range export.Formats {
		m.hits.Add(regionExportRow, components.Rect{
			X: rect.X + 1, Y: rect.Y + exportListTop + i, W: rect.W - 2, H: 1,
		}, i)
	}
}

// =============================================================================
// RENAME
// =============================================================================

func newRenameInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.CharLimit = titleLength
	ti.Width = 40
	return ti
}

func (m Model) openRename() (tea.Model, tea.Cmd) {
	tab := m.ws.Active()
	if tab == nil {
		return m, nil
	}
	m.blurActive()
	m.overlay = overlayRename
	m.rename.SetValue(m.noteTitle(tab))
	m.rename.CursorEnd()
	m.rename.Focus()
	return m, textinput.Blink
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.overlay = overlayNone
		m.rename.Blur()
		return m, nil
	case tea.KeyEnter:
		m.overlay = overlayNone
		m.rename.Blur()
		tab := m.ws.Active()
		title := strings.TrimSpace(m.rename.Value())
		if tab == nil {
			return m, nil
		}
		// An empty title goes back to following the first line.
		if title == "" {
			delete(m.renamed, tab.ID)
		} else if err := m.ws.Rename(tab.ID, title); err == nil {
			m.renamed[tab.ID] = true
		}
		return m, m.saveTab(tab, false)
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) renderRename() string {
	return m.theme.Modal.Render(strings.Join([]string{
		m.theme.ModalTitle.Render("Rename tab"),
		"",
		m.rename.View(),
		"",
		m.theme.Muted.Render("enter apply · empty uses the first line · esc cancel"),
	}, "\n"))
}

// =============================================================================
// HELP
// =============================================================================

func (m Model) renderHelp() string {
	keyStyle := m.theme.ShortcutKey.Width(16)
	var lines []string
	lines = append(lines, m.theme.ModalTitle.Render("Keyboard shortcuts"))
	for i, group := range m.keys.FullHelp() {
		lines = append(lines, "", m.theme.ListMeta.Render(helpSections[i]))
		for _, b := range group {
			h := b.Help()
			lines = append(lines, keyStyle.Render(h.Key)+m.theme.ShortcutDesc.Render(h.Desc))
		}
	}
	lines = append(lines, "", m.theme.ListMeta.Render("Editor"))
	for _, e := range extraHelp {
		lines = append(lines, keyStyle.Render(e[0])+m.theme.ShortcutDesc.Render(e[1]))
	}
	lines = append(lines, "", m.theme.Muted.Render("esc close"))

	// Two columns when the terminal is too short for one.
	if len(lines)+2 > m.height && len(lines) > 10 {
		half := (len(lines) + 1) / 2
		left := strings.Join(lines[:half], "\n")
		right := strings.Join(lines[half:], "\n")
		return m.theme.Modal.Render(joinColumns(left, right, 4))
	}
	return m.theme.Modal.Render(strings.Join(lines, "\n"))
}

// joinColumns puts b to the right of a with gap spaces between them.
func joinColumns(a, b string, gap int) string {
	al, bl := strings.Split(a, "\n"), strings.Split(b, "\n")
	w := 0
	for _, l := range al {
		w = max(w, util.StringWidth(l))
	}
	n := max(len(al), len(bl))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(al) {
			l = al[i]
		}
		if i < len(bl) {
			r = bl[i]
		}
		out[i] = util.PadRight(l, w+gap) + r
	}
	return strings.Join(out, "\n")
}

// =============================================================================
// MARKDOWN PREVIEW
// =============================================================================

func (m Model) openPreview() (tea.Model, tea.Cmd) {
	tab := m.ws.Active()
	if tab == nil {
		return m, nil
	}
	m.blurActive()
	width := min(max(m.width-8, 30), 100)
	height := max(m.bodyHeight()-4, 5)

	md := export.RenderMarkdown(tab.Doc.Blocks())
	if strings.TrimSpace(md) == "" {
		md = "*Empty note*"
	}
	rendered := md
	style := "light"
	if m.theme.IsDark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-4),
	)
	if err == nil {
		if out, err := renderer.Render(md); err == nil {
			rendered = out
		}
	}
	if err != nil {
		m.logger.Debug("markdown preview renderer", "err", err)
	}

	m.preview = viewport.New(width-2, height)
	m.preview.SetContent(strings.TrimRight(rendered, "\n"))
	m.overlay = overlayPreview
	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || key.Matches(msg, m.keys.Preview) {
		m.overlay = overlayNone
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m Model) renderPreview() string {
	title := m.theme.ModalTitle.Render("Markdown preview")
	hint := m.theme.Muted.Render("arrows scroll · esc close")
	return m.theme.Modal.Render(title + "\n" + m.preview.View() + "\n" + hint)
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// copyMarkdownCmd copies the active tab as Markdown.
func (m Model) copyMarkdownCmd() tea.Cmd {
	tab := m.ws.Active()
	if tab == nil {
		return nil
	}
	md := export.RenderMarkdown(tab.Doc.Blocks())
	return func() tea.Msg {
		return clipboardMsg{Err: clipboard.WriteAll(md)}
	}
}

func (m Model) handleClipboard(msg clipboardMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("copy to clipboard", "err", msg.Err)
		m.status.SetMessage("Copy failed: "+msg.Err.Error(), true)
		return m, nil
	}
	m.status.SetMessage("Copied as Markdown", false)
	return m, nil
}
