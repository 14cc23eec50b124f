// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/workspace"
)

// =============================================================================
// KEYBOARD
// =============================================================================

// handleKey routes a key to the open overlay, the global bindings, the
// canvas or the editor, in that order.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	if m.quitting {
		return m, nil
	}

	switch m.overlay {
	case overlayHelp:
		if msg.Type == tea.KeyEsc || key.Matches(msg, m.keys.Help) {
			m.overlay = overlayNone
		}
		return m, nil
	case overlayHistory:
		return m.handleHistoryKey(msg)
	case overlayExport:
		return m.handleExportKey(msg)
	case overlayRename:
		return m.handleRenameKey(msg)
	case overlayPreview:
		return m.handlePreviewKey(msg)
	}

	tab := m.ws.Active()
	if tab == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Save):
		m.blurActive()
		if m.store == nil {
			m.status.SetMessage("Notes are not being stored", true)
			return m, nil
		}
		return m, m.saveTab(tab, true)

	case key.Matches(msg, m.keys.NewTab):
		m.newTab()
		return m, nil

	case key.Matches(msg, m.keys.CloseTab):
		return m, m.closeTab()

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(m.ws.Next)
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(m.ws.Prev)
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		return m.openRename()

	case key.Matches(msg, m.keys.Draw):
		m.toggleDraw()
		return m, nil

	case key.Matches(msg, m.keys.History):
		return m.openHistory()

	case key.Matches(msg, m.keys.Export):
		return m.openExport()

	case key.Matches(msg, m.keys.Preview):
		return m.openPreview()

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyMarkdownCmd()

	case key.Matches(msg, m.keys.Help):
		m.blurActive()
		m.overlay = overlayHelp
		return m, nil
	}

	// alt+1..9 jumps to a tab.
	if msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if r := msg.Runes[0]; r >= '1' && r <= '9' {
			m.switchTab(func() { m.ws.SwitchIndex(int(r - '1')) })
			return m, nil
		}
	}

	if tab.Mode == workspace.ModeDraw {
		return m.handleDrawKey(tab, msg)
	}
	return m.handleEditorKey(tab, msg)
}

// paletteKeys maps keys the palette consumes while it is visible.
var paletteKeys = map[tea.KeyType]commands.Key{
	tea.KeyUp:    commands.KeyUp,
	tea.KeyDown:  commands.KeyDown,
	tea.KeyEnter: commands.KeyEnter,
	tea.KeyEsc:   commands.KeyEscape,
}

// handleEditorKey edits the document of tab.
func (m Model) handleEditorKey(tab *workspace.Tab, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc := tab.Doc
	sess := m.sessionFor(tab)

	if ck, ok := paletteKeys[msg.Type]; ok && sess.Visible() {
		if sess.HandleKey(ck) {
			if ck == commands.KeyEnter {
				return m, m.afterEdit(tab)
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Checkbox):
		if !doc.ToggleCheckboxAtCaret() {
			return m, nil
		}
		return m, m.afterEdit(tab)

	case key.Matches(msg, m.keys.PageUp):
		m.moveLines(-m.bodyHeight())
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.moveLines(m.bodyHeight())
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		doc.Newline()
	case tea.KeyBackspace:
		doc.Backspace()
	case tea.KeyDelete:
		doc.Delete()
	case tea.KeyTab:
		if err := doc.InsertText("  "); err != nil {
			return m, nil
		}
	case tea.KeySpace:
		if err := doc.InsertText(" "); err != nil {
			return m, nil
		}
	case tea.KeyRunes:
		m.insertRunes(doc, msg.Runes)

	// Caret movement only refreshes the palette; the text is unchanged.
	case tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		switch msg.Type {
		case tea.KeyLeft:
			doc.Left()
		case tea.KeyRight:
			doc.Right()
		case tea.KeyHome:
			doc.Home()
		case tea.KeyEnd:
			doc.End()
		}
		sess.ContentChanged()
		m.followCaret()
		return m, nil
	case tea.KeyUp:
		m.moveLines(-1)
		return m, nil
	case tea.KeyDown:
		m.moveLines(1)
		return m, nil
	case tea.KeyEsc:
		sess.Blur()
		return m, nil

	default:
		return m, nil
	}
	return m, m.afterEdit(tab)
}

// insertRunes types runes at the caret. Newlines in pasted text become new
// blocks.
func (m *Model) insertRunes(doc *document.Document, runes []rune) {
	text := strings.ReplaceAll(string(runes), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			doc.Newline()
		}
		if line == "" {
			continue
		}
		if err := doc.InsertText(line); err != nil {
			m.logger.Debug("insert text", "err", err)
			return
		}
	}
}

// moveLines moves the caret n screen lines up or down, keeping its column.
func (m *Model) moveLines(n int) {
	tab, lay := m.layoutActive(true)
	if tab == nil || len(lay.Spans) == 0 {
		return
	}
	target := min(max(lay.CaretLine+n, 0), len(lay.Spans)-1)
	if target == lay.CaretLine {
		switch {
		case n < 0:
			tab.Doc.Home()
		case n > 0:
			tab.Doc.End()
		}
	} else {
		span := lay.Spans[target]
		col := span.colAt(lay.CaretX)
		// A caret at the end of a wrapped line belongs to the next line.
		if col == span.End && target+1 < len(lay.Spans) && lay.Spans[target+1].Block == span.Block && col > span.Start {
			col--
		}
		tab.Doc.SetCaretAt(span.Block, col)
	}
	m.sessionFor(tab).ContentChanged()
	m.followCaret()
}

// =============================================================================
// MOUSE
// =============================================================================

// handleMouse routes a mouse event using the regions of the last frame.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	tab := m.ws.Active()
	if tab == nil || m.quitting {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		delta := 3
		if msg.Type == tea.MouseWheelUp {
			delta = -3
		}
		switch m.overlay {
		case overlayNone:
			m.scrollBy(delta)
		case overlayHistory:
			return m.selectHistory(m.history.selected + delta/3)
		case overlayPreview:
			if delta < 0 {
				m.preview.LineUp(-delta)
			} else {
				m.preview.LineDown(delta)
			}
		}
		return m, nil

	case tea.MouseMotion:
		region := m.hits.Test(msg.X, msg.Y)
		if m.overlay == overlayNone && tab.Mode == workspace.ModeDraw && tab.Canvas.Drawing() {
			if region != nil && region.ID == regionCanvas {
				x, y := canvasPoint(tab.Canvas, region.Rect, msg.X, msg.Y)
				tab.Canvas.Extend(x, y)
				m.pen.X, m.pen.Y = x, y
				return m, m.autosave.Observe(tab.ID, tab.Rev())
			}
			return m, nil
		}
		if region != nil && region.ID == regionPopup {
			if i, ok := m.popup.ItemAt(msg.Y - region.Rect.Y); ok {
				m.sessionFor(tab).Hover(i)
			}
		}
		return m, nil

	case tea.MouseRelease:
		if tab.Canvas.Drawing() {
			tab.Canvas.End()
			m.pen.Down = false
			return m, m.autosave.Observe(tab.ID, tab.Rev())
		}
		return m, nil

	case tea.MouseLeft:
		return m.handleClick(tab, msg.X, msg.Y)
	}
	return m, nil
}

// handleClick handles a left button press at (x, y).
func (m Model) handleClick(tab *workspace.Tab, x, y int) (tea.Model, tea.Cmd) {
	region := m.hits.Test(x, y)

	if m.overlay != overlayNone {
		switch {
		case region != nil && region.ID == regionHistoryRow:
			return m.handleHistoryClick(region.Data.(int))
		case region != nil && region.ID == regionExportRow:
			i := region.Data.(int)
			if i == m.exportSel {
				return m.runExport(i)
			}
			m.exportSel = i
		case region == nil || region.ID != regionModal:
			// Click outside the modal closes it.
			if m.overlay != overlayRename {
				m.overlay = overlayNone
			}
		}
		return m, nil
	}

	sess := m.sessionFor(tab)
	if region == nil {
		sess.PointerOutside()
		return m, nil
	}

	switch region.ID {
	case regionPopup:
		if i, ok := m.popup.ItemAt(y - region.Rect.Y); ok && sess.Click(i) {
			return m, m.afterEdit(tab)
		}
		return m, nil

	case components.RegionTab:
		sess.PointerOutside()
		id := region.Data.(string)
		if id != tab.ID {
			m.switchTab(func() { _ = m.ws.Switch(id) })
		}
		return m, nil

	case components.RegionNewTab:
		sess.PointerOutside()
		m.newTab()
		return m, nil

	case regionEditor:
		sess.PointerOutside()
		return m.clickEditor(tab, region.Rect, x, y)

	case regionCanvas:
		cx, cy := canvasPoint(tab.Canvas, region.Rect, x, y)
		tab.Canvas.End()
		tab.Canvas.Begin(cx, cy)
		m.pen = pen{X: cx, Y: cy, Down: true}
		return m, m.autosave.Observe(tab.ID, tab.Rev())

	case regionColor:
		_ = tab.Canvas.SetColor(region.Data.(string))
		return m, nil

	case regionBrush:
		tab.Canvas.SetBrush(region.Data.(int))
		return m, nil
	}

	sess.PointerOutside()
	return m, nil
}

// clickEditor places the caret under (x, y) or toggles a checkbox when its
// marker was clicked.
func (m Model) clickEditor(tab *workspace.Tab, r components.Rect, x, y int) (tea.Model, tea.Cmd) {
	_, lay := m.layoutActive(false)
	line := m.scroll[tab.ID] + y - r.Y
	if line < 0 || line >= len(lay.Spans) {
		if len(lay.Spans) > 0 && line >= len(lay.Spans) {
			last := lay.Spans[len(lay.Spans)-1]
			tab.Doc.SetCaretAt(last.Block, last.End)
			m.sessionFor(tab).ContentChanged()
		}
		return m, nil
	}
	span := lay.Spans[line]
	col := x - r.X

	blocks := tab.Doc.Blocks()
	if blocks[span.Block].Kind == document.Checkbox && span.Start == 0 && col < span.Indent {
		if tab.Doc.ToggleCheckbox(span.Block) {
			return m, m.afterEdit(tab)
		}
		return m, nil
	}

	tab.Doc.SetCaretAt(span.Block, span.colAt(col))
	m.sessionFor(tab).ContentChanged()
	return m, nil
}
