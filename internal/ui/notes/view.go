// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/util"
	"github.com/jeranaias/webnote/internal/workspace"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen and records its clickable regions.
func (m Model) View() string {
	m.hits.Clear()
	tab := m.ws.Active()
	if tab == nil {
		return ""
	}

	tabBar := m.tabBar.View(m.tabLabels(), m.width, 0, m.hits)

	var body []string
	var popup string
	var popupX, popupY int
	if tab.Mode == workspace.ModeDraw {
		body = m.renderDrawBody(tab)
	} else {
		body, popup, popupX, popupY = m.renderEditorBody(tab)
	}

	// Pad or clip the body to its height.
	h := m.bodyHeight()
	for len(body) < h {
		body = append(body, "")
	}
	body = body[:h]
	for i, line := range body {
		body[i] = ansi.Truncate(line, m.width, "")
	}

	m.updateStatus(tab)
	screen := tabBar + "\n" + strings.Join(body, "\n") + "\n" + m.status.View()

	if popup != "" {
		screen = components.PlaceOverlay(screen, popup, popupX, popupY)
		lines := strings.Split(popup, "\n")
		m.hits.Add(regionPopup, components.Rect{
			X: popupX, Y: popupY, W: m.popup.Width(), H: len(lines),
		}, nil)
	}

	if m.overlay != overlayNone {
		screen = m.renderOverlay(screen)
	}
	return screen
}

// renderEditorBody renders the visible editor lines and, when the palette is
// open, the popup and its screen position.
func (m Model) renderEditorBody(tab *workspace.Tab) ([]string, string, int, int) {
	showCaret := m.overlay == overlayNone
	lay := layoutDocument(tab.Doc, m.theme, m.editorWidth(), showCaret)

	h := m.bodyHeight()
	top := min(m.scroll[tab.ID], max(len(lay.Lines)-1, 0))
	end := min(top+h, len(lay.Lines))

	pad := strings.Repeat(" ", editorPadX)
	body := make([]string, 0, h)
	for _, line := range lay.Lines[top:end] {
		body = append(body, pad+line)
	}
	m.hits.Add(regionEditor, components.Rect{
		X: editorPadX, Y: tabBarHeight, W: m.editorWidth(), H: h,
	}, nil)

	sess := m.sessionFor(tab)
	if !showCaret || !sess.Visible() {
		return body, "", 0, 0
	}
	popup := m.popup.View(sess.Items(), sess.Index())
	if popup == "" {
		return body, "", 0, 0
	}

	// Below the caret line, or above it when there is no room.
	popupH := len(strings.Split(popup, "\n"))
	caretY := tabBarHeight + lay.CaretLine - top
	x := min(editorPadX+lay.CaretX, max(m.width-m.popup.Width(), 0))
	y := caretY + 1
	if y+popupH > tabBarHeight+h && caretY-popupH >= tabBarHeight {
		y = caretY - popupH
	}
	return body, popup, x, y
}

// renderDrawBody renders the canvas with its palette and hint.
func (m Model) renderDrawBody(tab *workspace.Tab) []string {
	cv := tab.Canvas
	w, h := cv.Size()
	showPen := m.overlay == overlayNone
	frame := m.theme.CanvasFrame.Render(strings.Join(renderCanvas(cv, m.theme, m.pen, showPen), "\n"))

	pad := strings.Repeat(" ", editorPadX)
	var body []string
	for _, line := range strings.Split(frame, "\n") {
		body = append(body, pad+line)
	}
	m.hits.Add(regionCanvas, components.Rect{
		X: editorPadX + 1, Y: tabBarHeight + 1, W: w, H: h,
	}, nil)

	paletteY := tabBarHeight + len(body)
	body = append(body, pad+renderPalette(cv, m.theme, editorPadX, paletteY, m.hits))
	body = append(body, pad+m.theme.Muted.Render(drawHint))
	return body
}

// updateStatus copies the state of tab into the status bar.
func (m Model) updateStatus(tab *workspace.Tab) {
	s := m.status
	s.SetWidth(m.width)
	s.Mode = tab.Mode.String()
	s.Words, s.Chars = tab.Doc.Stats()
	s.Dirty = m.autosave.IsDirty(tab.ID) || m.saving[tab.ID]
	s.Saved = m.autosave.IndicatorVisible()
	s.LastSave = m.autosave.LastSave()
	s.AutoSave = m.autosave.Config().Enabled && m.store != nil
	s.Brush = ""
	if tab.Mode == workspace.ModeDraw {
		hex, size := tab.Canvas.Brush()
		s.Brush = hex + "/" + util.IntToStr(size)
	}
}

// renderOverlay draws the open modal over a dimmed screen.
func (m Model) renderOverlay(screen string) string {
	var (
		modal string
		start int
	)
	switch m.overlay {
	case overlayHelp:
		modal = m.renderHelp()
	case overlayHistory:
		modal, start = m.renderHistory()
	case overlayExport:
		modal = m.renderExport()
	case overlayRename:
		modal = m.renderRename()
	case overlayPreview:
		modal = m.renderPreview()
	}

	out, rect := components.OverlayModal(screen, modal, m.width, m.height)
	m.hits.Add(regionModal, rect, nil)
	switch m.overlay {
	case overlayHistory:
		m.registerHistoryRows(rect, start)
	case overlayExport:
		m.registerExportRows(rect)
	}
	return out
}
