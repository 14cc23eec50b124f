// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/ui/styles"
	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// COMMAND POPUP COMPONENT
// =============================================================================

// CommandPopup renders the slash-command suggestions of a commands.Session.
// It holds no selection state of its own; the session's navigator owns the
// highlighted index.
type CommandPopup struct {
	maxVisible int
	width      int
	theme      *styles.Theme

	// first item index and count rendered by the last View
	start, shown int
}

// NewCommandPopup creates a popup.
func NewCommandPopup(theme *styles.Theme) *CommandPopup {
	return &CommandPopup{
		maxVisible: 8,
		width:      44,
		theme:      theme,
	}
}

// SetMaxVisible sets the maximum number of visible rows.
func (p *CommandPopup) SetMaxVisible(n int) {
	if n > 0 {
		p.maxVisible = n
	}
}

// SetWidth sets the popup width including its border.
func (p *CommandPopup) SetWidth(width int) {
	p.width = max(width, 20)
}

// Width returns the popup width including its border.
func (p *CommandPopup) Width() int {
	return p.width
}

// window returns the range of items to render, keeping selected centered
// once the list scrolls.
func (p *CommandPopup) window(n, selected int) (start, end int) {
	if n <= p.maxVisible {
		return 0, n
	}
	start = max(selected-p.maxVisible/2, 0)
	end = start + p.maxVisible
	if end > n {
		end = n
		start = end - p.maxVisible
	}
	return start, end
}

// View renders items with the selected row highlighted. It returns "" for
// an empty list.
func (p *CommandPopup) View(items []commands.Suggestion, selected int) string {
	if len(items) == 0 {
		p.start, p.shown = 0, 0
		return ""
	}
	start, end := p.window(len(items), selected)
	p.start, p.shown = start, end-start

	inner := p.width - 4 // border and padding
	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		rows = append(rows, p.renderItem(items[i], i == selected, inner))
	}
	if hidden := len(items) - (end - start); hidden > 0 {
		rows = append(rows, p.theme.PopupMore.Render(
			util.IntToStr(selected+1)+"/"+util.IntToStr(len(items))))
	}
	return p.theme.Popup.Width(p.width - 2).Render(strings.Join(rows, "\n"))
}

func (p *CommandPopup) renderItem(s commands.Suggestion, selected bool, width int) string {
	name := "/" + s.DisplayName
	if s.Descends() {
		name += " >"
	}
	nameWidth := min(max(runewidth.StringWidth(name)+2, 12), width/2)
	name = util.PadRight(util.TruncateWidth(name, nameWidth-1), nameWidth)
	desc := util.PadRight(util.TruncateWidth(s.Description, width-nameWidth), width-nameWidth)

	if selected {
		return p.theme.PopupSelected.Render(name + desc)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		p.theme.PopupName.Render(name),
		p.theme.PopupDesc.Render(desc))
}

// ItemAt maps a row inside the rendered popup (0 = top border) to an item
// index. It reports false for borders and the overflow line.
func (p *CommandPopup) ItemAt(row int) (int, bool) {
	i := row - 1
	if i < 0 || i >= p.shown {
		return 0, false
	}
	return p.start + i, true
}
