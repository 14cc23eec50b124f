// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// =============================================================================
// OVERLAY COMPOSITING
// =============================================================================

// DimStyle grays out the background behind modals. Existing colors are
// stripped first because faint does not combine reliably with them.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// PlaceOverlay draws fg over bg with its top-left corner at (x, y), keeping
// the background's styling on both sides. Rows of fg past the end of bg are
// dropped.
func PlaceOverlay(bg, fg string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	fgWidth := maxLineWidth(fgLines)
	x = max(x, 0)

	for i, line := range fgLines {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		bgLine := bgLines[row]
		bgWidth := ansi.StringWidth(bgLine)

		var b strings.Builder
		left := ansi.Truncate(bgLine, x, "")
		b.WriteString(left)
		if w := ansi.StringWidth(left); w < x {
			b.WriteString(strings.Repeat(" ", x-w))
		}
		b.WriteString(line)
		if w := ansi.StringWidth(line); w < fgWidth {
			b.WriteString(strings.Repeat(" ", fgWidth-w))
		}
		if right := x + fgWidth; right < bgWidth {
			b.WriteString(ansi.Cut(bgLine, right, bgWidth))
		}
		bgLines[row] = b.String()
	}
	return strings.Join(bgLines, "\n")
}

// OverlayModal composites a modal centered on a dimmed background of the
// given size. It returns the result and the modal's rectangle.
func OverlayModal(background, modal string, width, height int) (string, Rect) {
	bgLines := strings.Split(background, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}
	bgLines = bgLines[:height]
	for i, line := range bgLines {
		bgLines[i] = DimStyle.Render(ansi.Strip(line))
	}

	modalLines := strings.Split(modal, "\n")
	rect := Rect{W: maxLineWidth(modalLines), H: len(modalLines)}
	rect.X = max((width-rect.W)/2, 0)
	rect.Y = max((height-rect.H)/2, 0)

	return PlaceOverlay(strings.Join(bgLines, "\n"), modal, rect.X, rect.Y), rect
}

func maxLineWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}
