// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/ui/styles"
	"github.com/jeranaias/webnote/internal/workspace"
)

// =============================================================================
// DRAWING MODE
// =============================================================================

// pen is the keyboard drawing cursor.
type pen struct {
	X, Y int
	Down bool
}

// paletteColor is a brush color with its shortcut key.
type paletteColor struct {
	Key  string
	Name string
}

var paletteColors = []paletteColor{
	{"k", "black"},
	{"w", "white"},
	{"r", "red"},
	{"b", "blue"},
	{"g", "green"},
	{"y", "yellow"},
	{"p", "purple"},
	{"o", "orange"},
}

// inkGlyph fills a painted cell.
const inkGlyph = "█"

// handleDrawKey handles keys while the active tab is in drawing mode.
func (m Model) handleDrawKey(tab *workspace.Tab, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cv := tab.Canvas
	w, h := cv.Size()

	switch {
	case msg.Type == tea.KeyEsc:
		m.liftPen(tab)
		tab.Mode = workspace.ModeText
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		if !cv.Undo() {
			return m, nil
		}
		m.pen.Down = false

	case key.Matches(msg, m.keys.ClearDraw):
		if cv.IsEmpty() {
			return m, nil
		}
		cv.Clear()
		m.pen.Down = false
		m.status.SetMessage("Drawing cleared", false)

	case key.Matches(msg, m.keys.Pen):
		if m.pen.Down {
			cv.End()
			m.pen.Down = false
			return m, nil
		}
		cv.Begin(m.pen.X, m.pen.Y)
		m.pen.Down = true

	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown, msg.Type == tea.KeyLeft, msg.Type == tea.KeyRight:
		dx, dy := arrowDelta(msg.Type)
		m.pen.X = min(max(m.pen.X+dx, 0), w-1)
		m.pen.Y = min(max(m.pen.Y+dy, 0), h-1)
		if !m.pen.Down {
			return m, nil
		}
		cv.Extend(m.pen.X, m.pen.Y)

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		r := msg.Runes[0]
		if r >= '1' && r <= '5' {
			cv.SetBrush(int(r - '0'))
			return m, nil
		}
		for _, c := range paletteColors {
			if c.Key == string(r) {
				_ = cv.SetColor(c.Name)
				return m, nil
			}
		}
		return m, nil

	default:
		return m, nil
	}
	return m, m.autosave.Observe(tab.ID, tab.Rev())
}

func arrowDelta(t tea.KeyType) (dx, dy int) {
	switch t {
	case tea.KeyUp:
		return 0, -1
	case tea.KeyDown:
		return 0, 1
	case tea.KeyLeft:
		return -1, 0
	case tea.KeyRight:
		return 1, 0
	}
	return 0, 0
}

// liftPen ends any stroke in progress on tab.
func (m *Model) liftPen(tab *workspace.Tab) {
	if tab != nil {
		tab.Canvas.End()
	}
	m.pen.Down = false
}

// canvasPoint converts a screen position inside the canvas region to a
// canvas cell, clamped to the canvas.
func canvasPoint(cv *canvas.Canvas, r components.Rect, x, y int) (int, int) {
	w, h := cv.Size()
	return min(max(x-r.X, 0), w-1), min(max(y-r.Y, 0), h-1)
}

// =============================================================================
// RENDERING
// =============================================================================

// renderCanvas draws the canvas cells. The pen cursor is drawn reversed when
// showPen is set.
func renderCanvas(cv *canvas.Canvas, theme *styles.Theme, p pen, showPen bool) []string {
	w, h := cv.Size()
	cells := cv.Cells()
	rows := make([]string, h)

	for y := 0; y < h; y++ {
		var sb strings.Builder
		x := 0
		for x < w {
			col := cells[canvas.Point{X: x, Y: y}]
			atPen := showPen && p.X == x && p.Y == y
			end := x + 1
			for !atPen && end < w && cells[canvas.Point{X: end, Y: y}] == col &&
				!(showPen && p.X == end && p.Y == y) {
				end++
			}

			glyph := " "
			st := lipgloss.NewStyle()
			if col != "" {
				glyph = inkGlyph
				st = st.Foreground(inkColor(col, theme.IsDark))
			}
			if atPen {
				if p.Down {
					glyph = "+"
				} else {
					glyph = "·"
				}
				st = st.Reverse(true)
			}
			sb.WriteString(st.Render(strings.Repeat(glyph, end-x)))
			x = end
		}
		rows[y] = sb.String()
	}
	return rows
}

// inkColor shows black ink in the text color on dark terminals.
func inkColor(hex string, dark bool) lipgloss.TerminalColor {
	if dark && hex == canvas.DefaultColor {
		return styles.TextPrimary
	}
	return lipgloss.Color(hex)
}

// renderPalette draws the color swatches and brush sizes on row y starting at
// column x0 and registers their regions.
func renderPalette(cv *canvas.Canvas, theme *styles.Theme, x0, y int, hits *components.HitMap) string {
	active, size := cv.Brush()
	var sb strings.Builder
	x := x0

	add := func(s, id string, data any) {
		w := ansi.StringWidth(s)
		sb.WriteString(s)
		if hits != nil && id != "" {
			hits.Add(id, components.Rect{X: x, Y: y, W: w, H: 1}, data)
		}
		x += w
	}

	for _, c := range paletteColors {
		hex, _ := canvas.NormalizeColor(c.Name)
		swatch := lipgloss.NewStyle().Foreground(inkColor(hex, theme.IsDark)).Render("■")
		label := c.Key + swatch
		if hex == active {
			label = theme.ListSelected.Render("["+c.Key) + swatch + theme.ListSelected.Render("]")
		} else {
			label = " " + label + " "
		}
		add(label, regionColor, c.Name)
	}
	add(theme.Muted.Render("  size "), "", nil)
	for s := canvas.MinBrush; s <= canvas.MaxBrush; s++ {
		label := " " + string(rune('0'+s)) + " "
		if s == size {
			label = theme.ListSelected.Render(label)
		}
		add(label, regionBrush, s)
	}
	return sb.String()
}

// drawHint is the help line under the palette.
const drawHint = "arrows move · space pen · u undo · x clear · esc text"
