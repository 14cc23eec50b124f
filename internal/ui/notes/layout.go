// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/ui/components"
	"github.com/jeranaias/webnote/internal/ui/styles"
)

// =============================================================================
// EDITOR LAYOUT
// =============================================================================

// placeholder is shown in an empty document.
const placeholder = "Type / for commands"

// cell is one rune of a block with its inline style.
type cell struct {
	r  rune
	st document.Style
}

// lineSpan maps one screen line back to the document.
type lineSpan struct {
	Block  int    // block index
	Start  int    // rune column of the first character
	End    int    // rune column after the last character
	Indent int    // display width of the block prefix
	Runes  []rune // the characters on the line
}

// docLayout is a document wrapped to a width.
type docLayout struct {
	Lines     []string
	Spans     []lineSpan
	CaretLine int
	CaretX    int // display column, prefix included
}

// layoutDocument wraps doc to width and renders every line. When caret is
// set the caret cell is drawn reversed.
func layoutDocument(doc *document.Document, theme *styles.Theme, width int, caret bool) docLayout {
	width = max(width, 8)
	blocks := doc.Blocks()
	caretBlock, caretCol := doc.CaretBlock()

	if !caret {
		caretBlock = -1
	}
	highlighted := highlightCode(blocks, caretBlock, width-runewidth.StringWidth(codePrefix), theme.IsDark)

	var out docLayout
	for bi, b := range blocks {
		prefix, prefixStyle := blockPrefix(blocks, bi, theme)
		indent := runewidth.StringWidth(prefix)
		contentWidth := max(width-indent-1, 1)
		base := blockStyle(b, theme)

		cells := blockCells(b)
		chunks := wrapCells(cells, contentWidth)
		for ci, ch := range chunks {
			var sb strings.Builder
			if ci == 0 {
				sb.WriteString(prefixStyle.Render(prefix))
			} else {
				sb.WriteString(strings.Repeat(" ", indent))
			}

			last := ci == len(chunks)-1
			hasCaret := bi == caretBlock &&
				(caretCol >= ch[0] && caretCol < ch[1] || caretCol == ch[1] && last)

			if hl, ok := highlighted[bi]; ok {
				sb.WriteString(hl)
			} else {
				sb.WriteString(renderCells(cells[ch[0]:ch[1]], base, theme, hasCaret, caretCol-ch[0]))
			}
			if hasCaret && doc.IsEmpty() && len(blocks) == 1 {
				sb.WriteString(theme.Placeholder.Render(placeholder))
			}

			runes := make([]rune, ch[1]-ch[0])
			for i, c := range cells[ch[0]:ch[1]] {
				runes[i] = c.r
			}
			if hasCaret {
				out.CaretLine = len(out.Lines)
				out.CaretX = indent + runewidth.StringWidth(string(runes[:caretCol-ch[0]]))
			}
			out.Lines = append(out.Lines, sb.String())
			out.Spans = append(out.Spans, lineSpan{
				Block:  bi,
				Start:  ch[0],
				End:    ch[1],
				Indent: indent,
				Runes:  runes,
			})
		}
	}
	return out
}

// colAt maps a display column on a line to a rune column in its block.
func (s lineSpan) colAt(x int) int {
	x -= s.Indent
	if x <= 0 {
		return s.Start
	}
	w := 0
	for i, r := range s.Runes {
		rw := runewidth.RuneWidth(r)
		if w+rw > x {
			return s.Start + i
		}
		w += rw
	}
	return s.End
}

// blockCells flattens the runs of a block into styled runes.
func blockCells(b document.Block) []cell {
	var cells []cell
	for _, run := range b.Runs {
		for _, r := range run.Text {
			cells = append(cells, cell{r: r, st: run.Style})
		}
	}
	return cells
}

// wrapCells splits cells into [start, end) ranges no wider than width,
// breaking after a space where one exists. It always returns at least one
// range.
func wrapCells(cells []cell, width int) [][2]int {
	if len(cells) == 0 {
		return [][2]int{{0, 0}}
	}
	var out [][2]int
	start := 0
	for start < len(cells) {
		w, end, lastSpace := 0, start, -1
		for end < len(cells) {
			rw := runewidth.RuneWidth(cells[end].r)
			if w+rw > width && end > start {
				break
			}
			if cells[end].r == ' ' {
				lastSpace = end
			}
			w += rw
			end++
		}
		if end < len(cells) && cells[end].r != ' ' && lastSpace > start {
			end = lastSpace + 1
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

// renderCells renders cells, grouping runs of equal style. caretAt is the
// caret position relative to cells when hasCaret is set; a caret past the
// last cell is drawn as a reversed space.
func renderCells(cells []cell, base lipgloss.Style, theme *styles.Theme, hasCaret bool, caretAt int) string {
	var sb strings.Builder
	i := 0
	for i < len(cells) {
		j := i + 1
		for j < len(cells) && cells[j].st == cells[i].st && !(hasCaret && (j == caretAt || i == caretAt)) {
			j++
		}
		st := inlineStyle(base, cells[i].st)
		if hasCaret && i == caretAt {
			st = st.Reverse(true)
			j = i + 1
		}
		var seg strings.Builder
		for _, c := range cells[i:j] {
			seg.WriteRune(c.r)
		}
		sb.WriteString(st.Render(seg.String()))
		i = j
	}
	if hasCaret && caretAt >= len(cells) {
		sb.WriteString(theme.Cursor.Render(" "))
	}
	return sb.String()
}

// =============================================================================
// STYLE MAPPING
// =============================================================================

const codePrefix = "  "

// blockPrefix returns the marker drawn before the first line of block i.
func blockPrefix(blocks []document.Block, i int, theme *styles.Theme) (string, lipgloss.Style) {
	b := blocks[i]
	switch b.Kind {
	case document.Bullet:
		return "• ", theme.ListMarker
	case document.Numbered:
		return strconv.Itoa(document.Number(blocks, i)) + ". ", theme.ListMarker
	case document.Checkbox:
		if b.Checked {
			return "[x] ", theme.CheckDone.Strikethrough(false)
		}
		return "[ ] ", theme.CheckOpen
	case document.Quote:
		return "│ ", lipgloss.NewStyle().Foreground(styles.QuoteBar)
	case document.Code:
		return codePrefix, theme.Code
	}
	return "", lipgloss.NewStyle()
}

// blockStyle is the base style of a block's text.
func blockStyle(b document.Block, theme *styles.Theme) lipgloss.Style {
	switch b.Kind {
	case document.Heading:
		return theme.HeadingStyle(b.Level)
	case document.Quote:
		return theme.Quote
	case document.Code:
		return theme.Code
	case document.Checkbox:
		if b.Checked {
			return theme.CheckDone
		}
	}
	return lipgloss.NewStyle()
}

// inlineStyle applies a run's formatting on top of the block style. Font
// families cannot be shown in a terminal; sizes map to weight.
func inlineStyle(base lipgloss.Style, st document.Style) lipgloss.Style {
	s := base
	if st.Bold {
		s = s.Bold(true)
	}
	if st.Italic {
		s = s.Italic(true)
	}
	if st.Underline {
		s = s.Underline(true)
	}
	if st.Color != "" {
		if hex, err := canvas.NormalizeColor(st.Color); err == nil {
			s = s.Foreground(lipgloss.Color(hex))
		}
	}
	switch st.Size {
	case "large", "huge":
		s = s.Bold(true)
	case "small":
		s = s.Faint(true)
	}
	return s
}

// highlightCode colors consecutive code blocks that do not hold the caret
// and fit on one line each.
func highlightCode(blocks []document.Block, caretBlock, width int, dark bool) map[int]string {
	out := make(map[int]string)
	for i := 0; i < len(blocks); {
		if blocks[i].Kind != document.Code {
			i++
			continue
		}
		j := i
		fits, holdsCaret := true, false
		var lines []string
		for ; j < len(blocks) && blocks[j].Kind == document.Code; j++ {
			text := blocks[j].Text()
			lines = append(lines, text)
			if runewidth.StringWidth(text) > width-1 {
				fits = false
			}
			if j == caretBlock {
				holdsCaret = true
			}
		}
		if fits && !holdsCaret {
			if hl := components.HighlightCode(lines, dark); hl != nil {
				for k, line := range hl {
					out[i+k] = line
				}
			}
		}
		i = j
	}
	return out
}
