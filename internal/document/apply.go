// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"fmt"

	"github.com/jeranaias/webnote/internal/commands"
)

// =============================================================================
// FORMATTING ACTIONS
// =============================================================================

// Apply performs a formatting action at the caret.
//
// Inline actions start a new run at the caret whose style is the caret style
// with the action applied, so only text typed afterwards is affected. Block
// actions split the current block at the caret and move the text after it
// into a new block of the requested kind; an empty paragraph is converted in
// place. End starts a plain paragraph and leaves checkbox mode.
func (d *Document) Apply(a commands.Action) error {
	switch a.Kind {
	case commands.ActionBold, commands.ActionItalic, commands.ActionUnderline,
		commands.ActionColor, commands.ActionFont, commands.ActionSize:
		st := applyStyle(d.CaretStyle(), a)
		d.startRun(st)

	case commands.ActionHeading:
		if a.Level < 1 || a.Level > 5 {
			return fmt.Errorf("heading level %d out of range", a.Level)
		}
		d.insertBlock(Heading, a.Level)
	case commands.ActionBullet:
		d.insertBlock(Bullet, 0)
	case commands.ActionNumbered:
		d.insertBlock(Numbered, 0)
	case commands.ActionQuote:
		d.insertBlock(Quote, 0)
	case commands.ActionCode:
		d.insertBlock(Code, 0)
	case commands.ActionCheckbox:
		d.insertBlock(Checkbox, 0)
		d.checkboxMode = true

	case commands.ActionEnd:
		d.checkboxMode = false
		d.insertBlock(Paragraph, 0)

	default:
		return fmt.Errorf("unsupported action %s", a)
	}

	d.touch()
	return nil
}

func applyStyle(st Style, a commands.Action) Style {
	switch a.Kind {
	case commands.ActionBold:
		st.Bold = !st.Bold
	case commands.ActionItalic:
		st.Italic = !st.Italic
	case commands.ActionUnderline:
		st.Underline = !st.Underline
	case commands.ActionColor:
		st.Color = a.Color
	case commands.ActionFont:
		st.Font = a.Font
	case commands.ActionSize:
		st.Size = a.Size
	}
	return st
}

// startRun places the caret in an empty run with style st. An empty caret
// run is restyled in place; otherwise the caret run is split.
func (d *Document) startRun(st Style) {
	bi, ri := d.caretPos()
	b := &d.blocks[bi]
	cur := b.Runs[ri]

	if cur.Text == "" {
		b.Runs[ri].Style = st
		return
	}

	rs := []rune(cur.Text)
	left, right := string(rs[:d.offset]), string(rs[d.offset:])

	fresh := d.newRun("", st)
	runs := make([]Run, 0, len(b.Runs)+2)
	runs = append(runs, b.Runs[:ri]...)
	if left != "" {
		cur.Text = left
		runs = append(runs, cur)
	}
	runs = append(runs, fresh)
	if right != "" {
		runs = append(runs, d.newRun(right, cur.Style))
	}
	runs = append(runs, b.Runs[ri+1:]...)

	b.Runs = runs
	d.caret, d.offset = fresh.ID, 0
}

// insertBlock creates a block of kind at the caret.
func (d *Document) insertBlock(kind BlockKind, level int) {
	bi, _ := d.caretPos()
	if b := &d.blocks[bi]; b.IsEmpty() && b.Kind == Paragraph {
		b.Kind, b.Level, b.Checked = kind, level, false
		if kind == Paragraph {
			b.Runs = []Run{d.newRun("", Style{})}
			d.caret, d.offset = b.Runs[0].ID, 0
		}
		return
	}

	bi, tail := d.cutAfterCaret()
	if len(tail) == 0 {
		tail = []Run{d.newRun("", Style{})}
	}
	d.insertBlockAt(bi+1, Block{Kind: kind, Level: level, Runs: tail})
	d.caret, d.offset = tail[0].ID, 0
}

// cutAfterCaret truncates the caret block at the caret and returns the runs
// that followed it.
func (d *Document) cutAfterCaret() (int, []Run) {
	bi, ri := d.caretPos()
	b := &d.blocks[bi]
	cur := b.Runs[ri]
	rs := []rune(cur.Text)

	var tail []Run
	if right := string(rs[d.offset:]); right != "" {
		tail = append(tail, d.newRun(right, cur.Style))
	}
	tail = append(tail, b.Runs[ri+1:]...)

	b.Runs[ri].Text = string(rs[:d.offset])
	b.Runs = b.Runs[:ri+1]
	return bi, tail
}

func (d *Document) insertBlockAt(i int, b Block) {
	d.blocks = append(d.blocks, Block{})
	copy(d.blocks[i+1:], d.blocks[i:])
	d.blocks[i] = b
}
