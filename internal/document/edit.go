// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

// =============================================================================
// EDITING
// =============================================================================

// Newline splits the block at the caret. List, quote and code blocks continue
// their kind, headings are followed by a paragraph, and Enter on an empty
// list item ends the list.
func (d *Document) Newline() {
	bi, ri := d.caretPos()
	b := &d.blocks[bi]

	if b.Kind.IsList() && b.IsEmpty() {
		if b.Kind == Checkbox {
			d.checkboxMode = false
		}
		b.Kind, b.Checked = Paragraph, false
		d.touch()
		return
	}

	st := b.Runs[ri].Style
	kind, level := b.Kind, b.Level
	if kind == Heading {
		kind, level = Paragraph, 0
	}

	bi, tail := d.cutAfterCaret()
	if len(tail) == 0 {
		tail = []Run{d.newRun("", st)}
	}
	d.insertBlockAt(bi+1, Block{Kind: kind, Level: level, Runs: tail})
	d.caret, d.offset = tail[0].ID, 0
	d.normalize(bi)
	d.touch()
}

// Backspace deletes the rune before the caret. At the start of a block it
// converts the block to a paragraph, removes an empty checkbox item, or
// merges a paragraph into the previous block.
func (d *Document) Backspace() {
	bi, col := d.CaretBlock()
	b := &d.blocks[bi]

	if col > 0 {
		d.deleteAt(bi, col-1)
		d.setColumn(bi, col-1)
		d.normalize(bi)
		d.touch()
		return
	}

	switch {
	case b.Kind == Checkbox && b.IsEmpty() && bi > 0:
		d.removeBlock(bi)
		d.setColumn(bi-1, d.blocks[bi-1].Len())
	case b.Kind != Paragraph:
		if b.Kind == Checkbox {
			d.checkboxMode = false
		}
		b.Kind, b.Level, b.Checked = Paragraph, 0, false
	case bi > 0:
		d.mergeInto(bi - 1)
	default:
		return
	}
	d.touch()
}

// Delete deletes the rune after the caret, merging the next block into this
// one at the end of a block.
func (d *Document) Delete() {
	bi, col := d.CaretBlock()
	if col < d.blocks[bi].Len() {
		d.deleteAt(bi, col)
		d.setColumn(bi, col)
		d.normalize(bi)
		d.touch()
		return
	}
	if bi+1 < len(d.blocks) {
		d.mergeInto(bi)
		d.touch()
	}
}

// deleteAt removes the rune at column col of block bi.
func (d *Document) deleteAt(bi, col int) {
	b := &d.blocks[bi]
	for ri := range b.Runs {
		n := b.Runs[ri].Len()
		if col < n {
			rs := []rune(b.Runs[ri].Text)
			b.Runs[ri].Text = string(append(rs[:col:col], rs[col+1:]...))
			return
		}
		col -= n
	}
}

// mergeInto appends block bi+1 to block bi and leaves the caret at the join.
func (d *Document) mergeInto(bi int) {
	col := d.blocks[bi].Len()
	d.blocks[bi].Runs = append(d.blocks[bi].Runs, d.blocks[bi+1].Runs...)
	d.removeBlock(bi + 1)
	d.setColumn(bi, col)
	d.normalize(bi)
}

func (d *Document) removeBlock(i int) {
	d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
	if len(d.blocks) == 0 {
		d.reset()
	}
}

// normalize drops empty runs other than the caret run, keeping at least one.
func (d *Document) normalize(bi int) {
	b := &d.blocks[bi]
	first := b.Runs[0]
	runs := b.Runs[:0]
	for _, r := range b.Runs {
		if r.Text != "" || r.ID == d.caret {
			runs = append(runs, r)
		}
	}
	if len(runs) == 0 {
		runs = append(runs, first)
	}
	b.Runs = runs
}

// =============================================================================
// CARET MOVEMENT
// =============================================================================

// setColumn places the caret at column col of block bi, in the first run
// that reaches that column.
func (d *Document) setColumn(bi, col int) {
	b := d.blocks[bi]
	if col < 0 {
		col = 0
	}
	for _, r := range b.Runs {
		n := r.Len()
		if col <= n {
			d.caret, d.offset = r.ID, col
			return
		}
		col -= n
	}
	last := b.Runs[len(b.Runs)-1]
	d.caret, d.offset = last.ID, last.Len()
}

// SetCaretAt places the caret at column col of block bi, clamping both.
func (d *Document) SetCaretAt(bi, col int) {
	if bi < 0 {
		bi = 0
	}
	if bi >= len(d.blocks) {
		bi = len(d.blocks) - 1
	}
	if n := d.blocks[bi].Len(); col > n {
		col = n
	}
	d.setColumn(bi, col)
}

// Left moves the caret one rune back, onto the previous block if needed.
func (d *Document) Left() {
	bi, col := d.CaretBlock()
	switch {
	case col > 0:
		d.setColumn(bi, col-1)
	case bi > 0:
		d.setColumn(bi-1, d.blocks[bi-1].Len())
	}
}

// Right moves the caret one rune forward, onto the next block if needed.
func (d *Document) Right() {
	bi, col := d.CaretBlock()
	switch {
	case col < d.blocks[bi].Len():
		d.setColumn(bi, col+1)
	case bi+1 < len(d.blocks):
		d.setColumn(bi+1, 0)
	}
}

// Up moves the caret to the same column of the previous block.
func (d *Document) Up() {
	bi, col := d.CaretBlock()
	if bi > 0 {
		d.SetCaretAt(bi-1, col)
	}
}

// Down moves the caret to the same column of the next block.
func (d *Document) Down() {
	bi, col := d.CaretBlock()
	if bi+1 < len(d.blocks) {
		d.SetCaretAt(bi+1, col)
	}
}

// Home moves the caret to the start of its block.
func (d *Document) Home() {
	bi, _ := d.CaretBlock()
	d.setColumn(bi, 0)
}

// End moves the caret to the end of its block.
func (d *Document) End() {
	bi, _ := d.CaretBlock()
	d.setColumn(bi, d.blocks[bi].Len())
}

// =============================================================================
// BLOCK OPERATIONS
// =============================================================================

// ToggleCheckbox flips the checked state of checkbox block bi.
func (d *Document) ToggleCheckbox(bi int) bool {
	if bi < 0 || bi >= len(d.blocks) || d.blocks[bi].Kind != Checkbox {
		return false
	}
	d.blocks[bi].Checked = !d.blocks[bi].Checked
	d.touch()
	return true
}

// ToggleCheckboxAtCaret flips the checkbox holding the caret.
func (d *Document) ToggleCheckboxAtCaret() bool {
	bi, _ := d.CaretBlock()
	return d.ToggleCheckbox(bi)
}

// Clear empties the document.
func (d *Document) Clear() {
	d.reset()
	d.touch()
}
