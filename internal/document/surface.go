// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/webnote/internal/commands"
)

// ErrNoRun is returned when a run ID does not exist.
var ErrNoRun = errors.New("run not found")

var _ commands.Surface = (*Document)(nil)

// Caret returns the caret as (run ID, rune offset). A document always has a
// caret.
func (d *Document) Caret() (int, int, bool) {
	d.caretPos()
	return d.caret, d.offset, true
}

// Text returns the text of run id.
func (d *Document) Text(id int) (string, bool) {
	bi, ri, ok := d.find(id)
	if !ok {
		return "", false
	}
	return d.blocks[bi].Runs[ri].Text, true
}

// SetText replaces the text of run id. A caret in that run is clamped to the
// new length.
func (d *Document) SetText(id int, text string) error {
	bi, ri, ok := d.find(id)
	if !ok {
		return fmt.Errorf("set text on run %d: %w", id, ErrNoRun)
	}
	d.blocks[bi].Runs[ri].Text = text
	if d.caret == id {
		if n := len([]rune(text)); d.offset > n {
			d.offset = n
		}
	}
	d.touch()
	return nil
}

// SetCaret collapses the caret at offset within run id.
func (d *Document) SetCaret(id, offset int) error {
	bi, ri, ok := d.find(id)
	if !ok {
		return fmt.Errorf("set caret on run %d: %w", id, ErrNoRun)
	}
	if n := d.blocks[bi].Runs[ri].Len(); offset < 0 || offset > n {
		return fmt.Errorf("caret offset %d out of range [0,%d]", offset, n)
	}
	d.caret, d.offset = id, offset
	return nil
}

// InsertText inserts text at the caret and moves the caret after it.
// Newlines split the block as Newline does.
func (d *Document) InsertText(text string) error {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			d.Newline()
		}
		if line != "" {
			d.insertRunes([]rune(line))
		}
	}
	return nil
}

func (d *Document) insertRunes(ins []rune) {
	bi, ri := d.caretPos()
	run := &d.blocks[bi].Runs[ri]
	rs := []rune(run.Text)

	out := make([]rune, 0, len(rs)+len(ins))
	out = append(out, rs[:d.offset]...)
	out = append(out, ins...)
	out = append(out, rs[d.offset:]...)

	run.Text = string(out)
	d.offset += len(ins)
	d.touch()
}
