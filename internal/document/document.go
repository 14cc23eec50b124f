// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document provides the in-memory rich-text model behind the editor.
//
// A Document is an ordered list of blocks (paragraphs, headings, list items,
// quotes, code lines, checkboxes). Each block holds styled runs of text. Runs
// carry stable IDs, and the caret is addressed as (run ID, rune offset), which
// is exactly the (node, offset) pair the slash command engine works with.
package document

import (
	"strconv"
	"strings"
)

// =============================================================================
// BLOCKS AND RUNS
// =============================================================================

// BlockKind is the structural type of a block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	Bullet
	Numbered
	Quote
	Code
	Checkbox
)

var blockKindNames = []string{"paragraph", "heading", "bullet", "numbered", "quote", "code", "checkbox"}

// String returns the lowercase name of the kind.
func (k BlockKind) String() string {
	if int(k) >= 0 && int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "BlockKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseBlockKind is the inverse of BlockKind.String.
func ParseBlockKind(s string) (BlockKind, bool) {
	for i, name := range blockKindNames {
		if name == s {
			return BlockKind(i), true
		}
	}
	return Paragraph, false
}

// IsList reports whether Enter on an empty block of this kind ends the list.
func (k BlockKind) IsList() bool {
	return k == Bullet || k == Numbered || k == Checkbox
}

// Style is the inline formatting of a run.
type Style struct {
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`
	Font      string `json:"font,omitempty"`
	Size      string `json:"size,omitempty"`
}

// IsPlain reports whether the style has no formatting.
func (s Style) IsPlain() bool {
	return s == Style{}
}

// Run is a span of text with a single style.
type Run struct {
	ID    int
	Text  string
	Style Style
}

// Len returns the length of the run in runes.
func (r Run) Len() int {
	return len([]rune(r.Text))
}

// Block is one line-level element of the document.
type Block struct {
	Kind    BlockKind
	Level   int  // heading level 1-5
	Checked bool // checkbox state
	Runs    []Run
}

// Text returns the concatenated text of the block's runs.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the length of the block in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += r.Len()
	}
	return n
}

// IsEmpty reports whether the block has no text.
func (b Block) IsEmpty() bool {
	for _, r := range b.Runs {
		if r.Text != "" {
			return false
		}
	}
	return true
}

func (b Block) clone() Block {
	b.Runs = append([]Run(nil), b.Runs...)
	return b
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is an editable rich-text document with a caret. It is not safe
// for concurrent use.
type Document struct {
	blocks []Block
	nextID int

	caret  int // run ID
	offset int // rune offset within the caret run

	checkboxMode bool
	rev          uint64
}

// New returns a document holding one empty paragraph.
func New() *Document {
	d := &Document{nextID: 1}
	d.reset()
	return d
}

func (d *Document) reset() {
	run := d.newRun("", Style{})
	d.blocks = []Block{{Kind: Paragraph, Runs: []Run{run}}}
	d.caret = run.ID
	d.offset = 0
	d.checkboxMode = false
}

func (d *Document) newRun(text string, st Style) Run {
	r := Run{ID: d.nextID, Text: text, Style: st}
	d.nextID++
	return r
}

func (d *Document) touch() {
	d.rev++
}

// Rev returns a counter that increases on every mutation.
func (d *Document) Rev() uint64 {
	return d.rev
}

// Blocks returns a copy of the document's blocks.
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.clone()
	}
	return out
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// CheckboxMode reports whether the caret is in a checkbox list started with
// the checkbox command.
func (d *Document) CheckboxMode() bool {
	return d.checkboxMode
}

// PlainText returns the document text with one line per block and no
// formatting markers.
func (d *Document) PlainText() string {
	lines := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		lines[i] = b.Text()
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether the document contains no text.
func (d *Document) IsEmpty() bool {
	for _, b := range d.blocks {
		if !b.IsEmpty() {
			return false
		}
	}
	return true
}

// Title derives a title from the first non-empty block, truncated to max
// runes.
func (d *Document) Title(max int) string {
	for _, b := range d.blocks {
		text := strings.TrimSpace(b.Text())
		if text == "" {
			continue
		}
		runes := []rune(text)
		if max > 3 && len(runes) > max {
			return string(runes[:max-3]) + "..."
		}
		return text
	}
	return ""
}

// Stats returns word and character counts.
func (d *Document) Stats() (words, chars int) {
	for _, b := range d.blocks {
		text := b.Text()
		words += len(strings.Fields(text))
		chars += len([]rune(text))
	}
	return words, chars
}

// Number returns the list number of block i, counting consecutive numbered
// blocks before it. It returns 0 for other kinds.
func Number(blocks []Block, i int) int {
	if i < 0 || i >= len(blocks) || blocks[i].Kind != Numbered {
		return 0
	}
	n := 1
	for j := i - 1; j >= 0 && blocks[j].Kind == Numbered; j-- {
		n++
	}
	return n
}

// find locates the run with the given ID.
func (d *Document) find(id int) (bi, ri int, ok bool) {
	for bi := range d.blocks {
		for ri := range d.blocks[bi].Runs {
			if d.blocks[bi].Runs[ri].ID == id {
				return bi, ri, true
			}
		}
	}
	return 0, 0, false
}

// caretPos returns the block and run holding the caret, repairing a caret
// that points at a run that no longer exists.
func (d *Document) caretPos() (bi, ri int) {
	if bi, ri, ok := d.find(d.caret); ok {
		if n := d.blocks[bi].Runs[ri].Len(); d.offset > n {
			d.offset = n
		}
		return bi, ri
	}
	d.caret = d.blocks[0].Runs[0].ID
	d.offset = 0
	return 0, 0
}

// CaretBlock returns the block index and column of the caret.
func (d *Document) CaretBlock() (block, col int) {
	bi, ri := d.caretPos()
	col = d.offset
	for j := 0; j < ri; j++ {
		col += d.blocks[bi].Runs[j].Len()
	}
	return bi, col
}

// CaretStyle returns the style text typed at the caret will get.
func (d *Document) CaretStyle() Style {
	bi, ri := d.caretPos()
	return d.blocks[bi].Runs[ri].Style
}
