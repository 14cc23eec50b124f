// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// SERIALIZATION
// =============================================================================

type jsonDocument struct {
	Blocks       []jsonBlock `json:"blocks"`
	CheckboxMode bool        `json:"checkbox_mode,omitempty"`
}

type jsonBlock struct {
	Kind    string    `json:"kind"`
	Level   int       `json:"level,omitempty"`
	Checked bool      `json:"checked,omitempty"`
	Runs    []jsonRun `json:"runs"`
}

type jsonRun struct {
	Text  string `json:"text"`
	Style *Style `json:"style,omitempty"`
}

// MarshalJSON encodes the blocks and runs. Run IDs and the caret are not
// persisted.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := jsonDocument{
		Blocks:       make([]jsonBlock, len(d.blocks)),
		CheckboxMode: d.checkboxMode,
	}
	for i, b := range d.blocks {
		jb := jsonBlock{
			Kind:    b.Kind.String(),
			Level:   b.Level,
			Checked: b.Checked,
			Runs:    make([]jsonRun, 0, len(b.Runs)),
		}
		for _, r := range b.Runs {
			if r.Text == "" && len(b.Runs) > 1 {
				continue
			}
			jr := jsonRun{Text: r.Text}
			if !r.Style.IsPlain() {
				st := r.Style
				jr.Style = &st
			}
			jb.Runs = append(jb.Runs, jr)
		}
		out.Blocks[i] = jb
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the document content and puts the caret at the end
// of the last block.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in jsonDocument
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	if d.nextID == 0 {
		d.nextID = 1
	}

	blocks := make([]Block, 0, len(in.Blocks))
	for i, jb := range in.Blocks {
		kind, ok := ParseBlockKind(jb.Kind)
		if !ok {
			return fmt.Errorf("block %d: unknown kind %q", i, jb.Kind)
		}
		if kind == Heading && (jb.Level < 1 || jb.Level > 5) {
			return fmt.Errorf("block %d: heading level %d out of range", i, jb.Level)
		}
		b := Block{Kind: kind, Level: jb.Level, Checked: jb.Checked}
		for _, jr := range jb.Runs {
			var st Style
			if jr.Style != nil {
				st = *jr.Style
			}
			b.Runs = append(b.Runs, d.newRun(jr.Text, st))
		}
		if len(b.Runs) == 0 {
			b.Runs = []Run{d.newRun("", Style{})}
		}
		blocks = append(blocks, b)
	}

	if len(blocks) == 0 {
		d.reset()
	} else {
		d.blocks = blocks
		d.checkboxMode = in.CheckboxMode
		d.setColumn(len(blocks)-1, blocks[len(blocks)-1].Len())
	}
	d.touch()
	return nil
}

// FromJSON decodes a document.
func FromJSON(data []byte) (*Document, error) {
	d := New()
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// FromText builds a document of plain paragraphs, one per line.
func FromText(text string) *Document {
	d := New()
	_ = d.InsertText(text)
	return d
}
