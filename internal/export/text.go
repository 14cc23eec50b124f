// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/storage"
)

// TextExporter exports the note text with simple list and quote markers.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export converts a note to plain text.
func (e *TextExporter) Export(n *storage.Note) ([]byte, error) {
	d, err := decode(n)
	if err != nil {
		return nil, err
	}
	return []byte(RenderText(d.doc.Blocks())), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}

// RenderText renders blocks one per line.
func RenderText(blocks []document.Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		text := b.Text()
		switch b.Kind {
		case document.Bullet:
			text = "• " + text
		case document.Numbered:
			text = fmt.Sprintf("%d. %s", document.Number(blocks, i), text)
		case document.Checkbox:
			if b.Checked {
				text = "[x] " + text
			} else {
				text = "[ ] " + text
			}
		case document.Quote:
			text = "> " + text
		case document.Code:
			text = "    " + text
		}
		sb.WriteString(text + "\n")
	}
	return sb.String()
}
