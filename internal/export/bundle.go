// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/jeranaias/webnote/internal/storage"
)

// BundleExporter writes a zip archive holding the note in every format.
// The drawing is included as drawing.png when the note has one.
type BundleExporter struct {
	options *Options
}

// NewBundleExporter creates a new zip bundle exporter.
func NewBundleExporter(opts *Options) *BundleExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &BundleExporter{options: opts}
}

// drawingFile is the bundle entry name of the drawing.
const drawingFile = "drawing.png"

// Export converts a note to a zip archive.
func (e *BundleExporter) Export(n *storage.Note) ([]byte, error) {
	d, err := decode(n)
	if err != nil {
		return nil, err
	}

	md := NewMarkdownExporter(e.options)
	if d.canvas != nil {
		md.DrawingRef = drawingFile
	}
	entries := []struct {
		name string
		exp  Exporter
	}{
		{"note.html", NewHTMLExporter(e.options)},
		{"note.md", md},
		{"note.json", NewJSONExporter(e.options)},
		{"note.txt", NewTextExporter(e.options)},
		{"note.pdf", NewPDFExporter(e.options)},
	}
	if d.canvas != nil {
		entries = append(entries, struct {
			name string
			exp  Exporter
		}{drawingFile, NewPNGExporter(e.options)})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		data, err := entry.exp.Export(n)
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", entry.name, err)
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry.name,
			Method:   zip.Deflate,
			Modified: now(),
		})
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", entry.name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("bundle %s: %w", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for zip bundles.
func (e *BundleExporter) FileExtension() string {
	return ".zip"
}

// MimeType returns the MIME type for zip bundles.
func (e *BundleExporter) MimeType() string {
	return "application/zip"
}
