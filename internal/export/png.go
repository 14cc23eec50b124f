// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/storage"
)

// PNGExporter exports the note's drawing as a PNG image.
type PNGExporter struct {
	options *Options
}

// NewPNGExporter creates a new PNG exporter.
func NewPNGExporter(opts *Options) *PNGExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PNGExporter{options: opts}
}

// Export renders the drawing. Notes without one return ErrNothingToExport.
func (e *PNGExporter) Export(n *storage.Note) ([]byte, error) {
	d, err := decode(n)
	if err != nil {
		return nil, err
	}
	if d.canvas == nil {
		return nil, fmt.Errorf("note has no drawing: %w", ErrNothingToExport)
	}
	return encodePNG(d.canvas, e.options.Scale)
}

// FileExtension returns the file extension for PNG.
func (e *PNGExporter) FileExtension() string {
	return ".png"
}

// MimeType returns the MIME type for PNG.
func (e *PNGExporter) MimeType() string {
	return "image/png"
}

func encodePNG(c *canvas.Canvas, scale int) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultOptions().Scale
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image(scale)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
