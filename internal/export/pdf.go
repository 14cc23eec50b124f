// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/storage"
)

// PDFExporter exports the note as a PDF document. The drawing, if any,
// follows the text scaled to the page width.
type PDFExporter struct {
	options *Options
}

// NewPDFExporter creates a new PDF exporter.
func NewPDFExporter(opts *Options) *PDFExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PDFExporter{options: opts}
}

// Millimetres per point, and line spacing as a multiple of the font size.
const (
	ptToMM      = 0.3528
	lineSpacing = 1.4
	pdfBodySize = 12.0
	pdfIndent   = 8.0
	drawingName = "drawing"
)

var pdfHeadingSizes = map[int]float64{1: 24, 2: 20, 3: 16, 4: 14, 5: 13}

var pdfRelativeSizes = map[string]float64{"small": 0.85, "large": 1.25, "huge": 1.6}

var pdfFonts = map[string]string{"sans": "Helvetica", "serif": "Times", "mono": "Courier"}

// Export converts a note to PDF.
func (e *PDFExporter) Export(n *storage.Note) ([]byte, error) {
	d, err := decode(n)
	if err != nil {
		return nil, err
	}
	title := d.title()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("webnote", true)
	pdf.SetCreationDate(now())
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	left, _, _, _ := pdf.GetMargins()

	if e.options.IncludeMetadata {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetTextColor(0, 0, 0)
		pdf.Write(18*ptToMM*lineSpacing, tr(title))
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(110, 110, 110)
		words, _ := d.doc.Stats()
		pdf.Write(9*ptToMM*lineSpacing, tr(fmt.Sprintf("Created %s  Updated %s  %d words",
			formatTimestamp(d.note.CreatedAt), formatTimestamp(d.note.UpdatedAt), words)))
		pdf.Ln(-1)
		pdf.Ln(4)
	}

	blocks := d.doc.Blocks()
	for i, b := range blocks {
		writePDFBlock(pdf, tr, left, blocks, i, b)
	}

	if d.canvas != nil {
		if err := e.writeDrawing(pdf, d.canvas, left); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for PDF.
func (e *PDFExporter) FileExtension() string {
	return ".pdf"
}

// MimeType returns the MIME type for PDF.
func (e *PDFExporter) MimeType() string {
	return "application/pdf"
}

func writePDFBlock(pdf *gofpdf.Fpdf, tr func(string) string, left float64, blocks []document.Block, i int, b document.Block) {
	base := pdfBodySize
	family := "Helvetica"
	prefix := ""
	indent := 0.0
	switch b.Kind {
	case document.Heading:
		if s, ok := pdfHeadingSizes[b.Level]; ok {
			base = s
		}
	case document.Bullet:
		prefix, indent = "• ", pdfIndent
	case document.Numbered:
		prefix, indent = fmt.Sprintf("%d. ", document.Number(blocks, i)), pdfIndent
	case document.Checkbox:
		prefix, indent = "[ ] ", pdfIndent
		if b.Checked {
			prefix = "[x] "
		}
	case document.Quote:
		indent = pdfIndent
	case document.Code:
		family, indent = "Courier", pdfIndent
	}

	pdf.SetLeftMargin(left + indent)
	pdf.SetX(left + indent)
	lh := base * ptToMM * lineSpacing

	if prefix != "" {
		pdf.SetFont(family, "", base)
		pdf.SetTextColor(0, 0, 0)
		pdf.Write(lh, tr(prefix))
	}
	for _, r := range b.Runs {
		if r.Text == "" {
			continue
		}
		st := r.Style
		style := ""
		if st.Bold || b.Kind == document.Heading {
			style += "B"
		}
		if st.Italic || b.Kind == document.Quote {
			style += "I"
		}
		if st.Underline {
			style += "U"
		}
		fam := family
		if f, ok := pdfFonts[st.Font]; ok && b.Kind != document.Code {
			fam = f
		}
		size := base
		if m, ok := pdfRelativeSizes[st.Size]; ok {
			size = base * m
		}
		pdf.SetFont(fam, style, size)
		red, green, blue := pdfColor(st.Color)
		if b.Kind == document.Quote && st.Color == "" {
			red, green, blue = 90, 90, 90
		}
		pdf.SetTextColor(red, green, blue)
		pdf.Write(lh, tr(r.Text))
	}
	pdf.Ln(lh)
	pdf.SetLeftMargin(left)
}

// pdfColor converts a run color to RGB, black when unset or invalid.
func pdfColor(c string) (int, int, int) {
	if c == "" {
		return 0, 0, 0
	}
	hex, err := canvas.NormalizeColor(c)
	if err != nil {
		return 0, 0, 0
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0
	}
	r, g, b := col.RGB255()
	return int(r), int(g), int(b)
}

func (e *PDFExporter) writeDrawing(pdf *gofpdf.Fpdf, c *canvas.Canvas, left float64) error {
	raw, err := encodePNG(c, e.options.Scale)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader(drawingName, opts, bytes.NewReader(raw))
	if info == nil || pdf.Err() {
		return fmt.Errorf("embed drawing: %w", pdf.Error())
	}

	pageW, pageH := pdf.GetPageSize()
	_, _, right, bottom := pdf.GetMargins()
	w := pageW - left - right
	h := w * info.Height() / info.Width()
	if maxH := pageH - 30; h > maxH {
		w, h = w*maxH/h, maxH
	}
	pdf.Ln(4)
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}
	pdf.ImageOptions(drawingName, left, pdf.GetY(), w, h, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + h)
	return pdf.Error()
}
