// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/storage"
	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for note exporters.
type Exporter interface {
	// Export converts a note to the target format and returns the content.
	Export(n *storage.Note) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// ErrNothingToExport is returned when a format has no content to write,
// such as PNG export of a note without a drawing.
var ErrNothingToExport = errors.New("nothing to export")

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata adds a metadata header (dates, word count).
	IncludeMetadata bool

	// Theme for HTML export ("light" or "dark").
	// Default: "light"
	Theme string

	// Scale is the pixel size of one canvas cell in PNG output.
	// Default: 8
	Scale int
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "light",
		Scale:           8,
	}
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"html", "markdown", "json", "text", "png", "pdf", "zip"}

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "text", "txt":
		return NewTextExporter(opts), nil
	case "png":
		return NewPNGExporter(opts), nil
	case "pdf":
		return NewPDFExporter(opts), nil
	case "zip", "bundle":
		return NewBundleExporter(opts), nil
	}
	return nil, fmt.Errorf("unsupported export format: %s", format)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// now is replaced in tests.
var now = time.Now

// FileName returns the export file name for an extension, e.g.
// "WebNote_2025-03-01T14-05-09.html".
func FileName(ext string) string {
	return "WebNote_" + util.FileTimestamp(now()) + ext
}

// ExportToFile exports a note to a file using the specified exporter.
// Returns the output file path or an error.
func ExportToFile(n *storage.Note, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(n)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, FileName(exporter.FileExtension()))
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		// The file exists even if no viewer could be started.
		_ = openFile(outputPath)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// decoded is a note with its document and drawing parsed.
type decoded struct {
	note   *storage.Note
	doc    *document.Document
	canvas *canvas.Canvas // nil without a drawing
}

func decode(n *storage.Note) (*decoded, error) {
	if n == nil {
		return nil, fmt.Errorf("note is nil")
	}
	d := &decoded{note: n, doc: document.New()}

	if len(n.Content) > 0 {
		doc, err := document.FromJSON(n.Content)
		if err != nil {
			return nil, err
		}
		d.doc = doc
	} else if n.Text != "" {
		d.doc = document.FromText(n.Text)
	}

	if len(n.Canvas) > 0 {
		cv, err := canvas.FromJSON(n.Canvas)
		if err != nil {
			return nil, err
		}
		if !cv.IsEmpty() {
			d.canvas = cv
		}
	}
	return d, nil
}

func (d *decoded) title() string {
	if t := strings.TrimSpace(d.note.Title); t != "" {
		return t
	}
	if t := d.doc.Title(60); t != "" {
		return t
	}
	return "Untitled note"
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
