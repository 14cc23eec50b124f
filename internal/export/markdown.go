// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports notes to Markdown with YAML front matter.
type MarkdownExporter struct {
	options *Options

	// DrawingRef, when set, is linked as an image for notes with a drawing.
	DrawingRef string
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is the YAML header of a Markdown export.
type frontMatter struct {
	Title     string `yaml:"title"`
	ID        string `yaml:"id,omitempty"`
	Device    string `yaml:"device,omitempty"`
	Created   string `yaml:"created,omitempty"`
	Updated   string `yaml:"updated,omitempty"`
	Words     int    `yaml:"words"`
	Drawing   bool   `yaml:"drawing,omitempty"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a note to Markdown.
func (e *MarkdownExporter) Export(n *storage.Note) ([]byte, error) {
	d, err := decode(n)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if e.options.IncludeMetadata {
		words, _ := d.doc.Stats()
		fm := frontMatter{
			Title:     d.title(),
			ID:        n.ID,
			Device:    n.DeviceID,
			Words:     words,
			Drawing:   d.canvas != nil,
			Exported:  now().Format(time.RFC3339),
			Generator: "webnote",
		}
		if !n.CreatedAt.IsZero() {
			fm.Created = n.CreatedAt.Format(time.RFC3339)
		}
		if !n.UpdatedAt.IsZero() {
			fm.Updated = n.UpdatedAt.Format(time.RFC3339)
		}
		header, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("encode front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(header)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(RenderMarkdown(d.doc.Blocks()))

	if d.canvas != nil && e.DrawingRef != "" {
		sb.WriteString(fmt.Sprintf("\n![Drawing](%s)\n", e.DrawingRef))
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// BLOCK RENDERING
// =============================================================================

// RenderMarkdown renders document blocks as Markdown. Blocks of different
// kinds are separated by a blank line; list items and code lines are kept
// together.
func RenderMarkdown(blocks []document.Block) string {
	var sb strings.Builder

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		if i > 0 && !(b.Kind.IsList() && blocks[i-1].Kind == b.Kind) {
			sb.WriteString("\n")
		}

		switch b.Kind {
		case document.Heading:
			sb.WriteString(strings.Repeat("#", b.Level) + " " + markdownRuns(b.Runs) + "\n")
		case document.Bullet:
			sb.WriteString("- " + markdownRuns(b.Runs) + "\n")
		case document.Numbered:
			sb.WriteString(fmt.Sprintf("%d. %s\n", document.Number(blocks, i), markdownRuns(b.Runs)))
		case document.Checkbox:
			mark := " "
			if b.Checked {
				mark = "x"
			}
			sb.WriteString("- [" + mark + "] " + markdownRuns(b.Runs) + "\n")
		case document.Quote:
			sb.WriteString("> " + markdownRuns(b.Runs) + "\n")
		case document.Code:
			sb.WriteString("```\n")
			for ; i < len(blocks) && blocks[i].Kind == document.Code; i++ {
				sb.WriteString(blocks[i].Text() + "\n")
			}
			i--
			sb.WriteString("```\n")
		default:
			sb.WriteString(markdownRuns(b.Runs) + "\n")
		}
	}
	return sb.String()
}

func markdownRuns(runs []document.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		text := escapeMarkdown(r.Text)

		// Emphasis markers must hug the text, so surrounding spaces stay
		// outside them.
		lead := len(text) - len(strings.TrimLeft(text, " "))
		trail := len(text) - len(strings.TrimRight(text, " "))
		if lead == len(text) {
			sb.WriteString(text)
			continue
		}
		core := text[lead : len(text)-trail]

		if r.Style.Underline {
			core = "<u>" + core + "</u>"
		}
		if r.Style.Italic {
			core = "*" + core + "*"
		}
		if r.Style.Bold {
			core = "**" + core + "**"
		}
		sb.WriteString(text[:lead] + core + text[len(text)-trail:])
	}
	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would otherwise start formatting.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	if strings.HasPrefix(s, "#") {
		s = "\\" + s
	}
	return s
}
