// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/storage"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports notes to a standalone HTML page with embedded CSS.
// Drawings are inlined as PNG data URIs.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a note to HTML.
func (e *HTMLExporter) Export(n *storage.Note) ([]byte, error) {
	d, err := decode(n)
	if err != nil {
		return nil, err
	}
	title := d.title()

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("    <meta name=\"generator\" content=\"webnote\">\n")
	if !n.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", n.CreatedAt.Format(time.RFC3339)))
	}
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.theme()))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(d, title))
	}

	sb.WriteString("        <main class=\"note\">\n")
	sb.WriteString(RenderBlocks(d.doc.Blocks()))
	if d.canvas != nil {
		img, err := encodePNG(d.canvas, e.options.Scale)
		if err != nil {
			return nil, err
		}
		sb.WriteString("<figure class=\"drawing\"><img alt=\"Drawing\" src=\"data:image/png;base64,")
		sb.WriteString(base64.StdEncoding.EncodeToString(img))
		sb.WriteString("\"></figure>\n")
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>webnote</strong> on %s</p>\n",
		now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() string {
	if e.options.Theme == "dark" {
		return "dark"
	}
	return "light"
}

func (e *HTMLExporter) renderHeader(d *decoded, title string) string {
	words, _ := d.doc.Stats()

	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	if !d.note.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(d.note.CreatedAt)))
	}
	if !d.note.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Updated:</strong> %s</span>\n", formatTimestamp(d.note.UpdatedAt)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Words:</strong> %d</span>\n", words))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
	return sb.String()
}

// =============================================================================
// BLOCK RENDERING
// =============================================================================

// RenderBlocks renders document blocks as an HTML fragment. Consecutive list
// items share one list element and consecutive code blocks one <pre>.
func RenderBlocks(blocks []document.Block) string {
	var sb strings.Builder
	list, listClass := "", ""

	closeList := func() {
		if list != "" {
			sb.WriteString("</" + list + ">\n")
			list, listClass = "", ""
		}
	}
	openList := func(tag, class string) {
		if list == tag && listClass == class {
			return
		}
		closeList()
		if class != "" {
			sb.WriteString("<" + tag + " class=\"" + class + "\">\n")
		} else {
			sb.WriteString("<" + tag + ">\n")
		}
		list, listClass = tag, class
	}

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		switch b.Kind {
		case document.Heading:
			closeList()
			sb.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", b.Level, renderRuns(b.Runs), b.Level))

		case document.Bullet:
			openList("ul", "")
			sb.WriteString("<li>" + renderRuns(b.Runs) + "</li>\n")

		case document.Numbered:
			openList("ol", "")
			sb.WriteString("<li>" + renderRuns(b.Runs) + "</li>\n")

		case document.Checkbox:
			openList("ul", "checklist")
			checked := ""
			if b.Checked {
				checked = " checked"
			}
			sb.WriteString(fmt.Sprintf("<li><input type=\"checkbox\" disabled%s> %s</li>\n", checked, renderRuns(b.Runs)))

		case document.Quote:
			closeList()
			sb.WriteString("<blockquote>" + renderRuns(b.Runs) + "</blockquote>\n")

		case document.Code:
			closeList()
			var lines []string
			for ; i < len(blocks) && blocks[i].Kind == document.Code; i++ {
				lines = append(lines, blocks[i].Text())
			}
			i--
			sb.WriteString(highlightHTML(strings.Join(lines, "\n")))

		default:
			closeList()
			if b.IsEmpty() {
				sb.WriteString("<p><br></p>\n")
			} else {
				sb.WriteString("<p>" + renderRuns(b.Runs) + "</p>\n")
			}
		}
	}
	closeList()
	return sb.String()
}

var fontFamilies = map[string]string{
	"sans":  "var(--font-sans)",
	"serif": "Georgia, \"Times New Roman\", serif",
	"mono":  "var(--font-mono)",
}

var fontSizes = map[string]string{
	"small":  "0.85em",
	"normal": "1em",
	"large":  "1.3em",
	"huge":   "1.8em",
}

func renderRuns(runs []document.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		text := html.EscapeString(r.Text)
		st := r.Style
		if st.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if st.Italic {
			text = "<em>" + text + "</em>"
		}
		if st.Underline {
			text = "<u>" + text + "</u>"
		}

		var css []string
		if st.Color != "" {
			css = append(css, "color: "+html.EscapeString(st.Color))
		}
		if f, ok := fontFamilies[st.Font]; ok {
			css = append(css, "font-family: "+f)
		}
		if s, ok := fontSizes[st.Size]; ok && st.Size != "normal" {
			css = append(css, "font-size: "+s)
		}
		if len(css) > 0 {
			text = "<span style=\"" + html.EscapeString(strings.Join(css, "; ")) + "\">" + text + "</span>"
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// highlightHTML renders code as a highlighted <pre> block, falling back to
// escaped plain text.
func highlightHTML(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("github")
	if style == nil {
		style = chromaStyles.Fallback
	}

	plain := "<pre class=\"code-block\"><code>" + html.EscapeString(code) + "</code></pre>\n"

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plain
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(false))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return plain
	}
	return "<div class=\"code-block\">" + buf.String() + "</div>\n"
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-secondary: #586069;
            --border-color: #e1e4e8;
            --code-bg: #f6f8fa;
            --accent: #0366d6;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --border-color: #414868;
            --code-bg: #f6f8fa;
            --accent: #7aa2f7;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 800px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            overflow: hidden;
        }

        .header { padding: 28px 32px; border-bottom: 2px solid var(--border-color); }
        .header h1 { font-size: 26px; margin-bottom: 12px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--text-secondary); }

        .note { padding: 24px 32px; }
        .note p, .note h1, .note h2, .note h3, .note h4, .note h5, .note ul, .note ol, .note blockquote { margin-bottom: 10px; }
        .note ul, .note ol { padding-left: 24px; }
        .note ul.checklist { list-style: none; padding-left: 4px; }
        .note blockquote { border-left: 4px solid var(--accent); padding: 4px 12px; color: var(--text-secondary); }
        .code-block { margin-bottom: 10px; }
        .code-block pre { padding: 12px; border-radius: 6px; overflow-x: auto; font-family: var(--font-mono); font-size: 14px; background: var(--code-bg); }

        .drawing img { max-width: 100%; border: 1px solid var(--border-color); border-radius: 6px; image-rendering: pixelated; }

        .footer { padding: 16px 32px; font-size: 13px; color: var(--text-secondary); border-top: 1px solid var(--border-color); }

        @media print {
            body { padding: 0; background: #ffffff; }
            .container { border-radius: 0; }
        }
    </style>
`
