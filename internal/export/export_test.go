// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/webnote/internal/canvas"
	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/document"
	"github.com/jeranaias/webnote/internal/storage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func fixedNow(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

// sampleDoc builds a document touching every block kind.
func sampleDoc(t *testing.T) *document.Document {
	t.Helper()
	d := document.New()
	steps := []func() error{
		func() error { return d.Apply(commands.Action{Kind: commands.ActionHeading, Level: 1}) },
		func() error { return d.InsertText("Plan") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionEnd}) },
		func() error { return d.InsertText("Buy ") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionBold}) },
		func() error { return d.InsertText("milk") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionBullet}) },
		func() error { return d.InsertText("eggs") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionNumbered}) },
		func() error { return d.InsertText("first") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionQuote}) },
		func() error { return d.InsertText("a <quote>") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionCode}) },
		func() error { return d.InsertText("fmt.Println(1)") },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionCheckbox}) },
		func() error { return d.Apply(commands.Action{Kind: commands.ActionEnd}) },
	}
	for _, step := range steps {
		require.NoError(t, step())
	}
	return d
}

func sampleNote(t *testing.T, withDrawing bool) *storage.Note {
	t.Helper()
	doc := sampleDoc(t)
	content, err := json.Marshal(doc)
	require.NoError(t, err)

	n := &storage.Note{
		ID:        "note-1",
		DeviceID:  "device_test",
		Title:     "Plan",
		CreatedAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 2, 2, 11, 0, 0, 0, time.UTC),
		Content:   content,
		Text:      doc.PlainText(),
	}
	if withDrawing {
		cv := canvas.New(4, 3)
		cv.Begin(1, 1)
		cv.Extend(2, 1)
		cv.End()
		raw, err := json.Marshal(cv)
		require.NoError(t, err)
		n.Canvas = raw
	}
	return n
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestForFormat(t *testing.T) {
	for _, f := range Formats {
		exp, err := ForFormat(f, nil)
		require.NoError(t, err, f)
		assert.NotEmpty(t, exp.FileExtension())
		assert.NotEmpty(t, exp.MimeType())
	}
	_, err := ForFormat("docx", nil)
	assert.Error(t, err)
}

func TestHTMLExport(t *testing.T) {
	fixedNow(t)
	out, err := NewHTMLExporter(nil).Export(sampleNote(t, true))
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Plan</title>")
	assert.Contains(t, html, "<h1>Plan</h1>")
	assert.Contains(t, html, "<strong>milk</strong>")
	assert.Contains(t, html, "<ul>\n<li>eggs</li>\n</ul>")
	assert.Contains(t, html, "<ol>\n<li>first</li>\n</ol>")
	assert.Contains(t, html, "<blockquote>a &lt;quote&gt;</blockquote>")
	assert.Contains(t, html, "class=\"code-block\"")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "light-theme")
	assert.NotContains(t, html, "<quote>")
}

func TestHTMLExport_DarkThemeWithoutMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.Theme = "dark"
	opts.IncludeMetadata = false

	out, err := NewHTMLExporter(opts).Export(sampleNote(t, false))
	require.NoError(t, err)
	assert.Contains(t, string(out), "dark-theme")
	assert.NotContains(t, string(out), "class=\"header\"")
	assert.NotContains(t, string(out), "data:image/png")
}

func TestRenderBlocks_Checklist(t *testing.T) {
	blocks := []document.Block{
		{Kind: document.Bullet, Runs: []document.Run{{Text: "a"}}},
		{Kind: document.Checkbox, Checked: true, Runs: []document.Run{{Text: "done"}}},
		{Kind: document.Checkbox, Runs: []document.Run{{Text: "todo"}}},
	}
	out := RenderBlocks(blocks)

	assert.Contains(t, out, "<ul>\n<li>a</li>\n</ul>\n<ul class=\"checklist\">")
	assert.Contains(t, out, "<input type=\"checkbox\" disabled checked> done")
	assert.Contains(t, out, "<input type=\"checkbox\" disabled> todo")
	assert.Equal(t, 2, strings.Count(out, "</ul>"))
}

func TestRenderRuns_Styles(t *testing.T) {
	out := renderRuns([]document.Run{
		{Text: "red", Style: document.Style{Color: "red", Size: "large"}},
		{Text: "mono", Style: document.Style{Font: "mono", Underline: true}},
	})
	assert.Contains(t, out, "color: red")
	assert.Contains(t, out, "font-size: 1.3em")
	assert.Contains(t, out, "<u>mono</u>")
	assert.Contains(t, out, "font-family: var(--font-mono)")
}

func TestMarkdownExport(t *testing.T) {
	fixedNow(t)
	out, err := NewMarkdownExporter(nil).Export(sampleNote(t, false))
	require.NoError(t, err)
	md := string(out)

	require.True(t, strings.HasPrefix(md, "---\n"))
	parts := strings.SplitN(md, "---\n", 3)
	require.Len(t, parts, 3)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Plan", fm.Title)
	assert.Equal(t, "note-1", fm.ID)
	assert.Equal(t, "2025-03-01T14:05:09Z", fm.Exported)

	body := parts[2]
	assert.Contains(t, body, "# Plan\n")
	assert.Contains(t, body, "Buy **milk**\n")
	assert.Contains(t, body, "- eggs\n")
	assert.Contains(t, body, "1. first\n")
	assert.Contains(t, body, "> a <quote>\n")
	assert.Contains(t, body, "```\nfmt.Println(1)\n```\n")
}

func TestRenderMarkdown_Lists(t *testing.T) {
	blocks := []document.Block{
		{Kind: document.Numbered, Runs: []document.Run{{Text: "one"}}},
		{Kind: document.Numbered, Runs: []document.Run{{Text: "two"}}},
		{Kind: document.Checkbox, Checked: true, Runs: []document.Run{{Text: "done"}}},
		{Kind: document.Checkbox, Runs: []document.Run{{Text: "todo"}}},
	}
	assert.Equal(t, "1. one\n2. two\n\n- [x] done\n- [ ] todo\n", RenderMarkdown(blocks))
}

func TestMarkdownRuns_EmphasisHugsText(t *testing.T) {
	out := markdownRuns([]document.Run{
		{Text: "say "},
		{Text: " hi ", Style: document.Style{Bold: true, Italic: true}},
		{Text: "a_b"},
	})
	assert.Equal(t, "say  ***hi*** a\\_b", out)
}

func TestJSONExport_RoundTrips(t *testing.T) {
	n := sampleNote(t, true)
	out, err := NewJSONExporter(nil).Export(n)
	require.NoError(t, err)

	var back storage.Note
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, n.ID, back.ID)
	assert.JSONEq(t, string(n.Content), string(back.Content))
	assert.JSONEq(t, string(n.Canvas), string(back.Canvas))
}

func TestJSONExport_RejectsCorruptContent(t *testing.T) {
	n := &storage.Note{ID: "x", Content: json.RawMessage(`{"blocks":[{"kind":"table"}]}`)}
	_, err := NewJSONExporter(nil).Export(n)
	assert.Error(t, err)
}

func TestTextExport(t *testing.T) {
	out, err := NewTextExporter(nil).Export(sampleNote(t, false))
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "Plan\nBuy milk\n• eggs\n1. first\n> a <quote>\n    fmt.Println(1)\n")
}

func TestTextExport_FallsBackToPlainText(t *testing.T) {
	out, err := NewTextExporter(nil).Export(&storage.Note{Text: "line one\nline two"})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(out))
}

func TestPNGExport(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = 2
	out, err := NewPNGExporter(opts).Export(sampleNote(t, true))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	_, err = NewPNGExporter(opts).Export(sampleNote(t, false))
	assert.True(t, errors.Is(err, ErrNothingToExport))
}

func TestPDFExport(t *testing.T) {
	fixedNow(t)
	exp, err := ForFormat("pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, ".pdf", exp.FileExtension())
	assert.Equal(t, "application/pdf", exp.MimeType())

	plain, err := exp.Export(sampleNote(t, false))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(plain, []byte("%PDF-")))
	assert.NotContains(t, string(plain), "/Subtype /Image")

	drawn, err := exp.Export(sampleNote(t, true))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(drawn, []byte("%PDF-")))
	assert.Contains(t, string(drawn), "/Subtype /Image")
}

func TestPDFExport_EmptyNote(t *testing.T) {
	out, err := NewPDFExporter(nil).Export(&storage.Note{ID: "empty"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFColor(t *testing.T) {
	r, g, b := pdfColor("red")
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)

	r, g, b = pdfColor("not a color")
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{r, g, b})
}

func TestBundleExport(t *testing.T) {
	out, err := NewBundleExporter(nil).Export(sampleNote(t, true))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"note.html", "note.md", "note.json", "note.txt", "note.pdf", "drawing.png"}, names)

	for _, f := range zr.File {
		if f.Name != "note.md" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "![Drawing](drawing.png)")
	}
}

func TestBundleExport_NoDrawing(t *testing.T) {
	out, err := NewBundleExporter(nil).Export(sampleNote(t, false))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 5)
}

// =============================================================================
// FILE OUTPUT TESTS
// =============================================================================

func TestExportToFile(t *testing.T) {
	fixedNow(t)
	opts := DefaultOptions()
	opts.OutputDir = filepath.Join(t.TempDir(), "out")

	path, err := ExportToFile(sampleNote(t, false), NewTextExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, "WebNote_2025-03-01T14-05-09.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "• eggs")
}

func TestExportToFile_PropagatesExportError(t *testing.T) {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	_, err := ExportToFile(sampleNote(t, false), NewPNGExporter(opts), opts)
	assert.True(t, errors.Is(err, ErrNothingToExport))
}

func TestDecode_NilNote(t *testing.T) {
	_, err := NewHTMLExporter(nil).Export(nil)
	assert.Error(t, err)
}
