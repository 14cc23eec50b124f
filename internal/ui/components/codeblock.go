// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

const ansiReset = "\x1b[0m"

// =============================================================================
// CODE BLOCK HIGHLIGHTING (Chroma-based)
// =============================================================================

// HighlightCode colors a run of code lines for the terminal. The language is
// guessed from the content. It returns exactly one line per input line, or
// nil when highlighting fails.
func HighlightCode(lines []string, dark bool) []string {
	code := strings.Join(lines, "\n")
	if strings.TrimSpace(code) == "" {
		return nil
	}

	lexer := lexers.Analyse(code)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if dark {
		styleName = "monokai"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return nil
	}

	// Lexers append a final newline; a token may also span lines, so each
	// line gets its own reset.
	out := strings.Split(buf.String(), "\n")
	if len(out) == len(lines)+1 && ansi.Strip(out[len(out)-1]) == "" {
		out = out[:len(lines)]
	}
	if len(out) != len(lines) {
		return nil
	}
	for i := range out {
		out[i] += ansiReset
	}
	return out
}

// DetectLanguage returns the name of the language chroma guesses for code,
// or "".
func DetectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
