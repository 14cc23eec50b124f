// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"unicode"
)

// =============================================================================
// COMMAND TOKEN
// =============================================================================

// Token is the partial command typed between the nearest "/" and the caret.
type Token struct {
	// Node is the text run holding the token
	Node int

	// Slash is the rune offset of the "/" within Node
	Slash int

	// Cursor is the rune offset of the caret within Node
	Cursor int

	// Raw is the text strictly between the "/" and the caret
	Raw string

	// Parts is Raw split on whitespace runs
	Parts []string
}

// Command returns the first part of the token.
func (t Token) Command() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0]
}

// Sub returns the second part of the token, if present.
func (t Token) Sub() (string, bool) {
	if len(t.Parts) < 2 {
		return "", false
	}
	return t.Parts[1], true
}

// =============================================================================
// CARET LOCATOR
// =============================================================================

// Locate extracts the command token ending at the caret of s. It returns false
// when there is no caret or no "/" before the caret in the current text run.
func Locate(s TextSurface) (Token, bool) {
	node, offset, ok := s.Caret()
	if !ok {
		return Token{}, false
	}
	text, ok := s.Text(node)
	if !ok {
		return Token{}, false
	}
	return LocateIn(text, node, offset)
}

// LocateIn finds the token ending at cursor within text. Offsets are in runes.
func LocateIn(text string, node, cursor int) (Token, bool) {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		return Token{}, false
	}

	slash := -1
	for i := cursor - 1; i >= 0; i-- {
		if runes[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		return Token{}, false
	}

	raw := string(runes[slash+1 : cursor])
	return Token{
		Node:   node,
		Slash:  slash,
		Cursor: cursor,
		Raw:    raw,
		Parts:  splitParts(raw),
	}, true
}

// splitParts splits raw on runs of whitespace. Leading whitespace yields an
// empty first part and trailing whitespace an empty last part, so "color "
// becomes ["color", ""].
func splitParts(raw string) []string {
	parts := make([]string, 0, 2)
	start := 0
	inSpace := false
	rs := []rune(raw)

	for i, r := range rs {
		space := unicode.IsSpace(r)
		switch {
		case space && !inSpace:
			parts = append(parts, string(rs[start:i]))
			inSpace = true
		case !space && inSpace:
			start = i
			inSpace = false
		}
	}

	if inSpace {
		parts = append(parts, "")
	} else {
		parts = append(parts, string(rs[start:]))
	}
	return parts
}
