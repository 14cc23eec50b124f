// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "errors"

// =============================================================================
// EDITING SURFACE
// =============================================================================

// TextSurface is the minimal view of an editor the engine needs. Text is
// addressed as (node, offset) where node identifies one contiguous text run
// and offset counts runes from the start of that run.
type TextSurface interface {
	// Caret returns the collapsed caret position. ok is false when there is
	// no active selection or the caret is not inside a text run.
	Caret() (node, offset int, ok bool)

	// Text returns the content of a text run.
	Text(node int) (string, bool)

	// SetText replaces the content of a text run.
	SetText(node int, text string) error

	// SetCaret collapses the caret at offset within node.
	SetCaret(node, offset int) error

	// InsertText inserts text at the caret and leaves the caret after it.
	InsertText(text string) error
}

// Formatter applies a formatting action at the caret.
type Formatter interface {
	Apply(action Action) error
}

// Surface is an editing surface that can be driven by a Session.
type Surface interface {
	TextSurface
	Formatter
}

// =============================================================================
// ERRORS
// =============================================================================

// These conditions are absorbed by Session; they surface only from the
// lower-level functions and in debug logs.
var (
	// ErrNoActiveSelection means no caret was available when a hook fired.
	ErrNoActiveSelection = errors.New("no active selection")

	// ErrTokenBoundaryLost means the "/" a suggestion was resolved from is no
	// longer where it was when the command is executed.
	ErrTokenBoundaryLost = errors.New("command token boundary lost")

	// ErrUnknownCommand means a sub-command lookup named a missing parent.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEmptyCandidates means a token resolved to nothing.
	ErrEmptyCandidates = errors.New("no matching commands")
)
