// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
)

// =============================================================================
// COMMAND EXECUTOR
// =============================================================================

// Execute replaces the token with the suggestion's action.
//
// The "/" and the typed text up to the caret are removed, the caret is
// collapsed where the "/" was, the action is applied and a single space is
// inserted after it. The token is checked against the surface first; if it
// no longer matches, nothing is changed and ErrTokenBoundaryLost is returned.
// If the action or the space insertion fails, the text run and caret are
// restored.
func Execute(s Surface, tok Token, sug Suggestion) error {
	if sug.Action.IsZero() {
		return fmt.Errorf("suggestion %q: no action", sug.DisplayName)
	}

	original, runes, err := checkBoundary(s, tok)
	if err != nil {
		return err
	}

	trimmed := string(runes[:tok.Slash]) + string(runes[tok.Cursor:])
	if err := s.SetText(tok.Node, trimmed); err != nil {
		return fmt.Errorf("remove command text: %w", err)
	}
	if err := s.SetCaret(tok.Node, tok.Slash); err != nil {
		return rollback(s, tok, original, fmt.Errorf("place caret: %w", err))
	}

	if err := s.Apply(sug.Action); err != nil {
		return rollback(s, tok, original, fmt.Errorf("apply %s: %w", sug.Action, err))
	}
	if err := s.InsertText(" "); err != nil {
		return rollback(s, tok, original, fmt.Errorf("insert space: %w", err))
	}

	return nil
}

// Descend rewrites the token to "/name " so the sub-commands of cmd are
// offered next. The caret ends after the space.
func Descend(s TextSurface, tok Token, cmd *Command) error {
	if cmd == nil || !cmd.HasSubcommands() {
		return fmt.Errorf("descend: %w", ErrUnknownCommand)
	}

	original, runes, err := checkBoundary(s, tok)
	if err != nil {
		return err
	}

	insert := []rune("/" + cmd.Name + " ")
	text := string(runes[:tok.Slash]) + string(insert) + string(runes[tok.Cursor:])
	if err := s.SetText(tok.Node, text); err != nil {
		return fmt.Errorf("rewrite command text: %w", err)
	}
	if err := s.SetCaret(tok.Node, tok.Slash+len(insert)); err != nil {
		return rollback(s, tok, original, fmt.Errorf("place caret: %w", err))
	}
	return nil
}

// checkBoundary confirms the recorded token still sits in the surface.
func checkBoundary(s TextSurface, tok Token) (string, []rune, error) {
	text, ok := s.Text(tok.Node)
	if !ok {
		return "", nil, ErrTokenBoundaryLost
	}

	runes := []rune(text)
	if tok.Slash < 0 || tok.Cursor < tok.Slash+1 || tok.Cursor > len(runes) {
		return "", nil, ErrTokenBoundaryLost
	}
	if runes[tok.Slash] != '/' || string(runes[tok.Slash+1:tok.Cursor]) != tok.Raw {
		return "", nil, ErrTokenBoundaryLost
	}
	return text, runes, nil
}

func rollback(s TextSurface, tok Token, original string, cause error) error {
	restoreErr := s.SetText(tok.Node, original)
	if restoreErr == nil {
		restoreErr = s.SetCaret(tok.Node, tok.Cursor)
	}
	if restoreErr != nil {
		return errors.Join(cause, fmt.Errorf("rollback: %w", restoreErr))
	}
	return cause
}
