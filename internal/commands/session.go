// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

// Key is a navigation key forwarded from the editor.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyEnter
	KeyEscape
)

// =============================================================================
// SESSION
// =============================================================================

// Session wires the command engine to one editing surface. It holds the
// navigator and the token the visible suggestions were resolved from.
//
// A Session is not safe for concurrent use; drive it from the UI event loop.
type Session struct {
	registry *Registry
	surface  Surface
	nav      *Navigator
	logger   *log.Logger

	token    Token
	hasToken bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for absorbed errors.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session for surface using the commands in reg.
func NewSession(reg *Registry, surface Surface, opts ...SessionOption) *Session {
	s := &Session{
		registry: reg,
		surface:  surface,
		nav:      NewNavigator(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContentChanged re-derives the token under the caret and refreshes the
// suggestions. Call it after every text mutation.
func (s *Session) ContentChanged() {
	tok, ok := Locate(s.surface)
	if !ok {
		s.reset()
		return
	}

	items := Resolve(s.registry, tok)
	if len(items) == 0 {
		s.logger.Debug("command token has no matches", "raw", tok.Raw, "err", ErrEmptyCandidates)
		s.reset()
		return
	}

	s.token = tok
	s.hasToken = true
	s.nav.Show(items)
}

// HandleKey processes a navigation key. It returns true when the key was
// consumed and the editor should skip its default handling.
func (s *Session) HandleKey(k Key) bool {
	if !s.nav.Visible() {
		return false
	}

	switch k {
	case KeyUp:
		s.nav.Prev()
	case KeyDown:
		s.nav.Next()
	case KeyEnter:
		sel, ok := s.nav.Selected()
		if !ok {
			return false
		}
		s.choose(sel)
	case KeyEscape:
		s.reset()
	default:
		return false
	}
	return true
}

// Hover highlights suggestion i under the pointer.
func (s *Session) Hover(i int) {
	s.nav.Hover(i)
}

// Click chooses suggestion i. It returns false when i is not a visible item.
func (s *Session) Click(i int) bool {
	if !s.nav.Hover(i) {
		return false
	}
	sel, _ := s.nav.Selected()
	s.choose(sel)
	return true
}

// PointerOutside hides the suggestions after a click outside both the
// palette and the editor.
func (s *Session) PointerOutside() {
	s.reset()
}

// Blur hides the suggestions when the editor loses focus.
func (s *Session) Blur() {
	s.reset()
}

// Execute runs sug against the recorded token. Suggestions for a command
// with sub-commands rewrite the token and open the sub-command list instead.
func (s *Session) Execute(sug Suggestion) error {
	if !s.hasToken {
		s.reset()
		return ErrNoActiveSelection
	}
	tok := s.token

	if sug.Descends() {
		if err := Descend(s.surface, tok, sug.Command); err != nil {
			s.reset()
			return err
		}
		s.ContentChanged()
		return nil
	}

	err := Execute(s.surface, tok, sug)
	s.reset()
	return err
}

func (s *Session) choose(sel Suggestion) {
	if err := s.Execute(sel); err != nil {
		if errors.Is(err, ErrTokenBoundaryLost) {
			s.logger.Debug("command aborted", "command", sel.DisplayName, "err", err)
			return
		}
		s.logger.Warn("command failed", "command", sel.DisplayName, "err", err)
		return
	}
	s.logger.Debug("command executed", "command", sel.DisplayName, "action", sel.Action.String())
}

func (s *Session) reset() {
	s.nav.Hide()
	s.token = Token{}
	s.hasToken = false
}

// Visible reports whether the suggestion palette is showing.
func (s *Session) Visible() bool { return s.nav.Visible() }

// Items returns the visible suggestions.
func (s *Session) Items() []Suggestion { return s.nav.Items() }

// Index returns the highlighted suggestion index, or -1.
func (s *Session) Index() int { return s.nav.Index() }

// Token returns the token the visible suggestions were resolved from.
func (s *Session) Token() (Token, bool) { return s.token, s.hasToken }

// Registry returns the session's command registry.
func (s *Session) Registry() *Registry { return s.registry }
