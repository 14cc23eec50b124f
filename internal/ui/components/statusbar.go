// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/webnote/internal/ui/styles"
	"github.com/jeranaias/webnote/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: input mode, save state, counts, a transient
// message and shortcut hints.
type StatusBar struct {
	Mode          string // "text" or "draw"
	Words, Chars  int
	ShowCounts    bool
	Dirty         bool
	Saved         bool // save indicator visible
	LastSave      time.Time
	AutoSave      bool
	Brush         string // "#rrggbb/size" in draw mode
	Message       string
	MessageIsErr  bool
	Width         int
	ShowShortcuts bool

	theme *styles.Theme
	now   func() time.Time
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Mode:          "text",
		ShowCounts:    true,
		AutoSave:      true,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
		now:           time.Now,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetMessage shows a transient message; an empty string clears it.
func (s *StatusBar) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageIsErr = isErr
}

// View renders the bar, choosing a layout by width.
func (s *StatusBar) View() string {
	sep := s.theme.Muted.Render(" | ")

	left := []string{s.renderMode(), s.renderSave()}
	if s.Mode == "draw" && s.Brush != "" {
		left = append(left, s.Brush)
	}
	if s.ShowCounts && s.Width >= 60 {
		left = append(left, fmtNumber(s.Words)+" words "+fmtNumber(s.Chars)+" chars")
	}
	if s.Message != "" {
		style := s.theme.InfoStyle
		if s.MessageIsErr {
			style = s.theme.ErrorStyle
		}
		left = append(left, style.Render(s.Message))
	}
	bar := strings.Join(left, sep)

	if s.ShowShortcuts && s.Width >= 100 {
		right := s.renderShortcuts()
		gap := s.Width - ansi.StringWidth(bar) - ansi.StringWidth(right)
		if gap > 0 {
			bar += strings.Repeat(" ", gap) + right
		}
	}

	return s.theme.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(ansi.Truncate(bar, s.Width, ""))
}

func (s *StatusBar) renderMode() string {
	if s.Mode == "draw" {
		return s.theme.ModeDraw.Render("DRAW")
	}
	return s.theme.ModeText.Render("TEXT")
}

func (s *StatusBar) renderSave() string {
	switch {
	case s.Saved:
		return s.theme.Saved.Render(styles.StatusIndicators.Success + " Saved")
	case s.Dirty && s.AutoSave:
		return s.theme.Unsaved.Render("Unsaved")
	case s.Dirty:
		return s.theme.Unsaved.Render("Unsaved (auto-save off)")
	case !s.LastSave.IsZero():
		return s.theme.Muted.Render("Saved " + fmtAgo(s.now().Sub(s.LastSave)) + " ago")
	default:
		return s.theme.Muted.Render("New note")
	}
}

func (s *StatusBar) renderShortcuts() string {
	keyStyle := s.theme.ShortcutKey
	descStyle := s.theme.ShortcutDesc
	shortcuts := []string{
		keyStyle.Render("/") + descStyle.Render("cmds"),
		keyStyle.Render("^D") + descStyle.Render("draw"),
		keyStyle.Render("^O") + descStyle.Render("history"),
		keyStyle.Render("^E") + descStyle.Render("export"),
		keyStyle.Render("F1") + descStyle.Render("help"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(shortcuts, " "))
}

// fmtAgo renders a coarse age: 5s, 3m, 2h, 4d.
func fmtAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return util.IntToStr(int(d/time.Second)) + "s"
	case d < time.Hour:
		return util.IntToStr(int(d/time.Minute)) + "m"
	case d < 24*time.Hour:
		return util.IntToStr(int(d/time.Hour)) + "h"
	default:
		return util.IntToStr(int(d/(24*time.Hour))) + "d"
	}
}
