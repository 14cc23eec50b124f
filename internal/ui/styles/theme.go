// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// TAB BAR STYLES
	// ==========================================================================

	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabDirty    lipgloss.Style
	TabNew      lipgloss.Style

	// ==========================================================================
	// EDITOR STYLES
	// ==========================================================================

	Editor      lipgloss.Style
	Heading     [5]lipgloss.Style
	Quote       lipgloss.Style
	Code        lipgloss.Style
	ListMarker  lipgloss.Style
	CheckOpen   lipgloss.Style
	CheckDone   lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style

	// ==========================================================================
	// CANVAS STYLES
	// ==========================================================================

	CanvasFrame lipgloss.Style

	// ==========================================================================
	// COMMAND POPUP STYLES
	// ==========================================================================

	Popup         lipgloss.Style
	PopupItem     lipgloss.Style
	PopupSelected lipgloss.Style
	PopupName     lipgloss.Style
	PopupDesc     lipgloss.Style
	PopupMore     lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ModeText     lipgloss.Style
	ModeDraw     lipgloss.Style
	Saved        lipgloss.Style
	Unsaved      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// HISTORY / MODAL STYLES
	// ==========================================================================

	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListMeta     lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light"). Auto asks
// the terminal for its background.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Tab bar
	t.TabBar = lipgloss.NewStyle().Background(SurfaceDim)
	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)
	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.TabDirty = lipgloss.NewStyle().Foreground(Amber)
	t.TabNew = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	// Editor
	t.Editor = lipgloss.NewStyle().Padding(0, 1)
	headingColors := []lipgloss.AdaptiveColor{Purple, Cyan, Cyan, TextPrimary, TextSecondary}
	for i := range t.Heading {
		t.Heading[i] = lipgloss.NewStyle().Bold(true).Foreground(headingColors[i])
	}
	t.Heading[0] = t.Heading[0].Underline(true)
	t.Quote = lipgloss.NewStyle().Italic(true).Foreground(TextSecondary)
	t.Code = lipgloss.NewStyle().Foreground(CodeFg).Background(CodeBg)
	t.ListMarker = lipgloss.NewStyle().Foreground(Cyan)
	t.CheckOpen = lipgloss.NewStyle().Foreground(Cyan)
	t.CheckDone = lipgloss.NewStyle().Foreground(CheckDone).Strikethrough(true)
	t.Cursor = lipgloss.NewStyle().Reverse(true)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Canvas
	t.CanvasFrame = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim)

	// Command popup
	t.Popup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Background(SurfaceBright).
		Padding(0, 1)
	t.PopupItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.PopupSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Background(SelectionBg)
	t.PopupName = lipgloss.NewStyle().Foreground(Cyan)
	t.PopupDesc = lipgloss.NewStyle().Foreground(TextSecondary)
	t.PopupMore = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim)
	t.ModeText = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1)
	t.ModeDraw = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)
	t.Saved = lipgloss.NewStyle().Foreground(Emerald)
	t.Unsaved = lipgloss.NewStyle().Foreground(Amber)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	// Modal
	t.Modal = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.ListItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ListSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Background(SelectionBg)
	t.ListMeta = lipgloss.NewStyle().Foreground(TextMuted)

	// Messages
	t.SuccessStyle = lipgloss.NewStyle().Foreground(SuccessHighContrast).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(ErrorHighContrast).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(WarningHighContrast).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(InfoHighContrast).Bold(true)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// HeadingStyle returns the style of a heading level (1-5).
func (t *Theme) HeadingStyle(level int) lipgloss.Style {
	level = max(1, min(level, len(t.Heading)))
	return t.Heading[level-1]
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
