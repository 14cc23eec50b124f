// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the application-level keyboard bindings. Editing keys
// (arrows, Enter, Backspace, typed text) are handled directly by the editor.
type KeyMap struct {
	Quit      key.Binding
	Save      key.Binding
	NewTab    key.Binding
	CloseTab  key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Rename    key.Binding
	Draw      key.Binding
	History   key.Binding
	Export    key.Binding
	Preview   key.Binding
	Copy      key.Binding
	Help      key.Binding
	Checkbox  key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Undo      key.Binding
	ClearDraw key.Binding
	Pen       key.Binding
	Delete    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "save and quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save now"),
		),
		NewTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("C-w", "close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+right", "ctrl+n"),
			key.WithHelp("C-right", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+left", "ctrl+b"),
			key.WithHelp("C-left", "previous tab"),
		),
		Rename: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "rename tab"),
		),
		Draw: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "toggle drawing"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "note history"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "markdown preview"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy as markdown"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "ctrl+g"),
			key.WithHelp("F1", "help"),
		),
		Checkbox: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "toggle checkbox"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "u"),
			key.WithHelp("u/C-z", "undo stroke"),
		),
		ClearDraw: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear drawing"),
		),
		Pen: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "pen up/down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "delete note"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the status bar hint.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Draw, k.History, k.Export, k.Help}
}

// FullHelp returns the bindings of the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Notes
		{k.Save, k.History, k.Export, k.Preview, k.Copy},
		// Tabs
		{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab, k.Rename},
		// Editing
		{k.Checkbox, k.PageUp, k.PageDown, k.Draw},
		// Drawing
		{k.Pen, k.Undo, k.ClearDraw},
		{k.Help, k.Quit},
	}
}

// helpSections names the groups of FullHelp in order.
var helpSections = []string{"Notes", "Tabs", "Editing", "Drawing", "General"}

// extraHelp lists editor behaviour that has no single binding.
var extraHelp = [][2]string{
	{"/", "open the command palette"},
	{"up/down", "move through suggestions"},
	{"enter", "apply the highlighted command"},
	{"esc", "close the palette"},
	{"1-5", "brush size (drawing)"},
	{"k w r b g y p o", "brush color (drawing)"},
}
