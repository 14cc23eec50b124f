// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package notes provides the note editor application for the webnote TUI.

The package implements the Bubble Tea model that ties together the document
model, the slash-command engine, the drawing canvas, tabs, auto-save,
storage and export.

# Key Components

## Model (model.go)

The Model holds the workspace of tabs and the per-tab state kept beside it:
  - A commands.Session per tab, driving the "/" palette over the document
  - Scroll offsets and user-set titles
  - In-flight and queued saves
  - The auto-save session.Manager

## Editor (editor.go, layout.go)

Key and mouse handling for text mode. layout.go wraps the document to the
terminal width and keeps a map from screen lines back to blocks and rune
columns, used for up/down movement and mouse clicks.

While the palette is visible Up, Down, Enter and Escape go to the session
first; keys it does not consume fall through to normal editing.

## Drawing (canvasview.go)

Drawing mode shows the tab's canvas with a color and brush palette. Strokes
are drawn with the mouse or with the keyboard pen (arrows move, space puts
the pen down or lifts it).

## Persistence (persist.go)

Tabs are saved through a storage.Store from tea.Cmd goroutines. Saves are
triggered by the auto-save debounce, the periodic safety tick, Ctrl+S and
quitting. When a storage.Watcher is supplied, notes changed by another
instance are reloaded into clean tabs.

## Overlays (history.go, overlays.go)

Modal views for note history and search, export, renaming, a glamour
Markdown preview and the key help.

# Usage

	store, _ := storage.Open(storage.Options{Dir: dir})
	m := notes.New(notes.Options{Config: cfg, Store: store, Logger: logger})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
*/
package notes
