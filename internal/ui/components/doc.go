// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI pieces for the webnote TUI.

Components are plain render helpers: they take the state to draw and return
a string, registering clickable areas in a HitMap where the user can click.
State lives in the notes model and the commands.Session.

# Components

  - CommandPopup (popup.go) - Slash-command suggestions with a scrolling window
  - TabBar (tabbar.go) - Open tabs with dirty markers and a "+" button
  - StatusBar (statusbar.go) - Mode badge, save state, counts, messages
  - HighlightCode (codeblock.go) - Chroma terminal highlighting for code blocks

# Mouse Support

HitMap (hitmap.go) records rectangles during View; Update tests mouse
coordinates against the last frame. Later regions win, so popups registered
after the editor take priority.

# Overlays

PlaceOverlay and OverlayModal (overlay.go) composite a popup or modal over
rendered content using ANSI-aware cutting from charmbracelet/x/ansi.
*/
package components
