// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command engine for the note editor.
//
// Typing "/" inside the editor opens a palette of formatting commands. This
// package owns everything between the keystroke and the formatting mutation:
// locating the partial command under the caret, resolving it against the
// registry, tracking the highlighted suggestion, and replacing the typed text
// with the chosen action.
//
// # Key Types
//
//   - Registry: immutable catalog of commands and sub-commands
//   - Token: the partial command text between the nearest "/" and the caret
//   - Suggestion: one resolved candidate, carrying its Action
//   - Navigator: Hidden/Visible state machine for the highlighted index
//   - Session: per-surface wiring of locator, resolver, navigator and executor
//   - Surface: what an editing surface must expose to the engine
//
// # Built-in Commands
//
//   - /bold, /italic, /underline: toggle inline style
//   - /color <red|blue|...>, /font <sans|serif|mono>, /size <small|...>
//   - /h1 ... /h5, /bullet, /numbered, /quote, /code, /checkbox
//   - /end: leave the current formatting
//
// # Usage
//
// Wire a session to a surface and forward editor events:
//
//	sess := commands.NewSession(commands.DefaultRegistry(), doc)
//	sess.ContentChanged()           // after every text mutation
//	if sess.HandleKey(commands.KeyDown) {
//	    // consumed, skip default handling
//	}
//
// Resolve a token directly:
//
//	tok, ok := commands.Locate(doc)
//	items := commands.Resolve(registry, tok)
package commands
