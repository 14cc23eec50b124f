// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the webnote command line.
//
// The command tree is built with cobra. Running webnote without a command
// opens the full-screen editor; the other commands work on saved notes
// without it.
//
// # Commands
//
//   - (none): the note editor (ui/notes)
//   - repl: line-oriented editor with slash-command tab completion
//   - list, show, delete: saved notes
//   - export, import: notes to and from files
//   - config: settings (show, get, set, keys, path, init)
//   - version: build information
//
// All commands except the editors accept --json and then print a single
// JSONResponse.
//
// # Usage
//
//	func main() {
//	    os.Exit(cli.Execute())
//	}
package cli
