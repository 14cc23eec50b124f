// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes notes to files in several formats.
//
// # Supported Formats
//
//   - HTML: standalone page with embedded CSS, highlighted code and the
//     drawing inlined as a PNG
//   - Markdown: YAML front matter followed by the note body
//   - JSON: the stored note, re-importable
//   - Text: plain text with list markers
//   - PNG: the drawing alone
//   - Zip: all of the above in one archive
//
// # Usage
//
//	exp, err := export.ForFormat("html", export.DefaultOptions())
//	path, err := export.ExportToFile(note, exp, opts)
//
// Files are named WebNote_<timestamp>.<ext>.
package export
