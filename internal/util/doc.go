// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across webnote.
//
//   - AtomicWriteFile: crash-safe file writes (temp file, fsync, rename)
//   - TruncateRunes, TruncateWidth, PadRight: terminal-safe string sizing
//   - FileTimestamp: timestamps for export file names
package util
