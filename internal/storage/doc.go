// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides note persistence for webnote.
//
// Notes are kept per device: every installation gets a persistent device ID
// and its notes live under a directory (or database rows) keyed by it.
//
// # Key Types
//
//   - Store: storage interface implemented by both backends
//   - FileStore: one JSON file per note, written atomically
//   - SQLiteStore: a single pure-Go SQLite database
//   - Note / NoteMeta: a stored note and its listing metadata
//   - Watcher: reports changes made to the store directory by other processes
//
// # Usage
//
//	id, err := storage.DeviceID(dataDir)
//	store, err := storage.Open(storage.Options{Dir: dataDir, DeviceID: id})
//	noteID, err := store.Save(ctx, note)
//	latest, err := store.Latest(ctx)
//
// # Storage Location
//
// Notes are stored in ~/.webnote/notes/<device-id>/ by default.
package storage
