// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"github.com/jeranaias/webnote/internal/storage"
)

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// noteSavedMsg reports the result of saving a tab.
type noteSavedMsg struct {
	TabID  string
	NoteID string
	Key    []byte // content key of the saved snapshot
	Rev    uint64 // tab revision the snapshot was taken at
	Err    error
}

// latestLoadedMsg carries the most recent note at startup.
type latestLoadedMsg struct {
	Note *storage.Note
	Err  error
}

// noteOpenedMsg carries a note chosen from the history.
type noteOpenedMsg struct {
	Note *storage.Note
	Err  error
}

// noteReloadedMsg carries a note that changed on disk while open in TabID.
type noteReloadedMsg struct {
	TabID string
	Note  *storage.Note
	Err   error
}

// storeChangedMsg is sent when the watcher sees a change made elsewhere.
type storeChangedMsg struct {
	Change storage.Change
}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// historyLoadedMsg carries the history list (or search results for Query).
type historyLoadedMsg struct {
	Query string
	Notes []storage.NoteMeta
	Err   error
}

// historyPreviewMsg carries the full note behind the selected history row.
type historyPreviewMsg struct {
	Note *storage.Note
	Err  error
}

// noteDeletedMsg reports the result of deleting a note from the history.
type noteDeletedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// EXPORT AND CLIPBOARD MESSAGES
// =============================================================================

// exportDoneMsg reports a finished export.
type exportDoneMsg struct {
	Format string
	Path   string
	Err    error
}

// clipboardMsg reports a finished clipboard copy.
type clipboardMsg struct {
	Err error
}
