// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides auto-save scheduling for open notes.
//
// The Manager watches document revisions, debounces edits and reports which
// notes are due for saving. It integrates with Bubble Tea through tick
// messages; the caller performs the actual save.
//
// # Key Types
//
//   - Manager: dirty tracking, debounce and safety ticks
//   - DebounceMsg: fired after typing pauses
//   - TickMsg: periodic safety save tick
//   - IndicatorExpiredMsg: hides the "saved" indicator
//
// # Usage
//
//	mgr := session.NewManager(session.DefaultConfig())
//	cmd := mgr.Observe(tab.ID, tab.Rev())
//
//	case session.DebounceMsg:
//	    if mgr.Ready(msg) && mgr.NeedsSave(msg.Key, data) {
//	        // save, then
//	        cmd = mgr.MarkSaved(msg.Key, data)
//	    }
//
// Content is hashed with xxhash so saving identical content twice is
// skipped.
package session
