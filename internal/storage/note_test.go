// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestFold(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Café", "cafe"},
		{"NAÏVE", "naive"},
		{"plain", "plain"},
	}

	for _, tc := range testCases {
		if got := Fold(tc.input); got != tc.expected {
			t.Errorf("Fold(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestMatches(t *testing.T) {
	testCases := []struct {
		title, text, query string
		expected           bool
	}{
		{"Café", "", "cafe", true},
		{"", "Résumé draft", "resume", true},
		{"Todo", "milk", "bread", false},
		{"anything", "", "   ", true},
	}

	for _, tc := range testCases {
		if got := Matches(tc.title, tc.text, tc.query); got != tc.expected {
			t.Errorf("Matches(%q, %q, %q) = %v, want %v", tc.title, tc.text, tc.query, got, tc.expected)
		}
	}
}

func TestNoteMeta_Preview(t *testing.T) {
	n := &Note{ID: "1", Title: "t", Text: "first line\n\nsecond   line"}
	meta := n.Meta()
	if meta.Preview != "first line second line" {
		t.Errorf("Preview = %q", meta.Preview)
	}
	if meta.Words != 4 {
		t.Errorf("Words = %d, want 4", meta.Words)
	}
	if meta.HasDrawing {
		t.Error("note without canvas should not report a drawing")
	}
}

func TestFormatNoteList(t *testing.T) {
	if got := FormatNoteList(nil); got != "No notes found." {
		t.Errorf("empty list = %q", got)
	}

	out := FormatNoteList([]NoteMeta{{
		ID:         "0123456789abcdef",
		Title:      "Sketches",
		UpdatedAt:  time.Date(2025, 5, 6, 7, 8, 0, 0, time.UTC),
		Words:      12,
		HasDrawing: true,
	}})
	for _, want := range []string{"01234567 ", "2025-05-06 07:08", "12", "Sketches [drawing]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNoteError_Is(t *testing.T) {
	err := &NoteError{Message: "note not found"}
	if !err.Is(ErrNoteNotFound) {
		t.Error("errors with the same message should match")
	}
	if err.Is(&NoteError{Message: "other"}) {
		t.Error("errors with different messages should not match")
	}
}

// =============================================================================
// DEVICE ID
// =============================================================================

func TestDeviceID_PersistsAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := DeviceID(dir)
	if err != nil {
		t.Fatalf("DeviceID failed: %v", err)
	}
	if !strings.HasPrefix(first, "device_") {
		t.Errorf("device id %q lacks prefix", first)
	}

	second, err := DeviceID(dir)
	if err != nil {
		t.Fatalf("DeviceID failed: %v", err)
	}
	if first != second {
		t.Errorf("device id changed: %q then %q", first, second)
	}
}

func TestDeviceID_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DeviceFile), []byte("device_abc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	id, err := DeviceID(dir)
	if err != nil {
		t.Fatalf("DeviceID failed: %v", err)
	}
	if id != "device_abc" {
		t.Errorf("DeviceID = %q, want device_abc", id)
	}
}

func TestNewDeviceID_Unique(t *testing.T) {
	if NewDeviceID() == NewDeviceID() {
		t.Error("device ids should differ")
	}
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReportsSavedNote(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "device_test")
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(s.Dir(), 50*time.Millisecond)
	if err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	n := textNote("watched", "")
	if _, err := s.Save(context.Background(), n); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-w.Changes():
			if c.NoteID == n.ID {
				if c.Removed {
					t.Error("save reported as removal")
				}
				return
			}
		case <-deadline:
			t.Fatal("no change reported for saved note")
		}
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name    string
		event   fsnotify.Event
		want    Change
		matched bool
	}{
		{"json write", fsnotify.Event{Name: "/d/abc.json", Op: fsnotify.Write}, Change{NoteID: "abc"}, true},
		{"json remove", fsnotify.Event{Name: "/d/abc.json", Op: fsnotify.Remove}, Change{NoteID: "abc", Removed: true}, true},
		{"temp file", fsnotify.Event{Name: "/d/.tmp-123", Op: fsnotify.Create}, Change{}, false},
		{"database wal", fsnotify.Event{Name: "/d/notes.db-wal", Op: fsnotify.Write}, Change{}, true},
		{"other file", fsnotify.Event{Name: "/d/device_id", Op: fsnotify.Write}, Change{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := classify(tc.event)
			if ok != tc.matched || got != tc.want {
				t.Errorf("classify = %+v, %v; want %+v, %v", got, ok, tc.want, tc.matched)
			}
		})
	}
}
