// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// tickingClock advances one second per call so UpdatedAt ordering is strict.
type tickingClock struct {
	t time.Time
}

func (c *tickingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClock() *tickingClock {
	return &tickingClock{t: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
}

// eachStore runs fn against both backends with a fake clock and limit.
func eachStore(t *testing.T, maxNotes int, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("file", func(t *testing.T) {
		fs, err := NewFileStore(t.TempDir(), "device_test")
		require.NoError(t, err)
		fs.Now = newClock().Now
		fs.MaxNotes = maxNotes
		fn(t, fs)
	})

	t.Run("sqlite", func(t *testing.T) {
		ss, err := NewSQLiteStore(t.TempDir(), "device_test")
		require.NoError(t, err)
		t.Cleanup(func() { ss.Close() })
		ss.Now = newClock().Now
		ss.MaxNotes = maxNotes
		fn(t, ss)
	})
}

func textNote(title, text string) *Note {
	content, _ := json.Marshal(map[string]string{"text": text})
	return &Note{Title: title, Text: text, Content: content}
}

// =============================================================================
// STORE BEHAVIOUR
// =============================================================================

func TestStore_SaveAndLoad(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		n := textNote("Groceries", "milk eggs")

		id, err := s.Save(ctx, n)
		require.NoError(t, err)
		require.NotEmpty(t, id)
		assert.Equal(t, id, n.ID)
		assert.Equal(t, "device_test", n.DeviceID)

		loaded, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", loaded.Title)
		assert.Equal(t, "milk eggs", loaded.Text)
		assert.JSONEq(t, string(n.Content), string(loaded.Content))
		assert.True(t, loaded.CreatedAt.Equal(n.CreatedAt))
	})
}

func TestStore_SaveUpdatesInPlace(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		n := textNote("Draft", "one")
		id, err := s.Save(ctx, n)
		require.NoError(t, err)
		created := n.CreatedAt

		n.Text = "one two"
		_, err = s.Save(ctx, n)
		require.NoError(t, err)

		metas, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, metas, 1)
		assert.Equal(t, id, metas[0].ID)
		assert.Equal(t, 2, metas[0].Words)
		assert.True(t, metas[0].CreatedAt.Equal(created))
		assert.True(t, metas[0].UpdatedAt.After(created))
	})
}

func TestStore_ResaveKeepsCreatedAt(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		first := textNote("Draft", "one")
		id, err := s.Save(ctx, first)
		require.NoError(t, err)

		again := textNote("Draft", "one two")
		again.ID = id
		_, err = s.Save(ctx, again)
		require.NoError(t, err)

		loaded, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.True(t, loaded.CreatedAt.Equal(first.CreatedAt))
		assert.Equal(t, "one two", loaded.Text)
	})
}

func TestStore_DefaultTitle(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		n := textNote("  ", "body")
		_, err := s.Save(context.Background(), n)
		require.NoError(t, err)
		assert.Equal(t, "Note 2025-01-02 09:00", n.Title)
	})
}

func TestStore_ListNewestFirst(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, title := range []string{"a", "b", "c"} {
			_, err := s.Save(ctx, textNote(title, title))
			require.NoError(t, err)
		}

		metas, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, metas, 3)
		assert.Equal(t, "c", metas[0].Title)
		assert.Equal(t, "a", metas[2].Title)

		latest, err := s.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "c", latest.Title)
	})
}

func TestStore_LatestEmpty(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		_, err := s.Latest(context.Background())
		assert.True(t, errors.Is(err, ErrNoteNotFound))
	})
}

func TestStore_MaxNotesEvictsOldest(t *testing.T) {
	eachStore(t, 2, func(t *testing.T, s Store) {
		ctx := context.Background()
		first := textNote("first", "")
		_, err := s.Save(ctx, first)
		require.NoError(t, err)
		_, err = s.Save(ctx, textNote("second", ""))
		require.NoError(t, err)
		_, err = s.Save(ctx, textNote("third", ""))
		require.NoError(t, err)

		metas, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, metas, 2)
		assert.Equal(t, "third", metas[0].Title)
		assert.Equal(t, "second", metas[1].Title)

		_, err = s.Load(ctx, first.ID)
		assert.True(t, errors.Is(err, ErrNoteNotFound))
	})
}

func TestStore_Search(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.Save(ctx, textNote("Café plans", "meet at noon"))
		require.NoError(t, err)
		_, err = s.Save(ctx, textNote("Shopping", "coffee beans"))
		require.NoError(t, err)

		results, err := s.Search(ctx, "cafe")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Café plans", results[0].Title)

		results, err = s.Search(ctx, "BEANS")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Shopping", results[0].Title)

		results, err = s.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestStore_Delete(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		ctx := context.Background()
		id, err := s.Save(ctx, textNote("gone", ""))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, id))
		_, err = s.Load(ctx, id)
		assert.True(t, errors.Is(err, ErrNoteNotFound))
		assert.True(t, errors.Is(s.Delete(ctx, id), ErrNoteNotFound))
	})
}

func TestStore_HasDrawing(t *testing.T) {
	eachStore(t, 0, func(t *testing.T, s Store) {
		n := textNote("sketch", "")
		n.Canvas = json.RawMessage(`{"width":10,"height":10,"strokes":[{"color":"#000000","size":1,"points":[{"x":1,"y":1}]}]}`)
		_, err := s.Save(context.Background(), n)
		require.NoError(t, err)

		metas, err := s.List(context.Background())
		require.NoError(t, err)
		require.Len(t, metas, 1)
		assert.True(t, metas[0].HasDrawing)
	})
}

// =============================================================================
// BACKEND SPECIFICS
// =============================================================================

func TestFileStore_RequiresDevice(t *testing.T) {
	if _, err := NewFileStore(t.TempDir(), ""); err == nil {
		t.Error("expected error for empty device id")
	}
}

func TestFileStore_DevicesAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileStore(dir, "device_a")
	require.NoError(t, err)
	b, err := NewFileStore(dir, "device_b")
	require.NoError(t, err)

	_, err = a.Save(context.Background(), textNote("mine", ""))
	require.NoError(t, err)

	metas, err := b.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, metas)
	assert.Equal(t, filepath.Join(dir, "device_a"), a.Dir())
}

func TestFileStore_SkipsCorruptFiles(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "device_test")
	require.NoError(t, err)
	_, err = s.Save(context.Background(), textNote("ok", ""))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{"), 0644))

	metas, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "device_test")
	require.NoError(t, err)

	for _, id := range []string{"", ".", "..", "../x", `a\b`} {
		if _, err := s.Load(context.Background(), id); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("Load(%q) error = %v, want ErrNoteNotFound", id, err)
		}
	}
}

func TestFileStore_Clear(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "device_test")
	require.NoError(t, err)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, textNote("", ""))
		require.NoError(t, err)
	}
	require.NoError(t, s.Clear(ctx))

	metas, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "device_test")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, textNote("x", ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore_DevicesShareDatabase(t *testing.T) {
	dir := t.TempDir()
	a, err := NewSQLiteStore(dir, "device_a")
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Save(context.Background(), textNote("mine", ""))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := NewSQLiteStore(dir, "device_b")
	require.NoError(t, err)
	defer b.Close()

	metas, err := b.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, metas)
	assert.Equal(t, filepath.Join(dir, DatabaseFile), b.Path())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{Dir: dir, DeviceID: "device_x", MaxNotes: 5})
	require.NoError(t, err)
	fs, ok := s.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, 5, fs.MaxNotes)

	s, err = Open(Options{Backend: BackendSQLite, Dir: dir, DeviceID: "device_x"})
	require.NoError(t, err)
	_, ok = s.(*SQLiteStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	_, err = Open(Options{Backend: "cloud", Dir: dir, DeviceID: "device_x"})
	assert.Error(t, err)
}
