// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/webnote/internal/document"
)

func TestNewWorkspaceHasOneTab(t *testing.T) {
	w := New(40, 10)
	require.Equal(t, 1, w.Len())

	tab := w.Active()
	assert.Equal(t, "Note 1", tab.Title)
	assert.Equal(t, ModeText, tab.Mode)
	_, err := uuid.Parse(tab.ID)
	assert.NoError(t, err)

	cw, ch := tab.Canvas.Size()
	assert.Equal(t, [2]int{40, 10}, [2]int{cw, ch})
}

func TestTabNavigation(t *testing.T) {
	w := New(10, 10)
	a := w.Active()
	b := w.NewTab()
	c := w.NewTab()
	assert.Equal(t, c, w.Active())

	w.Next()
	assert.Equal(t, a, w.Active(), "Next wraps around")
	w.Prev()
	assert.Equal(t, c, w.Active(), "Prev wraps around")

	require.NoError(t, w.Switch(b.ID))
	assert.Equal(t, 1, w.ActiveIndex())
	assert.ErrorIs(t, w.Switch("missing"), ErrTabNotFound)

	assert.True(t, w.SwitchIndex(0))
	assert.False(t, w.SwitchIndex(3))
	assert.Equal(t, a, w.Active())
}

func TestCloseKeepsOneTab(t *testing.T) {
	w := New(10, 10)
	first := w.Active()
	second := w.NewTab()

	require.NoError(t, w.Close(second.ID))
	assert.Equal(t, first, w.Active())

	w.CloseActive()
	require.Equal(t, 1, w.Len())
	assert.NotEqual(t, first.ID, w.Active().ID)

	assert.ErrorIs(t, w.Close("missing"), ErrTabNotFound)
}

func TestCloseAdjustsActive(t *testing.T) {
	w := New(10, 10)
	a := w.Active()
	b := w.NewTab()
	c := w.NewTab()

	require.NoError(t, w.Switch(c.ID))
	require.NoError(t, w.Close(a.ID))
	assert.Equal(t, c, w.Active(), "closing a tab to the left keeps the active tab")

	require.NoError(t, w.Close(c.ID))
	assert.Equal(t, b, w.Active())
}

func TestRenameAndTitles(t *testing.T) {
	w := New(10, 10)
	tab := w.Active()

	require.NoError(t, w.Rename(tab.ID, "  Groceries "))
	assert.Equal(t, "Groceries", tab.DisplayTitle())

	require.NoError(t, w.Rename(tab.ID, ""))
	assert.Equal(t, "Untitled", tab.DisplayTitle())
	require.NoError(t, tab.Doc.InsertText("first line\nsecond"))
	assert.Equal(t, "first line", tab.DisplayTitle())

	assert.ErrorIs(t, w.Rename("missing", "x"), ErrTabNotFound)
}

func TestOpenAndFindNote(t *testing.T) {
	w := New(10, 10)
	doc := document.FromText("stored")
	tab := w.Open("Saved", "note-1", doc, nil)

	assert.Equal(t, tab, w.Active())
	assert.NotNil(t, tab.Canvas)

	found, ok := w.FindNote("note-1")
	require.True(t, ok)
	assert.Equal(t, tab.ID, found.ID)

	_, ok = w.FindNote("")
	assert.False(t, ok)

	got, ok := w.Get(tab.ID)
	assert.True(t, ok)
	assert.Equal(t, tab, got)
}

func TestTabRevTracksChanges(t *testing.T) {
	w := New(10, 10)
	tab := w.Active()
	r0 := tab.Rev()

	require.NoError(t, tab.Doc.InsertText("x"))
	r1 := tab.Rev()
	assert.Greater(t, r1, r0)

	tab.Canvas.Begin(1, 1)
	tab.Canvas.End()
	assert.Greater(t, tab.Rev(), r1)
}

func TestResizeCanvas(t *testing.T) {
	w := New(10, 10)
	w.ResizeCanvas(30, 8)
	cw, ch := w.Active().Canvas.Size()
	assert.Equal(t, [2]int{30, 8}, [2]int{cw, ch})

	cw, ch = w.NewTab().Canvas.Size()
	assert.Equal(t, [2]int{30, 8}, [2]int{cw, ch})
}
