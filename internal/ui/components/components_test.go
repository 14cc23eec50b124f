// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/webnote/internal/commands"
	"github.com/jeranaias/webnote/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// HIT MAP
// =============================================================================

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}

	tests := []struct {
		name   string
		x, y   int
		expect bool
	}{
		{"inside", 15, 30, true},
		{"top-left corner", 10, 20, true},
		{"right edge exclusive", 40, 30, false},
		{"bottom edge exclusive", 15, 60, false},
		{"left of rect", 9, 30, false},
		{"above rect", 15, 19, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, r.Contains(tt.x, tt.y))
		})
	}

	assert.False(t, Rect{X: 5, Y: 5, W: 0, H: 10}.Contains(5, 5), "zero width")
}

func TestHitMap_TopmostWins(t *testing.T) {
	hm := NewHitMap()
	hm.Add("editor", Rect{X: 0, Y: 0, W: 80, H: 20}, nil)
	hm.Add("popup", Rect{X: 5, Y: 5, W: 10, H: 4}, 2)

	r := hm.Test(7, 6)
	require.NotNil(t, r)
	assert.Equal(t, "popup", r.ID)
	assert.Equal(t, 2, r.Data)

	r = hm.Test(50, 10)
	require.NotNil(t, r)
	assert.Equal(t, "editor", r.ID)

	assert.Nil(t, hm.Test(100, 100))

	hm.Clear()
	assert.Empty(t, hm.Regions())
	assert.Nil(t, hm.Test(7, 6))
}

// =============================================================================
// OVERLAY
// =============================================================================

func TestPlaceOverlay(t *testing.T) {
	bg := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"
	fg := "XX\nYY"

	out := PlaceOverlay(bg, fg, 3, 1)
	lines := strings.Split(ansi.Strip(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "aaaaaaaaaa", lines[0])
	assert.Equal(t, "bbbXXbbbbb", lines[1])
	assert.Equal(t, "cccYYccccc", lines[2])
}

func TestPlaceOverlay_PadsShortBackground(t *testing.T) {
	out := PlaceOverlay("ab", "XY", 4, 0)
	assert.Equal(t, "ab  XY", ansi.Strip(out))
}

func TestPlaceOverlay_ClipsBelowBackground(t *testing.T) {
	out := PlaceOverlay("row0\nrow1", "A\nB\nC", 0, 1)
	lines := strings.Split(ansi.Strip(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Aow1", lines[1])
}

func TestOverlayModal_Centers(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 20)+"\n", 9) + strings.Repeat(".", 20)
	out, rect := OverlayModal(bg, "MM\nMM", 20, 10)

	assert.Equal(t, Rect{X: 9, Y: 4, W: 2, H: 2}, rect)
	lines := strings.Split(ansi.Strip(out), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, ".........MM.........", lines[4])
}

// =============================================================================
// POPUP
// =============================================================================

func suggestions(names ...string) []commands.Suggestion {
	out := make([]commands.Suggestion, len(names))
	for i, n := range names {
		out[i] = commands.Suggestion{DisplayName: n, Description: "desc " + n}
	}
	return out
}

func TestCommandPopup_View(t *testing.T) {
	p := NewCommandPopup(testTheme())
	assert.Empty(t, p.View(nil, 0))

	out := ansi.Strip(p.View(suggestions("bold", "bullet"), 1))
	assert.Contains(t, out, "/bold")
	assert.Contains(t, out, "/bullet")
	assert.Contains(t, out, "desc bullet")

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4, "two rows plus borders")
	for _, line := range lines {
		assert.Equal(t, p.Width(), ansi.StringWidth(line))
	}
}

func TestCommandPopup_ScrollWindow(t *testing.T) {
	p := NewCommandPopup(testTheme())
	p.SetMaxVisible(3)
	items := suggestions("a1", "a2", "a3", "a4", "a5", "a6")

	out := ansi.Strip(p.View(items, 4))
	assert.NotContains(t, out, "/a2 ")
	assert.Contains(t, out, "/a4")
	assert.Contains(t, out, "/a6")
	assert.Contains(t, out, "5/6")

	i, ok := p.ItemAt(1)
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = p.ItemAt(0)
	assert.False(t, ok, "top border")
	_, ok = p.ItemAt(4)
	assert.False(t, ok, "overflow line")
}

// =============================================================================
// TAB BAR / STATUS BAR
// =============================================================================

func TestTabBar_RegistersRegions(t *testing.T) {
	bar := NewTabBar(testTheme())
	hits := NewHitMap()
	tabs := []TabLabel{
		{ID: "t1", Title: "Groceries"},
		{ID: "t2", Title: "Ideas", Active: true, Dirty: true},
	}

	out := ansi.Strip(bar.View(tabs, 80, 0, hits))
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Ideas *")

	regions := hits.Regions()
	require.Len(t, regions, 3)
	assert.Equal(t, "t1", regions[0].Data)
	assert.Equal(t, "t2", regions[1].Data)
	assert.Equal(t, RegionNewTab, regions[2].ID)
	assert.Equal(t, regions[0].Rect.W, regions[1].Rect.X)
}

func TestTabBar_KeepsActiveVisible(t *testing.T) {
	bar := NewTabBar(testTheme())
	hits := NewHitMap()
	var tabs []TabLabel
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		tabs = append(tabs, TabLabel{ID: id, Title: "Long note title " + id})
	}
	tabs[5].Active = true

	bar.View(tabs, 40, 0, hits)
	found := false
	for _, r := range hits.Regions() {
		if r.Data == "f" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStatusBar_View(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.SetWidth(120)
	s.Words, s.Chars = 1200, 6400
	s.Dirty = true

	out := ansi.Strip(s.View())
	assert.Contains(t, out, "TEXT")
	assert.Contains(t, out, "Unsaved")
	assert.Contains(t, out, "1,200 words")
	assert.Contains(t, out, "history")

	s.Mode = "draw"
	s.Brush = "#ff0000/3"
	s.Dirty = false
	s.Saved = true
	s.SetMessage("exported", false)
	out = ansi.Strip(s.View())
	assert.Contains(t, out, "DRAW")
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, "#ff0000/3")
	assert.Contains(t, out, "exported")
}

func TestStatusBar_LastSaveAge(t *testing.T) {
	s := NewStatusBar(testTheme())
	base := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base.Add(3 * time.Minute) }
	s.LastSave = base

	assert.Contains(t, ansi.Strip(s.View()), "Saved 3m ago")
}

func TestFmtNumber(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range cases {
		assert.Equal(t, want, fmtNumber(in))
	}
}

func TestHighlightCode_KeepsLineCount(t *testing.T) {
	lines := []string{"package main", "", "func main() {", "\tprintln(\"hi\")", "}"}
	out := HighlightCode(lines, true)
	if out == nil {
		t.Skip("highlighter produced no output")
	}
	require.Len(t, out, len(lines))
	assert.Equal(t, "func main() {", ansi.Strip(out[2]))

	assert.Nil(t, HighlightCode([]string{"  "}, false))
}
