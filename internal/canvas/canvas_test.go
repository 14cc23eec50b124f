// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"red", "#e53935", false},
		{"RED", "#e53935", false},
		{"#FF0000", "#ff0000", false},
		{"00ff00", "#00ff00", false},
		{"chartreuse", "", true},
		{"#12", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeColor(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		a, b Point
		want []Point
	}{
		{Point{0, 0}, Point{0, 0}, []Point{{0, 0}}},
		{Point{0, 0}, Point{3, 0}, []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{Point{2, 2}, Point{0, 0}, []Point{{2, 2}, {1, 1}, {0, 0}}},
		{Point{0, 0}, Point{1, 3}, []Point{{0, 0}, {0, 1}, {1, 2}, {1, 3}}},
	}

	for _, tt := range tests {
		got := Line(tt.a, tt.b)
		assert.Equal(t, tt.want, got, "Line(%v, %v)", tt.a, tt.b)
	}
}

func TestStrokeLifecycle(t *testing.T) {
	c := New(10, 5)
	c.Extend(1, 1)
	assert.True(t, c.IsEmpty(), "Extend without Begin is ignored")

	c.Begin(0, 0)
	c.Extend(0, 0)
	c.Extend(4, 0)
	assert.True(t, c.Drawing())
	assert.True(t, c.End())
	assert.False(t, c.End())

	strokes := c.Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, []Point{{0, 0}, {4, 0}}, strokes[0].Points)

	cells := c.Cells()
	assert.Len(t, cells, 5)
	for x := 0; x <= 4; x++ {
		assert.Equal(t, DefaultColor, cells[Point{x, 0}])
	}
}

func TestBrushAndClipping(t *testing.T) {
	c := New(4, 4)
	require.NoError(t, c.SetColor("blue"))
	c.SetBrush(3)
	c.Begin(0, 0)
	c.End()

	cells := c.Cells()
	// A 3x3 brush centred on the corner keeps only the in-bounds quarter.
	assert.Len(t, cells, 4)
	assert.Equal(t, "#1e88e5", cells[Point{1, 1}])

	c.SetBrush(99)
	_, size := c.Brush()
	assert.Equal(t, MaxBrush, size)
	c.SetBrush(-1)
	_, size = c.Brush()
	assert.Equal(t, MinBrush, size)

	assert.Error(t, c.SetColor("nope"))
}

func TestUndoAndClear(t *testing.T) {
	c := New(5, 5)
	rev := c.Rev()
	c.Begin(1, 1)
	c.End()
	c.Begin(2, 2)
	c.End()
	assert.Greater(t, c.Rev(), rev)

	assert.True(t, c.Undo())
	assert.Len(t, c.Strokes(), 1)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.False(t, c.Undo())
}

func TestImage(t *testing.T) {
	c := New(3, 2)
	require.NoError(t, c.SetColor("#ff0000"))
	c.Begin(1, 1)
	c.End()

	img := c.Image(2)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(3, 3))
}

func TestJSONRoundTrip(t *testing.T) {
	c := New(20, 10)
	require.NoError(t, c.SetColor("green"))
	c.SetBrush(2)
	c.Begin(1, 1)
	c.Extend(5, 5)
	c.End()

	data, err := json.Marshal(c)
	require.NoError(t, err)

	back, err := FromJSON(data)
	require.NoError(t, err)
	w, h := back.Size()
	assert.Equal(t, [2]int{20, 10}, [2]int{w, h})
	assert.Equal(t, c.Strokes(), back.Strokes())
	assert.Equal(t, c.Cells(), back.Cells())

	_, err = FromJSON([]byte(`{"width":2,"height":2,"strokes":[{"color":"bogus","size":1,"points":[{"x":0,"y":0}]}]}`))
	assert.Error(t, err)

	empty, err := json.Marshal(New(1, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":1,"height":1,"strokes":[]}`, string(empty))
}
