// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package canvas provides the freehand drawing layer of a note.
//
// Drawing happens on a grid of terminal cells. A stroke is the list of cells
// the pointer visited while the button was held; consecutive points are
// joined with straight lines when the canvas is rasterised, so fast pointer
// motion still produces a continuous line.
package canvas

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// =============================================================================
// TYPES
// =============================================================================

// Point is a cell position on the canvas.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Stroke is one continuous pointer drag.
type Stroke struct {
	Color  string  `json:"color"`
	Size   int     `json:"size"`
	Points []Point `json:"points"`
}

// Brush limits.
const (
	MinBrush     = 1
	MaxBrush     = 5
	DefaultBrush = 1
	DefaultColor = "#000000"
)

// Named colors accepted wherever a color is expected.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#e53935",
	"blue":   "#1e88e5",
	"green":  "#43a047",
	"yellow": "#fdd835",
	"purple": "#8e24aa",
	"orange": "#fb8c00",
}

// NormalizeColor turns a color name or hex string into "#rrggbb".
func NormalizeColor(c string) (string, error) {
	c = strings.ToLower(strings.TrimSpace(c))
	if hex, ok := namedColors[c]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	col, err := colorful.Hex(c)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", c, err)
	}
	return col.Hex(), nil
}

// =============================================================================
// CANVAS
// =============================================================================

// Canvas holds the strokes of a drawing and the active brush.
type Canvas struct {
	width, height int

	strokes []Stroke
	drawing bool

	color string
	size  int
	rev   uint64
}

// New creates an empty canvas of the given size in cells.
func New(width, height int) *Canvas {
	return &Canvas{
		width:  max(width, 1),
		height: max(height, 1),
		color:  DefaultColor,
		size:   DefaultBrush,
	}
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Resize changes the canvas dimensions. Strokes are kept; points outside the
// new bounds are clipped when rasterised.
func (c *Canvas) Resize(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
}

// SetColor sets the brush color.
func (c *Canvas) SetColor(col string) error {
	hex, err := NormalizeColor(col)
	if err != nil {
		return err
	}
	c.color = hex
	return nil
}

// SetBrush sets the brush size, clamped to [MinBrush, MaxBrush].
func (c *Canvas) SetBrush(size int) {
	c.size = min(max(size, MinBrush), MaxBrush)
}

// Brush returns the active color and size.
func (c *Canvas) Brush() (string, int) {
	return c.color, c.size
}

// Begin starts a stroke at (x, y).
func (c *Canvas) Begin(x, y int) {
	c.strokes = append(c.strokes, Stroke{
		Color:  c.color,
		Size:   c.size,
		Points: []Point{{x, y}},
	})
	c.drawing = true
	c.rev++
}

// Extend adds (x, y) to the current stroke. It does nothing when no stroke
// is in progress.
func (c *Canvas) Extend(x, y int) {
	if !c.drawing {
		return
	}
	s := &c.strokes[len(c.strokes)-1]
	if last := s.Points[len(s.Points)-1]; last.X == x && last.Y == y {
		return
	}
	s.Points = append(s.Points, Point{x, y})
	c.rev++
}

// End finishes the current stroke. It reports whether a stroke was in
// progress.
func (c *Canvas) End() bool {
	was := c.drawing
	c.drawing = false
	return was
}

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool {
	return c.drawing
}

// Undo removes the last stroke.
func (c *Canvas) Undo() bool {
	if len(c.strokes) == 0 {
		return false
	}
	c.strokes = c.strokes[:len(c.strokes)-1]
	c.drawing = false
	c.rev++
	return true
}

// Clear removes all strokes.
func (c *Canvas) Clear() {
	c.strokes = nil
	c.drawing = false
	c.rev++
}

// IsEmpty reports whether the canvas has no strokes.
func (c *Canvas) IsEmpty() bool {
	return len(c.strokes) == 0
}

// Strokes returns a copy of the strokes.
func (c *Canvas) Strokes() []Stroke {
	out := make([]Stroke, len(c.strokes))
	for i, s := range c.strokes {
		s.Points = append([]Point(nil), s.Points...)
		out[i] = s
	}
	return out
}

// Rev returns a counter that increases on every change.
func (c *Canvas) Rev() uint64 {
	return c.rev
}

// =============================================================================
// RASTERISATION
// =============================================================================

// Cells rasterises the strokes into a map of cell to color. Later strokes
// paint over earlier ones.
func (c *Canvas) Cells() map[Point]string {
	cells := make(map[Point]string)
	for _, s := range c.strokes {
		paint := func(p Point) {
			half := (s.Size - 1) / 2
			for dy := -half; dy < s.Size-half; dy++ {
				for dx := -half; dx < s.Size-half; dx++ {
					q := Point{p.X + dx, p.Y + dy}
					if q.X >= 0 && q.Y >= 0 && q.X < c.width && q.Y < c.height {
						cells[q] = s.Color
					}
				}
			}
		}
		for i, p := range s.Points {
			if i == 0 {
				paint(p)
				continue
			}
			for _, q := range Line(s.Points[i-1], p) {
				paint(q)
			}
		}
	}
	return cells
}

// Line returns the cells on the straight line from a to b, inclusive.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	var out []Point
	err := dx + dy
	x, y := a.X, a.Y
	for {
		out = append(out, Point{x, y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Image renders the canvas on a white background with each cell drawn as a
// scale x scale square.
func (c *Canvas) Image(scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, c.width*scale, c.height*scale))
	white := color.RGBA{255, 255, 255, 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = white.R, white.G, white.B, white.A
	}

	for p, hex := range c.Cells() {
		col := toRGBA(hex)
		for y := p.Y * scale; y < (p.Y+1)*scale; y++ {
			for x := p.X * scale; x < (p.X+1)*scale; x++ {
				img.SetRGBA(x, y, col)
			}
		}
	}
	return img
}

func toRGBA(hex string) color.RGBA {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{0, 0, 0, 255}
	}
	r, g, b := col.RGB255()
	return color.RGBA{r, g, b, 255}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// SERIALIZATION
// =============================================================================

type jsonCanvas struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Strokes []Stroke `json:"strokes"`
}

// MarshalJSON encodes the canvas size and strokes.
func (c *Canvas) MarshalJSON() ([]byte, error) {
	strokes := c.strokes
	if strokes == nil {
		strokes = []Stroke{}
	}
	return json.Marshal(jsonCanvas{Width: c.width, Height: c.height, Strokes: strokes})
}

// UnmarshalJSON replaces the canvas content. Stroke colors are normalised
// and sizes clamped.
func (c *Canvas) UnmarshalJSON(data []byte) error {
	var in jsonCanvas
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode canvas: %w", err)
	}

	strokes := make([]Stroke, 0, len(in.Strokes))
	for i, s := range in.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		hex, err := NormalizeColor(s.Color)
		if err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		s.Color = hex
		s.Size = min(max(s.Size, MinBrush), MaxBrush)
		strokes = append(strokes, s)
	}

	if c.color == "" {
		c.color, c.size = DefaultColor, DefaultBrush
	}
	c.width, c.height = max(in.Width, 1), max(in.Height, 1)
	c.strokes = strokes
	c.drawing = false
	c.rev++
	return nil
}

// FromJSON decodes a canvas.
func FromJSON(data []byte) (*Canvas, error) {
	c := New(1, 1)
	if err := c.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return c, nil
}
