package viz

import (
	"strings"

	"github.com/bclonan/sight/internal/grid"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Dots          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Dots:   make([][]rune, h),
	}
	for i := range c.Dots {
		c.Dots[i] = make([]rune, w)
		for j := range c.Dots[i] {
			c.Dots[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Dots[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Dots {
		for j := range c.Dots[i] {
			c.Dots[i][j] = 0x2800
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Dots {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Minimap draws one Braille dot per cell whose value is at least
// threshold, packing a 4×2 block of cells into each character.
func Minimap(g *grid.Grid, threshold float64) *Canvas {
	c := NewCanvas((g.Cols()+1)/2, (g.Rows()+3)/4)
	c.Plot(g, threshold)
	return c
}

// Plot clears c and redraws g onto it as Minimap does, so one canvas can
// follow a grid across steps. Cells outside the canvas are skipped.
func (c *Canvas) Plot(g *grid.Grid, threshold float64) {
	c.Clear()
	g.Each(func(cell grid.Cell) {
		if cell.Value >= threshold {
			c.Set(cell.Col, cell.Row)
		}
	})
}
