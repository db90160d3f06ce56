package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canvas layers. Cells drawn later cover earlier ones.
const (
	stylePlain = iota
	styleFaint
	styleSide
	styleActive
	styleAccent
)

type cell struct {
	r     rune
	style int
}

// canvas is a fixed grid of styled cells. Drawing outside the grid is
// clipped, so cards can slide partially off screen.
type canvas struct {
	width, height int
	cells         []cell
	styles        []lipgloss.Style
}

func newCanvas(width, height int, styles []lipgloss.Style) *canvas {
	width, height = max(width, 0), max(height, 0)
	c := &canvas{width: width, height: height, cells: make([]cell, width*height), styles: styles}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, style: style}
}

// text writes s from x, one cell per rune.
func (c *canvas) text(x, y int, s string, style int) {
	for _, r := range s {
		c.set(x, y, r, style)
		x++
	}
}

// fill clears a rectangle to blanks of style.
func (c *canvas) fill(x, y, w, h, style int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.set(col, row, ' ', style)
		}
	}
}

// box draws a rectangle filled in fillStyle with a border in style.
func (c *canvas) box(x, y, w, h int, b lipgloss.Border, style, fillStyle int) {
	if w < 2 || h < 2 {
		return
	}
	c.fill(x, y, w, h, fillStyle)

	top, bottom := []rune(b.Top), []rune(b.Bottom)
	left, right := []rune(b.Left), []rune(b.Right)
	for col := x + 1; col < x+w-1; col++ {
		c.set(col, y, first(top), style)
		c.set(col, y+h-1, first(bottom), style)
	}
	for row := y + 1; row < y+h-1; row++ {
		c.set(x, row, first(left), style)
		c.set(x+w-1, row, first(right), style)
	}
	c.set(x, y, first([]rune(b.TopLeft)), style)
	c.set(x+w-1, y, first([]rune(b.TopRight)), style)
	c.set(x, y+h-1, first([]rune(b.BottomLeft)), style)
	c.set(x+w-1, y+h-1, first([]rune(b.BottomRight)), style)
}

// String renders rows, styling each run of equally styled cells once.
func (c *canvas) String() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		row := c.cells[y*c.width : (y+1)*c.width]
		for x := 0; x < len(row); {
			style := row[x].style
			run.Reset()
			for x < len(row) && row[x].style == style {
				run.WriteRune(row[x].r)
				x++
			}
			out.WriteString(c.styles[style].Render(run.String()))
		}
	}
	return out.String()
}

func first(rs []rune) rune {
	if len(rs) == 0 {
		return ' '
	}
	return rs[0]
}
