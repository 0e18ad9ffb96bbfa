package gridview

import (
	"strings"
)

// canvas is a fixed-size block of cells, each holding one styled glyph of
// display width one.
type canvas struct {
	w, h  int
	cells [][]string
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]string, c.h)
	for y := range c.cells {
		row := make([]string, c.w)
		for x := range row {
			row[x] = " "
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, s string) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = s
}

// text writes s from x, one rune per cell, clipped at the right edge.
func (c *canvas) text(x, y int, s string) {
	for _, r := range s {
		c.set(x, y, string(r))
		x++
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// FitToHeight ensures content exactly fills targetHeight lines,
// truncating if too long or padding if too short.
func FitToHeight(content string, targetHeight int) string {
	if targetHeight <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > targetHeight {
		lines = lines[:targetHeight]
	}
	for len(lines) < targetHeight {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
