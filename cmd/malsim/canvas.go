package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colours of the node states and chart series.
const (
	colorPatched     = lipgloss.Color("#60a5fa")
	colorInfected    = lipgloss.Color("#ef4444")
	colorCompromised = lipgloss.Color("#f59e0b")
	colorHealthy     = lipgloss.Color("#10b981")
	colorTrojan      = lipgloss.Color("#ffe49b")
	colorEdge        = lipgloss.Color("#4b5563")
)

// ink indexes palette; inkPlain is unstyled.
type ink int

const (
	inkPlain ink = iota
	inkEdge
	inkHealthy
	inkInfected
	inkCompromised
	inkPatched
	inkTrojan
	inkSelected
)

var palette = map[ink]lipgloss.Style{
	inkEdge:        lipgloss.NewStyle().Foreground(colorEdge),
	inkHealthy:     lipgloss.NewStyle().Foreground(colorHealthy).Bold(true),
	inkInfected:    lipgloss.NewStyle().Foreground(colorInfected).Bold(true),
	inkCompromised: lipgloss.NewStyle().Foreground(colorCompromised).Bold(true),
	inkPatched:     lipgloss.NewStyle().Foreground(colorPatched).Bold(true),
	inkTrojan:      lipgloss.NewStyle().Foreground(colorTrojan).Bold(true),
	inkSelected:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
}

type cell struct {
	r   rune
	ink ink
}

// canvas is a fixed grid of styled runes.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune, i ink) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, ink: i}
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y][x].r
}

// line draws from (x0,y0) to (x1,y1) with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, i ink) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.set(x0, y0, r, i)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the grid, styling runs of equal ink together.
func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].ink == row[start].ink {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, cl := range row[start:x] {
				run = append(run, cl.r)
			}
			if st, ok := palette[row[start].ink]; ok {
				b.WriteString(st.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			start = x
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
