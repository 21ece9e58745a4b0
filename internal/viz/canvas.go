package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot grid with one colour per cell. The last colour
// written to a cell wins.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// DotsX and DotsY are the canvas size in dots.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set lights the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int, col lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height {
		return
	}
	c.Grid[cy][cx] |= pixelMap[y%4][x%2]
	if col != "" {
		c.Colors[cy][cx] = col
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col lipgloss.Color) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r dots using the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int, col lipgloss.Color) {
	if r <= 0 {
		c.Set(cx, cy, col)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1], col)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle lights every dot within r of the centre.
func (c *Canvas) FillCircle(cx, cy, r int, col lipgloss.Color) {
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r2 {
				c.Set(cx+dx, cy+dy, col)
			}
		}
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

// String renders the grid without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the grid with per-cell colours, batching runs of equal colour.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			seg := string(row[start:j])
			if col := c.Colors[i][start]; col != "" {
				seg = lipgloss.NewStyle().Foreground(col).Render(seg)
			}
			b.WriteString(seg)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// scale maps playfield coordinates onto canvas dots.
type scale struct {
	sx, sy float64
}

func newScale(c *Canvas, width, height float64) scale {
	return scale{sx: float64(c.DotsX()) / width, sy: float64(c.DotsY()) / height}
}

func (s scale) point(x, y float64) (int, int) {
	return int(math.Floor(x * s.sx)), int(math.Floor(y * s.sy))
}

func (s scale) radius(r float64) int {
	return int(math.Round(r * math.Min(s.sx, s.sy)))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
