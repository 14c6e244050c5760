// Package preview rasterizes routed edges onto a terminal cell grid.
//
// The buffer is independent from any terminal so it can be printed as plain
// text; Flush copies it onto a goterm screen.
package preview

import (
	"fmt"
	"strings"

	"github.com/dshills/goterm"
)

// ScreenInterface defines the methods required from a goterm.Screen
type ScreenInterface interface {
	Size() (width, height int)
	Clear()
	Show() error
	SetCell(x, y int, cell goterm.Cell)
	DrawText(x, y int, text string, fg, bg goterm.Color, style goterm.Style)
}

// Cell represents a single terminal cell with content and styling
type Cell struct {
	Rune  rune
	Fg    goterm.Color
	Bg    goterm.Color
	Style goterm.Style
}

// IsBlank reports whether the cell shows nothing
func (c Cell) IsBlank() bool {
	return c.Rune == 0 || c.Rune == ' '
}

// Buffer represents a 2D grid of cells
type Buffer struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewBuffer creates a blank buffer with given dimensions
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	b.Clear()
	return b
}

// Get retrieves a cell at the given coordinates
func (b *Buffer) Get(x, y int) Cell {
	if !b.inside(x, y) {
		return Cell{}
	}
	return b.Cells[y*b.Width+x]
}

// Set updates a cell at the given coordinates; out of range writes are dropped
func (b *Buffer) Set(x, y int, cell Cell) {
	if !b.inside(x, y) {
		return
	}
	b.Cells[y*b.Width+x] = cell
}

// DrawText writes text starting at (x, y), clipped to the buffer
func (b *Buffer) DrawText(x, y int, text string, fg, bg goterm.Color, style goterm.Style) {
	i := 0
	for _, ch := range text {
		b.Set(x+i, y, Cell{Rune: ch, Fg: fg, Bg: bg, Style: style})
		i++
	}
}

// Clear fills the buffer with empty cells
func (b *Buffer) Clear() {
	for i := range b.Cells {
		b.Cells[i] = Cell{Rune: ' ', Fg: goterm.ColorDefault(), Bg: goterm.ColorDefault(), Style: goterm.StyleNone}
	}
}

func (b *Buffer) inside(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// String renders the runes row by row without trailing blanks
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		row := make([]rune, b.Width)
		for x := 0; x < b.Width; x++ {
			c := b.Get(x, y)
			if c.IsBlank() {
				row[x] = ' '
				continue
			}
			row[x] = c.Rune
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		if y < b.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Flush copies the buffer onto screen, clipped to the screen size, and shows it
func (b *Buffer) Flush(screen ScreenInterface) error {
	width, height := screen.Size()
	screen.Clear()
	for y := 0; y < min(height, b.Height); y++ {
		for x := 0; x < min(width, b.Width); x++ {
			c := b.Get(x, y)
			if c.IsBlank() {
				continue
			}
			screen.SetCell(x, y, goterm.NewCell(c.Rune, c.Fg, c.Bg, c.Style))
		}
	}
	if err := screen.Show(); err != nil {
		return fmt.Errorf("screen show failed: %w", err)
	}
	return nil
}
