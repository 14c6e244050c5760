package preview

import (
	"math"

	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/engine"
	"github.com/dshills/flowroute/pkg/geometry"
	"github.com/dshills/flowroute/pkg/route"
	"github.com/dshills/goterm"
)

// Samples per curve segment when flattening edges
const curveSteps = 16

var (
	nodeColor  = goterm.ColorRGB(200, 200, 200)
	edgeColors = map[diagram.EdgeKind]goterm.Color{
		diagram.EdgeParentChild: goterm.ColorRGB(150, 150, 150),
		diagram.EdgeIncoming:    goterm.ColorRGB(100, 200, 100),
		diagram.EdgeOutgoing:    goterm.ColorRGB(100, 200, 255),
		diagram.EdgeInternal:    goterm.ColorRGB(255, 200, 0),
	}
)

// Canvas maps diagram coordinates onto a Buffer.
type Canvas struct {
	buf   *Buffer
	frame geometry.Rect
	// diagram units per cell
	scaleX float64
	scaleY float64
}

// NewCanvas fits frame into a width x height cell grid
func NewCanvas(width, height int, frame geometry.Rect) *Canvas {
	c := &Canvas{buf: NewBuffer(width, height), frame: frame, scaleX: 1, scaleY: 1}
	if !frame.IsEmpty() {
		c.scaleX = frame.Width / float64(max(width-1, 1))
		c.scaleY = frame.Height / float64(max(height-1, 1))
	}
	return c
}

// Buffer returns the underlying cell buffer
func (c *Canvas) Buffer() *Buffer {
	return c.buf
}

// ToCell converts a diagram point to the nearest cell
func (c *Canvas) ToCell(p geometry.Point) (int, int) {
	x := int(math.Round((p.X - c.frame.X) / c.scaleX))
	y := int(math.Round((p.Y - c.frame.Y) / c.scaleY))
	return x, y
}

// DrawNode draws the header of g as a box titled with label
func (c *Canvas) DrawNode(g diagram.NodeGeometry, label string) {
	x0, y0 := c.ToCell(geometry.Point{X: g.Header.Left(), Y: g.Header.Top()})
	x1, y1 := c.ToCell(geometry.Point{X: g.Header.Right(), Y: g.Header.Bottom()})

	style := goterm.StyleNone
	if g.Selected {
		style = goterm.StyleBold
	}
	set := func(x, y int, r rune) {
		c.buf.Set(x, y, Cell{Rune: r, Fg: nodeColor, Bg: goterm.ColorDefault(), Style: style})
	}

	if x1 <= x0 || y1 <= y0 {
		set(x0, y0, '■')
		return
	}

	for x := x0 + 1; x < x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1, y0, '┐')
	set(x0, y1, '└')
	set(x1, y1, '┘')

	// Title sits on the top border
	room := x1 - x0 - 1
	i := 0
	for _, ch := range label {
		if i >= room {
			break
		}
		set(x0+1+i, y0, ch)
		i++
	}
}

// DrawEdge rasterizes d as a polyline with an arrowhead and stub marker
func (c *Canvas) DrawEdge(d diagram.EdgeDescriptor) {
	c.drawStroke(d)
	c.drawEnds(d)
}

func (c *Canvas) drawStroke(d diagram.EdgeDescriptor) {
	cells := c.polyline(d)
	fg := edgeColors[d.Kind]
	for i := 1; i < len(cells); i++ {
		c.drawSegment(cells[i-1][0], cells[i-1][1], cells[i][0], cells[i][1], fg)
	}
}

func (c *Canvas) drawEnds(d diagram.EdgeDescriptor) {
	fg := edgeColors[d.Kind]
	if cells := c.polyline(d); d.Arrowhead && len(cells) > 0 {
		last := cells[len(cells)-1]
		prev := last
		if len(cells) > 1 {
			prev = cells[len(cells)-2]
		}
		c.buf.Set(last[0], last[1], Cell{Rune: arrowRune(prev[0], prev[1], last[0], last[1]), Fg: fg, Bg: goterm.ColorDefault(), Style: goterm.StyleBold})
	}
	if d.Marker != nil {
		mx, my := c.ToCell(d.Marker.Center)
		c.buf.Set(mx, my, Cell{Rune: '●', Fg: fg, Bg: goterm.ColorDefault(), Style: goterm.StyleBold})
	}
}

// polyline flattens d into cells, dropping consecutive duplicates
func (c *Canvas) polyline(d diagram.EdgeDescriptor) [][2]int {
	points := route.Flatten(d, curveSteps)
	cells := make([][2]int, 0, len(points))
	for _, p := range points {
		x, y := c.ToCell(p)
		if n := len(cells); n > 0 && cells[n-1] == [2]int{x, y} {
			continue
		}
		cells = append(cells, [2]int{x, y})
	}
	return cells
}

// drawSegment walks the cells between two points
func (c *Canvas) drawSegment(x0, y0, x1, y1 int, fg goterm.Color) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	ch := lineRune(dx, dy)
	if steps == 0 {
		c.plot(x0, y0, ch, fg)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64(dx*i)/float64(steps)))
		y := y0 + int(math.Round(float64(dy*i)/float64(steps)))
		c.plot(x, y, ch, fg)
	}
}

// plot merges perpendicular strokes into a crossing
func (c *Canvas) plot(x, y int, ch rune, fg goterm.Color) {
	existing := c.buf.Get(x, y).Rune
	if (existing == '─' && ch == '│') || (existing == '│' && ch == '─') {
		ch = '┼'
	}
	c.buf.Set(x, y, Cell{Rune: ch, Fg: fg, Bg: goterm.ColorDefault(), Style: goterm.StyleNone})
}

func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case abs(dx) > 2*abs(dy):
		return '─'
	case abs(dy) > 2*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// arrowRune points from the previous cell toward the last one
func arrowRune(fromX, fromY, toX, toY int) rune {
	dx, dy := toX-fromX, toY-fromY
	switch {
	case dx == 0 && dy == 0:
		return '●'
	case abs(dy) >= abs(dx) && dy > 0:
		return '▼'
	case abs(dy) >= abs(dx):
		return '▲'
	case dx > 0:
		return '►'
	default:
		return '◄'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Render draws every edge of res and the headers of nodes onto a fresh
// buffer. Arrowheads and markers are drawn over node boxes.
func Render(res engine.Result, nodes []diagram.NodeGeometry, width, height int) *Buffer {
	frame := res.Frame
	if frame.IsEmpty() {
		for _, g := range nodes {
			frame = frame.Union(g.Header).Union(g.Body)
		}
	}

	c := NewCanvas(width, height, frame)
	for _, e := range res.Edges {
		c.drawStroke(e)
	}
	for _, g := range nodes {
		c.DrawNode(g, string(g.ID))
	}
	for _, e := range res.Edges {
		c.drawEnds(e)
	}
	return c.Buffer()
}
