package route

import (
	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/geometry"
)

// Flatten samples a descriptor into a polyline for raster renderers.
// Each curve segment contributes steps sub-segments; steps below 1 is
// treated as 1. Descriptors with the wrong number of points flatten to nil.
func Flatten(d diagram.EdgeDescriptor, steps int) []geometry.Point {
	if steps < 1 {
		steps = 1
	}
	if len(d.Points) != d.Path.PointCount() {
		return nil
	}

	p := d.Points
	switch d.Path {
	case diagram.PathLine:
		return []geometry.Point{p[0], p[1]}
	case diagram.PathCubic:
		out := make([]geometry.Point, 0, steps+1)
		for i := 0; i <= steps; i++ {
			out = append(out, cubicAt(p[0], p[1], p[2], p[3], float64(i)/float64(steps)))
		}
		return out
	case diagram.PathCompound:
		out := make([]geometry.Point, 0, 2*steps+2)
		for i := 0; i <= steps; i++ {
			out = append(out, quadAt(p[0], p[1], p[2], float64(i)/float64(steps)))
		}
		// The straight run is implied by consecutive samples p[2] → p[3]
		for i := 0; i <= steps; i++ {
			out = append(out, quadAt(p[3], p[4], p[5], float64(i)/float64(steps)))
		}
		return out
	}
	return nil
}

func quadAt(p0, p1, p2 geometry.Point, t float64) geometry.Point {
	u := 1 - t
	return geometry.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 geometry.Point, t float64) geometry.Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return geometry.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
