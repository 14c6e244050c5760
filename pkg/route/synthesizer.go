// Package route turns relations into drawable paths.
//
// Every function is pure geometry over a registry snapshot. A relation whose
// endpoint geometry is missing yields no path (ok == false); partial paths
// are never produced.
package route

import (
	"math"

	"github.com/dshills/flowroute/pkg/config"
	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/geometry"
	"github.com/dshills/flowroute/pkg/registry"
	"github.com/dshills/flowroute/pkg/relation"
)

// Frame is the horizontal extent of the diagram; margin ports sit inside it.
type Frame struct {
	Left  float64
	Right float64
}

// FrameOf returns the horizontal extent of r
func FrameOf(r geometry.Rect) Frame {
	return Frame{Left: r.Left(), Right: r.Right()}
}

// Synthesizer builds edge descriptors using the configured tuning constants.
type Synthesizer struct {
	cfg config.Routing
}

// New creates a synthesizer
func New(cfg config.Routing) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

// ParentChild draws the edge leading into rel.Child.
//
// ModeParent: cubic S-curve from the parent's body bottom-center to the
// child's header top-center, control points offset vertically by the full
// span. ModeSibling: straight line from the previous sibling's bottom anchor.
func (s *Synthesizer) ParentChild(rel relation.ParentChild, snap registry.Snapshot) (diagram.EdgeDescriptor, bool) {
	child, ok := snap.Get(rel.Child)
	if !ok || !snap.Has(rel.Parent) {
		return diagram.EdgeDescriptor{}, false
	}
	from, ok := snap.Get(rel.From)
	if !ok {
		return diagram.EdgeDescriptor{}, false
	}

	nodes := []diagram.NodeID{rel.From, rel.Child}
	if rel.Parent != rel.From {
		nodes = append(nodes, rel.Parent)
	}
	end := child.Header.TopCenter().Add(0, -s.cfg.ArrowOffset)

	if rel.Mode == relation.ModeSibling {
		anchor := from.Header
		if rel.FromHasChildren {
			anchor = from.Body
		}
		return diagram.EdgeDescriptor{
			ID:        diagram.ParentChildEdgeID(rel.Child),
			Kind:      diagram.EdgeParentChild,
			Nodes:     nodes,
			Path:      diagram.PathLine,
			Points:    []geometry.Point{anchor.BottomCenter(), end},
			Arrowhead: true,
		}, true
	}

	start := from.Body.BottomCenter()
	span := end.Y - start.Y
	return diagram.EdgeDescriptor{
		ID:    diagram.ParentChildEdgeID(rel.Child),
		Kind:  diagram.EdgeParentChild,
		Nodes: nodes,
		Path:  diagram.PathCubic,
		Points: []geometry.Point{
			start,
			start.Add(0, span),
			end.Add(0, -span),
			end,
		},
		Arrowhead: true,
	}, true
}

// Incoming draws a stub from a port on the left margin into the node's
// header. The port sits at the resolved ordinate of ep.
func (s *Synthesizer) Incoming(ep relation.Endpoint, snap registry.Snapshot, frame Frame) (diagram.EdgeDescriptor, bool) {
	g, ok := snap.Get(ep.Node)
	if !ok {
		return diagram.EdgeDescriptor{}, false
	}

	radius := g.Header.Height / 2
	center := geometry.Point{X: frame.Left + s.cfg.MarginOffset + radius, Y: ep.Ordinate}
	start := center.Add(radius, 0)
	end := g.Header.LeftCenter().Add(-s.cfg.ArrowOffset, 0)

	return diagram.EdgeDescriptor{
		ID:        diagram.IncomingEdgeID(ep.Node),
		Kind:      diagram.EdgeIncoming,
		Nodes:     []diagram.NodeID{ep.Node},
		Path:      diagram.PathCubic,
		Points:    horizontalCurve(start, end),
		Arrowhead: true,
		Marker:    &diagram.Marker{Center: center, Radius: radius},
	}, true
}

// Outgoing mirrors Incoming on the right margin.
func (s *Synthesizer) Outgoing(ep relation.Endpoint, snap registry.Snapshot, frame Frame) (diagram.EdgeDescriptor, bool) {
	g, ok := snap.Get(ep.Node)
	if !ok {
		return diagram.EdgeDescriptor{}, false
	}

	radius := g.Header.Height / 2
	center := geometry.Point{X: frame.Right - s.cfg.MarginOffset - radius, Y: ep.Ordinate}
	start := g.Header.RightCenter()
	end := center.Add(-radius-s.cfg.ArrowOffset, 0)

	return diagram.EdgeDescriptor{
		ID:        diagram.OutgoingEdgeID(ep.Node),
		Kind:      diagram.EdgeOutgoing,
		Nodes:     []diagram.NodeID{ep.Node},
		Path:      diagram.PathCubic,
		Points:    horizontalCurve(start, end),
		Arrowhead: true,
		Marker:    &diagram.Marker{Center: center, Radius: radius},
	}, true
}

// horizontalCurve is a cubic whose control points share the horizontal
// midpoint, leaving start and arriving at end horizontally
func horizontalCurve(start, end geometry.Point) []geometry.Point {
	midX := (start.X + end.X) / 2
	return []geometry.Point{
		start,
		{X: midX, Y: start.Y},
		{X: midX, Y: end.Y},
		end,
	}
}

// Internal routes an internal link with one of four templates chosen by the
// horizontal offset between the two headers. See SelectTemplate.
func (s *Synthesizer) Internal(link relation.InternalLink, snap registry.Snapshot) (diagram.EdgeDescriptor, bool) {
	from, ok := snap.Get(link.From)
	if !ok {
		return diagram.EdgeDescriptor{}, false
	}
	to, ok := snap.Get(link.To)
	if !ok {
		return diagram.EdgeDescriptor{}, false
	}

	return diagram.EdgeDescriptor{
		ID:        diagram.InternalEdgeID(link.From, link.To, link.Address),
		Kind:      diagram.EdgeInternal,
		Nodes:     []diagram.NodeID{link.From, link.To},
		Path:      diagram.PathCompound,
		Points:    s.internalPoints(from.Header, to.Header, link.Index),
		Arrowhead: true,
		Address:   link.Address,
	}, true
}

// internalPoints builds quad(start,q1,p1) + line(p1,p2) + quad(p2,q2,end).
// The vertical run sits at runX; each node is treated as a port of radius
// half its header height around the header center.
func (s *Synthesizer) internalPoints(fromRect, toRect geometry.Rect, index int) []geometry.Point {
	fromX, fromY, r := fromRect.CenterX(), fromRect.CenterY(), fromRect.Height/2
	targetX, targetY, rt := toRect.CenterX(), toRect.CenterY(), toRect.Height/2

	dir := 1.0
	if targetY < fromY {
		dir = -1.0
	}
	offset := s.cfg.LoopOffset * (1 + float64(index)*s.cfg.LinkNudge)
	// Bends may not overlap when the two nodes are vertically close
	bend := math.Min(offset, math.Abs(targetY-fromY)/2)

	var start, end geometry.Point
	var runX float64

	switch SelectTemplate(fromX, targetX, s.cfg.Distance) {
	case TemplateClearRight:
		start = geometry.Point{X: fromX + r, Y: fromY}
		runX = start.X + offset
		end = geometry.Point{X: targetX - rt - s.cfg.ArrowOffset, Y: targetY}
	case TemplateTightRight:
		start = geometry.Point{X: fromX - r, Y: fromY}
		runX = math.Min(start.X, targetX-rt) - offset
		end = geometry.Point{X: targetX - rt - s.cfg.ArrowOffset, Y: targetY}
	case TemplateTightLeft:
		start = geometry.Point{X: fromX + r, Y: fromY}
		runX = math.Max(start.X, targetX+rt) + offset
		end = geometry.Point{X: targetX + rt + s.cfg.ArrowOffset, Y: targetY}
	default:
		start = geometry.Point{X: fromX - r, Y: fromY}
		runX = start.X - offset
		end = geometry.Point{X: targetX + rt + s.cfg.ArrowOffset, Y: targetY}
	}

	return []geometry.Point{
		start,
		{X: runX, Y: fromY},
		{X: runX, Y: fromY + dir*bend},
		{X: runX, Y: targetY - dir*bend},
		{X: runX, Y: targetY},
		end,
	}
}
