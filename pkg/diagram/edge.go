package diagram

import (
	"fmt"

	"github.com/dshills/flowroute/pkg/geometry"
)

// EdgeKind is the relation category an edge was drawn for.
type EdgeKind string

const (
	EdgeParentChild EdgeKind = "parentChild"
	EdgeIncoming    EdgeKind = "incoming"
	EdgeOutgoing    EdgeKind = "outgoing"
	EdgeInternal    EdgeKind = "internal"
)

// PathKind describes how Points must be interpreted.
type PathKind string

const (
	// PathLine is a straight segment: [start, end].
	PathLine PathKind = "line"
	// PathCubic is a cubic bezier: [start, c1, c2, end].
	PathCubic PathKind = "cubic"
	// PathCompound is quadratic + line + quadratic:
	// [start, q1, p1, p2, q2, end] draws quad(start,q1,p1), line(p1,p2), quad(p2,q2,end).
	PathCompound PathKind = "compound"
)

// PointCount returns how many points a path of this kind carries
func (k PathKind) PointCount() int {
	switch k {
	case PathLine:
		return 2
	case PathCubic:
		return 4
	case PathCompound:
		return 6
	}
	return 0
}

// Marker is the circular port drawn at the margin end of a stub edge.
type Marker struct {
	Center geometry.Point `json:"center" yaml:"center"`
	Radius float64        `json:"radius" yaml:"radius"`
}

// EdgeDescriptor is a renderer-agnostic description of one drawn relation.
type EdgeDescriptor struct {
	ID        string           `json:"id" yaml:"id"`
	Kind      EdgeKind         `json:"kind" yaml:"kind"`
	Nodes     []NodeID         `json:"nodes" yaml:"nodes"`
	Path      PathKind         `json:"path" yaml:"path"`
	Points    []geometry.Point `json:"points" yaml:"points"`
	Arrowhead bool             `json:"hasArrowhead" yaml:"hasArrowhead"`
	Marker    *Marker          `json:"marker,omitempty" yaml:"marker,omitempty"`
	Address   string           `json:"address,omitempty" yaml:"address,omitempty"`
}

// Start returns the first point of the path
func (d EdgeDescriptor) Start() geometry.Point {
	if len(d.Points) == 0 {
		return geometry.Point{}
	}
	return d.Points[0]
}

// End returns the last point of the path
func (d EdgeDescriptor) End() geometry.Point {
	if len(d.Points) == 0 {
		return geometry.Point{}
	}
	return d.Points[len(d.Points)-1]
}

// ParentChildEdgeID returns the descriptor ID for the edge leading into child
func ParentChildEdgeID(child NodeID) string {
	return fmt.Sprintf("%s:%s", EdgeParentChild, child)
}

// IncomingEdgeID returns the descriptor ID for an incoming stub
func IncomingEdgeID(node NodeID) string {
	return fmt.Sprintf("%s:%s", EdgeIncoming, node)
}

// OutgoingEdgeID returns the descriptor ID for an outgoing stub
func OutgoingEdgeID(node NodeID) string {
	return fmt.Sprintf("%s:%s", EdgeOutgoing, node)
}

// InternalEdgeID returns the descriptor ID for an internal link
func InternalEdgeID(from, to NodeID, address string) string {
	return fmt.Sprintf("%s:%s->%s#%s", EdgeInternal, from, to, address)
}
