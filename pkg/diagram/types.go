// Package diagram defines the protocol between a host UI and the routing
// engine: the node geometry reported by mounted nodes, the events that carry
// it, and the edge descriptors handed back to a renderer.
package diagram

import (
	"github.com/dshills/flowroute/pkg/geometry"
	"github.com/google/uuid"
)

// NodeID identifies a step in the flow tree. It is stable across re-renders
// as long as the step is not deleted. The empty NodeID means "no node".
type NodeID string

// DiagramID identifies one engine instance (one open diagram)
type DiagramID string

// NewDiagramID generates a new unique diagram ID
func NewDiagramID() DiagramID {
	return DiagramID(uuid.NewString())
}

// NodeGeometry is the latest known screen geometry of a mounted node together
// with the tree-adjacency facts the host supplies alongside it.
// It is replaced wholesale on every re-render and is comparable with ==.
type NodeGeometry struct {
	// ID is the node identifier
	ID NodeID `json:"id" yaml:"id"`
	// Body is the full footprint including nested children
	Body geometry.Rect `json:"bodyRect" yaml:"bodyRect"`
	// Header is the icon/title region used as the arrow anchor
	Header geometry.Rect `json:"headerRect" yaml:"headerRect"`
	// ParentID is the parent node, empty for roots
	ParentID NodeID `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	// InCollection is true when the node sits inside a "steps" collection
	InCollection bool `json:"isInCollection" yaml:"isInCollection"`
	// CollectionIndex is the zero-based position inside that collection
	CollectionIndex int `json:"positionInCollection" yaml:"positionInCollection"`
	// Selected mirrors the host's selection state
	Selected bool `json:"isSelected" yaml:"isSelected"`
}

// HasParent reports whether the node has a parent in the tree
func (g NodeGeometry) HasParent() bool {
	return g.ParentID != ""
}

// IsFirstInCollection reports whether the node is the first item of a steps collection
func (g NodeGeometry) IsFirstInCollection() bool {
	return g.InCollection && g.CollectionIndex <= 0
}
