// Package testutil provides fixtures shared by package tests: a fluent
// builder for node geometries and ready-made diagrams.
package testutil

import (
	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/geometry"
)

// DefaultHeaderSize is the width and height of a header built with At
const DefaultHeaderSize = 40

// NodeBuilder builds a diagram.NodeGeometry.
type NodeBuilder struct {
	g diagram.NodeGeometry
}

// Node starts a builder for id with a 40x40 header at the origin
func Node(id string) *NodeBuilder {
	r := geometry.NewRect(0, 0, DefaultHeaderSize, DefaultHeaderSize)
	return &NodeBuilder{g: diagram.NodeGeometry{ID: diagram.NodeID(id), Body: r, Header: r}}
}

// At places a 40x40 header with its top-left corner at (x, y); the body matches it
func (b *NodeBuilder) At(x, y float64) *NodeBuilder {
	r := geometry.NewRect(x, y, DefaultHeaderSize, DefaultHeaderSize)
	b.g.Header = r
	b.g.Body = r
	return b
}

// CenteredAt places a 40x40 header centered on (cx, cy); the body matches it
func (b *NodeBuilder) CenteredAt(cx, cy float64) *NodeBuilder {
	return b.At(cx-DefaultHeaderSize/2, cy-DefaultHeaderSize/2)
}

// Header overrides the header rectangle
func (b *NodeBuilder) Header(x, y, w, h float64) *NodeBuilder {
	b.g.Header = geometry.NewRect(x, y, w, h)
	return b
}

// Body overrides the body rectangle
func (b *NodeBuilder) Body(x, y, w, h float64) *NodeBuilder {
	b.g.Body = geometry.NewRect(x, y, w, h)
	return b
}

// Parent sets the parent id
func (b *NodeBuilder) Parent(id string) *NodeBuilder {
	b.g.ParentID = diagram.NodeID(id)
	return b
}

// Step marks the node as item index of its parent's steps collection
func (b *NodeBuilder) Step(index int) *NodeBuilder {
	b.g.InCollection = true
	b.g.CollectionIndex = index
	return b
}

// Selected marks the node as selected
func (b *NodeBuilder) Selected() *NodeBuilder {
	b.g.Selected = true
	return b
}

// Build returns the geometry
func (b *NodeBuilder) Build() diagram.NodeGeometry {
	return b.g
}

// Event returns an add event carrying the geometry
func (b *NodeBuilder) Event() diagram.GeometryEvent {
	return diagram.AddEvent(b.g)
}

// SimpleChain returns the three-node chain root → a → b where a and b are
// consecutive items of root's steps collection.
func SimpleChain() []diagram.NodeGeometry {
	return []diagram.NodeGeometry{
		Node("root").Header(80, 0, 40, 40).Body(0, 0, 200, 40).Build(),
		Node("a").At(80, 100).Parent("root").Step(0).Build(),
		Node("b").At(80, 200).Parent("root").Step(1).Build(),
	}
}
