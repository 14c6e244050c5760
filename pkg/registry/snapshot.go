package registry

import "github.com/dshills/flowroute/pkg/diagram"

// Snapshot is a read-only view of the registry at one version.
// The zero value is an empty snapshot.
type Snapshot struct {
	nodes   map[diagram.NodeID]diagram.NodeGeometry
	order   []diagram.NodeID
	version uint64
}

// NewSnapshot builds a snapshot directly from geometries, in the given order.
// Later duplicates replace earlier ones without moving them.
func NewSnapshot(geometries ...diagram.NodeGeometry) Snapshot {
	s := Snapshot{
		nodes: make(map[diagram.NodeID]diagram.NodeGeometry, len(geometries)),
		order: make([]diagram.NodeID, 0, len(geometries)),
	}
	for _, g := range geometries {
		if g.ID == "" {
			continue
		}
		if _, exists := s.nodes[g.ID]; !exists {
			s.order = append(s.order, g.ID)
		}
		s.nodes[g.ID] = g
	}
	return s
}

// Get returns the geometry for id
func (s Snapshot) Get(id diagram.NodeID) (diagram.NodeGeometry, bool) {
	g, ok := s.nodes[id]
	return g, ok
}

// Has reports whether id is present
func (s Snapshot) Has(id diagram.NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Len returns the number of geometries
func (s Snapshot) Len() int {
	return len(s.order)
}

// Version returns the registry version the snapshot was taken at
func (s Snapshot) Version() uint64 {
	return s.version
}

// IDs returns node IDs in insertion order
func (s Snapshot) IDs() []diagram.NodeID {
	ids := make([]diagram.NodeID, len(s.order))
	copy(ids, s.order)
	return ids
}

// Nodes returns geometries in insertion order
func (s Snapshot) Nodes() []diagram.NodeGeometry {
	nodes := make([]diagram.NodeGeometry, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// Each calls fn for every geometry in insertion order until fn returns false
func (s Snapshot) Each(fn func(diagram.NodeGeometry) bool) {
	for _, id := range s.order {
		if !fn(s.nodes[id]) {
			return
		}
	}
}
