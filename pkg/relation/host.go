package relation

import "github.com/dshills/flowroute/pkg/diagram"

// EndpointKind classifies a node by the host's domain rules.
type EndpointKind int

const (
	// EndpointNone is a plain internal step.
	EndpointNone EndpointKind = iota
	// EndpointIncoming consumes from a source outside the diagram.
	EndpointIncoming
	// EndpointOutgoing produces to a destination outside the diagram.
	EndpointOutgoing
)

// String returns the protocol name of the kind
func (k EndpointKind) String() string {
	switch k {
	case EndpointIncoming:
		return "incoming"
	case EndpointOutgoing:
		return "outgoing"
	default:
		return "none"
	}
}

// Host supplies the facts the classifier cannot derive from geometry alone.
// They encode business rules owned by the flow model.
type Host interface {
	// EndpointKind classifies a node as none, incoming or outgoing.
	EndpointKind(g diagram.NodeGeometry) EndpointKind
	// Addresses returns the symbolic addresses a node exposes (incoming) or
	// targets (outgoing). A node may carry more than one.
	Addresses(g diagram.NodeGeometry) []string
	// IsFanOut reports whether the node's children are parallel branches.
	IsFanOut(id diagram.NodeID) bool
}

// StaticHost is a Host backed by precomputed maps, for hosts that walk their
// tree once per pass and hand the results over.
type StaticHost struct {
	Endpoints   map[diagram.NodeID]EndpointKind
	AddressesOf map[diagram.NodeID][]string
	FanOutNodes map[diagram.NodeID]bool
}

// NewStaticHost creates an empty StaticHost
func NewStaticHost() *StaticHost {
	return &StaticHost{
		Endpoints:   make(map[diagram.NodeID]EndpointKind),
		AddressesOf: make(map[diagram.NodeID][]string),
		FanOutNodes: make(map[diagram.NodeID]bool),
	}
}

// Incoming marks id as an incoming endpoint exposing addresses
func (h *StaticHost) Incoming(id diagram.NodeID, addresses ...string) *StaticHost {
	h.Endpoints[id] = EndpointIncoming
	h.AddressesOf[id] = addresses
	return h
}

// Outgoing marks id as an outgoing endpoint targeting addresses
func (h *StaticHost) Outgoing(id diagram.NodeID, addresses ...string) *StaticHost {
	h.Endpoints[id] = EndpointOutgoing
	h.AddressesOf[id] = addresses
	return h
}

// FanOut marks id as a fan-out node
func (h *StaticHost) FanOut(id diagram.NodeID) *StaticHost {
	h.FanOutNodes[id] = true
	return h
}

// EndpointKind implements Host
func (h *StaticHost) EndpointKind(g diagram.NodeGeometry) EndpointKind {
	return h.Endpoints[g.ID]
}

// Addresses implements Host
func (h *StaticHost) Addresses(g diagram.NodeGeometry) []string {
	return h.AddressesOf[g.ID]
}

// IsFanOut implements Host
func (h *StaticHost) IsFanOut(id diagram.NodeID) bool {
	return h.FanOutNodes[id]
}
