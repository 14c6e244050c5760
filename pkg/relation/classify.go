// Package relation partitions a registry snapshot into the relation sets the
// path synthesizer draws: parent-child pairs, incoming and outgoing margin
// endpoints, and internal links between nodes sharing a symbolic address.
//
// Every set is re-derived from scratch on each call; nothing is cached
// between passes.
package relation

import (
	"sort"

	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/registry"
)

// ParentChildMode selects the anchor of a parent-child edge.
type ParentChildMode int

const (
	// ModeParent draws from the parent itself.
	ModeParent ParentChildMode = iota
	// ModeSibling chains from the previous sibling in the steps collection.
	ModeSibling
)

// ParentChild is drawn while both Child and Parent are mounted.
type ParentChild struct {
	Child  diagram.NodeID
	Parent diagram.NodeID
	// From is the anchor node: Parent in ModeParent, the previous sibling in ModeSibling
	From diagram.NodeID
	Mode ParentChildMode
	// FromHasChildren tells the synthesizer to anchor on From's body instead
	// of its header. Only set in ModeSibling; parent edges always leave the body.
	FromHasChildren bool
}

// Endpoint is a node connected to an unseen source or destination.
type Endpoint struct {
	Node diagram.NodeID
	// Ordinal is the dense, zero-based rank in vertical order
	Ordinal int
	// Ordinate is the vertical position of the margin port
	Ordinate float64
}

// InternalLink connects two visible nodes that share an address.
type InternalLink struct {
	From    diagram.NodeID
	To      diagram.NodeID
	Address string
	// Index ranks the link among links sharing the same From node
	Index int
}

// Ambiguity records outgoing nodes that claimed an address already matched
// by an earlier outgoing node. Only Winner gets a link.
type Ambiguity struct {
	Address string
	Winner  diagram.NodeID
	Losers  []diagram.NodeID
}

// Set holds every relation derived from one snapshot.
type Set struct {
	ParentChild []ParentChild
	Incoming    []Endpoint
	Outgoing    []Endpoint
	Internal    []InternalLink
	Ambiguous   []Ambiguity
}

// Len returns the total number of drawable relations
func (s Set) Len() int {
	return len(s.ParentChild) + len(s.Incoming) + len(s.Outgoing) + len(s.Internal)
}

// References reports whether any relation mentions id
func (s Set) References(id diagram.NodeID) bool {
	for _, pc := range s.ParentChild {
		if pc.Child == id || pc.Parent == id || pc.From == id {
			return true
		}
	}
	for _, ep := range s.Incoming {
		if ep.Node == id {
			return true
		}
	}
	for _, ep := range s.Outgoing {
		if ep.Node == id {
			return true
		}
	}
	for _, link := range s.Internal {
		if link.From == id || link.To == id {
			return true
		}
	}
	return false
}

// Classify derives all relation sets from snap using the host's domain facts.
func Classify(snap registry.Snapshot, host Host) Set {
	nodes := snap.Nodes()

	set := Set{
		ParentChild: classifyParentChild(snap, nodes, host),
		Incoming:    make([]Endpoint, 0),
		Outgoing:    make([]Endpoint, 0),
		Internal:    make([]InternalLink, 0),
		Ambiguous:   make([]Ambiguity, 0),
	}

	var incoming, outgoing []diagram.NodeGeometry
	for _, g := range nodes {
		switch host.EndpointKind(g) {
		case EndpointIncoming:
			incoming = append(incoming, g)
		case EndpointOutgoing:
			outgoing = append(outgoing, g)
		}
	}

	m := matchAddresses(incoming, outgoing, host)
	set.Internal = m.links
	set.Ambiguous = m.ambiguous

	set.Incoming = rankEndpoints(filterExternal(incoming, m.addresses, m.matchedIn))
	set.Outgoing = rankEndpoints(filterExternal(outgoing, m.addresses, m.resolvedOut))
	return set
}

// classifyParentChild emits one relation per child whose parent is mounted
func classifyParentChild(snap registry.Snapshot, nodes []diagram.NodeGeometry, host Host) []ParentChild {
	childCount := make(map[diagram.NodeID]int)
	siblings := make(map[diagram.NodeID]map[int]diagram.NodeID)
	for _, g := range nodes {
		if !g.HasParent() {
			continue
		}
		childCount[g.ParentID]++
		if !g.InCollection {
			continue
		}
		if siblings[g.ParentID] == nil {
			siblings[g.ParentID] = make(map[int]diagram.NodeID)
		}
		// First node claiming a position keeps it
		if _, taken := siblings[g.ParentID][g.CollectionIndex]; !taken {
			siblings[g.ParentID][g.CollectionIndex] = g.ID
		}
	}

	relations := make([]ParentChild, 0)
	for _, g := range nodes {
		if !g.HasParent() || !snap.Has(g.ParentID) {
			// Parent not mounted yet; the next pass draws the edge
			continue
		}

		rel := ParentChild{Child: g.ID, Parent: g.ParentID, From: g.ParentID, Mode: ModeParent}
		if g.InCollection && !g.IsFirstInCollection() && !host.IsFanOut(g.ParentID) {
			prev, ok := siblings[g.ParentID][g.CollectionIndex-1]
			if !ok {
				continue
			}
			rel.From = prev
			rel.Mode = ModeSibling
			rel.FromHasChildren = childCount[prev] > 0
		}
		relations = append(relations, rel)
	}
	return relations
}

type addressMatch struct {
	links     []InternalLink
	ambiguous []Ambiguity
	// addresses caches host.Addresses per endpoint candidate, deduplicated
	addresses map[diagram.NodeID][]string
	// resolvedOut marks outgoing addresses that found a visible counterpart
	resolvedOut map[diagram.NodeID]map[string]bool
	// matchedIn marks incoming addresses claimed by an outgoing node
	matchedIn map[diagram.NodeID]map[string]bool
}

// matchAddresses pairs outgoing addresses with incoming ones.
// Outgoing candidates are visited in snapshot order and the first one to
// claim an address wins; later claimants are reported as ambiguous.
func matchAddresses(incoming, outgoing []diagram.NodeGeometry, host Host) addressMatch {
	m := addressMatch{
		links:       make([]InternalLink, 0),
		ambiguous:   make([]Ambiguity, 0),
		addresses:   make(map[diagram.NodeID][]string),
		resolvedOut: make(map[diagram.NodeID]map[string]bool),
		matchedIn:   make(map[diagram.NodeID]map[string]bool),
	}

	incomingByAddress := make(map[string]diagram.NodeID)
	for _, g := range incoming {
		addrs := uniqueAddresses(host.Addresses(g))
		m.addresses[g.ID] = addrs
		for _, addr := range addrs {
			if _, exists := incomingByAddress[addr]; !exists {
				incomingByAddress[addr] = g.ID
			}
		}
	}

	claimed := make(map[string]diagram.NodeID)
	ambiguityIndex := make(map[string]int)
	linkIndex := make(map[diagram.NodeID]int)

	for _, g := range outgoing {
		addrs := uniqueAddresses(host.Addresses(g))
		m.addresses[g.ID] = addrs
		for _, addr := range addrs {
			target, ok := incomingByAddress[addr]
			if !ok || target == g.ID {
				continue
			}
			// Losing claimants count as resolved too, so they get
			// neither a link nor an outgoing stub. They surface only
			// through Ambiguous.
			mark(m.resolvedOut, g.ID, addr)

			if winner, taken := claimed[addr]; taken {
				idx, seen := ambiguityIndex[addr]
				if !seen {
					idx = len(m.ambiguous)
					ambiguityIndex[addr] = idx
					m.ambiguous = append(m.ambiguous, Ambiguity{Address: addr, Winner: winner})
				}
				m.ambiguous[idx].Losers = append(m.ambiguous[idx].Losers, g.ID)
				continue
			}

			claimed[addr] = g.ID
			mark(m.matchedIn, target, addr)
			m.links = append(m.links, InternalLink{
				From:    g.ID,
				To:      target,
				Address: addr,
				Index:   linkIndex[g.ID],
			})
			linkIndex[g.ID]++
		}
	}
	return m
}

// filterExternal keeps nodes with no address or at least one address that
// stayed unresolved
func filterExternal(nodes []diagram.NodeGeometry, addresses map[diagram.NodeID][]string, resolved map[diagram.NodeID]map[string]bool) []diagram.NodeGeometry {
	kept := make([]diagram.NodeGeometry, 0, len(nodes))
	for _, g := range nodes {
		addrs := addresses[g.ID]
		if len(addrs) == 0 {
			kept = append(kept, g)
			continue
		}
		for _, addr := range addrs {
			if !resolved[g.ID][addr] {
				kept = append(kept, g)
				break
			}
		}
	}
	return kept
}

// rankEndpoints sorts by header vertical center and assigns dense ordinals
func rankEndpoints(nodes []diagram.NodeGeometry) []Endpoint {
	sorted := make([]diagram.NodeGeometry, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Header.CenterY() < sorted[j].Header.CenterY()
	})

	endpoints := make([]Endpoint, len(sorted))
	for i, g := range sorted {
		endpoints[i] = Endpoint{Node: g.ID, Ordinal: i, Ordinate: g.Header.CenterY()}
	}
	return endpoints
}

func uniqueAddresses(addrs []string) []string {
	if len(addrs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

func mark(m map[diagram.NodeID]map[string]bool, id diagram.NodeID, addr string) {
	if m[id] == nil {
		m[id] = make(map[string]bool)
	}
	m[id][addr] = true
}
