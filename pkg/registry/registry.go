// Package registry implements the position registry: an id-keyed store of
// the latest known geometry of every visible node, fed by geometry events.
//
// The registry is a last-write-wins map, so events of one render pass may
// arrive in any order. Readers work on immutable snapshots and never observe
// a partially applied mutation.
package registry

import (
	"fmt"
	"sync"

	"github.com/dshills/flowroute/pkg/diagram"
	flowerrors "github.com/dshills/flowroute/pkg/errors"
)

// Change describes one effective registry mutation.
type Change struct {
	// Kind is EventAdd for upserts, EventDelete for removals, EventClean for clears
	Kind diagram.EventKind
	// ID is the affected node; empty for EventClean
	ID diagram.NodeID
	// Version is the registry version after the mutation
	Version uint64
}

// Listener is notified synchronously after every effective mutation.
type Listener func(Change)

// subscription represents a single change subscriber.
type subscription struct {
	id uint64
	fn Listener
}

// Registry stores NodeGeometry by NodeID.
// Iteration order is insertion order; overwriting an entry keeps its position.
type Registry struct {
	mu        sync.RWMutex
	nodes     map[diagram.NodeID]diagram.NodeGeometry
	order     []diagram.NodeID
	version   uint64
	subs      []subscription
	nextSubID uint64
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		nodes: make(map[diagram.NodeID]diagram.NodeGeometry),
		order: make([]diagram.NodeID, 0),
	}
}

// Upsert inserts or replaces the geometry stored for g.ID.
// An empty ID is rejected with ErrInvalidArgument. Upserting a geometry equal
// to the stored one changes nothing and notifies nobody.
func (r *Registry) Upsert(g diagram.NodeGeometry) error {
	if g.ID == "" {
		return fmt.Errorf("upsert with empty node id: %w", flowerrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	existing, exists := r.nodes[g.ID]
	if exists && existing == g {
		r.mu.Unlock()
		return nil
	}
	if !exists {
		r.order = append(r.order, g.ID)
	}
	r.nodes[g.ID] = g
	r.version++
	change := Change{Kind: diagram.EventAdd, ID: g.ID, Version: r.version}
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, change)
	return nil
}

// Remove deletes the geometry stored for id. Removing an absent id is a no-op.
func (r *Registry) Remove(id diagram.NodeID) {
	r.mu.Lock()
	if _, exists := r.nodes[id]; !exists {
		r.mu.Unlock()
		return
	}
	delete(r.nodes, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.version++
	change := Change{Kind: diagram.EventDelete, ID: id, Version: r.version}
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, change)
}

// Clear empties the registry. Used when a diagram is torn down or rebuilt.
func (r *Registry) Clear() {
	r.mu.Lock()
	if len(r.nodes) == 0 {
		r.mu.Unlock()
		return
	}
	r.nodes = make(map[diagram.NodeID]diagram.NodeGeometry)
	r.order = make([]diagram.NodeID, 0)
	r.version++
	change := Change{Kind: diagram.EventClean, Version: r.version}
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, change)
}

// Apply dispatches a geometry event to Upsert, Remove or Clear
func (r *Registry) Apply(ev diagram.GeometryEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	switch ev.Kind {
	case diagram.EventAdd:
		return r.Upsert(ev.Geometry())
	case diagram.EventDelete:
		r.Remove(ev.ID)
	case diagram.EventClean:
		r.Clear()
	}
	return nil
}

// ApplyAll applies events in order and stops at the first invalid one.
// Events before the failing one stay applied.
func (r *Registry) ApplyAll(events []diagram.GeometryEvent) error {
	for i, ev := range events {
		if err := r.Apply(ev); err != nil {
			return fmt.Errorf("event %d (%s %s): %w", i, ev.Kind, ev.ID, err)
		}
	}
	return nil
}

// Get returns the geometry stored for id
func (r *Registry) Get(id diagram.NodeID) (diagram.NodeGeometry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.nodes[id]
	return g, ok
}

// Len returns the number of stored geometries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Version returns a counter incremented by every effective mutation
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Snapshot returns an immutable copy of the current state
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make(map[diagram.NodeID]diagram.NodeGeometry, len(r.nodes))
	for id, g := range r.nodes {
		nodes[id] = g
	}
	order := make([]diagram.NodeID, len(r.order))
	copy(order, r.order)

	return Snapshot{nodes: nodes, order: order, version: r.version}
}

// Subscribe registers fn for change notifications (push-on-write).
// The returned function removes the subscription.
func (r *Registry) Subscribe(fn Listener) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSubID++
	id := r.nextSubID
	r.subs = append(r.subs, subscription{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, sub := range r.subs {
			if sub.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// listenersLocked copies the subscriber list (caller must hold lock)
func (r *Registry) listenersLocked() []Listener {
	if len(r.subs) == 0 {
		return nil
	}
	listeners := make([]Listener, len(r.subs))
	for i, sub := range r.subs {
		listeners[i] = sub.fn
	}
	return listeners
}

// notify runs outside the lock so listeners may read the registry
func notify(listeners []Listener, change Change) {
	for _, fn := range listeners {
		fn(change)
	}
}
