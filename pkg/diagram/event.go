package diagram

import (
	"fmt"

	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/dshills/flowroute/pkg/geometry"
)

// EventKind categorizes geometry events.
type EventKind string

const (
	// EventAdd is emitted once per mounted or updated node per render pass.
	EventAdd EventKind = "add"
	// EventDelete is emitted when a node unmounts or leaves the tree.
	EventDelete EventKind = "delete"
	// EventClean is emitted when the whole diagram is torn down.
	EventClean EventKind = "clean"
)

// IsValid reports whether k is one of the known event kinds
func (k EventKind) IsValid() bool {
	switch k {
	case EventAdd, EventDelete, EventClean:
		return true
	}
	return false
}

// GeometryEvent is the message a node uses to report its own geometry.
type GeometryEvent struct {
	Kind                 EventKind     `json:"kind" yaml:"kind"`
	ID                   NodeID        `json:"id,omitempty" yaml:"id,omitempty"`
	ParentID             NodeID        `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Body                 geometry.Rect `json:"bodyRect" yaml:"bodyRect"`
	Header               geometry.Rect `json:"headerRect" yaml:"headerRect"`
	PositionInCollection int           `json:"positionInCollection" yaml:"positionInCollection"`
	InCollection         bool          `json:"isInCollection" yaml:"isInCollection"`
	Selected             bool          `json:"isSelected" yaml:"isSelected"`
}

// AddEvent builds an add event carrying g
func AddEvent(g NodeGeometry) GeometryEvent {
	return GeometryEvent{
		Kind:                 EventAdd,
		ID:                   g.ID,
		ParentID:             g.ParentID,
		Body:                 g.Body,
		Header:               g.Header,
		PositionInCollection: g.CollectionIndex,
		InCollection:         g.InCollection,
		Selected:             g.Selected,
	}
}

// DeleteEvent builds a delete event for id
func DeleteEvent(id NodeID) GeometryEvent {
	return GeometryEvent{Kind: EventDelete, ID: id}
}

// CleanEvent builds a clean event
func CleanEvent() GeometryEvent {
	return GeometryEvent{Kind: EventClean}
}

// Geometry converts the event payload into a NodeGeometry
func (e GeometryEvent) Geometry() NodeGeometry {
	return NodeGeometry{
		ID:              e.ID,
		Body:            e.Body,
		Header:          e.Header,
		ParentID:        e.ParentID,
		InCollection:    e.InCollection,
		CollectionIndex: e.PositionInCollection,
		Selected:        e.Selected,
	}
}

// Validate checks the event against the protocol contract.
// add and delete events need an ID; clean events carry none.
func (e GeometryEvent) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("unknown event kind %q: %w", e.Kind, flowerrors.ErrInvalidEvent)
	}
	if e.Kind != EventClean && e.ID == "" {
		return fmt.Errorf("%s event without node id: %w", e.Kind, flowerrors.ErrInvalidArgument)
	}
	return nil
}
