// Package engine orchestrates one routing pass: registry snapshot →
// relation classification → margin de-overlapping → path synthesis.
//
// The engine is synchronous and never starts goroutines. Watch turns every
// effective registry mutation into a fresh pass pushed to the caller.
package engine

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/dshills/flowroute/pkg/config"
	"github.com/dshills/flowroute/pkg/diagram"
	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/dshills/flowroute/pkg/geometry"
	"github.com/dshills/flowroute/pkg/overlap"
	"github.com/dshills/flowroute/pkg/registry"
	"github.com/dshills/flowroute/pkg/relation"
	"github.com/dshills/flowroute/pkg/route"
)

// Stats summarises one pass for logging.
type Stats struct {
	Nodes       int `json:"nodes" yaml:"nodes"`
	ParentChild int `json:"parentChild" yaml:"parentChild"`
	Incoming    int `json:"incoming" yaml:"incoming"`
	Outgoing    int `json:"outgoing" yaml:"outgoing"`
	Internal    int `json:"internal" yaml:"internal"`
	Ambiguous   int `json:"ambiguous" yaml:"ambiguous"`
	// Moved counts margin ports shifted by the overlap resolver
	Moved int `json:"moved" yaml:"moved"`
	// Skipped counts relations dropped for missing geometry
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Result is the output of one pass.
type Result struct {
	DiagramID diagram.DiagramID        `json:"diagramId" yaml:"diagramId"`
	Version   uint64                   `json:"version" yaml:"version"`
	Frame     geometry.Rect            `json:"frame" yaml:"frame"`
	Edges     []diagram.EdgeDescriptor `json:"edges" yaml:"edges"`
	Relations relation.Set             `json:"-" yaml:"-"`
	Stats     Stats                    `json:"stats" yaml:"stats"`
}

// Edge returns the descriptor with the given id
func (r Result) Edge(id string) (diagram.EdgeDescriptor, bool) {
	for _, e := range r.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return diagram.EdgeDescriptor{}, false
}

// EdgesOf returns the descriptors of one kind, in emission order
func (r Result) EdgesOf(kind diagram.EdgeKind) []diagram.EdgeDescriptor {
	out := make([]diagram.EdgeDescriptor, 0)
	for _, e := range r.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the routing constants
func WithConfig(cfg config.Routing) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFrame fixes the diagram frame instead of deriving it from node bounds
func WithFrame(frame geometry.Rect) Option {
	return func(e *Engine) {
		e.frame = &frame
	}
}

// WithDiagramID sets the id reported in results and errors
func WithDiagramID(id diagram.DiagramID) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// Engine computes edges for the nodes held by a registry.
type Engine struct {
	id     diagram.DiagramID
	reg    *registry.Registry
	host   relation.Host
	cfg    config.Routing
	frame  *geometry.Rect
	logger *log.Logger
	synth  *route.Synthesizer
}

// New creates an engine over reg using host for domain facts
func New(reg *registry.Registry, host relation.Host, opts ...Option) *Engine {
	e := &Engine{
		id:     diagram.NewDiagramID(),
		reg:    reg,
		host:   host,
		cfg:    config.Default(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.synth = route.New(e.cfg)
	e.logger = e.logger.With("diagram", string(e.id))
	return e
}

// ID returns the diagram id
func (e *Engine) ID() diagram.DiagramID {
	return e.id
}

// Registry returns the underlying registry
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Apply feeds geometry events into the registry.
// Failures are reported as *errors.OperationalError naming the offending node.
func (e *Engine) Apply(events ...diagram.GeometryEvent) error {
	for i, ev := range events {
		if err := e.reg.Apply(ev); err != nil {
			return flowerrors.NewOperationalErrorWithAttrs("apply", string(e.id), string(ev.ID), err, map[string]interface{}{
				"index": i,
				"kind":  string(ev.Kind),
			})
		}
	}
	return nil
}

// Compute runs one pass over the current registry contents.
func (e *Engine) Compute() Result {
	return e.computeSnapshot(e.reg.Snapshot())
}

// Watch calls fn with a fresh Result after every effective registry
// mutation. The returned function stops the watch.
func (e *Engine) Watch(fn func(Result)) (cancel func()) {
	return e.reg.Subscribe(func(registry.Change) {
		fn(e.Compute())
	})
}

func (e *Engine) computeSnapshot(snap registry.Snapshot) Result {
	set := relation.Classify(snap, e.host)
	frame := e.frameOf(snap)

	var moved int
	set.Incoming, moved = e.resolve(set.Incoming)
	stats := Stats{Moved: moved}
	set.Outgoing, moved = e.resolve(set.Outgoing)
	stats.Moved += moved

	edges := make([]diagram.EdgeDescriptor, 0, set.Len())
	keep := func(d diagram.EdgeDescriptor, ok bool) {
		if !ok {
			stats.Skipped++
			return
		}
		edges = append(edges, d)
	}

	routeFrame := route.FrameOf(frame)
	for _, rel := range set.ParentChild {
		keep(e.synth.ParentChild(rel, snap))
	}
	for _, ep := range set.Incoming {
		keep(e.synth.Incoming(ep, snap, routeFrame))
	}
	for _, ep := range set.Outgoing {
		keep(e.synth.Outgoing(ep, snap, routeFrame))
	}
	for _, link := range set.Internal {
		keep(e.synth.Internal(link, snap))
	}

	stats.Nodes = snap.Len()
	stats.ParentChild = len(set.ParentChild)
	stats.Incoming = len(set.Incoming)
	stats.Outgoing = len(set.Outgoing)
	stats.Internal = len(set.Internal)
	stats.Ambiguous = len(set.Ambiguous)

	for _, amb := range set.Ambiguous {
		e.logger.Warn("ambiguous address", "address", amb.Address, "winner", string(amb.Winner), "losers", len(amb.Losers))
	}
	e.logger.Debug("routing pass",
		"version", snap.Version(),
		"nodes", stats.Nodes,
		"edges", len(edges),
		"moved", stats.Moved,
		"skipped", stats.Skipped,
	)

	return Result{
		DiagramID: e.id,
		Version:   snap.Version(),
		Frame:     frame,
		Edges:     edges,
		Relations: set,
		Stats:     stats,
	}
}

// resolve spreads endpoint ordinates apart by at least Gap and reports how
// many ports moved
func (e *Engine) resolve(endpoints []relation.Endpoint) ([]relation.Endpoint, int) {
	items := make([]overlap.Item[diagram.NodeID], len(endpoints))
	for i, ep := range endpoints {
		items[i] = overlap.Item[diagram.NodeID]{ID: ep.Node, Ordinate: ep.Ordinate}
	}

	ordinates := overlap.Ordinates(overlap.Resolve(items, e.cfg.Gap))

	out := make([]relation.Endpoint, len(endpoints))
	moved := 0
	for i, ep := range endpoints {
		if ordinates[i] != ep.Ordinate {
			moved++
		}
		ep.Ordinate = ordinates[i]
		out[i] = ep
	}
	return out, moved
}

// frameOf returns the fixed frame or the padded union of all body rects
func (e *Engine) frameOf(snap registry.Snapshot) geometry.Rect {
	if e.frame != nil {
		return *e.frame
	}
	var bounds geometry.Rect
	snap.Each(func(g diagram.NodeGeometry) bool {
		bounds = bounds.Union(g.Body).Union(g.Header)
		return true
	})
	if bounds.IsEmpty() {
		return bounds
	}
	return bounds.Inset(-e.cfg.FramePadding)
}
