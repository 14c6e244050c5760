package flow

import (
	"fmt"
	"strings"

	"github.com/dshills/flowroute/pkg/diagram"
	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/dshills/flowroute/pkg/relation"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ruleEnv is the environment endpoint rules are evaluated against.
type ruleEnv struct {
	ID       string `expr:"id"`
	Kind     string `expr:"kind"`
	URI      string `expr:"uri"`
	Scheme   string `expr:"scheme"`
	Path     string `expr:"path"`
	Internal bool   `expr:"internal"`
}

// Host implements relation.Host over a flow document.
// Node ids of geometry events are step ids.
type Host struct {
	steps    map[diagram.NodeID]Step
	order    []diagram.NodeID
	fanOut   map[string]bool
	schemes  map[string]bool
	incoming *vm.Program
	outgoing *vm.Program
}

var _ relation.Host = (*Host)(nil)

// NewHost compiles the document's rules
func NewHost(doc *Document) (*Host, error) {
	h := &Host{
		steps:   make(map[diagram.NodeID]Step, len(doc.Steps)),
		order:   make([]diagram.NodeID, 0, len(doc.Steps)),
		fanOut:  toSet(doc.FanOutKinds),
		schemes: make(map[string]bool, len(doc.InternalSchemes)),
	}
	for _, s := range doc.Steps {
		id := diagram.NodeID(s.ID)
		if _, dup := h.steps[id]; !dup {
			h.order = append(h.order, id)
		}
		h.steps[id] = s
	}
	for _, scheme := range doc.InternalSchemes {
		h.schemes[strings.ToLower(scheme)] = true
	}

	programCache := make(map[string]*vm.Program)
	var err error
	if h.incoming, err = compileRule(programCache, "incoming", doc.Rules.Incoming); err != nil {
		return nil, err
	}
	if h.outgoing, err = compileRule(programCache, "outgoing", doc.Rules.Outgoing); err != nil {
		return nil, err
	}
	return h, nil
}

func compileRule(cache map[string]*vm.Program, name, source string) (*vm.Program, error) {
	if program, ok := cache[source]; ok {
		return program, nil
	}
	program, err := expr.Compile(source, expr.Env(ruleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s rule: %v: %w", name, err, flowerrors.ErrInvalidFlow)
	}
	cache[source] = program
	return program, nil
}

// EndpointKind evaluates the incoming rule first, then the outgoing rule.
// Unknown nodes and rule evaluation failures classify as EndpointNone; use
// Check to surface evaluation failures.
func (h *Host) EndpointKind(g diagram.NodeGeometry) relation.EndpointKind {
	kind, _ := h.classify(g.ID)
	return kind
}

func (h *Host) classify(id diagram.NodeID) (relation.EndpointKind, error) {
	step, ok := h.steps[id]
	if !ok {
		return relation.EndpointNone, nil
	}
	env := h.envFor(step)

	in, err := runRule(h.incoming, env)
	if err != nil {
		return relation.EndpointNone, fmt.Errorf("step %q: incoming rule: %w", step.ID, err)
	}
	if in {
		return relation.EndpointIncoming, nil
	}

	out, err := runRule(h.outgoing, env)
	if err != nil {
		return relation.EndpointNone, fmt.Errorf("step %q: outgoing rule: %w", step.ID, err)
	}
	if out {
		return relation.EndpointOutgoing, nil
	}
	return relation.EndpointNone, nil
}

func runRule(program *vm.Program, env ruleEnv) (bool, error) {
	result, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("rule returned %T, expected bool", result)
	}
	return b, nil
}

// envFor describes a step by its first URI
func (h *Host) envFor(step Step) ruleEnv {
	env := ruleEnv{ID: step.ID, Kind: step.Kind}
	if uris := step.AllURIs(); len(uris) > 0 {
		env.URI = uris[0]
		env.Scheme, env.Path = SplitURI(uris[0])
		env.Internal = h.schemes[env.Scheme]
	}
	return env
}

// Addresses returns the normalized scheme:path of every internal-scheme URI
// of the step. External URIs carry no address.
func (h *Host) Addresses(g diagram.NodeGeometry) []string {
	step, ok := h.steps[g.ID]
	if !ok {
		return nil
	}
	var out []string
	for _, uri := range step.AllURIs() {
		scheme, path := SplitURI(uri)
		if !h.schemes[scheme] || path == "" {
			continue
		}
		out = append(out, scheme+":"+path)
	}
	return out
}

// IsFanOut reports whether the step's kind is a fan-out kind
func (h *Host) IsFanOut(id diagram.NodeID) bool {
	step, ok := h.steps[id]
	return ok && h.fanOut[step.Kind]
}

// Check evaluates both rules against every step in document order and
// returns the first error
func (h *Host) Check() error {
	for _, id := range h.order {
		if _, err := h.classify(id); err != nil {
			return err
		}
	}
	return nil
}

// SplitURI returns the lower-cased scheme and the path of uri with any
// authority slashes and query string removed. "direct://a?x=1" yields
// ("direct", "a").
func SplitURI(uri string) (scheme, path string) {
	uri = strings.TrimSpace(uri)
	scheme, rest, found := strings.Cut(uri, ":")
	if !found {
		return "", ""
	}
	rest = strings.TrimPrefix(rest, "//")
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(scheme), rest
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
