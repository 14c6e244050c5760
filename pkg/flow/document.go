// Package flow provides a relation.Host backed by a YAML flow document.
//
// A flow document lists the steps of an integration route and the symbolic
// addresses they consume from or produce to. Endpoint classification is
// driven by expression rules so hosts can adapt it without code changes.
package flow

import (
	"fmt"
	"os"

	"github.com/dshills/flowroute/pkg/diagram"
	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default rule sources
const (
	DefaultIncomingRule = `kind == "from"`
	DefaultOutgoingRule = `kind in ["to", "toD", "wireTap", "enrich", "recipientList"]`
)

// DefaultFanOutKinds are step kinds whose children are parallel branches
var DefaultFanOutKinds = []string{"choice", "multicast"}

// DefaultInternalSchemes are URI schemes that address other routes of the
// same diagram
var DefaultInternalSchemes = []string{"direct", "seda", "vm"}

// Step is one node of the flow.
type Step struct {
	ID   string   `yaml:"id"`
	Kind string   `yaml:"kind"`
	URI  string   `yaml:"uri,omitempty"`
	URIs []string `yaml:"uris,omitempty"`
}

// AllURIs returns URI followed by URIs, skipping empty entries
func (s Step) AllURIs() []string {
	out := make([]string, 0, len(s.URIs)+1)
	if s.URI != "" {
		out = append(out, s.URI)
	}
	for _, u := range s.URIs {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Rules holds expression overrides for endpoint classification.
type Rules struct {
	Incoming string `yaml:"incoming,omitempty"`
	Outgoing string `yaml:"outgoing,omitempty"`
}

// Document is a parsed flow file.
type Document struct {
	Name            string   `yaml:"name"`
	FanOutKinds     []string `yaml:"fanOutKinds,omitempty"`
	InternalSchemes []string `yaml:"internalSchemes,omitempty"`
	Rules           Rules    `yaml:"rules,omitempty"`
	Steps           []Step   `yaml:"steps"`
}

// Parse decodes and validates a flow document, filling in defaults
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse flow: %v: %w", err, flowerrors.ErrInvalidFlow)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a flow document from path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	return Parse(data)
}

func (d *Document) applyDefaults() {
	if len(d.FanOutKinds) == 0 {
		d.FanOutKinds = append([]string(nil), DefaultFanOutKinds...)
	}
	if len(d.InternalSchemes) == 0 {
		d.InternalSchemes = append([]string(nil), DefaultInternalSchemes...)
	}
	if d.Rules.Incoming == "" {
		d.Rules.Incoming = DefaultIncomingRule
	}
	if d.Rules.Outgoing == "" {
		d.Rules.Outgoing = DefaultOutgoingRule
	}
}

// Validate checks step identity
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Steps))
	for i, s := range d.Steps {
		if s.ID == "" {
			return fmt.Errorf("step %d: missing id: %w", i, flowerrors.ErrInvalidFlow)
		}
		if s.Kind == "" {
			return fmt.Errorf("step %q: missing kind: %w", s.ID, flowerrors.ErrInvalidFlow)
		}
		if seen[s.ID] {
			return fmt.Errorf("step %q: duplicate id: %w", s.ID, flowerrors.ErrInvalidFlow)
		}
		seen[s.ID] = true
	}
	return nil
}

// Step returns the step with the given node id
func (d *Document) Step(id diagram.NodeID) (Step, bool) {
	for _, s := range d.Steps {
		if s.ID == string(id) {
			return s, true
		}
	}
	return Step{}, false
}
