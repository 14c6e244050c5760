package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/dshills/flowroute/pkg/engine"
	"github.com/dshills/flowroute/pkg/flow"
	"github.com/dshills/flowroute/pkg/registry"
	"github.com/dshills/flowroute/pkg/relation"
)

// readInput reads path, or stdin when path is "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no events file given (use --events, or - for stdin)")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read events from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}
	return data, nil
}

// loadHost builds the flow host, or an empty host when no flow is given.
// Without a flow every node is a plain step and only parent-child edges are drawn.
func loadHost(path string) (relation.Host, *flow.Host, error) {
	if path == "" {
		return relation.NewStaticHost(), nil, nil
	}
	doc, err := flow.Load(path)
	if err != nil {
		return nil, nil, err
	}
	host, err := flow.NewHost(doc)
	if err != nil {
		return nil, nil, err
	}
	return host, host, nil
}

// session is an engine fed from an events file
type session struct {
	engine *engine.Engine
	events []diagram.GeometryEvent
	flow   *flow.Host
}

func newSession(ctx context.Context, opts *Options, data []byte, flowPath string) (*session, error) {
	events, err := diagram.DecodeEvents(data)
	if err != nil {
		return nil, err
	}
	host, flowHost, err := loadHost(flowPath)
	if err != nil {
		return nil, err
	}

	e := engine.New(registry.New(), host,
		engine.WithConfig(opts.routing),
		engine.WithLogger(loggerFromContext(ctx)),
	)
	if err := e.Apply(events...); err != nil {
		return nil, err
	}
	return &session{engine: e, events: events, flow: flowHost}, nil
}
