// Package config holds the visual tuning constants of the routing engine.
//
// The values encode visual tuning, not business logic: they can be
// overridden from a YAML file but are never derived at runtime.
package config

import (
	"fmt"
	"os"

	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Reference values
const (
	DefaultGap          = 40.0  // Minimum vertical distance between margin ports
	DefaultDistance     = 100.0 // Horizontal threshold between tight and clear internal-link templates
	DefaultLoopOffset   = 24.0  // Vertical/horizontal bend offset of internal links
	DefaultLinkNudge    = 0.2   // Per-link scale added to LoopOffset for parallel links
	DefaultArrowOffset  = 9.0   // Gap left in front of a target anchor for the arrowhead
	DefaultMarginOffset = 20.0  // Distance of margin ports from the diagram edge
	DefaultFramePadding = 40.0  // Padding around the node bounds when no frame is given
)

// EnvConfigPath names the environment variable that overrides --config
const EnvConfigPath = "FLOWROUTE_CONFIG"

// Routing configures the overlap resolver and the path synthesizer.
type Routing struct {
	Gap          float64 `yaml:"gap"`
	Distance     float64 `yaml:"distance"`
	LoopOffset   float64 `yaml:"loopOffset"`
	LinkNudge    float64 `yaml:"linkNudge"`
	ArrowOffset  float64 `yaml:"arrowOffset"`
	MarginOffset float64 `yaml:"marginOffset"`
	FramePadding float64 `yaml:"framePadding"`
}

// Default returns the reference configuration
func Default() Routing {
	return Routing{
		Gap:          DefaultGap,
		Distance:     DefaultDistance,
		LoopOffset:   DefaultLoopOffset,
		LinkNudge:    DefaultLinkNudge,
		ArrowOffset:  DefaultArrowOffset,
		MarginOffset: DefaultMarginOffset,
		FramePadding: DefaultFramePadding,
	}
}

// Validate checks that every value is usable
func (r Routing) Validate() error {
	checks := []struct {
		name  string
		value float64
		min   float64
		open  bool // value must be strictly greater than min
	}{
		{"gap", r.Gap, 0, true},
		{"distance", r.Distance, 0, true},
		{"loopOffset", r.LoopOffset, 0, true},
		{"linkNudge", r.LinkNudge, 0, false},
		{"arrowOffset", r.ArrowOffset, 0, false},
		{"marginOffset", r.MarginOffset, 0, false},
		{"framePadding", r.FramePadding, 0, false},
	}

	for _, c := range checks {
		if c.open && c.value <= c.min {
			return fmt.Errorf("%s must be greater than %v, got %v: %w", c.name, c.min, c.value, flowerrors.ErrInvalidConfig)
		}
		if !c.open && c.value < c.min {
			return fmt.Errorf("%s must not be negative, got %v: %w", c.name, c.value, flowerrors.ErrInvalidConfig)
		}
	}
	return nil
}

// Parse reads YAML on top of the defaults; absent keys keep their default
func Parse(data []byte) (Routing, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Routing{}, fmt.Errorf("failed to parse routing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Routing{}, err
	}
	return cfg, nil
}

// Load reads a YAML config file. An empty path returns the defaults.
func Load(path string) (Routing, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Routing{}, fmt.Errorf("failed to read routing config: %w", err)
	}
	return Parse(data)
}

// ResolvePath applies the priority order: 1) FLOWROUTE_CONFIG, 2) flag value
func ResolvePath(flagValue string) string {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return flagValue
}

// Marshal renders the configuration as YAML
func (r Routing) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}
