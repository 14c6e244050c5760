package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewRouteCommand creates the route command
func NewRouteCommand(opts *Options) *cobra.Command {
	var (
		eventsPath string
		flowPath   string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Compute edge descriptors from geometry events",
		Long: `Replay geometry events into a position registry and print the routed edges.

Events are read as a JSON array, an object with an "events" array, or JSON
lines. Without --flow only parent-child edges are drawn; a flow document
supplies endpoint rules and symbolic addresses.

Examples:
  flowroute route --events events.json
  flowroute route --events events.json --flow orders.yaml --format yaml
  cat events.jsonl | flowroute route --events -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(eventsPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context(), opts, data, flowPath)
			if err != nil {
				return err
			}
			res := s.engine.Compute()

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
			case "yaml":
				out, err := yaml.Marshal(res)
				if err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), string(out))
			default:
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "Geometry events file (- for stdin)")
	cmd.Flags().StringVarP(&flowPath, "flow", "f", "", "Flow document with endpoint rules")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")

	return cmd
}
