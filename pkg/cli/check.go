package cli

import (
	"fmt"

	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command
func NewCheckCommand(opts *Options) *cobra.Command {
	var (
		eventsPath string
		flowPath   string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate geometry events and summarise relations",
		Long: `Validate every geometry event against the event schema, replay them and
report what the classifier derives.

This checks:
- Event structure (schema)
- Event semantics (kinds, node ids)
- Flow endpoint rules (with --flow)
- Addresses claimed by more than one outgoing step

Examples:
  flowroute check --events events.json
  flowroute check --events events.json --flow orders.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			data, err := readInput(eventsPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if err := diagram.ValidateEventJSON(data); err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "✗ Event schema validation failed")
				return err
			}
			_, _ = fmt.Fprintln(out, "✓ Events match schema")

			s, err := newSession(cmd.Context(), opts, data, flowPath)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "✗ Events could not be applied")
				return err
			}
			_, _ = fmt.Fprintf(out, "✓ %d events applied\n", len(s.events))

			if s.flow != nil {
				if err := s.flow.Check(); err != nil {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "✗ Flow rules failed")
					return err
				}
				_, _ = fmt.Fprintln(out, "✓ Flow rules evaluate")
			}

			res := s.engine.Compute()
			st := res.Stats
			_, _ = fmt.Fprintf(out, "\nNodes:        %d\n", st.Nodes)
			_, _ = fmt.Fprintf(out, "Parent-child: %d\n", st.ParentChild)
			_, _ = fmt.Fprintf(out, "Incoming:     %d\n", st.Incoming)
			_, _ = fmt.Fprintf(out, "Outgoing:     %d\n", st.Outgoing)
			_, _ = fmt.Fprintf(out, "Internal:     %d\n", st.Internal)
			_, _ = fmt.Fprintf(out, "Edges:        %d\n", len(res.Edges))

			for _, amb := range res.Relations.Ambiguous {
				for _, loser := range amb.Losers {
					_, _ = fmt.Fprintf(out, "⚠ %s also claimed by %s (linked from %s)\n", amb.Address, loser, amb.Winner)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "Geometry events file (- for stdin)")
	cmd.Flags().StringVarP(&flowPath, "flow", "f", "", "Flow document with endpoint rules")

	return cmd
}
