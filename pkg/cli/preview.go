package cli

import (
	"fmt"

	"github.com/dshills/flowroute/pkg/preview"
	"github.com/spf13/cobra"
)

// NewPreviewCommand creates the preview command
func NewPreviewCommand(opts *Options) *cobra.Command {
	var (
		eventsPath string
		flowPath   string
		plain      bool
		width      int
		height     int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw the routed diagram in the terminal",
		Long: `Draw node headers and routed edges as box-drawing characters.

By default the diagram fills the terminal until a key is pressed. With
--plain it is printed to stdout at --width x --height cells.

Examples:
  flowroute preview --events events.json --flow orders.yaml
  flowroute preview --events events.json --plain --width 100 --height 30`,
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
			nodes := s.engine.Registry().Snapshot().Nodes()

			if plain {
				if width <= 0 || height <= 0 {
					return fmt.Errorf("--width and --height must be positive")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), preview.Render(res, nodes, width, height).String())
				return nil
			}

			return preview.Display(cmd.Context(), func(w, h int) *preview.Buffer {
				return preview.Render(res, nodes, w, h)
			})
		},
	}

	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "Geometry events file (- for stdin)")
	cmd.Flags().StringVarP(&flowPath, "flow", "f", "", "Flow document with endpoint rules")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print to stdout instead of the interactive screen")
	cmd.Flags().IntVar(&width, "width", 80, "Width in cells (with --plain)")
	cmd.Flags().IntVar(&height, "height", 24, "Height in cells (with --plain)")

	return cmd
}
