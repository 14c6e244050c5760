package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command
func NewConfigCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective routing configuration",
		Long: `Print the routing constants in effect after applying --config or
FLOWROUTE_CONFIG on top of the defaults.

The output is valid input for --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.routing.Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
