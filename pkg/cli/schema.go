package cli

import (
	"fmt"

	"github.com/dshills/flowroute/pkg/diagram"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the geometry event JSON schema",
		Long: `Print the JSON schema every geometry event must satisfy.

check validates --events against this schema before applying them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(diagram.EventSchema()))
			return nil
		},
	}
}
