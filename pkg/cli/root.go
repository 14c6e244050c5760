package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dshills/flowroute/pkg/config"
	"github.com/spf13/cobra"
)

const (
	// Version is the current version of flowroute
	Version = "0.1.0"
)

// Options holds the persistent flags and what PersistentPreRunE derives from them
type Options struct {
	ConfigPath string
	Debug      bool

	routing config.Routing
	logger  *log.Logger
}

// NewRootCommand creates the root cobra command for flowroute
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "flowroute",
		Short: "flowroute - connection routing for flow diagrams",
		Long: `flowroute computes the arrows of a flow diagram from the geometry its nodes report.

It draws parent→child arrows, incoming and outgoing stubs along the diagram
margins, and internal links between steps that share a symbolic address.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Setup logging
			level := log.WarnLevel
			if opts.Debug {
				level = log.DebugLevel
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), level)

			// Environment variable takes priority over --config
			path := config.ResolvePath(opts.ConfigPath)
			routing, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			opts.routing = routing
			if path != "" {
				opts.logger.Debug("loaded routing config", "path", path)
			}

			cmd.SetContext(withLogger(cmd.Context(), opts.logger))
			return nil
		},
	}

	// Persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Routing config file (env: "+config.EnvConfigPath+")")

	// Add subcommands
	cmd.AddCommand(NewRouteCommand(opts))
	cmd.AddCommand(NewPreviewCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewSchemaCommand())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
