package cli

import (
	"github.com/redact-tools/redact-mcp/internal/config"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	loader := &config.Loader{ConfigPath: config.DefaultConfigPath}
	rootOpts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "redact-mcp",
		Short:         "Detect and redact sensitive regions in images",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("redact-mcp version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", config.DefaultConfigPath, "Path to redact.config.yml (optional)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.ConfigPath != "" {
			loader.ConfigPath = rootOpts.ConfigPath
		}
	}

	serveCmd := newServeCmd(loader)
	rootCmd.AddCommand(
		serveCmd,
		newRunCmd(loader),
	)

	// Invoking the binary with no subcommand starts the MCP server, so
	// it can be dropped into an MCP client config as-is.
	rootCmd.RunE = serveCmd.RunE

	return rootCmd.Execute()
}

type rootOptions struct {
	ConfigPath string
}
