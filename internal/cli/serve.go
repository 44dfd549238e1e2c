package cli

import (
	"log"

	"github.com/redact-tools/redact-mcp/internal/config"
	"github.com/redact-tools/redact-mcp/internal/detector"
	"github.com/redact-tools/redact-mcp/internal/redact"
	"github.com/redact-tools/redact-mcp/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var stub bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP redaction server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd))
			if err != nil {
				return err
			}

			style, err := redact.ParseStyle(cfg.FillColor, cfg.FillOpacity, cfg.Mode)
			if err != nil {
				return err
			}

			finder := buildFinder(cfg, stub)

			log.Printf("Starting redact-mcp server (mode=%s, opacity=%.2f)", cfg.Mode, cfg.FillOpacity)
			srv := server.New(server.Options{
				Finder:          finder,
				Style:           style,
				OutputDir:       cfg.OutputDir,
				PreviewMaxWidth: cfg.PreviewMaxWidth,
			})
			return srv.Run()
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVar(&stub, "stub", false, "Use canned detection results instead of a live service")
	return cmd
}

// buildFinder picks the detection backend: the stub when asked for (or
// when no endpoint is configured), otherwise the HTTP client.
func buildFinder(cfg config.Runtime, stub bool) detector.RegionFinder {
	if stub || cfg.DetectEndpoint == "" {
		if !stub {
			log.Printf("No detection endpoint configured; using stub detector")
		}
		return &detector.Stub{}
	}
	return detector.NewClient(cfg.DetectEndpoint, cfg.DetectAPIKey)
}
