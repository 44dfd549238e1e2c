package cli

import (
	"fmt"

	"github.com/redact-tools/redact-mcp/internal/config"
	"github.com/redact-tools/redact-mcp/internal/detector"
	"github.com/redact-tools/redact-mcp/internal/redact"
	"github.com/redact-tools/redact-mcp/internal/session"
	"github.com/spf13/cobra"
)

// newRunCmd builds the one-shot pipeline: load an image, detect regions,
// redact everything found, write the artifact. No interactive selection;
// every detected region is redacted.
func newRunCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var input string
	var stub bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Detect and redact a single image in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd))
			if err != nil {
				return err
			}

			style, err := redact.ParseStyle(cfg.FillColor, cfg.FillOpacity, cfg.Mode)
			if err != nil {
				return err
			}

			sess := session.New()
			info, err := sess.LoadFile(input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s (%dx%d %s)\n", info.FileLabel, info.Width, info.Height, info.Format)

			payload, mime, err := detector.ImagePayload(sess.Image())
			if err != nil {
				return err
			}

			finder := buildFinder(cfg, stub)
			token, err := sess.BeginAnalysis()
			if err != nil {
				return err
			}
			cands, err := finder.FindRegions(cmd.Context(), payload, mime)
			if err != nil {
				sess.AbortAnalysis(token)
				return err
			}
			sess.FinishAnalysis(token, cands)
			fmt.Fprintf(cmd.OutOrStdout(), "Detected %d regions\n", len(cands))

			art, err := redact.Export(sess.Image(), sess.Detections(), style, sess.FileLabel())
			if err != nil {
				return err
			}
			path, err := redact.WriteArtifact(art, cfg.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().StringVar(&input, "input", "", "Path to the image to redact")
	cmd.Flags().BoolVar(&stub, "stub", false, "Use canned detection results instead of a live service")
	cmd.MarkFlagRequired("input")

	return cmd
}
