package cli

import (
	"github.com/redact-tools/redact-mcp/internal/config"
	"github.com/spf13/cobra"
)

// runtimeFlagSet tracks shared flags before they are converted into
// config overrides.
type runtimeFlagSet struct {
	detectEndpoint string
	detectAPIKey   string
	fillColor      string
	fillOpacity    float64
	mode           string
	outputDir      string
	maxWidth       int
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().StringVar(&flags.detectEndpoint, "detect-endpoint", "", "URL of the region detection service")
	cmd.Flags().StringVar(&flags.detectAPIKey, "detect-api-key", "", "API key for the detection service")
	cmd.Flags().StringVar(&flags.fillColor, "fill", "", "Redaction fill color as hex, e.g. #000000")
	cmd.Flags().Float64Var(&flags.fillOpacity, "opacity", 0, "Redaction fill opacity (0.0-1.0)")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Redaction mode: fill, blur, or pixelate")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory for exported artifacts")
	cmd.Flags().IntVar(&flags.maxWidth, "preview-max-width", 0, "Maximum width of overlay previews")
}

func (f runtimeFlagSet) toOverrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{}
	if cmd.Flags().Changed("detect-endpoint") {
		ov.DetectEndpoint = f.detectEndpoint
	}
	if cmd.Flags().Changed("detect-api-key") {
		ov.DetectAPIKey = f.detectAPIKey
	}
	if cmd.Flags().Changed("fill") {
		ov.FillColor = f.fillColor
	}
	if cmd.Flags().Changed("opacity") {
		opacity := f.fillOpacity
		ov.FillOpacity = &opacity
	}
	if cmd.Flags().Changed("mode") {
		ov.Mode = f.mode
	}
	if cmd.Flags().Changed("output-dir") {
		ov.OutputDir = f.outputDir
	}
	if cmd.Flags().Changed("preview-max-width") {
		maxWidth := f.maxWidth
		ov.PreviewMaxWidth = &maxWidth
	}
	return ov
}
