package redact

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Mode selects how a selected region is obscured.
type Mode string

const (
	// ModeFill paints the region with the fill color at the configured
	// opacity using alpha-over compositing. This is the default.
	ModeFill Mode = "fill"

	// ModeBlur replaces the region with a gaussian blur of its own
	// content. Opacity does not apply.
	ModeBlur Mode = "blur"

	// ModePixelate replaces the region with a coarse mosaic of its own
	// content. Opacity does not apply.
	ModePixelate Mode = "pixelate"
)

// Style is the user-adjustable redaction appearance, shared by the live
// overlay preview and the export compositor. It is passed explicitly into
// both so each stays a pure function of its inputs; mutating the process
// style never alters an already-exported artifact.
type Style struct {
	Fill    color.NRGBA
	Opacity float64
	Mode    Mode
}

// DefaultStyle is opaque black fill.
func DefaultStyle() Style {
	return Style{
		Fill:    color.NRGBA{A: 255},
		Opacity: 1.0,
		Mode:    ModeFill,
	}
}

// ParseStyle builds a Style from user-facing values: a hex fill color
// such as "#000000" (short "#000" also accepted), an opacity in [0,1]
// (clamped), and a mode name. Empty strings keep the default.
func ParseStyle(hex string, opacity float64, mode string) (Style, error) {
	st := DefaultStyle()

	if hex != "" {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Style{}, fmt.Errorf("invalid fill color %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		st.Fill = color.NRGBA{R: r, G: g, B: b, A: 255}
	}

	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	st.Opacity = opacity

	switch Mode(mode) {
	case "":
		// keep default
	case ModeFill, ModeBlur, ModePixelate:
		st.Mode = Mode(mode)
	default:
		return Style{}, fmt.Errorf("unknown redaction mode %q", mode)
	}

	return st, nil
}

// Hex returns the fill color in "#rrggbb" form for reporting.
func (s Style) Hex() string {
	c := colorful.Color{
		R: float64(s.Fill.R) / 255.0,
		G: float64(s.Fill.G) / 255.0,
		B: float64(s.Fill.B) / 255.0,
	}
	return c.Hex()
}
