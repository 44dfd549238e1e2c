package redact

import (
	"image/color"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		opacity float64
		mode    string
		want    Style
	}{
		{"black fill", "#000000", 1.0, "fill",
			Style{Fill: color.NRGBA{A: 255}, Opacity: 1.0, Mode: ModeFill}},
		{"red half opacity", "#ff0000", 0.5, "fill",
			Style{Fill: color.NRGBA{R: 255, A: 255}, Opacity: 0.5, Mode: ModeFill}},
		{"short hex", "#fff", 1.0, "",
			Style{Fill: color.NRGBA{R: 255, G: 255, B: 255, A: 255}, Opacity: 1.0, Mode: ModeFill}},
		{"uppercase hex", "#00FF00", 1.0, "blur",
			Style{Fill: color.NRGBA{G: 255, A: 255}, Opacity: 1.0, Mode: ModeBlur}},
		{"empty color keeps default", "", 0.8, "pixelate",
			Style{Fill: color.NRGBA{A: 255}, Opacity: 0.8, Mode: ModePixelate}},
		{"opacity clamped high", "#000000", 3.0, "",
			Style{Fill: color.NRGBA{A: 255}, Opacity: 1.0, Mode: ModeFill}},
		{"opacity clamped low", "#000000", -0.5, "",
			Style{Fill: color.NRGBA{A: 255}, Opacity: 0.0, Mode: ModeFill}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle(tt.hex, tt.opacity, tt.mode)
			if err != nil {
				t.Fatalf("ParseStyle failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseStyle: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseStyle_Invalid(t *testing.T) {
	if _, err := ParseStyle("not-a-color", 1.0, "fill"); err == nil {
		t.Error("ParseStyle should reject malformed hex")
	}
	if _, err := ParseStyle("#000000", 1.0, "vaporize"); err == nil {
		t.Error("ParseStyle should reject unknown modes")
	}
}

func TestStyleHex(t *testing.T) {
	st, _ := ParseStyle("#1a2b3c", 1.0, "")
	if got := st.Hex(); got != "#1a2b3c" {
		t.Errorf("Hex: got %s, want #1a2b3c", got)
	}
}
